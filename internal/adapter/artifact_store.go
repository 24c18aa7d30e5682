// Package adapter contains the storage and catalog adapters used by the faultline CLI.
package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	m "faultline.dev/pkg/faultline/internal/model"
)

// Artifact directories under a run's output directory.
const (
	ExamplesDir       = "examples"
	ReproductionsDir  = "reproductions"
	artifactExtension = ".bin"
)

// ArtifactStore abstracts the filesystem writes for failing inputs so the
// executor and reproducer can be tested without touching the disk.
type ArtifactStore interface {
	// EnsureDir creates path and its parents; existing directories are fine.
	EnsureDir(path m.Path) error

	// WriteExample persists a failing mutated input under <outputDir>/examples.
	WriteExample(outputDir m.Path, specName string, seed uint32, input m.Input) (m.Path, error)

	// WriteReproduction persists a reproduced input under <outputDir>/reproductions.
	WriteReproduction(outputDir m.Path, specName string, seed uint32, input m.Input) (m.Path, error)

	// ReadInput loads raw bytes from disk as a non-null Input.
	ReadInput(path m.Path) (m.Input, error)
}

// LocalArtifactStore writes artifacts to the local filesystem.
type LocalArtifactStore struct{}

// NewLocalArtifactStore constructs a LocalArtifactStore.
func NewLocalArtifactStore() *LocalArtifactStore {
	return &LocalArtifactStore{}
}

// EnsureDir creates the directory tree at path.
func (a *LocalArtifactStore) EnsureDir(path m.Path) error {
	if err := os.MkdirAll(string(path), 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}

	return nil
}

// WriteExample writes input to <outputDir>/examples/<spec>_seed_<seed>.bin.
func (a *LocalArtifactStore) WriteExample(outputDir m.Path, specName string, seed uint32, input m.Input) (m.Path, error) {
	return a.writeArtifact(filepath.Join(string(outputDir), ExamplesDir), specName, seed, input)
}

// WriteReproduction writes input to <outputDir>/reproductions/<spec>_seed_<seed>.bin.
func (a *LocalArtifactStore) WriteReproduction(outputDir m.Path, specName string, seed uint32, input m.Input) (m.Path, error) {
	return a.writeArtifact(filepath.Join(string(outputDir), ReproductionsDir), specName, seed, input)
}

// ReadInput reads the file at path.
func (a *LocalArtifactStore) ReadInput(path m.Path) (m.Input, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Input{}, fmt.Errorf("read input %s: %w", path, err)
	}

	return m.NewInput(data), nil
}

func (a *LocalArtifactStore) writeArtifact(dir, specName string, seed uint32, input m.Input) (m.Path, error) {
	if input.IsNull() {
		return "", fmt.Errorf("cannot persist null input for spec %q", specName)
	}

	if err := a.EnsureDir(m.Path(dir)); err != nil {
		return "", err
	}

	path := filepath.Join(dir, ArtifactName(specName, seed))
	if err := os.WriteFile(path, input.Bytes(), 0o600); err != nil {
		slog.Error("Failed to write artifact", "path", path, "error", err)
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}

	slog.Debug("Wrote artifact", "path", path, "bytes", input.Len())

	return m.Path(path), nil
}

// ArtifactName is the file name used for a (spec, seed) artifact.
// Spaces and path separators in the spec name become underscores.
func ArtifactName(specName string, seed uint32) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		default:
			return r
		}
	}, specName)

	return fmt.Sprintf("%s_seed_%d%s", safe, seed, artifactExtension)
}
