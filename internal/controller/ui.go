// Package controller provides output adapters for displaying fault injection runs.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "faultline.dev/pkg/faultline/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeRun StartMode = iota
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode  StartMode
	total int
}

// WithRunMode sets the UI to trial execution mode with the number of planned trials.
func WithRunMode(total int) StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
		c.total = total
	}
}

// WithViewMode sets the UI to report viewing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

func newStartConfig(options []StartOption) StartConfig {
	config := StartConfig{mode: ModeRun}
	for _, option := range options {
		option(&config)
	}

	return config
}

// UI defines how commands report progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayRunInfo(ctx context.Context, manifest m.RunManifest, plannedTrials int, workers int)
	DisplayStartingTrial(ctx context.Context, specName string, seed uint32)
	DisplayCompletedTrial(ctx context.Context, result m.TrialResult)
	DisplaySummary(ctx context.Context, summary m.Summary)
	DisplayReproduction(ctx context.Context, reproduction m.Reproduction)
	DisplaySpecs(ctx context.Context, specs []m.InjectionSpec)
}

// NewUI returns the interactive TUI on terminals and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
