package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	m "faultline.dev/pkg/faultline/internal/model"
)

var (
	// ErrSpecNotFound is returned when a spec name is not in the catalog.
	ErrSpecNotFound = errors.New("spec not found")
	// ErrInvalidCatalog wraps every catalog validation failure.
	ErrInvalidCatalog = errors.New("invalid spec catalog")
	// ErrUnsupportedCatalogFormat is returned for catalog files that are neither YAML nor TOML.
	ErrUnsupportedCatalogFormat = errors.New("unsupported catalog format")
)

// SpecCatalog holds the ordered injection specs of a run.
type SpecCatalog interface {
	Specs() []m.InjectionSpec
	Lookup(name string) (m.InjectionSpec, error)
}

// catalogFile is the on-disk layout shared by the YAML and TOML formats.
type catalogFile struct {
	Specs []m.InjectionSpec `yaml:"specs" toml:"specs" validate:"required,min=1,unique=Name,dive"`
}

type specCatalog struct {
	specs  []m.InjectionSpec
	byName map[string]int
}

// DefaultSpecs returns the built-in fault catalog.
func DefaultSpecs() []m.InjectionSpec {
	return []m.InjectionSpec{
		{Name: "1-bit-flip", Kind: m.FaultBitFlip, Params: m.Params{m.ParamNumBits: 1}},
		{Name: "2-bit-flip", Kind: m.FaultBitFlip, Params: m.Params{m.ParamNumBits: 2}},
		{Name: "stuck-zero-at-5", Kind: m.FaultStuck, Params: m.Params{m.ParamIdx: 5, m.ParamValue: 0}},
		{Name: "corrupt-range-3", Kind: m.FaultCorrupt, Params: m.Params{m.ParamStart: 3, m.ParamLength: 4}},
		{Name: "null-input", Kind: m.FaultNull},
		{Name: "timing-delay", Kind: m.FaultDelay, Params: m.Params{m.ParamDelay: 0.005}},
		{Name: "forced-exception", Kind: m.FaultException},
	}
}

// NewDefaultSpecCatalog returns a catalog holding DefaultSpecs.
func NewDefaultSpecCatalog() SpecCatalog {
	catalog, err := NewSpecCatalog(DefaultSpecs())
	if err != nil {
		panic(fmt.Sprintf("default spec catalog is invalid: %v", err))
	}

	return catalog
}

// NewSpecCatalog validates specs and builds a catalog preserving their order.
func NewSpecCatalog(specs []m.InjectionSpec) (SpecCatalog, error) {
	if err := validateCatalog(catalogFile{Specs: specs}); err != nil {
		return nil, err
	}

	catalog := &specCatalog{
		specs:  make([]m.InjectionSpec, 0, len(specs)),
		byName: make(map[string]int, len(specs)),
	}

	for _, spec := range specs {
		if !spec.Kind.Known() {
			slog.Warn("Unknown fault kind, spec will leave inputs unchanged", "spec", spec.Name, "kind", spec.Kind)
		}

		spec.Params = spec.Params.Clone()
		catalog.byName[spec.Name] = len(catalog.specs)
		catalog.specs = append(catalog.specs, spec)
	}

	return catalog, nil
}

// LoadSpecCatalog reads a YAML (.yaml, .yml) or TOML (.toml) catalog file.
func LoadSpecCatalog(path m.Path) (SpecCatalog, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read spec catalog %s: %w", path, err)
	}

	var file catalogFile

	switch ext := strings.ToLower(filepath.Ext(string(path))); ext {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)

		if err := decoder.Decode(&file); err != nil {
			return nil, fmt.Errorf("decode yaml catalog %s: %w", path, err)
		}
	case ".toml":
		meta, err := toml.Decode(string(data), &file)
		if err != nil {
			return nil, fmt.Errorf("decode toml catalog %s: %w", path, err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			slog.Warn("Ignoring unknown catalog keys", "path", path, "keys", undecoded)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCatalogFormat, ext)
	}

	slog.Debug("Loaded spec catalog", "path", path, "specs", len(file.Specs))

	return NewSpecCatalog(file.Specs)
}

func validateCatalog(file catalogFile) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	err := validate.Struct(file)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	problems := make([]string, 0, len(validationErrs))

	for _, fieldErr := range validationErrs {
		switch {
		case fieldErr.Tag() == "unique":
			problems = append(problems, "spec names must be unique")
		case fieldErr.Field() == "Specs":
			problems = append(problems, "at least one spec is required")
		default:
			problems = append(problems, fmt.Sprintf("%s failed %q", fieldErr.Namespace(), fieldErr.Tag()))
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
}

func (c *specCatalog) Specs() []m.InjectionSpec {
	out := make([]m.InjectionSpec, len(c.specs))
	copy(out, c.specs)

	return out
}

func (c *specCatalog) Lookup(name string) (m.InjectionSpec, error) {
	idx, ok := c.byName[name]
	if !ok {
		return m.InjectionSpec{}, fmt.Errorf("%w: %q", ErrSpecNotFound, name)
	}

	return c.specs[idx], nil
}
