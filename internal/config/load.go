package config

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"github.com/dshills/vwindow/internal/config/loader"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "VWINDOW_"

// setting binds a dotted path to a field of Config.
type setting struct {
	path string
	set  func(c *Config, path string, v any) error
}

var settings = []setting{
	{"list.item_extent", floatField(func(c *Config) *float64 { return &c.List.ItemExtent })},
	{"list.buffer_count", intField(func(c *Config) *int { return &c.List.BufferCount })},
	{"list.total_count", intField(func(c *Config) *int { return &c.List.TotalCount })},

	{"items.source", stringField(func(c *Config) *string { return &c.Items.Source })},
	{"items.template", stringField(func(c *Config) *string { return &c.Items.Template })},
	{"items.data_file", stringField(func(c *Config) *string { return &c.Items.DataFile })},
	{"items.data_path", stringField(func(c *Config) *string { return &c.Items.DataPath })},
	{"items.data_field", stringField(func(c *Config) *string { return &c.Items.DataField })},
	{"items.script", stringField(func(c *Config) *string { return &c.Items.Script })},
	{"items.watch_script", boolField(func(c *Config) *bool { return &c.Items.WatchScript })},

	{"display.viewport_extent", floatField(func(c *Config) *float64 { return &c.Display.ViewportExtent })},
	{"display.cell_extent", floatField(func(c *Config) *float64 { return &c.Display.CellExtent })},
	{"display.scroll_step", floatField(func(c *Config) *float64 { return &c.Display.ScrollStep })},
	{"display.node_reuse", boolField(func(c *Config) *bool { return &c.Display.NodeReuse })},
	{"display.scrollbar", boolField(func(c *Config) *bool { return &c.Display.Scrollbar })},

	{"logging.level", stringField(func(c *Config) *string { return &c.Logging.Level })},
	{"logging.file", stringField(func(c *Config) *string { return &c.Logging.File })},
}

// Paths returns every setting path.
func Paths() []string {
	paths := make([]string, len(settings))
	for i, s := range settings {
		paths[i] = s.path
	}
	return paths
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs  loader.FileSystem
	env *loader.EnvLoader
}

// WithFS reads config files from fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnv replaces the environment lookup. A nil lookup disables the
// environment layer.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(o *loadOptions) {
		if lookup == nil {
			o.env = nil
			return
		}
		o.env = loader.NewEnvLoader(EnvPrefix, Paths()).WithLookup(lookup)
	}
}

// Load builds a validated Config from defaults, the file at path (if path is
// non-empty) and the environment.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(EnvPrefix, Paths()),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := make(map[string]any)

	if path != "" {
		fl, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		m, err := fl.Load()
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		merged = loader.DeepMerge(merged, m)
	}

	if o.env != nil {
		m, err := o.env.Load()
		if err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg := Default()
	if err := cfg.Apply(merged); err != nil {
		return nil, err
	}

	// Relative item files resolve against the config file's directory.
	if path != "" {
		dir := filepath.Dir(path)
		cfg.Items.DataFile = resolve(dir, cfg.Items.DataFile)
		cfg.Items.Script = resolve(dir, cfg.Items.Script)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply sets the values of a nested settings map on c.
func (c *Config) Apply(m map[string]any) error {
	flat := loader.Flatten(m)

	byPath := make(map[string]setting, len(settings))
	for _, s := range settings {
		byPath[s.path] = s
	}

	// Sorted for deterministic error reporting.
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s, ok := byPath[k]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSetting, k)
		}
		if err := s.set(c, k, flat[k]); err != nil {
			return err
		}
	}
	return nil
}

func resolve(dir, file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

func floatField(field func(*Config) *float64) func(*Config, string, any) error {
	return func(c *Config, path string, v any) error {
		switch n := v.(type) {
		case float64:
			*field(c) = n
		case int:
			*field(c) = float64(n)
		case int64:
			*field(c) = float64(n)
		case uint64:
			*field(c) = float64(n)
		default:
			return &TypeError{Path: path, Expected: "number", Actual: fmt.Sprintf("%T", v)}
		}
		return nil
	}
}

func intField(field func(*Config) *int) func(*Config, string, any) error {
	return func(c *Config, path string, v any) error {
		switch n := v.(type) {
		case int:
			*field(c) = n
		case int64:
			*field(c) = int(n)
		case uint64:
			if n > math.MaxInt {
				return &ValidationError{Path: path, Message: "out of range", Value: n}
			}
			*field(c) = int(n)
		case float64:
			if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
				return &TypeError{Path: path, Expected: "integer", Actual: "float"}
			}
			*field(c) = int(n)
		default:
			return &TypeError{Path: path, Expected: "integer", Actual: fmt.Sprintf("%T", v)}
		}
		return nil
	}
}

func boolField(field func(*Config) *bool) func(*Config, string, any) error {
	return func(c *Config, path string, v any) error {
		b, ok := v.(bool)
		if !ok {
			return &TypeError{Path: path, Expected: "bool", Actual: fmt.Sprintf("%T", v)}
		}
		*field(c) = b
		return nil
	}
}

func stringField(field func(*Config) *string) func(*Config, string, any) error {
	return func(c *Config, path string, v any) error {
		switch s := v.(type) {
		case string:
			*field(c) = s
		case int64:
			// Env values like VWINDOW_ITEMS_TEMPLATE=42 parse as numbers.
			*field(c) = fmt.Sprint(s)
		default:
			return &TypeError{Path: path, Expected: "string", Actual: fmt.Sprintf("%T", v)}
		}
		return nil
	}
}

// Discover returns the first existing default config file in dir, or "".
func Discover(fsys loader.FileSystem, dir string) string {
	for _, name := range []string{"vwindow.toml", "vwindow.yaml", "vwindow.yml"} {
		path := filepath.Join(dir, name)
		if _, err := fsys.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
