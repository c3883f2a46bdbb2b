package config

import (
	"fmt"
	"math"

	"github.com/dshills/vwindow/internal/window"
)

// Item sources.
const (
	SourceTemplate = "template"
	SourceJSON     = "json"
	SourceScript   = "script"
)

// Config is the static configuration of a vwindow run.
type Config struct {
	List    ListConfig    `toml:"list" yaml:"list"`
	Items   ItemsConfig   `toml:"items" yaml:"items"`
	Display DisplayConfig `toml:"display" yaml:"display"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// ListConfig holds the list geometry.
type ListConfig struct {
	ItemExtent  float64 `toml:"item_extent" yaml:"item_extent"`
	BufferCount int     `toml:"buffer_count" yaml:"buffer_count"`
	TotalCount  int     `toml:"total_count" yaml:"total_count"`
}

// ItemsConfig selects where item content comes from.
type ItemsConfig struct {
	// Source is "template", "json" or "script". Empty picks script when
	// Script is set, json when DataFile is set, and template otherwise.
	Source      string `toml:"source" yaml:"source"`
	Template    string `toml:"template" yaml:"template"`
	DataFile    string `toml:"data_file" yaml:"data_file"`
	DataPath    string `toml:"data_path" yaml:"data_path"`
	DataField   string `toml:"data_field" yaml:"data_field"`
	Script      string `toml:"script" yaml:"script"`
	WatchScript bool   `toml:"watch_script" yaml:"watch_script"`
}

// DisplayConfig controls the terminal surface.
type DisplayConfig struct {
	ViewportExtent float64 `toml:"viewport_extent" yaml:"viewport_extent"`
	CellExtent     float64 `toml:"cell_extent" yaml:"cell_extent"`
	ScrollStep     float64 `toml:"scroll_step" yaml:"scroll_step"`
	NodeReuse      bool    `toml:"node_reuse" yaml:"node_reuse"`
	Scrollbar      bool    `toml:"scrollbar" yaml:"scrollbar"`
}

// LoggingConfig controls the application log.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration: 50px items, 20 buffer items
// and 100000 items labelled "Item 1" through "Item 100000".
func Default() *Config {
	return &Config{
		List: ListConfig{
			ItemExtent:  50,
			BufferCount: 20,
			TotalCount:  100000,
		},
		Items: ItemsConfig{
			Template: "Item {n}",
		},
		Display: DisplayConfig{
			Scrollbar: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Geometry returns the list geometry.
func (c *Config) Geometry() window.Geometry {
	return window.Geometry{
		ItemExtent:  c.List.ItemExtent,
		BufferCount: c.List.BufferCount,
		TotalCount:  c.List.TotalCount,
	}
}

// ItemSource returns the effective item source.
func (c *Config) ItemSource() string {
	switch {
	case c.Items.Source != "":
		return c.Items.Source
	case c.Items.Script != "":
		return SourceScript
	case c.Items.DataFile != "":
		return SourceJSON
	default:
		return SourceTemplate
	}
}

// CellExtent returns the pixels per terminal row.
func (c *Config) CellExtent() float64 {
	if c.Display.CellExtent > 0 {
		return c.Display.CellExtent
	}
	return c.List.ItemExtent
}

// ScrollStep returns the pixels scrolled per line step.
func (c *Config) ScrollStep() float64 {
	if c.Display.ScrollStep > 0 {
		return c.Display.ScrollStep
	}
	return c.List.ItemExtent
}

// Validate checks the configuration. Geometry failures match
// window.ErrInvalidGeometry; other failures match ErrValidationFailed.
func (c *Config) Validate() error {
	if err := c.Geometry().Validate(); err != nil {
		return fmt.Errorf("list: %w", err)
	}

	for _, f := range []struct {
		path string
		v    float64
	}{
		{"display.viewport_extent", c.Display.ViewportExtent},
		{"display.cell_extent", c.Display.CellExtent},
		{"display.scroll_step", c.Display.ScrollStep},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ValidationError{Path: f.path, Message: "must be a finite non-negative number", Value: f.v}
		}
	}

	switch c.ItemSource() {
	case SourceTemplate:
	case SourceJSON:
		if c.Items.DataFile == "" {
			return &ValidationError{Path: "items.data_file", Message: "required for json source", Value: ""}
		}
	case SourceScript:
		if c.Items.Script == "" {
			return &ValidationError{Path: "items.script", Message: "required for script source", Value: ""}
		}
	default:
		return &ValidationError{Path: "items.source", Message: "must be template, json or script", Value: c.Items.Source}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Message: "must be debug, info, warn or error", Value: c.Logging.Level}
	}

	return nil
}
