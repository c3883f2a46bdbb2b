package app

import (
	"fmt"
	"path/filepath"

	"github.com/dshills/vwindow/internal/config"
	"github.com/dshills/vwindow/internal/source"
	"github.com/dshills/vwindow/internal/window"
)

// itemSource is the loaded item factory and what is known about it.
type itemSource struct {
	kind    string
	label   string
	factory window.ItemFactory
	// count overrides the configured total when the source knows its length.
	count    int
	hasCount bool
	script   *source.Script
}

// Close releases the source's resources.
func (s *itemSource) Close() {
	if s.script != nil {
		s.script.Close()
	}
}

// loadSource builds the item source named by cfg.
func loadSource(cfg *config.Config) (*itemSource, error) {
	switch kind := cfg.ItemSource(); kind {
	case config.SourceJSON:
		j, err := source.LoadJSON(cfg.Items.DataFile, cfg.Items.DataPath, cfg.Items.DataField)
		if err != nil {
			return nil, NewComponentError("source", "load json", err)
		}
		return &itemSource{
			kind:     kind,
			label:    filepath.Base(cfg.Items.DataFile),
			factory:  j.Node,
			count:    j.Count(),
			hasCount: true,
		}, nil

	case config.SourceScript:
		return loadScript(cfg.Items.Script)

	case config.SourceTemplate:
		return &itemSource{
			kind:    kind,
			label:   "template",
			factory: source.NewTemplate(cfg.Items.Template).Node,
		}, nil

	default:
		return nil, NewComponentError("source", "load", fmt.Errorf("unknown source %q", kind))
	}
}

func loadScript(path string) (*itemSource, error) {
	s, err := source.LoadScript(path)
	if err != nil {
		return nil, NewComponentError("source", "load script", err)
	}
	src := &itemSource{
		kind:    config.SourceScript,
		label:   filepath.Base(path),
		factory: s.Node,
		script:  s,
	}
	src.count, src.hasCount = s.Count()
	return src, nil
}

// geometry returns the list geometry for cfg and src.
func geometry(cfg *config.Config, src *itemSource) window.Geometry {
	g := cfg.Geometry()
	if src.hasCount {
		g.TotalCount = src.count
	}
	return g
}
