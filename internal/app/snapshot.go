package app

import (
	"github.com/dshills/vwindow/internal/config"
	"github.com/dshills/vwindow/internal/surface"
	"github.com/dshills/vwindow/internal/window"
)

// Snapshot renders the window for one scroll position as text, without a
// terminal. viewport <= 0 uses the configured viewport extent.
func Snapshot(cfg *config.Config, scroll, viewport float64) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	src, err := loadSource(cfg)
	if err != nil {
		return "", err
	}
	defer src.Close()

	g := geometry(cfg, src)
	if viewport <= 0 {
		viewport = cfg.Display.ViewportExtent
	}

	text := surface.NewTextSurface(g)
	list, err := window.NewList(g, text, src.factory, window.WithNodeReuse(cfg.Display.NodeReuse))
	if err != nil {
		return "", err
	}

	vs := window.ViewportState{ScrollOffset: scroll, ViewportExtent: viewport}
	if _, err := list.OnScroll(vs); err != nil {
		return "", err
	}
	return text.Render(vs), nil
}
