package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/vwindow/internal/config"
	"github.com/dshills/vwindow/internal/renderer/backend"
	"github.com/dshills/vwindow/internal/renderer/core"
	"github.com/dshills/vwindow/internal/renderer/statusline"
	"github.com/dshills/vwindow/internal/surface"
	"github.com/dshills/vwindow/internal/watcher"
	"github.com/dshills/vwindow/internal/window"
)

// Application scrolls a virtual list in a terminal.
type Application struct {
	mu sync.Mutex

	cfg    *config.Config
	logger *Logger

	backend backend.Backend
	source  *itemSource
	geom    window.Geometry

	surface *surface.CellSurface
	status  *statusline.StatusLine
	list    *window.List
	watcher *watcher.FileWatcher

	// scroll is the host scroll offset; shown is the offset of the window
	// currently on screen.
	scroll float64
	shown  float64

	renderFailed bool

	// count is the number typed before a jump key.
	count int

	running atomic.Bool
	done    chan struct{}
	stop    sync.Once
}

// Options configures the application.
type Options struct {
	// Config is the validated configuration. Defaults to config.Default().
	Config *config.Config

	// Logger receives application logs. Defaults to NullLogger.
	Logger *Logger
}

// New creates an application and loads its item source.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	logger := opts.Logger
	if logger == nil {
		logger = NullLogger
	}

	src, err := loadSource(cfg)
	if err != nil {
		return nil, &InitError{Component: "source", Err: err}
	}

	g := geometry(cfg, src)
	if err := g.Validate(); err != nil {
		src.Close()
		return nil, &InitError{Component: "source", Err: err}
	}

	return &Application{
		cfg:    cfg,
		logger: logger,
		source: src,
		geom:   g,
		status: statusline.New(src.label),
		done:   make(chan struct{}),
	}, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Geometry returns the list geometry.
func (app *Application) Geometry() window.Geometry {
	return app.geom
}

// Logger returns the application's logger instance.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Run initializes the backend, renders the first window and processes
// events until quit. Blocks until shutdown is requested.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.backend == nil {
		return &InitError{Component: "backend", Err: ErrNoBackend}
	}
	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()
	defer func() { app.source.Close() }()

	if err := app.start(); err != nil {
		return err
	}
	defer app.stopWatcher()

	return app.eventLoop()
}

// start builds the surface and list and renders the first window at offset 0.
func (app *Application) start() error {
	width, height := app.backend.Size()
	app.status.Resize(width)

	app.surface = surface.NewCellSurface(app.backend, app.geom, listArea(width, height),
		surface.WithCellExtent(app.cfg.CellExtent()),
		surface.WithScrollbar(app.cfg.Display.Scrollbar),
	)

	list, err := window.NewList(app.geom, app.surface, app.source.factory,
		window.WithNodeReuse(app.cfg.Display.NodeReuse))
	if err != nil {
		return &InitError{Component: "window", Err: err}
	}
	app.list = list

	app.logger.WithFields(map[string]any{
		"source":       app.source.kind,
		"item_extent":  app.geom.ItemExtent,
		"buffer_count": app.geom.BufferCount,
	}).Info("rendering %d items", app.geom.TotalCount)

	if err := app.startWatcher(); err != nil {
		// Scrolling still works without hot reload.
		app.logger.WithComponent("watcher").Warn("not watching script: %v", err)
	}

	app.scroll, app.shown = 0, 0
	app.render()
	return nil
}

// listArea is the screen minus the status row.
func listArea(width, height int) core.ScreenRect {
	if height > 1 {
		height--
	}
	return core.RectFromSize(0, 0, height, width)
}

// viewportExtent returns the configured viewport or the list area's extent.
func (app *Application) viewportExtent() float64 {
	if app.cfg.Display.ViewportExtent > 0 {
		return app.cfg.Display.ViewportExtent
	}
	return app.surface.ViewportExtent()
}

// render reconciles the list to the current scroll offset and paints it.
// A failed reconcile keeps the previous window on screen, so the scroll
// offset returns to the one that window was built for.
func (app *Application) render() {
	vs := window.ViewportState{ScrollOffset: app.scroll, ViewportExtent: app.viewportExtent()}

	rng, err := app.list.OnScroll(vs)
	if err != nil {
		app.reportError(err)
		app.scroll = app.shown
	} else {
		app.shown = app.scroll
		if app.renderFailed {
			app.renderFailed = false
			app.status.ClearMessage()
		}
	}

	app.surface.SetScroll(app.scroll)
	app.surface.Paint()

	app.status.SetWindow(rng, app.geom, app.scroll, vs.ViewportExtent)
	app.paintStatus()

	app.logger.Debug("window %s at scroll %g", rng, app.scroll)
}

// paintStatus draws the status line on the last row.
func (app *Application) paintStatus() {
	_, height := app.backend.Size()
	app.status.Render(app.backend, height-1)
	app.backend.Show()
}

func (app *Application) reportError(err error) {
	var re *window.RenderError
	if errors.As(err, &re) {
		app.logger.WithComponent("window").WithField("index", re.Index).Error("%v", err)
	} else {
		app.logger.WithComponent("window").Error("%v", err)
	}
	app.status.SetMessage(err.Error(), statusline.MessageError)
	app.renderFailed = true
}

// startWatcher watches the item script when configured.
func (app *Application) startWatcher() error {
	if app.source.script == nil || !app.cfg.Items.WatchScript {
		return nil
	}

	w, err := watcher.New(app.cfg.Items.Script)
	if err != nil {
		return NewComponentError("watcher", "watch "+app.cfg.Items.Script, err)
	}
	app.watcher = w

	b := app.backend
	go func() {
		for {
			select {
			case path, ok := <-w.Changes():
				if !ok {
					return
				}
				b.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: reloadRequest{path: path}})
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				app.logger.WithComponent("watcher").Warn("%v", err)
			}
		}
	}()

	app.logger.WithComponent("watcher").Info("watching %s", w.Path())
	return nil
}

func (app *Application) stopWatcher() {
	if app.watcher != nil {
		app.logger.WithComponent("watcher").Debug("stopping after %d file events", app.watcher.Events())
		if err := app.watcher.Close(); err != nil {
			app.logger.WithComponent("watcher").Warn("close: %v", err)
		}
		app.watcher = nil
	}
}

// Shutdown stops a running event loop, which releases the item source on
// exit, or releases it directly when not running. It is safe to call more
// than once.
func (app *Application) Shutdown() {
	app.stop.Do(func() {
		close(app.done)
		if app.running.Load() && app.backend != nil {
			app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: quitRequest{}})
			return
		}
		app.source.Close()
	})
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Scroll returns the current scroll offset.
func (app *Application) Scroll() float64 {
	return app.scroll
}

// Window returns the range currently rendered.
func (app *Application) Window() window.Range {
	if app.list == nil {
		return window.Range{}
	}
	return app.list.Range()
}

// String describes the application state for logs.
func (app *Application) String() string {
	return fmt.Sprintf("%s list of %d items at scroll %g", app.source.kind, app.geom.TotalCount, app.scroll)
}
