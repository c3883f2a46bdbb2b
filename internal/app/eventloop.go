package app

import (
	"errors"
	"math"

	"github.com/dshills/vwindow/internal/renderer/backend"
	"github.com/dshills/vwindow/internal/renderer/statusline"
	"github.com/dshills/vwindow/internal/window"
)

// wheelLines is how many scroll steps one wheel notch moves.
const wheelLines = 3

// reloadRequest asks the loop to reload the item script.
type reloadRequest struct {
	path string
}

// quitRequest asks the loop to exit.
type quitRequest struct{}

// eventLoop is the main application loop. Events are handled one at a time,
// so every scroll change is reconciled before the next is read.
func (app *Application) eventLoop() error {
	for {
		select {
		case <-app.done:
			return nil
		default:
		}

		if err := app.handleBackendEvent(app.backend.PollEvent()); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.handleResize(ev)
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	case backend.EventInterrupt:
		return app.handleInterrupt(ev)
	default:
		return nil
	}
}

// handleResize refits the list to the new terminal size. The viewport extent
// changes, so the scroll offset is clamped again.
func (app *Application) handleResize(ev backend.Event) error {
	app.surface.SetArea(listArea(ev.Width, ev.Height))
	app.status.Resize(ev.Width)
	app.scrollTo(app.scroll)
	return nil
}

// handleKeyEvent maps keys to scroll changes.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	if _, typ := app.status.Message(); typ == statusline.MessageInfo {
		app.status.ClearMessage()
	}

	if ev.Key == backend.KeyRune && app.countDigit(ev.Rune) {
		if app.count < math.MaxInt/10 {
			app.count = app.count*10 + int(ev.Rune-'0')
		}
		return nil
	}
	count := app.count
	app.count = 0

	step := app.cfg.ScrollStep()
	page := app.viewportExtent()

	switch ev.Key {
	case backend.KeyCtrlC, backend.KeyEscape:
		return ErrQuit
	case backend.KeyUp:
		app.scrollBy(-step)
	case backend.KeyDown:
		app.scrollBy(step)
	case backend.KeyPageUp:
		app.scrollBy(-page)
	case backend.KeyPageDown:
		app.scrollBy(page)
	case backend.KeyHome:
		app.scrollTo(0)
	case backend.KeyEnd:
		app.scrollTo(app.geom.MaxScroll(page))
	case backend.KeyCtrlL:
		app.list.Renderer().Invalidate()
		app.render()
	case backend.KeyEnter:
		if count > 0 {
			app.jumpTo(count - 1)
		}
	case backend.KeyRune:
		return app.handleRune(ev.Rune, count)
	}
	return nil
}

// countDigit reports whether r extends a count prefix. A leading 0 does not.
func (app *Application) countDigit(r rune) bool {
	return (r >= '1' && r <= '9') || (r == '0' && app.count > 0)
}

// handleRune handles letter keys. count is the number typed before the key,
// 0 if none.
func (app *Application) handleRune(r rune, count int) error {
	step := app.cfg.ScrollStep()
	page := app.viewportExtent()

	switch r {
	case 'q':
		return ErrQuit
	case 'k':
		app.scrollBy(-step)
	case 'j':
		app.scrollBy(step)
	case 'b':
		app.scrollBy(-page)
	case ' ', 'f':
		app.scrollBy(page)
	case 'g':
		app.scrollTo(0)
	case 'G':
		if count > 0 {
			app.jumpTo(count - 1)
		} else {
			app.scrollTo(app.geom.MaxScroll(page))
		}
	case 'r':
		if err := app.reloadScript(); err != nil && !errors.Is(err, ErrNoScript) {
			app.logger.WithComponent("source").Error("reload: %v", err)
		}
	}
	return nil
}

// handleMouseEvent scrolls on wheel notches.
func (app *Application) handleMouseEvent(ev backend.Event) error {
	step := app.cfg.ScrollStep() * wheelLines
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		app.scrollBy(-step)
	case backend.MouseWheelDown:
		app.scrollBy(step)
	}
	return nil
}

// handleInterrupt processes requests posted from other goroutines.
func (app *Application) handleInterrupt(ev backend.Event) error {
	switch req := ev.Data.(type) {
	case quitRequest:
		return ErrQuit
	case reloadRequest:
		app.logger.WithComponent("watcher").Info("%s changed", req.path)
		if err := app.reloadScript(); err != nil {
			app.logger.WithComponent("source").Error("reload: %v", err)
		}
	}
	return nil
}

// jumpTo scrolls the least distance that brings item index fully into view.
func (app *Application) jumpTo(index int) {
	if app.geom.TotalCount == 0 {
		return
	}
	index = min(index, app.geom.TotalCount-1)
	app.scrollTo(app.geom.ScrollToItem(index, app.scroll, app.viewportExtent()))
}

func (app *Application) scrollBy(delta float64) {
	app.scrollTo(app.scroll + delta)
}

// scrollTo moves to offset, clamped to the content, and renders.
func (app *Application) scrollTo(offset float64) {
	app.scroll = app.geom.ClampScroll(offset, app.viewportExtent())
	app.render()
}

// reloadScript replaces the item script with a fresh load of its file and
// rebuilds the window. A script that fails to load, or cannot build the
// window on screen, leaves the old one in place.
func (app *Application) reloadScript() error {
	if app.source.script == nil {
		return ErrNoScript
	}

	src, err := loadScript(app.cfg.Items.Script)
	if err != nil {
		app.status.SetMessage(err.Error(), statusline.MessageError)
		app.paintStatus()
		return err
	}

	if src.hasCount && src.count != app.geom.TotalCount {
		// The geometry is fixed for the life of the list.
		app.logger.WithComponent("source").Warn("script count changed from %d to %d; restart to apply",
			app.geom.TotalCount, src.count)
	}

	if err := app.list.SetFactory(src.factory); err != nil {
		src.Close()
		return err
	}

	vs := window.ViewportState{ScrollOffset: app.scroll, ViewportExtent: app.viewportExtent()}
	if _, err := app.list.OnScroll(vs); err != nil {
		// The surface still holds the old window; rebuild it from the old script.
		if ferr := app.list.SetFactory(app.source.factory); ferr != nil {
			app.logger.WithComponent("source").Error("restore factory: %v", ferr)
		}
		src.Close()

		err = NewComponentError("source", "reload script", err)
		app.status.SetMessage(err.Error(), statusline.MessageError)
		app.paintStatus()
		return err
	}

	old := app.source
	app.source = src
	old.Close()

	app.render()
	app.logger.WithComponent("source").Info("reloaded %s", src.label)
	app.status.SetMessage("reloaded "+src.label, statusline.MessageInfo)
	app.paintStatus()
	return nil
}
