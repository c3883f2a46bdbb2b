package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vwindow/internal/renderer/core"
	"github.com/dshills/vwindow/internal/window"
)

// DefaultCallTimeout bounds a single item() call.
const DefaultCallTimeout = 100 * time.Millisecond

// itemFunc is the global Lua function a script must define.
const itemFunc = "item"

// ScriptOption configures a Script.
type ScriptOption func(*Script)

// WithCallTimeout sets the per-call timeout for item().
func WithCallTimeout(d time.Duration) ScriptOption {
	return func(s *Script) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Script produces items by calling a Lua function:
//
//	function item(index)          -- index is 0-based
//	  return "Row " .. (index + 1)  -- or {text=..., fg="#rrggbb", bg=..., bold=true}
//	end
//
// A script may also set a global "count" to size the list.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes calls.
type Script struct {
	mu      sync.Mutex
	L       *lua.LState
	name    string
	timeout time.Duration
	closed  bool
}

// LoadScript runs the Lua file at path in a fresh sandboxed state.
func LoadScript(path string, opts ...ScriptOption) (*Script, error) {
	s := newScript(path, opts...)
	if err := s.run(func() error { return s.L.DoFile(path) }); err != nil {
		s.Close()
		return nil, fmt.Errorf("loading script %s: %w", path, err)
	}
	return s.checkItemFunc()
}

// NewScript runs Lua code in a fresh sandboxed state.
func NewScript(name, code string, opts ...ScriptOption) (*Script, error) {
	s := newScript(name, opts...)
	if err := s.run(func() error { return s.L.DoString(code) }); err != nil {
		s.Close()
		return nil, fmt.Errorf("loading script %s: %w", name, err)
	}
	return s.checkItemFunc()
}

func newScript(name string, opts ...ScriptOption) *Script {
	s := &Script{
		name:    name,
		timeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	openSafeLibraries(L)
	s.L = L
	return s
}

// openSafeLibraries opens only the libraries a formatter needs and removes
// the base functions that can load code.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (s *Script) checkItemFunc() (*Script, error) {
	if fn := s.L.GetGlobal(itemFunc); fn.Type() != lua.LTFunction {
		s.Close()
		return nil, fmt.Errorf("%s: %w", s.name, ErrNoItemFunc)
	}
	return s, nil
}

// run executes fn under the call timeout with panic recovery.
func (s *Script) run(fn func() error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Name returns the script file name or label.
func (s *Script) Name() string {
	return s.name
}

// Count returns the script's "count" global, if it is a non-negative integer.
func (s *Script) Count() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, false
	}
	n, ok := s.L.GetGlobal("count").(lua.LNumber)
	if !ok || n < 0 || float64(n) != float64(int(n)) {
		return 0, false
	}
	return int(n), true
}

// Node produces the window.Node for index; its method value is a window.ItemFactory.
func (s *Script) Node(index int) (window.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return window.Node{}, ErrStateClosed
	}

	var ret lua.LValue
	err := s.run(func() error {
		if err := s.L.CallByParam(lua.P{
			Fn:      s.L.GetGlobal(itemFunc),
			NRet:    1,
			Protect: true,
		}, lua.LNumber(index)); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	if err != nil {
		return window.Node{}, fmt.Errorf("%s: item(%d): %w", s.name, index, err)
	}

	return toNode(index, ret)
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

// toNode converts an item() return value into a node.
func toNode(index int, v lua.LValue) (window.Node, error) {
	switch val := v.(type) {
	case lua.LString:
		return window.Node{Index: index, Text: string(val)}, nil
	case lua.LNumber:
		return window.Node{Index: index, Text: val.String()}, nil
	case *lua.LTable:
		return tableNode(index, val)
	default:
		return window.Node{}, fmt.Errorf("%w: item(%d) returned %s", ErrBadSource, index, v.Type())
	}
}

// tableNode reads {text=, fg=, bg=, bold=} from t.
func tableNode(index int, t *lua.LTable) (window.Node, error) {
	n := window.Node{Index: index}

	text, ok := t.RawGetString("text").(lua.LString)
	if !ok {
		return window.Node{}, fmt.Errorf("%w: item(%d) table has no text", ErrBadSource, index)
	}
	n.Text = string(text)

	style := core.DefaultStyle()
	styled := false
	if fg, ok := t.RawGetString("fg").(lua.LString); ok {
		c, err := core.ColorFromHex(string(fg))
		if err != nil {
			return window.Node{}, fmt.Errorf("%w: item(%d): %v", ErrBadSource, index, err)
		}
		style = style.WithForeground(c)
		styled = true
	}
	if bg, ok := t.RawGetString("bg").(lua.LString); ok {
		c, err := core.ColorFromHex(string(bg))
		if err != nil {
			return window.Node{}, fmt.Errorf("%w: item(%d): %v", ErrBadSource, index, err)
		}
		style = style.WithBackground(c)
		styled = true
	}
	if lua.LVAsBool(t.RawGetString("bold")) {
		style = style.Bold()
		styled = true
	}
	if styled {
		n.Style = style
	}
	return n, nil
}
