package graphics

import (
	"fmt"
	"sync"

	"knotscene/internal/config"
	"knotscene/internal/input"
	"knotscene/internal/surface"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GLFW window exposed as a scene surface. All methods except
// RequestClose must run on the main thread.
type Window struct {
	win *glfw.Window
	im  *input.InputManager

	resize surface.Listeners[func(w, h int)]
	drag   surface.Listeners[func(dx, dy float64)]
	scroll surface.Listeners[func(dy float64)]

	lastX, lastY float64

	mu        sync.Mutex
	destroyed bool
}

// NewWindow creates an OpenGL 4.1 core window and routes its input into im.
// glfw.Init must have been called.
func NewWindow(cfg config.Window, im *input.InputManager) (*Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	if cfg.Transparent {
		glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()

	// Disable V-Sync; the host pump paces frames
	glfw.SwapInterval(0)

	w := &Window{win: win, im: im}
	w.lastX, w.lastY = win.GetCursorPos()
	w.installCallbacks()
	return w, nil
}

func buttonState(a glfw.Action) input.ButtonState {
	switch a {
	case glfw.Press:
		return input.Pressed
	case glfw.Repeat:
		return input.Repeated
	default:
		return input.Released
	}
}

func (w *Window) installCallbacks() {
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		for _, fn := range w.resize.Snapshot() {
			fn(width, height)
		}
	})

	w.win.SetMouseButtonCallback(func(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		// Restart the drag from the press position
		w.lastX, w.lastY = gw.GetCursorPos()
		w.im.HandleMouseButtonEvent(input.Key(button), buttonState(action))
	})

	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		dx, dy := x-w.lastX, y-w.lastY
		w.lastX, w.lastY = x, y
		if !w.im.IsActive(input.ActionDrag) {
			return
		}
		for _, fn := range w.drag.Snapshot() {
			fn(dx, dy)
		}
	})

	w.win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		for _, fn := range w.scroll.Snapshot() {
			fn(yoff)
		}
	})

	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		w.im.HandleKeyEvent(input.Key(key), buttonState(action))
	})
}

// BindDefaultKeys installs the stock orbit bindings.
func BindDefaultKeys(im *input.InputManager) {
	im.BindKey(input.Key(glfw.KeyLeft), input.ActionOrbitLeft)
	im.BindKey(input.Key(glfw.KeyRight), input.ActionOrbitRight)
	im.BindKey(input.Key(glfw.KeyUp), input.ActionOrbitUp)
	im.BindKey(input.Key(glfw.KeyDown), input.ActionOrbitDown)
	im.BindKey(input.Key(glfw.KeyEqual), input.ActionZoomIn)
	im.BindKey(input.Key(glfw.KeyKPAdd), input.ActionZoomIn)
	im.BindKey(input.Key(glfw.KeyMinus), input.ActionZoomOut)
	im.BindKey(input.Key(glfw.KeyKPSubtract), input.ActionZoomOut)
	im.BindKey(input.Key(glfw.KeyR), input.ActionResetCamera)
	im.BindKey(input.Key(glfw.KeyV), input.ActionToggleProfiling)
	im.BindMouseButton(input.Key(glfw.MouseButtonLeft), input.ActionDrag)
}

func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

func (w *Window) OnResize(fn func(width, height int)) func() {
	return w.resize.Add(fn)
}

func (w *Window) OnDrag(fn func(dx, dy float64)) func() {
	return w.drag.Add(fn)
}

func (w *Window) OnScroll(fn func(dy float64)) func() {
	return w.scroll.Add(fn)
}

// MakeContextCurrent binds the window's GL context to the calling thread.
func (w *Window) MakeContextCurrent() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return fmt.Errorf("window destroyed")
	}
	w.win.MakeContextCurrent()
	return nil
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

// RequestClose asks the pump to stop. Safe to call from any goroutine.
func (w *Window) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.win.SetShouldClose(true)
	glfw.PostEmptyEvent()
}

func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
}

// Destroy closes the native window. Further calls are no-ops.
func (w *Window) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.win.Destroy()
}

var (
	_ surface.Surface       = (*Window)(nil)
	_ surface.ResizeSource  = (*Window)(nil)
	_ surface.PointerSource = (*Window)(nil)
)
