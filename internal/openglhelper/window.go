package openglhelper

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Window handles GLFW window creation, pointer capture and resizing
type Window struct {
	glfwWindow    *glfw.Window
	width         int
	height        int
	pointerLocked bool

	// Last cursor position, used to turn absolute positions into deltas
	lastX       float64
	lastY       float64
	resetCursor bool

	// OnPointerLockChange is called after the cursor capture actually changed
	OnPointerLockChange func(locked bool)
	// OnMouseMove is called with the cursor motion since the previous event
	OnMouseMove func(dx, dy float64)
}

// NewWindow creates a new GLFW window with OpenGL context
func NewWindow(width, height int, title string, vsync bool) (*Window, error) {
	// Initialize GLFW
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Configure GLFW
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	// Create window
	glfwWindow, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	glfwWindow.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	slog.Info("OpenGL context ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	// Configure global OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	// The framebuffer can be larger than the window on HiDPI screens
	fbWidth, fbHeight := glfwWindow.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))

	return &Window{
		glfwWindow:  glfwWindow,
		width:       fbWidth,
		height:      fbHeight,
		resetCursor: true,
	}, nil
}

// Clear clears the color and depth buffers
func (w *Window) Clear(color mgl32.Vec4) {
	gl.ClearColor(color.X(), color.Y(), color.Z(), color.W())
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SwapBuffers swaps the front and back buffers
func (w *Window) SwapBuffers() {
	w.glfwWindow.SwapBuffers()
}

// PollEvents processes pending events, running the registered callbacks
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// ShouldClose returns whether the window should close
func (w *Window) ShouldClose() bool {
	return w.glfwWindow.ShouldClose()
}

// RequestClose asks the frame loop to stop after the current frame
func (w *Window) RequestClose() {
	w.glfwWindow.SetShouldClose(true)
}

// Close releases all resources
func (w *Window) Close() {
	w.glfwWindow.Destroy()
	glfw.Terminate()
}

// Size returns the framebuffer dimensions
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// SetViewport matches the GL viewport to a new framebuffer size
func (w *Window) SetViewport(width, height int) {
	w.width = width
	w.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// GLFWWindow returns the underlying GLFW window
func (w *Window) GLFWWindow() *glfw.Window {
	return w.glfwWindow
}

// RequestPointerLock hides the cursor and switches to unbounded relative motion.
// OnPointerLockChange fires once GLFW reports the new cursor mode.
func (w *Window) RequestPointerLock() {
	w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	if glfw.RawMouseMotionSupported() {
		w.glfwWindow.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}
	w.syncPointerLock()
}

// ReleasePointerLock gives the cursor back to the desktop
func (w *Window) ReleasePointerLock() {
	w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	w.syncPointerLock()
}

// syncPointerLock reads the cursor mode back from GLFW and notifies on change
func (w *Window) syncPointerLock() {
	locked := w.glfwWindow.GetInputMode(glfw.CursorMode) == glfw.CursorDisabled
	if locked == w.pointerLocked {
		return
	}

	w.pointerLocked = locked
	w.resetCursor = true
	if w.OnPointerLockChange != nil {
		w.OnPointerLockChange(locked)
	}
}

// HandleCursorPos turns an absolute cursor position into a motion delta.
// The first position after a capture change only sets the reference point.
func (w *Window) HandleCursorPos(xpos, ypos float64) {
	if w.resetCursor {
		w.lastX = xpos
		w.lastY = ypos
		w.resetCursor = false
		return
	}

	dx := xpos - w.lastX
	dy := ypos - w.lastY
	w.lastX = xpos
	w.lastY = ypos

	if w.OnMouseMove != nil && (dx != 0 || dy != 0) {
		w.OnMouseMove(dx, dy)
	}
}
