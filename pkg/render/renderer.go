package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/leterax/go-flyview/internal/openglhelper"
	"github.com/leterax/go-flyview/pkg/asset"
	"github.com/leterax/go-flyview/pkg/config"
	"github.com/leterax/go-flyview/pkg/scene"
	"github.com/leterax/go-flyview/pkg/viewer"
)

// Renderer owns the window and drives the frame loop
type Renderer struct {
	window *openglhelper.Window
	viewer *viewer.Viewer
	state  *viewer.State
	scene  *scene.Scene
	loader *asset.Loader
	logger *slog.Logger

	shader *openglhelper.Shader
	meshes []*openglhelper.Mesh
}

// NewRenderer opens the window, sets up the camera, lights and input handling.
// The model is picked up from loader as soon as it has finished loading.
func NewRenderer(cfg config.Config, loader *asset.Loader, logger *slog.Logger) (*Renderer, error) {
	window, err := openglhelper.NewWindow(cfg.Width, cfg.Height, cfg.Title, cfg.VSync)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	shader, err := openglhelper.LoadShaderFromFS(shaderFS, vertexShaderPath, fragmentShaderPath)
	if err != nil {
		window.Close()
		return nil, fmt.Errorf("failed to load shader: %w", err)
	}

	width, height := window.Size()
	state := viewer.NewState(width, height)
	state.MoveSpeed = cfg.MoveSpeed
	state.MouseSensitivity = cfg.MouseSensitivity

	r := &Renderer{
		window: window,
		viewer: viewer.New(state, window),
		state:  state,
		scene:  scene.New(),
		loader: loader,
		logger: logger,
		shader: shader,
	}

	// Set up callbacks
	gw := window.GLFWWindow()
	gw.SetKeyCallback(r.keyCallback)
	gw.SetCursorPosCallback(r.cursorPosCallback)
	gw.SetMouseButtonCallback(r.mouseButtonCallback)
	gw.SetFramebufferSizeCallback(r.framebufferSizeCallback)
	gw.SetFocusCallback(r.focusCallback)

	window.OnPointerLockChange = func(locked bool) {
		r.logger.Debug("pointer lock changed", "locked", locked)
		r.viewer.Handle(viewer.PointerLockChange{Locked: locked})
	}
	window.OnMouseMove = func(dx, dy float64) {
		r.viewer.Handle(viewer.MouseMoveEvent{DX: dx, DY: dy})
	}

	return r, nil
}

// Run starts the main rendering loop. It returns once the window is closed
// or ctx is cancelled, after releasing every GL resource.
func (r *Renderer) Run(ctx context.Context) {
	defer r.Cleanup()

	for !r.window.ShouldClose() {
		if ctx.Err() != nil {
			return
		}

		// Input, resize and focus callbacks run in here
		r.window.PollEvents()

		r.pollModel()

		viewer.Step(r.state)

		r.render()

		r.window.SwapBuffers()
	}
}

// pollModel attaches the model once the loader has delivered it
func (r *Renderer) pollModel() {
	if r.loader == nil {
		return
	}
	res, ok := r.loader.Poll()
	if !ok {
		return
	}
	if !r.scene.AttachResult(res, r.logger) {
		return
	}

	for _, mesh := range r.scene.Model().Meshes {
		if len(mesh.Indices) == 0 {
			continue
		}
		r.meshes = append(r.meshes, openglhelper.NewMesh(mesh.Interleaved(), mesh.Indices))
	}
}

// render draws the scene from the camera's current state
func (r *Renderer) render() {
	r.window.Clear(r.scene.Background)

	if len(r.meshes) == 0 {
		return
	}

	r.shader.Use()
	r.shader.SetMat4("view", r.state.Camera.ViewMatrix())
	r.shader.SetMat4("projection", r.state.Camera.ProjectionMatrix())

	ambient := r.scene.Ambient
	r.shader.SetVec3("ambientColor", ambient.Color)
	r.shader.SetFloat("ambientIntensity", ambient.Intensity)

	sun := r.scene.Directional
	r.shader.SetVec3("lightDir", sun.Direction())
	r.shader.SetVec3("lightColor", sun.Color)
	r.shader.SetFloat("lightIntensity", sun.Intensity)

	for _, mesh := range r.meshes {
		mesh.Draw()
	}
}

// Cleanup frees all resources
func (r *Renderer) Cleanup() {
	for _, mesh := range r.meshes {
		mesh.Delete()
	}
	r.meshes = nil

	if r.shader != nil {
		r.shader.Delete()
		r.shader = nil
	}

	r.window.Close()
}

// Callback functions
func (r *Renderer) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	r.viewer.Handle(viewer.KeyEvent{Key: translateKey(key), Action: actionMap[action]})
}

func (r *Renderer) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	r.window.HandleCursorPos(xpos, ypos)
}

func (r *Renderer) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button == glfw.MouseButtonLeft && action == glfw.Press {
		r.viewer.Handle(viewer.ClickEvent{})
	}
}

func (r *Renderer) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	r.viewer.Handle(viewer.ResizeEvent{Width: width, Height: height})
}

func (r *Renderer) focusCallback(_ *glfw.Window, focused bool) {
	r.viewer.Handle(viewer.FocusEvent{Focused: focused})
}
