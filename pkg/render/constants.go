package render

import (
	"embed"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/leterax/go-flyview/pkg/viewer"
)

// shaderFS holds the GLSL sources, so the binary runs from any directory
//
//go:embed shaders/*.vert shaders/*.frag
var shaderFS embed.FS

const (
	vertexShaderPath   = "shaders/model.vert"
	fragmentShaderPath = "shaders/model.frag"
)

// keyMap binds GLFW physical keys to viewer keys
var keyMap = map[glfw.Key]viewer.Key{
	glfw.KeyW:          viewer.KeyW,
	glfw.KeyZ:          viewer.KeyZ,
	glfw.KeyS:          viewer.KeyS,
	glfw.KeyA:          viewer.KeyA,
	glfw.KeyQ:          viewer.KeyQ,
	glfw.KeyD:          viewer.KeyD,
	glfw.KeySpace:      viewer.KeySpace,
	glfw.KeyLeftShift:  viewer.KeyLeftShift,
	glfw.KeyRightShift: viewer.KeyRightShift,
	glfw.KeyEscape:     viewer.KeyEscape,
}

// actionMap binds GLFW key actions to viewer actions
var actionMap = map[glfw.Action]viewer.Action{
	glfw.Press:   viewer.Press,
	glfw.Release: viewer.Release,
	glfw.Repeat:  viewer.Repeat,
}

func translateKey(key glfw.Key) viewer.Key {
	if k, ok := keyMap[key]; ok {
		return k
	}
	return viewer.KeyUnknown
}
