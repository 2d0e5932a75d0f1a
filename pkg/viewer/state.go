package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MoveState holds one flag per movement direction.
// Flags are independent: forward and left together move diagonally,
// forward and backward together cancel out.
type MoveState struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool
}

// flag returns the direction bound to key, or nil for keys that do not move the camera
func (m *MoveState) flag(key Key) *bool {
	switch key {
	case KeyW, KeyZ:
		return &m.Forward
	case KeyS:
		return &m.Backward
	case KeyA, KeyQ:
		return &m.Left
	case KeyD:
		return &m.Right
	case KeySpace:
		return &m.Up
	case KeyLeftShift, KeyRightShift:
		return &m.Down
	}
	return nil
}

// Direction returns the signed sum of the held directions, before normalization.
// X points right, Y up and -Z forward.
func (m MoveState) Direction() mgl32.Vec3 {
	var dir mgl32.Vec3
	if m.Right {
		dir[0]++
	}
	if m.Left {
		dir[0]--
	}
	if m.Up {
		dir[1]++
	}
	if m.Down {
		dir[1]--
	}
	if m.Forward {
		dir[2]--
	}
	if m.Backward {
		dir[2]++
	}
	return dir
}

// State is everything the viewer mutates in response to input and frame ticks.
type State struct {
	Camera        *Camera
	Move          MoveState
	PointerLocked bool

	// Surface size in pixels
	Width  int
	Height int

	MoveSpeed        float32
	MouseSensitivity float32
}

// NewState creates a state for a surface of the given size, with default speeds
func NewState(width, height int) *State {
	return &State{
		Camera:           NewCamera(width, height),
		Width:            width,
		Height:           height,
		MoveSpeed:        DefaultMoveSpeed,
		MouseSensitivity: DefaultMouseSensitivity,
	}
}

// Resize records the new surface size and updates the camera projection
func (s *State) Resize(width, height int) {
	s.Width = width
	s.Height = height
	s.Camera.UpdateProjectionMatrix(width, height)
}
