package viewer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Key identifies a physical key position, independent of the windowing backend.
// Positions follow the US layout, so KeyZ is the key labelled W on an AZERTY board.
type Key int

// Keys the viewer reacts to
const (
	KeyUnknown Key = iota
	KeyW
	KeyZ
	KeyS
	KeyA
	KeyQ
	KeyD
	KeySpace
	KeyLeftShift
	KeyRightShift
	KeyEscape
)

// Action is the transition reported with a key event
type Action int

// Action constants for key states
const (
	Press Action = iota
	Release
	Repeat
)

// Camera constants
const (
	// Perspective projection
	DefaultFOV = 75.0 // degrees, vertical
	NearPlane  = 0.1
	FarPlane   = 1000.0

	// Movement speeds
	DefaultMoveSpeed        = 0.1 // units per frame
	DefaultMouseSensitivity = 0.002

	// Constraints
	MaxPitch = math.Pi / 2
	MinPitch = -math.Pi / 2
)

// DefaultPosition is where the camera starts, a little above and in front of the origin.
var DefaultPosition = mgl32.Vec3{0, 2, 10}

var (
	worldUp    = mgl32.Vec3{0, 1, 0}
	worldRight = mgl32.Vec3{1, 0, 0}
	forward    = mgl32.Vec3{0, 0, -1}
)
