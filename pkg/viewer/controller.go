package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Displacement returns how far the camera moves this frame.
//
// Horizontal input is rotated by the camera orientation so that forward
// follows the look direction, while vertical input stays along world Y
// whatever the pitch.
func Displacement(s *State) mgl32.Vec3 {
	dir := s.Move.Direction()
	if dir.Len() == 0 {
		return mgl32.Vec3{}
	}
	dir = dir.Normalize()

	moved := s.Camera.Rotation().Rotate(mgl32.Vec3{dir.X(), 0, dir.Z()})
	moved[1] = dir.Y()

	return moved.Mul(s.MoveSpeed)
}

// Step advances the camera by one frame of movement
func Step(s *State) {
	delta := Displacement(s)
	if delta.Len() == 0 {
		return
	}
	s.Camera.SetPosition(s.Camera.Position().Add(delta))
}
