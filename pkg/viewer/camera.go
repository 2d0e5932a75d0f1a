package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera implements a free-flying perspective camera.
// Orientation is kept as a yaw/pitch pair (radians, no roll) and
// converted to a quaternion whenever it changes.
type Camera struct {
	position mgl32.Vec3

	// Euler angles, applied yaw first then pitch
	yaw      float32
	pitch    float32
	rotation mgl32.Quat

	// Projection
	fov        float32
	aspect     float32
	projection mgl32.Mat4
}

// NewCamera creates a camera at DefaultPosition looking down -Z,
// with a projection matching a surface of the given size.
func NewCamera(width, height int) *Camera {
	camera := &Camera{
		position: DefaultPosition,
		rotation: mgl32.QuatIdent(),
		fov:      DefaultFOV,
		aspect:   1,
	}

	camera.UpdateProjectionMatrix(width, height)

	return camera
}

// updateRotation rebuilds the quaternion from the Euler angles in Y-then-X order,
// which keeps roll at zero and the view upright.
func (c *Camera) updateRotation() {
	yaw := mgl32.QuatRotate(c.yaw, worldUp)
	pitch := mgl32.QuatRotate(c.pitch, worldRight)
	c.rotation = yaw.Mul(pitch).Normalize()
}

// UpdateProjectionMatrix recomputes the aspect ratio and projection for a new surface size.
// A zero height leaves the aspect ratio untouched.
func (c *Camera) UpdateProjectionMatrix(width, height int) {
	if height > 0 {
		c.aspect = float32(width) / float32(height)
	}
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, NearPlane, FarPlane)
}

// Aspect returns the current aspect ratio
func (c *Camera) Aspect() float32 {
	return c.aspect
}

// ProjectionMatrix returns the current projection matrix
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// ViewMatrix returns the inverse of the camera's world transform
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	p := c.position
	return c.rotation.Conjugate().Mat4().Mul4(mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

// Position returns the current camera position
func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// SetPosition sets the camera position
func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.position = pos
}

// Orientation returns the current camera orientation (yaw, pitch) in radians
func (c *Camera) Orientation() (yaw, pitch float32) {
	return c.yaw, c.pitch
}

// Rotation returns the quaternion built from the current orientation
func (c *Camera) Rotation() mgl32.Quat {
	return c.rotation
}

// SetRotation sets the camera rotation angles, clamping pitch to straight up or down.
func (c *Camera) SetRotation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = mgl32.Clamp(pitch, MinPitch, MaxPitch)
	c.updateRotation()
}

// Rotate adds to the current yaw and pitch
func (c *Camera) Rotate(dyaw, dpitch float32) {
	c.SetRotation(c.yaw+dyaw, c.pitch+dpitch)
}

// FrontVector returns the direction the camera is looking in
func (c *Camera) FrontVector() mgl32.Vec3 {
	return c.rotation.Rotate(forward)
}
