package viewer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

type fakeSurface struct {
	lockRequests    int
	releaseRequests int
	closeRequests   int
	width, height   int
}

func (f *fakeSurface) RequestPointerLock() { f.lockRequests++ }
func (f *fakeSurface) ReleasePointerLock() { f.releaseRequests++ }
func (f *fakeSurface) RequestClose()       { f.closeRequests++ }

func (f *fakeSurface) SetViewport(width, height int) {
	f.width, f.height = width, height
}

func newTestViewer() (*Viewer, *fakeSurface) {
	state := NewState(800, 600)
	state.Camera.SetPosition(mgl32.Vec3{})
	surface := &fakeSurface{}
	return New(state, surface), surface
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps, "component %d of %v", i, got)
	}
}

func TestDirectionSignedSum(t *testing.T) {
	// Every subset of the six directions.
	for mask := 0; mask < 1<<6; mask++ {
		m := MoveState{
			Forward:  mask&1 != 0,
			Backward: mask&2 != 0,
			Left:     mask&4 != 0,
			Right:    mask&8 != 0,
			Up:       mask&16 != 0,
			Down:     mask&32 != 0,
		}

		var want mgl32.Vec3
		if m.Right {
			want[0] += 1
		}
		if m.Left {
			want[0] -= 1
		}
		if m.Up {
			want[1] += 1
		}
		if m.Down {
			want[1] -= 1
		}
		if m.Forward {
			want[2] -= 1
		}
		if m.Backward {
			want[2] += 1
		}

		assert.Equal(t, want, m.Direction(), "mask %06b", mask)
	}
}

func TestDirectionForwardRight(t *testing.T) {
	m := MoveState{Forward: true, Right: true}
	assert.Equal(t, mgl32.Vec3{1, 0, -1}, m.Direction())
}

func TestDisplacementLength(t *testing.T) {
	for mask := 1; mask < 1<<6; mask++ {
		s := NewState(800, 600)
		s.Move = MoveState{
			Forward:  mask&1 != 0,
			Backward: mask&2 != 0,
			Left:     mask&4 != 0,
			Right:    mask&8 != 0,
			Up:       mask&16 != 0,
			Down:     mask&32 != 0,
		}

		d := Displacement(s)
		if s.Move.Direction().Len() == 0 {
			assert.Equal(t, mgl32.Vec3{}, d, "mask %06b", mask)
			continue
		}
		assert.InDelta(t, s.MoveSpeed, d.Len(), eps, "mask %06b", mask)
	}
}

func TestStepWithoutInputKeepsPosition(t *testing.T) {
	s := NewState(800, 600)
	s.Camera.SetRotation(1.2, -0.4)
	start := s.Camera.Position()

	Step(s)

	assert.Equal(t, start, s.Camera.Position())

	// Opposite directions cancel out.
	s.Move = MoveState{Forward: true, Backward: true, Left: true, Right: true}
	Step(s)
	assert.Equal(t, start, s.Camera.Position())
}

func TestVerticalMovementIgnoresOrientation(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float32
	}{
		{"identity", 0, 0},
		{"turned", 2.1, 0},
		{"looking down", 0.3, -1.2},
		{"looking straight up", -0.7, math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(800, 600)
			s.Camera.SetPosition(mgl32.Vec3{3, 4, 5})
			s.Camera.SetRotation(tt.yaw, tt.pitch)

			s.Move = MoveState{Up: true}
			Step(s)
			assertVec(t, mgl32.Vec3{3, 4.1, 5}, s.Camera.Position())

			s.Move = MoveState{Down: true}
			Step(s)
			Step(s)
			assertVec(t, mgl32.Vec3{3, 3.9, 5}, s.Camera.Position())
		})
	}
}

func TestHorizontalMovementFollowsYaw(t *testing.T) {
	s := NewState(800, 600)

	s.Move = MoveState{Forward: true, Right: true}
	d := Displacement(s)
	n := float32(math.Sqrt(0.5)) * s.MoveSpeed
	assertVec(t, mgl32.Vec3{n, 0, -n}, d)

	s.Camera.SetRotation(math.Pi/2, 0)

	s.Move = MoveState{Forward: true}
	assertVec(t, mgl32.Vec3{-0.1, 0, 0}, Displacement(s))

	s.Move = MoveState{Right: true}
	assertVec(t, mgl32.Vec3{0, 0, -0.1}, Displacement(s))
}

func TestMouseLookClampsPitch(t *testing.T) {
	v, _ := newTestViewer()
	v.Handle(PointerLockChange{Locked: true})

	deltas := []float64{-5000, 12000, 3, -90000, 1e6, -1e6, 250}
	for _, dy := range deltas {
		v.Handle(MouseMoveEvent{DX: dy / 3, DY: dy})

		_, pitch := v.State().Camera.Orientation()
		assert.GreaterOrEqual(t, pitch, float32(MinPitch))
		assert.LessOrEqual(t, pitch, float32(MaxPitch))
	}

	v.Handle(MouseMoveEvent{DY: -1e6})
	_, pitch := v.State().Camera.Orientation()
	assert.InDelta(t, MaxPitch, pitch, eps)

	assertVec(t, mgl32.Vec3{0, 1, 0}, v.State().Camera.FrontVector())
}

func TestMouseLookAccumulates(t *testing.T) {
	v, _ := newTestViewer()
	v.Handle(PointerLockChange{Locked: true})

	v.Handle(MouseMoveEvent{DX: 100, DY: 50})
	v.Handle(MouseMoveEvent{DX: -25, DY: 10})

	yaw, pitch := v.State().Camera.Orientation()
	assert.InDelta(t, -75*DefaultMouseSensitivity, yaw, eps)
	assert.InDelta(t, -60*DefaultMouseSensitivity, pitch, eps)
}

func TestMouseIgnoredWhileUnlocked(t *testing.T) {
	v, _ := newTestViewer()

	v.Handle(MouseMoveEvent{DX: 100, DY: 100})

	yaw, pitch := v.State().Camera.Orientation()
	assert.Zero(t, yaw)
	assert.Zero(t, pitch)
	assert.Equal(t, mgl32.QuatIdent(), v.State().Camera.Rotation())
}

func TestNoRollAccumulates(t *testing.T) {
	v, _ := newTestViewer()
	v.Handle(PointerLockChange{Locked: true})

	for i := 0; i < 200; i++ {
		v.Handle(MouseMoveEvent{DX: float64(37 * (i%7 - 3)), DY: float64(23 * (i%5 - 2))})
	}

	// The camera's right vector stays horizontal.
	right := v.State().Camera.Rotation().Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0, right.Y(), eps)
}

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		key  Key
		want MoveState
	}{
		{KeyW, MoveState{Forward: true}},
		{KeyZ, MoveState{Forward: true}},
		{KeyS, MoveState{Backward: true}},
		{KeyA, MoveState{Left: true}},
		{KeyQ, MoveState{Left: true}},
		{KeyD, MoveState{Right: true}},
		{KeySpace, MoveState{Up: true}},
		{KeyLeftShift, MoveState{Down: true}},
		{KeyRightShift, MoveState{Down: true}},
		{KeyUnknown, MoveState{}},
	}

	for _, tt := range tests {
		v, surface := newTestViewer()

		v.Handle(KeyEvent{Key: tt.key, Action: Press})
		assert.Equal(t, tt.want, v.State().Move, "key %d pressed", tt.key)

		v.Handle(KeyEvent{Key: tt.key, Action: Repeat})
		assert.Equal(t, tt.want, v.State().Move, "key %d repeated", tt.key)

		v.Handle(KeyEvent{Key: tt.key, Action: Release})
		assert.Equal(t, MoveState{}, v.State().Move, "key %d released", tt.key)

		assert.Zero(t, surface.closeRequests)
	}
}

func TestAliasesShareFlag(t *testing.T) {
	v, _ := newTestViewer()

	v.Handle(KeyEvent{Key: KeyW, Action: Press})
	v.Handle(KeyEvent{Key: KeyZ, Action: Release})

	assert.False(t, v.State().Move.Forward)
}

func TestPointerLockFollowsNotifications(t *testing.T) {
	v, surface := newTestViewer()

	v.Handle(ClickEvent{})
	assert.Equal(t, 1, surface.lockRequests)
	assert.False(t, v.State().PointerLocked, "lock must not be assumed")

	v.Handle(PointerLockChange{Locked: true})
	assert.True(t, v.State().PointerLocked)

	v.Handle(ClickEvent{})
	assert.Equal(t, 1, surface.lockRequests, "no request while locked")

	v.Handle(PointerLockChange{Locked: false})
	assert.False(t, v.State().PointerLocked)
}

func TestEscape(t *testing.T) {
	v, surface := newTestViewer()
	v.Handle(PointerLockChange{Locked: true})

	v.Handle(KeyEvent{Key: KeyEscape, Action: Press})
	assert.Equal(t, 1, surface.releaseRequests)
	assert.Zero(t, surface.closeRequests)

	v.Handle(PointerLockChange{Locked: false})
	v.Handle(KeyEvent{Key: KeyEscape, Action: Release})
	assert.Zero(t, surface.closeRequests)

	v.Handle(KeyEvent{Key: KeyEscape, Action: Press})
	assert.Equal(t, 1, surface.closeRequests)
}

func TestFocusLossReleasesLock(t *testing.T) {
	v, surface := newTestViewer()

	v.Handle(FocusEvent{Focused: false})
	assert.Zero(t, surface.releaseRequests)

	v.Handle(PointerLockChange{Locked: true})
	v.Handle(FocusEvent{Focused: false})
	assert.Equal(t, 1, surface.releaseRequests)
}

func TestResize(t *testing.T) {
	v, surface := newTestViewer()

	sizes := [][2]int{{1024, 768}, {300, 900}, {1920, 1080}, {1, 1}}
	for _, size := range sizes {
		v.Handle(ResizeEvent{Width: size[0], Height: size[1]})

		assert.InDelta(t, float32(size[0])/float32(size[1]), v.State().Camera.Aspect(), eps)
		assert.Equal(t, size[0], surface.width)
		assert.Equal(t, size[1], surface.height)
		assert.Equal(t, size[0], v.State().Width)
		assert.Equal(t, size[1], v.State().Height)
	}

	// A minimised window keeps the last usable aspect ratio.
	v.Handle(ResizeEvent{Width: 0, Height: 0})
	assert.InDelta(t, 1, v.State().Camera.Aspect(), eps)
	assert.Equal(t, 0, surface.width)
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera(800, 600)

	assert.Equal(t, DefaultPosition, c.Position())
	assert.InDelta(t, 800.0/600.0, c.Aspect(), eps)
	assertVec(t, mgl32.Vec3{0, 0, -1}, c.FrontVector())

	want := mgl32.Perspective(mgl32.DegToRad(75), 800.0/600.0, 0.1, 1000)
	assert.True(t, want.ApproxEqualThreshold(c.ProjectionMatrix(), eps))
}

func TestViewMatrixMapsPositionToOrigin(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetPosition(mgl32.Vec3{4, -2, 7})
	c.SetRotation(0.8, 0.3)

	eye := c.ViewMatrix().Mul4x1(c.Position().Vec4(1)).Vec3()
	assertVec(t, mgl32.Vec3{}, eye)

	ahead := c.ViewMatrix().Mul4x1(c.Position().Add(c.FrontVector()).Vec4(1)).Vec3()
	assertVec(t, mgl32.Vec3{0, 0, -1}, ahead)
}

func TestEndToEnd(t *testing.T) {
	v, _ := newTestViewer()
	s := v.State()

	v.Handle(KeyEvent{Key: KeyW, Action: Press})
	Step(s)
	assertVec(t, mgl32.Vec3{0, 0, -0.1}, s.Camera.Position())

	v.Handle(KeyEvent{Key: KeyW, Action: Release})
	v.Handle(KeyEvent{Key: KeyLeftShift, Action: Press})
	Step(s)
	assertVec(t, mgl32.Vec3{0, -0.1, -0.1}, s.Camera.Position())

	require.Equal(t, MoveState{Down: true}, s.Move)
}
