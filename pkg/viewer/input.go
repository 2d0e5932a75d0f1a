package viewer

// Event is an input notification delivered by the host window
type Event interface {
	isEvent()
}

// KeyEvent reports a key transition
type KeyEvent struct {
	Key    Key
	Action Action
}

// MouseMoveEvent reports relative mouse motion in pixels
type MouseMoveEvent struct {
	DX, DY float64
}

// ClickEvent reports a mouse click on the surface
type ClickEvent struct{}

// PointerLockChange reports that the host granted or released pointer capture
type PointerLockChange struct {
	Locked bool
}

// ResizeEvent reports a new surface size in pixels
type ResizeEvent struct {
	Width, Height int
}

// FocusEvent reports the surface gaining or losing input focus
type FocusEvent struct {
	Focused bool
}

func (KeyEvent) isEvent()          {}
func (MouseMoveEvent) isEvent()    {}
func (ClickEvent) isEvent()        {}
func (PointerLockChange) isEvent() {}
func (ResizeEvent) isEvent()       {}
func (FocusEvent) isEvent()        {}

// Surface is the window the viewer draws into and captures the pointer from.
// Lock requests are asynchronous: the surface answers with a PointerLockChange
// once the capture actually changed.
type Surface interface {
	RequestPointerLock()
	ReleasePointerLock()
	SetViewport(width, height int)
	RequestClose()
}

// Viewer applies input events to a State
type Viewer struct {
	state   *State
	surface Surface
}

// New creates a viewer driving state and the given surface
func New(state *State, surface Surface) *Viewer {
	return &Viewer{
		state:   state,
		surface: surface,
	}
}

// State returns the state the viewer mutates
func (v *Viewer) State() *State {
	return v.state
}

// Handle applies a single event synchronously
func (v *Viewer) Handle(ev Event) {
	switch ev := ev.(type) {
	case KeyEvent:
		v.handleKey(ev)
	case MouseMoveEvent:
		v.handleMouseMove(ev)
	case ClickEvent:
		if !v.state.PointerLocked {
			v.surface.RequestPointerLock()
		}
	case PointerLockChange:
		v.state.PointerLocked = ev.Locked
	case ResizeEvent:
		v.state.Resize(ev.Width, ev.Height)
		v.surface.SetViewport(ev.Width, ev.Height)
	case FocusEvent:
		if !ev.Focused && v.state.PointerLocked {
			v.surface.ReleasePointerLock()
		}
	}
}

func (v *Viewer) handleKey(ev KeyEvent) {
	if ev.Action == Repeat {
		return
	}

	if ev.Key == KeyEscape {
		if ev.Action != Press {
			return
		}
		if v.state.PointerLocked {
			v.surface.ReleasePointerLock()
		} else {
			v.surface.RequestClose()
		}
		return
	}

	if flag := v.state.Move.flag(ev.Key); flag != nil {
		*flag = ev.Action == Press
	}
}

func (v *Viewer) handleMouseMove(ev MouseMoveEvent) {
	if !v.state.PointerLocked {
		return
	}

	sensitivity := v.state.MouseSensitivity
	v.state.Camera.Rotate(-float32(ev.DX)*sensitivity, -float32(ev.DY)*sensitivity)
}
