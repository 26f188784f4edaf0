package render

// Event is a discrete input event delivered by the windowing front end:
// pointer drags, wheel ticks, key presses, dropped files and menu commands.
type Event interface {
	isEvent()
}

// DragEvent is a left-button pointer drag, in pixels since the last frame.
type DragEvent struct {
	DX, DY float64
}

// WheelEvent is a scroll tick; positive means wheel-forward (zoom in).
type WheelEvent struct {
	Delta float64
}

// KeyEvent is a printable key press. Digits 1-6 select a projection mode,
// 'r' resets the view.
type KeyEvent struct {
	Code rune
}

// DropEvent is a file dropped onto the window.
type DropEvent struct {
	Path string
}

// ModeEvent is a projection-mode menu command.
type ModeEvent struct {
	Mode ProjectionMode
}

// ResetEvent is the reset-view menu command.
type ResetEvent struct{}

func (DragEvent) isEvent()  {}
func (WheelEvent) isEvent() {}
func (KeyEvent) isEvent()   {}
func (DropEvent) isEvent()  {}
func (ModeEvent) isEvent()  {}
func (ResetEvent) isEvent() {}

// keyModes maps the digit row to projection modes, in menu order.
var keyModes = map[rune]ProjectionMode{
	'1': Rectilinear,
	'2': Equidistant,
	'3': Stereographic,
	'4': Pannini,
	'5': Equirectangular,
	'6': Architectural,
}

// Controller translates input events into camera mutations. It is the only
// writer of the camera; the projection engine only reads it, within the same
// frame step.
type Controller struct {
	cam  *Camera
	load func(path string)
}

// NewController attaches a controller to cam. load is invoked for dropped
// files and may be nil when no loader is wired up.
func NewController(cam *Camera, load func(path string)) *Controller {
	return &Controller{cam: cam, load: load}
}

// Handle applies one event. Unrecognized keys are ignored.
func (c *Controller) Handle(ev Event) {
	switch e := ev.(type) {
	case DragEvent:
		c.cam.Rotate(e.DX, e.DY, DragSensitivity)
	case WheelEvent:
		c.cam.Zoom(e.Delta, ZoomSensitivity)
	case ModeEvent:
		c.cam.SetMode(e.Mode)
	case ResetEvent:
		c.cam.Reset()
	case KeyEvent:
		if m, ok := keyModes[e.Code]; ok {
			c.cam.SetMode(m)
		} else if e.Code == 'r' || e.Code == 'R' {
			c.cam.Reset()
		}
	case DropEvent:
		if c.load != nil {
			c.load(e.Path)
		}
	}
}
