package golf

import "math"

// GestureState is the aim gesture state machine.
type GestureState string

const (
	GestureIdle     GestureState = "idle"
	GestureDragging GestureState = "dragging"
)

type aimGesture struct {
	state   GestureState
	origin  Vec3 // pointer-down point on the course plane
	preview Vec3 // smoothed end of the aim line
	last    Vec3 // last valid pointer point
	power   float64
	drag    Vec3 // last clamped drag vector
}

func (g *aimGesture) active() bool {
	return g.state == GestureDragging
}

// AimPreview is what the renderer draws while a gesture is active.
type AimPreview struct {
	Active bool    `json:"active"`
	Start  Vec3    `json:"start"`
	End    Vec3    `json:"end"`
	Dots   []Vec3  `json:"dots,omitempty"`
	Power  float64 `json:"power"` // 0..1, fraction of MaxDrag
}

// ShotResult is the outcome of releasing an aim gesture.
type ShotResult struct {
	Impulse Vec3    `json:"impulse"`
	Power   float64 `json:"power"`
	Applied bool    `json:"applied"`
	Strokes int     `json:"strokes"`
}

// dragVector is origin minus p on the course plane, capped at MaxDrag.
func (s *LevelSession) dragVector(p Vec3) Vec3 {
	return s.aim.origin.Minus(p).Planar().ClampLength(s.params.MaxDrag)
}

// CanAim reports whether a new gesture may start.
func (s *LevelSession) CanAim() bool {
	return s.state == BallRolling && !s.aim.active()
}

// PointerDown starts a gesture when p is strictly within the aim radius of the ball.
func (s *LevelSession) PointerDown(p Vec3) bool {
	if !s.CanAim() || !p.IsFinite() {
		return false
	}
	if p.PlanarDistance(s.ball.Position) >= s.params.AimRadius {
		return false
	}
	s.aim = aimGesture{
		state:   GestureDragging,
		origin:  p,
		preview: s.ball.Position,
		last:    p,
	}
	s.setOrbit(false)
	return true
}

// PointerMove updates the preview. It reports false when no gesture is active.
func (s *LevelSession) PointerMove(p Vec3) (AimPreview, bool) {
	if !s.aim.active() || !p.IsFinite() {
		return s.Aim(), false
	}
	s.aim.last = p
	drag := s.dragVector(p)
	s.aim.drag = drag
	s.aim.power = drag.Magnitude() / s.params.MaxDrag
	target := s.ball.Position.Plus(drag)
	s.aim.preview = s.aim.preview.Lerp(target, s.params.PreviewSmoothing)
	return s.Aim(), true
}

// PointerUp ends the gesture and, for a nonzero drag, applies the shot.
// The gesture always returns to idle.
func (s *LevelSession) PointerUp(p Vec3) ShotResult {
	if !s.aim.active() {
		return ShotResult{Strokes: s.strokes}
	}
	if !p.IsFinite() {
		p = s.aim.last
	}
	drag := s.dragVector(p)
	res := ShotResult{
		Impulse: drag.Times(s.params.PowerMultiplier),
		Power:   drag.Magnitude() / s.params.MaxDrag,
	}
	s.cancelAim()

	// A capture during the drag freezes the ball.
	if s.state == BallRolling && res.Impulse.Magnitude() > 0 {
		s.ball.Velocity = s.ball.Velocity.Plus(res.Impulse)
		s.strokes++
		res.Applied = true
		s.emit(Event{Type: EventStrokeTaken, Strokes: s.strokes})
	} else {
		res.Impulse = Vec3{}
	}
	res.Strokes = s.strokes
	return res
}

// PointerLeave terminates the gesture as if released at the last valid point.
func (s *LevelSession) PointerLeave() ShotResult {
	if !s.aim.active() {
		return ShotResult{Strokes: s.strokes}
	}
	return s.PointerUp(s.aim.last)
}

func (s *LevelSession) cancelAim() {
	s.aim = aimGesture{state: GestureIdle}
	s.setOrbit(true)
}

// PointerDownScreen projects a viewport pointer onto the course and starts a gesture.
// A projection miss is ignored.
func (s *LevelSession) PointerDownScreen(cam Camera, x, y, w, h float64) bool {
	p, ok := cam.ProjectToCourse(x, y, w, h)
	if !ok {
		return false
	}
	return s.PointerDown(p)
}

// PointerMoveScreen is PointerMove for viewport coordinates. A miss leaves the preview unchanged.
func (s *LevelSession) PointerMoveScreen(cam Camera, x, y, w, h float64) (AimPreview, bool) {
	p, ok := cam.ProjectToCourse(x, y, w, h)
	if !ok {
		return s.Aim(), false
	}
	return s.PointerMove(p)
}

// PointerUpScreen is PointerUp for viewport coordinates. A miss releases at the
// last valid pointer point.
func (s *LevelSession) PointerUpScreen(cam Camera, x, y, w, h float64) ShotResult {
	p, ok := cam.ProjectToCourse(x, y, w, h)
	if !ok {
		return s.PointerLeave()
	}
	return s.PointerUp(p)
}

// GestureState returns the current aim state.
func (s *LevelSession) GestureState() GestureState {
	if s.aim.active() {
		return GestureDragging
	}
	return GestureIdle
}

// Aim returns the current preview. Start and End sit at ball height.
func (s *LevelSession) Aim() AimPreview {
	if !s.aim.active() {
		return AimPreview{}
	}
	start := s.ball.Position.WithY(s.params.BallRadius)
	end := s.aim.preview.WithY(s.params.BallRadius)
	return AimPreview{
		Active: true,
		Start:  start,
		End:    end,
		Dots:   s.previewDots(start, end),
		Power:  s.aim.power,
	}
}

func (s *LevelSession) previewDots(start, end Vec3) []Vec3 {
	if s.params.Preview == PreviewSimulated {
		return PredictPath(start, s.aim.drag.Times(s.params.PowerMultiplier), s.params, s.params.MaxDots)
	}
	segment := end.Minus(start)
	dist := segment.Magnitude()
	if s.params.DotSpacing <= 0 {
		return nil
	}
	n := int(math.Floor(dist / s.params.DotSpacing))
	if n > s.params.MaxDots {
		n = s.params.MaxDots
	}
	if n <= 0 {
		return nil
	}
	dots := make([]Vec3, n)
	for i := 0; i < n; i++ {
		t := float64(i+1) / float64(n+1)
		dots[i] = start.Plus(segment.Times(t))
	}
	return dots
}
