package golf

import "math"

// BallState is the per-level ball state machine.
type BallState string

const (
	BallRolling BallState = "rolling" // includes resting: speed at or below RestEpsilon
	BallSinking BallState = "sinking"
	BallSunk    BallState = "sunk"
)

// Ball is the single ball of a level instance.
type Ball struct {
	Position Vec3    `json:"position"`
	Velocity Vec3    `json:"velocity"`
	Radius   float64 `json:"radius"`
	Visible  bool    `json:"visible"`
}

// EventType names a discrete event produced by a frame or a pointer gesture.
type EventType string

const (
	EventStrokeTaken   EventType = "stroke_taken"
	EventWallHit       EventType = "wall_hit"
	EventObstacleHit   EventType = "obstacle_hit"
	EventBallRespawned EventType = "ball_respawned"
	EventHoleCaptured  EventType = "hole_captured"
	EventBallSunk      EventType = "ball_sunk"
)

// Event records something that happened during a frame, for the shell and the renderer.
type Event struct {
	Type     EventType `json:"type"`
	Obstacle int       `json:"obstacle,omitempty"` // index into Course.Obstacles
	Speed    float64   `json:"speed,omitempty"`    // impact speed, for sound volume
	Strokes  int       `json:"strokes,omitempty"`
}

type obstacleState struct {
	def      Obstacle
	phase    float64
	position Vec3
}

func (o *obstacleState) bounds() Box {
	return BoxAround(o.position, o.def.HalfSize)
}

// LevelSession is one play-through of one course. It is created on level
// entry, discarded on exit, and must only be used from a single goroutine.
type LevelSession struct {
	course    Course
	params    Params
	ball      Ball
	state     BallState
	captured  bool
	obstacles []obstacleState
	aim       aimGesture
	strokes   int
	elapsed   float64
	pending   []Event

	orbitEnabled bool
	cameraTarget Vec3

	// OnOrbitToggle is called when aiming disables or re-enables camera orbit input.
	OnOrbitToggle func(enabled bool)
}

// NewLevelSession validates the course and places the ball at its spawn point.
func NewLevelSession(course Course, params Params) (*LevelSession, error) {
	if err := course.Validate(); err != nil {
		return nil, err
	}
	c := course
	c.Obstacles = append([]Obstacle(nil), course.Obstacles...)
	if course.Flow != nil {
		flow := *course.Flow
		c.Flow = &flow
	}
	s := &LevelSession{course: c, params: params}
	s.Reset()
	return s, nil
}

// Reset reloads the level: ball back on the spawn, strokes cleared, capture re-armed.
func (s *LevelSession) Reset() {
	s.ball = Ball{
		Position: s.course.Spawn.WithY(s.params.BallRadius),
		Radius:   s.params.BallRadius,
		Visible:  true,
	}
	s.state = BallRolling
	s.captured = false
	s.strokes = 0
	s.elapsed = 0
	s.pending = nil
	s.aim = aimGesture{}
	s.obstacles = make([]obstacleState, len(s.course.Obstacles))
	for i, o := range s.course.Obstacles {
		s.obstacles[i] = obstacleState{def: o, phase: o.Phase, position: o.PositionAt(o.Phase)}
	}
	s.cameraTarget = s.ball.Position
	s.setOrbit(true)
}

// Course returns the level layout the session was built from.
func (s *LevelSession) Course() Course { return s.course }

// Params returns the tuning the session runs with.
func (s *LevelSession) Params() Params { return s.params }

// Ball returns the current ball state.
func (s *LevelSession) Ball() Ball { return s.ball }

// State returns where the ball is in rolling, sinking or sunk.
func (s *LevelSession) State() BallState { return s.state }

// Strokes counts applied shots since the level (re)loaded.
func (s *LevelSession) Strokes() int { return s.strokes }

// Captured reports whether the hole has fired for this level instance.
func (s *LevelSession) Captured() bool { return s.captured }

// Elapsed is the simulated time in seconds since the level (re)loaded.
func (s *LevelSession) Elapsed() float64 { return s.elapsed }

// OrbitEnabled reports whether camera orbit controls should respond. Aiming turns them off.
func (s *LevelSession) OrbitEnabled() bool {
	return s.orbitEnabled
}

// Moving reports whether the ball is rolling above the rest threshold.
func (s *LevelSession) Moving() bool {
	return s.state == BallRolling && s.ball.Velocity.Magnitude() > s.params.RestEpsilon
}

// Done reports whether the sink sequence has finished.
func (s *LevelSession) Done() bool {
	return s.state == BallSunk
}

// ObstaclePositions returns the current centre of every obstacle, in course order.
func (s *LevelSession) ObstaclePositions() []Vec3 {
	out := make([]Vec3, len(s.obstacles))
	for i := range s.obstacles {
		out[i] = s.obstacles[i].position
	}
	return out
}

// CameraTarget is the point a follow camera should look at.
func (s *LevelSession) CameraTarget() Vec3 {
	return s.cameraTarget
}

func (s *LevelSession) setOrbit(enabled bool) {
	if s.orbitEnabled == enabled {
		return
	}
	s.orbitEnabled = enabled
	if s.OnOrbitToggle != nil {
		s.OnOrbitToggle(enabled)
	}
}

func (s *LevelSession) emit(e Event) {
	s.pending = append(s.pending, e)
}

// updateCameraTarget eases the follow target toward the ball while it rolls
// and nobody is aiming. The per-frame factor is scaled to 60 fps.
func (s *LevelSession) updateCameraTarget(dt float64) {
	if !s.Moving() || s.aim.active() {
		return
	}
	k := 1 - math.Pow(1-CameraFollowRate, dt*60)
	s.cameraTarget = s.cameraTarget.Lerp(s.ball.Position.WithY(s.params.BallRadius), k)
}

// Snapshot is the read-only view a renderer needs for one frame.
type Snapshot struct {
	LevelID      int        `json:"level_id"`
	Ball         Ball       `json:"ball"`
	State        BallState  `json:"state"`
	Aim          AimPreview `json:"aim"`
	Obstacles    []Vec3     `json:"obstacles"`
	Strokes      int        `json:"strokes"`
	Par          int        `json:"par"`
	Captured     bool       `json:"captured"`
	OrbitEnabled bool       `json:"orbit_enabled"`
	CameraTarget Vec3       `json:"camera_target"`
	Elapsed      float64    `json:"elapsed"`
}

func (s *LevelSession) Snapshot() Snapshot {
	return Snapshot{
		LevelID:      s.course.ID,
		Ball:         s.ball,
		State:        s.state,
		Aim:          s.Aim(),
		Obstacles:    s.ObstaclePositions(),
		Strokes:      s.strokes,
		Par:          s.course.Par,
		Captured:     s.captured,
		OrbitEnabled: s.orbitEnabled,
		CameraTarget: s.cameraTarget,
		Elapsed:      s.elapsed,
	}
}
