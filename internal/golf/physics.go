package golf

import "math"

// Tick advances the level by dt seconds and returns the events produced since
// the previous call, including strokes taken by pointer gestures in between.
func (s *LevelSession) Tick(dt float64) []Event {
	if dt > 0 && !math.IsInf(dt, 0) {
		s.elapsed += dt
		s.advanceObstacles(dt)

		switch s.state {
		case BallSinking:
			s.stepSinking(dt)
		case BallRolling:
			s.stepRolling(dt)
		}
		s.updateCameraTarget(dt)
	}

	events := s.pending
	s.pending = nil
	return events
}

// advanceObstacles moves oscillating obstacles. Their position depends only
// on accumulated time, never on the ball.
func (s *LevelSession) advanceObstacles(dt float64) {
	for i := range s.obstacles {
		o := &s.obstacles[i]
		if o.def.Kind != ObstacleOscillating {
			continue
		}
		o.phase += o.def.Speed * dt
		o.position = o.def.PositionAt(o.phase)
	}
}

func (s *LevelSession) stepRolling(dt float64) {
	b := &s.ball

	if s.course.Flow != nil && s.course.Flow.Contains(b.Position) {
		s.applyFlow(*s.course.Flow)
	}

	if b.Velocity.Magnitude() <= s.params.RestEpsilon {
		b.Velocity = Vec3{}
		return
	}

	b.Velocity = applyFriction(b.Velocity, s.params.Deceleration, dt)
	b.Position = b.Position.Plus(b.Velocity.Times(dt))

	if s.course.Boundary == BoundaryRespawn {
		if !s.course.InBounds(b.Position) {
			b.Position = s.course.Spawn.WithY(s.params.BallRadius)
			b.Velocity = Vec3{}
			s.emit(Event{Type: EventBallRespawned})
			return
		}
	} else {
		s.resolveBoundary()
	}

	s.resolveObstacles(dt)
	s.containInCourt()
	s.checkCapture()
}

// applyFlow raises the velocity component along the flow direction to at least the flow speed.
func (s *LevelSession) applyFlow(f FlowZone) {
	dir := f.Direction.Planar().Normalize()
	along := s.ball.Velocity.Dot(dir)
	if along < f.Speed {
		s.ball.Velocity = s.ball.Velocity.Plus(dir.Times(f.Speed - along))
	}
}

// applyFriction is the linear deceleration model: speed drops by rate·dt and
// is floored at zero, so direction never reverses.
func applyFriction(v Vec3, rate, dt float64) Vec3 {
	speed := v.Magnitude()
	if speed == 0 {
		return Vec3{}
	}
	next := speed - rate*dt
	if next <= 0 {
		return Vec3{}
	}
	return v.WithLength(next)
}

// resolveBoundary clamps the ball to each crossed court edge and reflects that
// velocity component with wall restitution.
func (s *LevelSession) resolveBoundary() {
	b := &s.ball
	hx, hz := s.course.HalfX, s.course.HalfZ
	r := s.params.WallRestitution

	hit := false
	if b.Position.X < -hx {
		b.Position.X = -hx
		b.Velocity.X *= -r
		hit = true
	} else if b.Position.X > hx {
		b.Position.X = hx
		b.Velocity.X *= -r
		hit = true
	}
	if b.Position.Z < -hz {
		b.Position.Z = -hz
		b.Velocity.Z *= -r
		hit = true
	} else if b.Position.Z > hz {
		b.Position.Z = hz
		b.Velocity.Z *= -r
		hit = true
	}
	if hit {
		s.emit(Event{Type: EventWallHit, Speed: b.Velocity.Magnitude()})
	}
}

// resolveObstacles applies the bounce-back response to every overlapping box in
// list order: velocity is reversed and damped, then the ball is moved along the
// new velocity for this frame. This is not a penetration-depth resolution.
func (s *LevelSession) resolveObstacles(dt float64) {
	b := &s.ball
	for i := range s.obstacles {
		if !s.obstacles[i].bounds().IntersectsSphere(b.Position, b.Radius) {
			continue
		}
		impact := b.Velocity.Magnitude()
		b.Velocity = b.Velocity.Invert().Times(s.params.ObstacleDamping)
		b.Position = b.Position.Plus(b.Velocity.Times(dt))
		s.emit(Event{Type: EventObstacleHit, Obstacle: i, Speed: impact})
	}
}

// containInCourt keeps the position inside the court after obstacle pushes.
// Velocity is left alone.
func (s *LevelSession) containInCourt() {
	p := &s.ball.Position
	p.X = math.Max(-s.course.HalfX, math.Min(s.course.HalfX, p.X))
	p.Z = math.Max(-s.course.HalfZ, math.Min(s.course.HalfZ, p.Z))
}

// checkCapture fires at most once per level instance.
func (s *LevelSession) checkCapture() {
	if s.captured {
		return
	}
	if s.ball.Position.PlanarDistance(s.course.Hole) >= s.course.CaptureRadius {
		return
	}
	s.captured = true
	s.state = BallSinking
	s.ball.Velocity = Vec3{}
	s.cancelAim()
	s.emit(Event{Type: EventHoleCaptured, Strokes: s.strokes})
}

// stepSinking eases the ball toward the hole centre and drops it until it
// passes the despawn depth.
func (s *LevelSession) stepSinking(dt float64) {
	b := &s.ball
	b.Velocity = Vec3{}

	k := 1 - math.Exp(-s.params.SinkEaseRate*dt)
	b.Position.X += (s.course.Hole.X - b.Position.X) * k
	b.Position.Z += (s.course.Hole.Z - b.Position.Z) * k
	b.Position.Y -= s.params.SinkFallRate * dt

	if b.Position.Y < s.params.DespawnDepth {
		b.Visible = false
		s.state = BallSunk
		s.emit(Event{Type: EventBallSunk})
	}
}

// PredictPath runs a friction-only forward simulation of a shot from start
// with initial velocity vel. Walls and obstacles are ignored.
func PredictPath(start, vel Vec3, p Params, steps int) []Vec3 {
	points := make([]Vec3, 0, steps)
	pos := start
	for i := 0; i < steps; i++ {
		if vel.Magnitude() <= p.RestEpsilon {
			break
		}
		pos = pos.Plus(vel.Times(PreviewSimStep))
		points = append(points, pos.WithY(p.BallRadius))
		vel = applyFriction(vel, p.Deceleration, PreviewSimStep)
	}
	return points
}
