package golf

import (
	"errors"
	"fmt"
	"math"
)

// ObstacleKind tags the obstacle variant.
type ObstacleKind string

const (
	ObstacleStatic      ObstacleKind = "static"
	ObstacleOscillating ObstacleKind = "oscillating"
)

// Obstacle is a box on the course. Oscillating obstacles slide along Axis by
// Amplitude·sin(phase), with phase advancing by Speed per second.
type Obstacle struct {
	Kind      ObstacleKind `json:"kind"`
	Center    Vec3         `json:"center"`
	HalfSize  Vec3         `json:"half_size"`
	Axis      Vec3         `json:"axis,omitempty"`
	Amplitude float64      `json:"amplitude,omitempty"`
	Speed     float64      `json:"speed,omitempty"`
	Phase     float64      `json:"phase,omitempty"`
}

// PositionAt returns the obstacle centre for a given phase.
func (o Obstacle) PositionAt(phase float64) Vec3 {
	if o.Kind != ObstacleOscillating {
		return o.Center
	}
	return o.Center.Plus(o.axis().Times(o.Amplitude * math.Sin(phase)))
}

func (o Obstacle) axis() Vec3 {
	if o.Axis.IsZero() {
		return Vec3{X: 1}
	}
	return o.Axis.Normalize()
}

// FlowZone is a rectangle of the course plane where the ball is carried along
// Direction at no less than Speed.
type FlowZone struct {
	Center    Vec3    `json:"center"`
	HalfX     float64 `json:"half_x"`
	HalfZ     float64 `json:"half_z"`
	Direction Vec3    `json:"direction"`
	Speed     float64 `json:"speed"`
}

// Contains uses open bounds: a ball exactly on the edge is outside.
func (f FlowZone) Contains(p Vec3) bool {
	return p.X > f.Center.X-f.HalfX && p.X < f.Center.X+f.HalfX &&
		p.Z > f.Center.Z-f.HalfZ && p.Z < f.Center.Z+f.HalfZ
}

// BoundaryMode decides what happens when the ball crosses the court edge.
type BoundaryMode string

const (
	BoundaryBounce  BoundaryMode = "bounce"
	BoundaryRespawn BoundaryMode = "respawn"
)

// Course is the static layout of one level.
type Course struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	HalfX         float64      `json:"half_x"`
	HalfZ         float64      `json:"half_z"`
	Hole          Vec3         `json:"hole"`
	CaptureRadius float64      `json:"capture_radius"`
	Spawn         Vec3         `json:"spawn"`
	Par           int          `json:"par"`
	Obstacles     []Obstacle   `json:"obstacles"`
	Flow          *FlowZone    `json:"flow,omitempty"`
	Boundary      BoundaryMode `json:"boundary"`
}

// Validate checks a course definition before a level instance is built from it.
func (c *Course) Validate() error {
	if c.HalfX <= 0 || c.HalfZ <= 0 {
		return errors.New("course bounds must be positive")
	}
	if c.CaptureRadius <= 0 {
		return errors.New("capture radius must be positive")
	}
	if c.Par < 1 {
		return fmt.Errorf("par must be at least 1, got %d", c.Par)
	}
	if !c.InBounds(c.Spawn) {
		return fmt.Errorf("spawn (%.2f, %.2f) is outside the court", c.Spawn.X, c.Spawn.Z)
	}
	if !c.InBounds(c.Hole) {
		return fmt.Errorf("hole (%.2f, %.2f) is outside the court", c.Hole.X, c.Hole.Z)
	}
	switch c.Boundary {
	case BoundaryBounce, BoundaryRespawn:
	default:
		return fmt.Errorf("unknown boundary mode %q", c.Boundary)
	}
	for i, o := range c.Obstacles {
		if o.HalfSize.X <= 0 || o.HalfSize.Y <= 0 || o.HalfSize.Z <= 0 {
			return fmt.Errorf("obstacle %d has a non-positive size", i)
		}
		switch o.Kind {
		case ObstacleStatic:
		case ObstacleOscillating:
			if o.Amplitude < 0 {
				return fmt.Errorf("obstacle %d has a negative amplitude", i)
			}
		default:
			return fmt.Errorf("obstacle %d has unknown kind %q", i, o.Kind)
		}
	}
	if c.Flow != nil && (c.Flow.HalfX <= 0 || c.Flow.HalfZ <= 0 || c.Flow.Direction.IsZero()) {
		return errors.New("flow zone needs a positive size and a direction")
	}
	return nil
}

// InBounds reports whether p lies inside the court rectangle (edges included).
func (c *Course) InBounds(p Vec3) bool {
	return p.X >= -c.HalfX && p.X <= c.HalfX && p.Z >= -c.HalfZ && p.Z <= c.HalfZ
}
