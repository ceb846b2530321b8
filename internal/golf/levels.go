package golf

import (
	"errors"
	"math"
)

// Court dimensions shared by every shipped level (14 × 20 units).
const (
	CourtHalfX = 7.0
	CourtHalfZ = 10.0
)

// ErrUnknownLevel is returned for level IDs outside the catalogue.
var ErrUnknownLevel = errors.New("unknown level")

func box(x, z, w, d float64) Obstacle {
	return Obstacle{
		Kind:     ObstacleStatic,
		Center:   NewVec3(x, 0.5, z),
		HalfSize: NewVec3(w/2, 0.5, d/2),
	}
}

func slider(z, speed, phase float64) Obstacle {
	return Obstacle{
		Kind:      ObstacleOscillating,
		Center:    NewVec3(0, 0.5, z),
		HalfSize:  NewVec3(1, 0.5, 1),
		Axis:      NewVec3(1, 0, 0),
		Amplitude: CourtHalfX - 1.5,
		Speed:     speed,
		Phase:     phase,
	}
}

func baseCourse(id int, name string, par int) Course {
	return Course{
		ID:            id,
		Name:          name,
		HalfX:         CourtHalfX,
		HalfZ:         CourtHalfZ,
		Hole:          NewVec3(0, 0, -CourtHalfZ+2),
		CaptureRadius: CaptureRadius,
		Spawn:         NewVec3(0, BallRadius, CourtHalfZ-2),
		Par:           par,
		Boundary:      BoundaryBounce,
	}
}

// catalogue builds the level list. Each call returns fresh values so callers
// can never share obstacle slices.
func catalogue() []Course {
	warmup := baseCourse(1, "Warm-up", 3)
	warmup.Obstacles = []Obstacle{box(0, 0, 2, 2)}

	alley := baseCourse(2, "Pendulum Alley", 3)
	alley.Obstacles = []Obstacle{
		slider(-6, 1.5, 0),
		slider(-3, 2.0, math.Pi/2),
		slider(0, 1.2, math.Pi),
		slider(3, 1.8, math.Pi*1.5),
	}

	river := baseCourse(3, "River Crossing", 3)
	river.Boundary = BoundaryRespawn
	river.Flow = &FlowZone{
		Center:    NewVec3(0, 0, 0),
		HalfX:     CourtHalfX,
		HalfZ:     1.5,
		Direction: NewVec3(1, 0, 0),
		Speed:     4,
	}

	barrier := baseCourse(4, "Barrier", 3)
	barrier.Hole = NewVec3(5.5, 0, -7)
	barrier.Obstacles = []Obstacle{
		box(0, -2, 10, 0.3),
		box(2, 3, 2, 0.6),
	}

	gauntlet := baseCourse(5, "Gauntlet", 4)
	gauntlet.Hole = NewVec3(-6, 0, -7)
	gauntlet.Obstacles = []Obstacle{
		box(0, 2, 12, 0.3),
		box(-3, -3, 2, 0.6),
		box(4, -4, 1.5, 0.6),
	}

	return []Course{warmup, alley, river, barrier, gauntlet}
}

// Levels returns every shipped course in menu order.
func Levels() []Course {
	return catalogue()
}

// LevelByID returns a copy of one course.
func LevelByID(id int) (Course, error) {
	for _, c := range catalogue() {
		if c.ID == id {
			return c, nil
		}
	}
	return Course{}, ErrUnknownLevel
}
