package golf

// Physics and aiming constants. Distances are course units, times are seconds.
const (
	BallRadius      = 0.3
	CaptureRadius   = 0.5
	AimRadius       = 1.2
	MaxDrag         = 6.0
	PowerMultiplier = 5.0

	Deceleration     = 1.5 // speed lost per second
	WallRestitution  = 0.7
	ObstacleDamping  = 0.6
	RestEpsilon      = 1e-3
	SinkEaseRate     = 6.0
	SinkFallRate     = 1.5
	DespawnDepth     = -1.0
	PreviewSmoothing = 0.35
	DotSpacing       = 0.25
	MaxDots          = 40
	PreviewSimStep   = 0.06
	CameraFollowRate = 0.08
)

// PreviewMode selects how aim dots are laid out.
type PreviewMode string

const (
	PreviewStraight  PreviewMode = "straight"  // evenly spaced along the aim segment
	PreviewSimulated PreviewMode = "simulated" // friction-only forward simulation of the shot
)

// Params tunes one LevelSession. DefaultParams matches the shipped levels.
type Params struct {
	BallRadius       float64     `json:"ball_radius"`
	AimRadius        float64     `json:"aim_radius"`
	MaxDrag          float64     `json:"max_drag"`
	PowerMultiplier  float64     `json:"power_multiplier"`
	Deceleration     float64     `json:"deceleration"`
	WallRestitution  float64     `json:"wall_restitution"`
	ObstacleDamping  float64     `json:"obstacle_damping"`
	RestEpsilon      float64     `json:"rest_epsilon"`
	SinkEaseRate     float64     `json:"sink_ease_rate"`
	SinkFallRate     float64     `json:"sink_fall_rate"`
	DespawnDepth     float64     `json:"despawn_depth"`
	PreviewSmoothing float64     `json:"preview_smoothing"`
	DotSpacing       float64     `json:"dot_spacing"`
	MaxDots          int         `json:"max_dots"`
	Preview          PreviewMode `json:"preview"`
}

func DefaultParams() Params {
	return Params{
		BallRadius:       BallRadius,
		AimRadius:        AimRadius,
		MaxDrag:          MaxDrag,
		PowerMultiplier:  PowerMultiplier,
		Deceleration:     Deceleration,
		WallRestitution:  WallRestitution,
		ObstacleDamping:  ObstacleDamping,
		RestEpsilon:      RestEpsilon,
		SinkEaseRate:     SinkEaseRate,
		SinkFallRate:     SinkFallRate,
		DespawnDepth:     DespawnDepth,
		PreviewSmoothing: PreviewSmoothing,
		DotSpacing:       DotSpacing,
		MaxDots:          MaxDots,
		Preview:          PreviewStraight,
	}
}
