package admin

import (
	"fmt"
	"math"
	"strconv"

	"github.com/minigolfstudio/backend/internal/golf"
	"github.com/minigolfstudio/backend/internal/models"
)

type tunable struct {
	min, max float64
	apply    func(p *golf.Params, v float64)
}

// Physics parameters an operator may override at runtime. Everything else
// in golf.Params stays at its default.
var tunables = map[string]tunable{
	"power_multiplier": {0.5, 20, func(p *golf.Params, v float64) { p.PowerMultiplier = v }},
	"max_drag":         {1, 20, func(p *golf.Params, v float64) { p.MaxDrag = v }},
	"aim_radius":       {0.3, 5, func(p *golf.Params, v float64) { p.AimRadius = v }},
	"deceleration":     {0, 10, func(p *golf.Params, v float64) { p.Deceleration = v }},
	"wall_restitution": {0, 1, func(p *golf.Params, v float64) { p.WallRestitution = v }},
	"obstacle_damping": {0, 1, func(p *golf.Params, v float64) { p.ObstacleDamping = v }},
}

const previewKey = "preview"

// ValidateValue checks a runtime config value before it is stored.
func ValidateValue(key, value string) error {
	if key == previewKey {
		switch golf.PreviewMode(value) {
		case golf.PreviewStraight, golf.PreviewSimulated:
			return nil
		}
		return fmt.Errorf("invalid preview mode: %s (must be '%s' or '%s')", value, golf.PreviewStraight, golf.PreviewSimulated)
	}

	t, ok := tunables[key]
	if !ok {
		return fmt.Errorf("config key not tunable: %s", key)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid float value: %s", value)
	}
	if v < t.min || v > t.max {
		return fmt.Errorf("%s must be between %g and %g, got %g", key, t.min, t.max, v)
	}
	return nil
}

// ApplyRuntimeConfig layers stored overrides on top of base. Rows that no
// longer validate are skipped. It returns the result and how many rows applied.
func ApplyRuntimeConfig(configs []models.RuntimeConfig, base golf.Params) (golf.Params, int) {
	p := base
	applied := 0
	for _, c := range configs {
		if err := ValidateValue(c.Key, c.Value); err != nil {
			continue
		}
		if c.Key == previewKey {
			p.Preview = golf.PreviewMode(c.Value)
			applied++
			continue
		}
		v, _ := strconv.ParseFloat(c.Value, 64)
		tunables[c.Key].apply(&p, v)
		applied++
	}
	return p, applied
}
