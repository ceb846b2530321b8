package admin

import (
	"testing"

	"github.com/minigolfstudio/backend/internal/golf"
	"github.com/minigolfstudio/backend/internal/models"
)

func TestValidateValue(t *testing.T) {
	tests := []struct {
		key, value string
		ok         bool
	}{
		{"power_multiplier", "7.5", true},
		{"power_multiplier", "0.1", false},
		{"power_multiplier", "fast", false},
		{"power_multiplier", "NaN", false},
		{"max_drag", "nan", false},
		{"deceleration", "+Inf", false},
		{"wall_restitution", "-Inf", false},
		{"wall_restitution", "1", true},
		{"wall_restitution", "1.2", false},
		{"deceleration", "0", true},
		{"preview", "simulated", true},
		{"preview", "curved", false},
		{"ball_radius", "0.5", false},
	}
	for _, tt := range tests {
		err := ValidateValue(tt.key, tt.value)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateValue(%s, %s) error = %v, want ok=%v", tt.key, tt.value, err, tt.ok)
		}
	}
}

func TestApplyRuntimeConfig(t *testing.T) {
	base := golf.DefaultParams()
	p, n := ApplyRuntimeConfig([]models.RuntimeConfig{
		{Key: "power_multiplier", Value: "8"},
		{Key: "wall_restitution", Value: "0.5"},
		{Key: "preview", Value: "simulated"},
		{Key: "deceleration", Value: "-3"},
		{Key: "unknown", Value: "1"},
		{Key: "max_drag", Value: "NaN"},
	}, base)

	if n != 3 {
		t.Errorf("expected 3 overrides applied, got %d", n)
	}
	if p.PowerMultiplier != 8 || p.WallRestitution != 0.5 || p.Preview != golf.PreviewSimulated {
		t.Errorf("overrides not applied: %+v", p)
	}
	if p.MaxDrag != base.MaxDrag {
		t.Errorf("NaN override should be ignored, max_drag=%v", p.MaxDrag)
	}
	if p.Deceleration != base.Deceleration {
		t.Errorf("invalid row should be ignored, deceleration=%v", p.Deceleration)
	}
	if base.PowerMultiplier != golf.PowerMultiplier {
		t.Error("base params were modified")
	}
}

func TestStoreWithoutDB(t *testing.T) {
	s := NewStore(nil)
	if _, err := s.GetAllRuntimeConfig(); err != ErrNoDatabase {
		t.Errorf("expected ErrNoDatabase, got %v", err)
	}
	if err := s.UpdateRuntimeConfigValue("max_drag", "abc", "ops"); err == nil || err == ErrNoDatabase {
		t.Errorf("validation should run before the database check, got %v", err)
	}
	if err := s.UpdateRuntimeConfigValue("max_drag", "8", "ops"); err != ErrNoDatabase {
		t.Errorf("expected ErrNoDatabase, got %v", err)
	}
	s.LogAdminAction("ops", "127.0.0.1", "/", "noop", nil, true)
}
