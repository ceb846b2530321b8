package tui

import (
	"math"
	"testing"

	"github.com/minigolfstudio/backend/internal/golf"
)

func warmup(t *testing.T) golf.Course {
	t.Helper()
	c, err := golf.LevelByID(1)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestViewportFitsStandardTerminal(t *testing.T) {
	vp, ok := NewViewport(80, 24, warmup(t))
	if !ok {
		t.Fatal("80x24 should fit the court")
	}
	if vp.Cols != 28 || vp.Rows != 20 {
		t.Errorf("expected a 28x20 court, got %dx%d", vp.Cols, vp.Rows)
	}
	if vp.Left != 26 || vp.Top != 2 {
		t.Errorf("expected the court at (26,2), got (%d,%d)", vp.Left, vp.Top)
	}
}

func TestViewportTooSmall(t *testing.T) {
	if _, ok := NewViewport(10, 6, warmup(t)); ok {
		t.Error("a 10x6 terminal cannot hold the court")
	}
}

func TestViewportRoundTrip(t *testing.T) {
	c := warmup(t)
	vp, _ := NewViewport(80, 24, c)

	x, y := vp.ToCell(c.Spawn)
	if x != 40 || y != 20 {
		t.Errorf("spawn should land on (40,20), got (%d,%d)", x, y)
	}
	hx, hy := vp.ToCell(c.Hole)
	if hx != 40 || hy != 4 {
		t.Errorf("hole should land on (40,4), got (%d,%d)", hx, hy)
	}

	p, ok := vp.ToCourse(x, y)
	if !ok {
		t.Fatal("spawn cell should be on the court")
	}
	if math.Abs(p.X-0.25) > 1e-9 || math.Abs(p.Z-8.5) > 1e-9 || p.Y != 0 {
		t.Errorf("unexpected cell centre %+v", p)
	}
	if p.PlanarDistance(c.Spawn) >= golf.AimRadius {
		t.Error("clicking the ball's cell must start an aim")
	}
}

func TestViewportOffCourt(t *testing.T) {
	vp, _ := NewViewport(80, 24, warmup(t))
	for _, cell := range [][2]int{{0, 0}, {25, 10}, {54, 10}, {40, 1}, {40, 22}} {
		if _, ok := vp.ToCourse(cell[0], cell[1]); ok {
			t.Errorf("cell %v should be off the court", cell)
		}
	}
	// Points past the edge clamp onto the border cells.
	x, y := vp.ToCell(golf.NewVec3(100, 0, -100))
	if x != vp.Left+vp.Cols-1 || y != vp.Top {
		t.Errorf("expected clamp to the far right corner, got (%d,%d)", x, y)
	}
}
