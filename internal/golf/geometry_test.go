package golf

import (
	"math"
	"testing"
)

func TestBoxIntersectsSphere(t *testing.T) {
	b := BoxAround(NewVec3(0, 0.5, 0), NewVec3(1, 0.5, 1))
	cases := []struct {
		name   string
		center Vec3
		want   bool
	}{
		{"inside", NewVec3(0, 0.3, 0), true},
		{"touching face", NewVec3(1.29, 0.3, 0), true},
		{"clear of face", NewVec3(1.31, 0.3, 0), false},
		{"near corner", NewVec3(1.2, 0.3, 1.2), true},
		{"past corner", NewVec3(1.25, 0.3, 1.25), false},
		{"above", NewVec3(0, 1.4, 0), false},
	}
	for _, tc := range cases {
		if got := b.IntersectsSphere(tc.center, 0.3); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIntersectPlaneY(t *testing.T) {
	down := Ray{Origin: NewVec3(1, 5, 2), Direction: NewVec3(0, -1, 0)}
	p, ok := down.IntersectPlaneY(0)
	if !ok || p != NewVec3(1, 0, 2) {
		t.Errorf("expected (1,0,2), got %+v ok=%v", p, ok)
	}

	flat := Ray{Origin: NewVec3(0, 5, 0), Direction: NewVec3(1, 0, 0)}
	if _, ok := flat.IntersectPlaneY(0); ok {
		t.Error("parallel ray should miss")
	}

	up := Ray{Origin: NewVec3(0, 5, 0), Direction: NewVec3(0, 1, 0)}
	if _, ok := up.IntersectPlaneY(0); ok {
		t.Error("ray pointing away should miss")
	}
}

func TestCameraProjectToCourse(t *testing.T) {
	cam := Camera{
		Position: NewVec3(0, 10, 0),
		Target:   NewVec3(0, 0, 0),
		Up:       NewVec3(0, 0, -1),
		FovY:     60,
	}

	p, ok := cam.ProjectToCourse(300, 300, 600, 600)
	if !ok || math.Abs(p.X) > 1e-9 || math.Abs(p.Z) > 1e-9 {
		t.Fatalf("centre pixel should hit the origin, got %+v ok=%v", p, ok)
	}

	p, ok = cam.ProjectToCourse(600, 300, 600, 600)
	want := 10 * math.Tan(math.Pi/6)
	if !ok || math.Abs(p.X-want) > 1e-9 || math.Abs(p.Z) > 1e-9 {
		t.Errorf("right edge should hit x=%f, got %+v", want, p)
	}

	// Top of the screen is the far end of the course.
	p, ok = cam.ProjectToCourse(300, 0, 600, 600)
	if !ok || p.Z >= 0 {
		t.Errorf("top edge should map to -z, got %+v", p)
	}

	if _, ok := cam.ProjectToCourse(0, 0, 0, 600); ok {
		t.Error("zero-sized viewport should miss")
	}
}
