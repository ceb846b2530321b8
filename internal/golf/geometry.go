package golf

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoxAround builds a box from its centre and half-size.
func BoxAround(center, halfSize Vec3) Box {
	return Box{Min: center.Minus(halfSize), Max: center.Plus(halfSize)}
}

// IntersectsSphere reports whether the sphere touches or overlaps the box.
func (b Box) IntersectsSphere(center Vec3, radius float64) bool {
	// Closest point on the box to the sphere centre.
	cx := math.Max(b.Min.X, math.Min(center.X, b.Max.X))
	cy := math.Max(b.Min.Y, math.Min(center.Y, b.Max.Y))
	cz := math.Max(b.Min.Z, math.Min(center.Z, b.Max.Z))

	dx := center.X - cx
	dy := center.Y - cy
	dz := center.Z - cz
	return dx*dx+dy*dy+dz*dz <= radius*radius
}

// Ray is a half-line from Origin along Direction (normalized).
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

const parallelEpsilon = 1e-9

// IntersectPlaneY returns where the ray crosses the horizontal plane y = planeY.
// ok is false when the ray is parallel to the plane or points away from it.
func (r Ray) IntersectPlaneY(planeY float64) (Vec3, bool) {
	denom := r.Direction.Y
	if math.Abs(denom) < parallelEpsilon {
		return Vec3{}, false
	}
	t := (planeY - r.Origin.Y) / denom
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return Vec3{}, false
	}
	p := r.Origin.Plus(r.Direction.Times(t))
	p.Y = planeY
	return p, true
}

// Camera is a perspective camera looking at Target. FovY is in degrees.
type Camera struct {
	Position Vec3    `json:"position"`
	Target   Vec3    `json:"target"`
	Up       Vec3    `json:"up"`
	FovY     float64 `json:"fov_y"`
}

// ScreenRay builds the world-space ray through pixel (x, y) of a width×height viewport.
// Pixel (0, 0) is the top-left corner.
func (c Camera) ScreenRay(x, y, width, height float64) (Ray, bool) {
	if width <= 0 || height <= 0 {
		return Ray{}, false
	}
	forward := c.Target.Minus(c.Position).Normalize()
	if forward.IsZero() {
		return Ray{}, false
	}
	up := c.Up
	if up.IsZero() {
		up = Vec3{Y: 1}
	}
	right := forward.Cross(up).Normalize()
	if right.IsZero() {
		return Ray{}, false
	}
	trueUp := right.Cross(forward)

	ndcX := (x/width)*2 - 1
	ndcY := -(y/height)*2 + 1
	tanHalf := math.Tan(c.FovY * math.Pi / 360)
	aspect := width / height

	dir := forward.
		Plus(right.Times(ndcX * tanHalf * aspect)).
		Plus(trueUp.Times(ndcY * tanHalf)).
		Normalize()
	return Ray{Origin: c.Position, Direction: dir}, true
}

// ProjectToCourse maps a pointer position to the course plane (y = 0).
func (c Camera) ProjectToCourse(x, y, width, height float64) (Vec3, bool) {
	ray, ok := c.ScreenRay(x, y, width, height)
	if !ok {
		return Vec3{}, false
	}
	return ray.IntersectPlaneY(0)
}
