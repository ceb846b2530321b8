package tui

import (
	"math"

	"github.com/minigolfstudio/backend/internal/golf"
)

// Terminal cells are roughly twice as tall as they are wide, so one course
// unit spans twice as many columns as rows.
const cellAspect = 2.0

// Viewport maps the course plane onto a block of terminal cells. Row 0 of
// the block is the far (negative z) end of the court.
type Viewport struct {
	Left, Top  int // first cell inside the court border
	Cols, Rows int
	HalfX      float64
	HalfZ      float64
	scale      float64 // rows per course unit
}

// NewViewport fits a course into a screen, leaving a status line above and
// below and a one-cell border. ok is false when the terminal is too small.
func NewViewport(screenW, screenH int, c golf.Course) (Viewport, bool) {
	availCols := screenW - 2
	availRows := screenH - 4
	if availCols <= 0 || availRows <= 0 || c.HalfX <= 0 || c.HalfZ <= 0 {
		return Viewport{}, false
	}
	scale := math.Min(float64(availRows)/(2*c.HalfZ), float64(availCols)/(2*c.HalfX*cellAspect))
	cols := int(math.Floor(2 * c.HalfX * cellAspect * scale))
	rows := int(math.Floor(2 * c.HalfZ * scale))
	if cols < 8 || rows < 8 {
		return Viewport{}, false
	}
	return Viewport{
		Left:  (screenW - cols) / 2,
		Top:   2 + (availRows-rows)/2,
		Cols:  cols,
		Rows:  rows,
		HalfX: c.HalfX,
		HalfZ: c.HalfZ,
		scale: scale,
	}, true
}

// ToCell returns the cell a course point falls in.
func (v Viewport) ToCell(p golf.Vec3) (int, int) {
	col := int(math.Floor((p.X + v.HalfX) * v.scale * cellAspect))
	row := int(math.Floor((p.Z + v.HalfZ) * v.scale))
	if col >= v.Cols {
		col = v.Cols - 1
	}
	if row >= v.Rows {
		row = v.Rows - 1
	}
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}
	return v.Left + col, v.Top + row
}

// ToCourse returns the course-plane point at the centre of a cell. ok is
// false for cells outside the court, the terminal version of a pointer ray
// that misses the ground.
func (v Viewport) ToCourse(x, y int) (golf.Vec3, bool) {
	col, row := x-v.Left, y-v.Top
	if col < 0 || row < 0 || col >= v.Cols || row >= v.Rows {
		return golf.Vec3{}, false
	}
	px := (float64(col)+0.5)/(v.scale*cellAspect) - v.HalfX
	pz := (float64(row)+0.5)/v.scale - v.HalfZ
	return golf.NewVec3(px, 0, pz), true
}
