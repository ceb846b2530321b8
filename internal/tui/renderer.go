package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/minigolfstudio/backend/internal/game"
	"github.com/minigolfstudio/backend/internal/golf"
)

const (
	BallChar     = '●'
	SinkingChar  = '•'
	HoleChar     = 'O'
	ObstacleChar = '█'
	FlowChar     = '~'
	DotChar      = '·'
	AimEndChar   = '+'
)

var (
	turfStyle     = tcell.StyleDefault.Background(tcell.ColorDarkGreen).Foreground(tcell.ColorWhite)
	borderStyle   = tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
	holeStyle     = turfStyle.Foreground(tcell.ColorBlack).Bold(true)
	obstacleStyle = turfStyle.Foreground(tcell.ColorSilver)
	flowStyle     = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorAqua)
	ballStyle     = turfStyle.Foreground(tcell.ColorWhite).Bold(true)
	aimStyle      = turfStyle.Foreground(tcell.ColorYellow)
	statusStyle   = tcell.StyleDefault.Background(tcell.ColorDarkGray).Foreground(tcell.ColorWhite)
	hintStyle     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Renderer draws the menu and the level from session snapshots
type Renderer struct {
	screen *Screen
}

func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// RenderMenu draws the level select screen.
func (r *Renderer) RenderMenu(levels []golf.Course, selected int, card game.Scorecard) {
	r.screen.Clear()
	screenW, screenH := r.screen.Size()

	title := "=== MINIGOLF ==="
	r.screen.DrawText((screenW-len(title))/2, 1, title, tcell.StyleDefault.Bold(true).Foreground(tcell.ColorGreen))

	r.screen.DrawText(4, 3, "Choose a hole:", hintStyle)
	for i, l := range levels {
		style := tcell.StyleDefault
		marker := "  "
		if i == selected {
			style = style.Foreground(tcell.ColorYellow).Bold(true)
			marker = "> "
		}
		line := fmt.Sprintf("%s%d. %-18s par %d", marker, l.ID, l.Name, l.Par)
		if best := bestOn(card, l.ID); best > 0 {
			line += fmt.Sprintf("   last %d", best)
		}
		r.screen.DrawText(4, 5+i, line, style)
	}

	if len(card.Holes) > 0 {
		total := fmt.Sprintf("Total: %s over %d holes", game.FormatScore(card.TotalScore), len(card.Holes))
		r.screen.DrawText(4, 6+len(levels), total, tcell.StyleDefault.Foreground(tcell.ColorTeal))
	}

	r.screen.DrawText(4, screenH-2, "up/down: choose  enter: play  q: quit", hintStyle)
	r.screen.Show()
}

func bestOn(card game.Scorecard, levelID int) int {
	strokes := 0
	for _, h := range card.Holes {
		if h.LevelID == levelID {
			strokes = h.Strokes
		}
	}
	return strokes
}

// RenderLevel draws one frame of a level. message replaces the key hints
// on the bottom line when set.
func (r *Renderer) RenderLevel(course golf.Course, snap golf.Snapshot, card game.Scorecard, message string) {
	r.screen.Clear()
	screenW, screenH := r.screen.Size()

	vp, ok := NewViewport(screenW, screenH, course)
	if !ok {
		r.screen.DrawText(0, 0, "Terminal too small", tcell.StyleDefault.Foreground(tcell.ColorRed))
		r.screen.Show()
		return
	}

	r.renderStatus(screenW, card, snap)

	r.screen.DrawBox(vp.Left-1, vp.Top-1, vp.Cols+2, vp.Rows+2, borderStyle)
	r.screen.FillRect(vp.Left, vp.Top, vp.Cols, vp.Rows, turfStyle, ' ')

	if course.Flow != nil {
		r.fillCells(vp, course.Flow.Contains, flowStyle, FlowChar)
	}

	for i, pos := range snap.Obstacles {
		if i >= len(course.Obstacles) {
			break
		}
		box := golf.BoxAround(pos, course.Obstacles[i].HalfSize)
		r.fillCells(vp, func(p golf.Vec3) bool {
			return p.X >= box.Min.X && p.X <= box.Max.X && p.Z >= box.Min.Z && p.Z <= box.Max.Z
		}, obstacleStyle, ObstacleChar)
	}

	hx, hy := vp.ToCell(course.Hole)
	r.screen.SetCell(hx, hy, holeStyle, HoleChar)

	if snap.Aim.Active {
		for _, d := range snap.Aim.Dots {
			if !course.InBounds(d) {
				continue
			}
			x, y := vp.ToCell(d)
			r.screen.SetCell(x, y, aimStyle, DotChar)
		}
		if course.InBounds(snap.Aim.End) {
			x, y := vp.ToCell(snap.Aim.End)
			r.screen.SetCell(x, y, aimStyle, AimEndChar)
		}
	}

	if snap.Ball.Visible {
		bx, by := vp.ToCell(snap.Ball.Position)
		ch := BallChar
		if snap.State == golf.BallSinking {
			ch = SinkingChar
		}
		r.screen.SetCell(bx, by, ballStyle, ch)
	}

	if message == "" {
		message = "drag from the ball to aim, release to putt   r: restart  m: menu  q: quit"
		if snap.Aim.Active {
			message = fmt.Sprintf("power %3.0f%%", snap.Aim.Power*100)
		}
	}
	r.screen.DrawText(1, screenH-1, message, hintStyle)
	r.screen.Show()
}

func (r *Renderer) renderStatus(screenW int, card game.Scorecard, snap golf.Snapshot) {
	for x := 0; x < screenW; x++ {
		r.screen.SetCell(x, 0, statusStyle, ' ')
	}
	status := fmt.Sprintf(" Hole %d: %s   Par %d   Strokes %d   Total %s   %s",
		card.CurrentHole, card.HoleName, card.Par, snap.Strokes,
		game.FormatScore(card.TotalScore), formatElapsed(snap.Elapsed))
	r.screen.DrawText(0, 0, status, statusStyle)
}

// fillCells paints every court cell whose centre satisfies inside.
func (r *Renderer) fillCells(vp Viewport, inside func(golf.Vec3) bool, style tcell.Style, ch rune) {
	for row := 0; row < vp.Rows; row++ {
		for col := 0; col < vp.Cols; col++ {
			x, y := vp.Left+col, vp.Top+row
			p, ok := vp.ToCourse(x, y)
			if ok && inside(p) {
				r.screen.SetCell(x, y, style, ch)
			}
		}
	}
}

func formatElapsed(sec float64) string {
	s := int(math.Floor(sec))
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
