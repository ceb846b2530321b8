package game

import "fmt"

// HoleScore is the result of one completed hole.
type HoleScore struct {
	LevelID int    `json:"level_id"`
	Name    string `json:"name"`
	Strokes int    `json:"strokes"`
	Par     int    `json:"par"`
	Score   int    `json:"score"` // strokes - par
	Label   string `json:"label"`
	Attempt int    `json:"attempt"` // completions of this hole in the run, latest counts
}

// Scorecard tracks the current hole and the running total over a run.
type Scorecard struct {
	CurrentHole int         `json:"current_hole"`
	HoleName    string      `json:"hole_name"`
	Strokes     int         `json:"strokes"`
	Par         int         `json:"par"`
	TotalScore  int         `json:"total_score"`
	Holes       []HoleScore `json:"holes"`
}

// SetHole moves the card to a hole and clears the stroke count.
func (s *Scorecard) SetHole(levelID int, name string, par int) {
	s.CurrentHole = levelID
	s.HoleName = name
	s.Par = par
	s.Strokes = 0
}

func (s *Scorecard) AddStroke() {
	s.Strokes++
}

// CompleteHole books the current hole into the total. Completing a hole
// that is already on the card (a retry) replaces the earlier result.
func (s *Scorecard) CompleteHole() HoleScore {
	h := HoleScore{
		LevelID: s.CurrentHole,
		Name:    s.HoleName,
		Strokes: s.Strokes,
		Par:     s.Par,
		Score:   s.Strokes - s.Par,
		Label:   ScoreLabel(s.Strokes, s.Par),
		Attempt: 1,
	}
	for i, prev := range s.Holes {
		if prev.LevelID == h.LevelID {
			h.Attempt = prev.Attempt + 1
			s.TotalScore += h.Score - prev.Score
			s.Holes[i] = h
			return h
		}
	}
	s.TotalScore += h.Score
	s.Holes = append(s.Holes, h)
	return h
}

// Copy returns a scorecard that shares no memory with s.
func (s *Scorecard) Copy() Scorecard {
	c := *s
	c.Holes = append([]HoleScore(nil), s.Holes...)
	return c
}

// ScoreLabel names a hole result the way golfers do.
func ScoreLabel(strokes, par int) string {
	if strokes == 1 {
		return "Hole in one"
	}
	switch d := strokes - par; {
	case d <= -3:
		return "Albatross"
	case d == -2:
		return "Eagle"
	case d == -1:
		return "Birdie"
	case d == 0:
		return "Par"
	case d == 1:
		return "Bogey"
	case d == 2:
		return "Double bogey"
	case d == 3:
		return "Triple bogey"
	default:
		return FormatScore(d)
	}
}

// FormatScore renders a relative score with an explicit sign: "+2", "+0", "-1".
func FormatScore(score int) string {
	if score >= 0 {
		return fmt.Sprintf("+%d", score)
	}
	return fmt.Sprintf("%d", score)
}
