package game

import "testing"

func TestScorecardTotals(t *testing.T) {
	var card Scorecard
	card.SetHole(1, "Warm-up", 3)
	card.AddStroke()
	card.AddStroke()
	first := card.CompleteHole()
	if first.Score != -1 || first.Label != "Birdie" {
		t.Errorf("expected birdie, got %+v", first)
	}

	card.SetHole(2, "Pendulum Alley", 3)
	if card.Strokes != 0 {
		t.Errorf("strokes should reset on a new hole, got %d", card.Strokes)
	}
	for i := 0; i < 5; i++ {
		card.AddStroke()
	}
	second := card.CompleteHole()
	if second.Score != 2 || second.Label != "Double bogey" {
		t.Errorf("expected double bogey, got %+v", second)
	}

	if card.TotalScore != 1 {
		t.Errorf("expected total +1, got %d", card.TotalScore)
	}
	if len(card.Holes) != 2 {
		t.Errorf("expected 2 holes booked, got %d", len(card.Holes))
	}
}

func TestScorecardRetryReplacesHole(t *testing.T) {
	var card Scorecard
	card.SetHole(1, "Warm-up", 3)
	card.AddStroke()
	card.CompleteHole()

	card.SetHole(1, "Warm-up", 3)
	for i := 0; i < 4; i++ {
		card.AddStroke()
	}
	retry := card.CompleteHole()
	if retry.Attempt != 2 || retry.Score != 1 {
		t.Errorf("expected second attempt at +1, got %+v", retry)
	}
	if len(card.Holes) != 1 {
		t.Fatalf("retry should replace the hole, got %d entries", len(card.Holes))
	}
	if card.TotalScore != 1 {
		t.Errorf("total should only count the latest attempt, got %d", card.TotalScore)
	}
}

func TestScorecardCopyIsIndependent(t *testing.T) {
	var card Scorecard
	card.SetHole(1, "Warm-up", 3)
	card.AddStroke()
	card.CompleteHole()

	c := card.Copy()
	c.Holes[0].Strokes = 99
	if card.Holes[0].Strokes == 99 {
		t.Error("copy shares its hole list with the original")
	}
}

func TestScoreLabel(t *testing.T) {
	cases := []struct {
		strokes, par int
		want         string
	}{
		{1, 3, "Hole in one"},
		{1, 5, "Hole in one"},
		{2, 5, "Albatross"},
		{2, 4, "Eagle"},
		{2, 3, "Birdie"},
		{3, 3, "Par"},
		{4, 3, "Bogey"},
		{5, 3, "Double bogey"},
		{6, 3, "Triple bogey"},
		{9, 3, "+6"},
	}
	for _, tc := range cases {
		if got := ScoreLabel(tc.strokes, tc.par); got != tc.want {
			t.Errorf("ScoreLabel(%d, %d) = %q, want %q", tc.strokes, tc.par, got, tc.want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	if FormatScore(0) != "+0" || FormatScore(3) != "+3" || FormatScore(-2) != "-2" {
		t.Errorf("unexpected formatting: %s %s %s", FormatScore(0), FormatScore(3), FormatScore(-2))
	}
}
