package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minigolfstudio/backend/internal/config"
	"github.com/minigolfstudio/backend/internal/golf"
)

func newTestManager(t *testing.T) *RunManager {
	t.Helper()
	useStraightLevels(t)
	m := NewRunManager(nil, nil, &config.Config{
		TickRateHz:          200,
		MaxFrameDeltaMs:     100,
		RunIdleTimeoutSecs:  60,
		RunSweepIntervalSec: 30,
		LeaderboardSize:     10,
	})
	t.Cleanup(m.Shutdown)
	return m
}

func waitDone(t *testing.T, r *Run) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("run %s did not stop", r.Token)
	}
}

// waitStatus polls until the loop has published the final status.
func waitStatus(t *testing.T, r *Run, want RunStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.View().Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("run %s status = %s, want %s", r.Token, r.View().Status, want)
}

func TestStartAndEndRun(t *testing.T) {
	m := newTestManager(t)

	r, err := m.StartRun(1, "Ada", 1)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if len(r.Token) != 32 {
		t.Errorf("expected a 32 char token, got %q", r.Token)
	}
	if got, err := m.GetRun(r.Token); err != nil || got != r {
		t.Fatalf("GetRun: %v", err)
	}
	if got, err := m.GetRunForPlayer(1); err != nil || got != r {
		t.Fatalf("GetRunForPlayer: %v", err)
	}
	if m.ActiveRunCount() != 1 {
		t.Errorf("expected 1 live run, got %d", m.ActiveRunCount())
	}

	if err := m.EndRun(r.Token, StatusAbandoned); err != nil {
		t.Fatalf("EndRun: %v", err)
	}
	waitDone(t, r)
	if _, err := m.GetRun(r.Token); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound after EndRun, got %v", err)
	}
	if err := m.EndRun(r.Token, StatusAbandoned); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("second EndRun should fail, got %v", err)
	}
	if err := r.Send(Input{Kind: InputRestart}); !errors.Is(err, ErrRunClosed) {
		t.Errorf("Send on a stopped run should fail, got %v", err)
	}
}

func TestStartRunReplacesPrevious(t *testing.T) {
	m := newTestManager(t)

	first, err := m.StartRun(1, "Ada", 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.StartRun(1, "Ada", 2)
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, first)

	if got, _ := m.GetRunForPlayer(1); got != second {
		t.Error("player should be pointed at the newest run")
	}
	if m.ActiveRunCount() != 1 {
		t.Errorf("expected 1 live run, got %d", m.ActiveRunCount())
	}
	waitStatus(t, first, StatusAbandoned)
}

func TestStartRunUnknownLevel(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.StartRun(1, "Ada", 42); !errors.Is(err, golf.ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
	if m.ActiveRunCount() != 0 {
		t.Error("a failed start should not register a run")
	}
}

func TestRunLoopProcessesInput(t *testing.T) {
	m := newTestManager(t)
	r, err := m.StartRun(3, "Lin", 1)
	if err != nil {
		t.Fatal(err)
	}
	frames, release := r.Subscribe()
	defer release()

	start := golf.NewVec3(0, 0, 8)
	end := golf.NewVec3(0, 0, 9)
	if err := r.Send(Input{Kind: InputPointerDown, Point: &start}); err != nil {
		t.Fatal(err)
	}
	if err := r.Send(Input{Kind: InputPointerUp, Point: &end}); err != nil {
		t.Fatal(err)
	}
	if err := r.Send(Input{Kind: InputPointerUp}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("pointer input without a position should be rejected, got %v", err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				t.Fatal("frames closed early")
			}
			if f.Scorecard.Strokes == 1 {
				return
			}
		case <-timeout:
			t.Fatal("stroke never reached a frame")
		}
	}
}

func TestSweepMemoryAbandonsIdleRuns(t *testing.T) {
	m := newTestManager(t)
	r, err := m.StartRun(5, "Kim", 1)
	if err != nil {
		t.Fatal(err)
	}

	if n := m.sweepMemory(time.Now()); n != 0 {
		t.Errorf("fresh run should not be swept, got %d", n)
	}
	if n := m.sweepMemory(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("expected 1 abandoned run, got %d", n)
	}
	waitDone(t, r)
	if _, err := m.GetRun(r.Token); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("swept run should be gone, got %v", err)
	}
}

func TestStoresNotConfigured(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Leaderboard(ctx, 1, 10); !errors.Is(err, ErrNoRedis) {
		t.Errorf("Leaderboard: expected ErrNoRedis, got %v", err)
	}
	if _, err := m.LoadRunSnapshot(ctx, "nope"); !errors.Is(err, ErrNoRedis) {
		t.Errorf("LoadRunSnapshot: expected ErrNoRedis, got %v", err)
	}
	if _, _, err := m.PlayerScores(1, 10); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("PlayerScores: expected ErrNoDatabase, got %v", err)
	}
	// Without stores a finished hole is only logged.
	m.recordHole(holeRecord{RunToken: "tok", PlayerID: 1, Hole: HoleScore{LevelID: 1, Strokes: 2, Par: 2}})
}

func TestParamsConcurrentAccess(t *testing.T) {
	m := newTestManager(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p := golf.DefaultParams()
		for i := 0; i < 200; i++ {
			p.PowerMultiplier = float64(i%10 + 1)
			m.SetParams(p)
		}
	}()
	for i := 0; i < 200; i++ {
		if got := m.Params().PowerMultiplier; got <= 0 {
			t.Fatalf("read a zero power multiplier")
		}
	}
	<-done

	if got := m.Params().PowerMultiplier; got != 10 {
		t.Errorf("expected the last write to stick, got %v", got)
	}
}
