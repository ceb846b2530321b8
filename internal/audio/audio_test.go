package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/minigolfstudio/backend/internal/golf"
)

// drain counts the samples a streamer produces before it ends.
func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestSoundFor(t *testing.T) {
	tests := []struct {
		event golf.EventType
		want  Sound
	}{
		{golf.EventStrokeTaken, SoundStroke},
		{golf.EventWallHit, SoundWall},
		{golf.EventObstacleHit, SoundObstacle},
		{golf.EventBallRespawned, SoundSplash},
		{golf.EventHoleCaptured, SoundCup},
		{golf.EventBallSunk, SoundNone},
	}
	for _, tt := range tests {
		if got := SoundFor(golf.Event{Type: tt.event}); got != tt.want {
			t.Errorf("SoundFor(%s) = %d, want %d", tt.event, got, tt.want)
		}
	}
}

func TestStreamLengths(t *testing.T) {
	if got, want := drain(click(440, 30*time.Millisecond, 1)), sampleRate.N(30*time.Millisecond); got != want {
		t.Errorf("click produced %d samples, want %d", got, want)
	}
	if got, want := drain(tone(110, 200*time.Millisecond, 1)), sampleRate.N(200*time.Millisecond); got != want {
		t.Errorf("tone produced %d samples, want %d", got, want)
	}
	cup := sampleRate.N(90*time.Millisecond)*3 + sampleRate.N(220*time.Millisecond)
	if got := drain(streamFor(SoundCup, 0)); got != cup {
		t.Errorf("cup chime produced %d samples, want %d", got, cup)
	}
	if streamFor(SoundNone, 0) != nil {
		t.Error("no sound should be silent")
	}
}

func TestImpactVolume(t *testing.T) {
	if v := impactVolume(0); v != 0.15 {
		t.Errorf("soft hits should still be audible, got %v", v)
	}
	if v := impactVolume(4); v != 0.5 {
		t.Errorf("expected half volume, got %v", v)
	}
	if v := impactVolume(100); v != 1 {
		t.Errorf("volume should cap at 1, got %v", v)
	}
}

func TestToneStaysInRange(t *testing.T) {
	buf := make([][2]float64, 1024)
	s := tone(440, 50*time.Millisecond, 1)
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			if smp[0] > 0.3 || smp[0] < -0.3 {
				t.Fatalf("sample %v out of range", smp[0])
			}
		}
		if !ok {
			break
		}
	}
}

func TestPlayEventWithoutSpeaker(t *testing.T) {
	// Must be a no-op when Init was never called.
	PlayEvent(golf.Event{Type: golf.EventHoleCaptured})
}
