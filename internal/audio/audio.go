package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/minigolfstudio/backend/internal/golf"
)

const (
	sampleRate = beep.SampleRate(44100)

	// impact speed that plays a click at full volume
	loudImpact = 8.0
)

var (
	initialized bool
)

// Sound is one of the effects the terminal client plays.
type Sound int

const (
	SoundNone Sound = iota
	SoundStroke
	SoundWall
	SoundObstacle
	SoundSplash
	SoundCup
)

// Init initializes the audio system
func Init() error {
	if initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Second/30))
	if err != nil {
		return err
	}

	initialized = true
	return nil
}

// Close shuts down the audio system
func Close() {
	if initialized {
		speaker.Close()
		initialized = false
	}
}

// SoundFor picks the effect for a level event.
func SoundFor(e golf.Event) Sound {
	switch e.Type {
	case golf.EventStrokeTaken:
		return SoundStroke
	case golf.EventWallHit:
		return SoundWall
	case golf.EventObstacleHit:
		return SoundObstacle
	case golf.EventBallRespawned:
		return SoundSplash
	case golf.EventHoleCaptured:
		return SoundCup
	}
	return SoundNone
}

// impactVolume scales a click with how hard the ball hit.
func impactVolume(speed float64) float64 {
	v := speed / loudImpact
	if v < 0.15 {
		v = 0.15
	}
	if v > 1 {
		v = 1
	}
	return v
}

// tone generates a sine wave with a short linear fade-out
func tone(freq float64, duration time.Duration, volume float64) beep.Streamer {
	total := sampleRate.N(duration)
	remaining := total
	phase := 0.0
	phaseStep := 2 * math.Pi * freq / float64(sampleRate)

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			if remaining <= 0 {
				return i, false
			}
			env := float64(remaining) / float64(total)
			val := math.Sin(phase) * 0.3 * volume * env
			samples[i][0] = val
			samples[i][1] = val
			phase += phaseStep
			remaining--
		}
		return len(samples), true
	})
}

// click is a very short square pulse, like the ball knocking a rail
func click(freq float64, duration time.Duration, volume float64) beep.Streamer {
	remaining := sampleRate.N(duration)
	phase := 0.0
	phaseStep := freq / float64(sampleRate)

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			if remaining <= 0 {
				return i, false
			}
			val := 0.2 * volume
			if math.Mod(phase, 1.0) > 0.5 {
				val = -val
			}
			samples[i][0] = val
			samples[i][1] = val
			phase += phaseStep
			remaining--
		}
		return len(samples), true
	})
}

// streamFor builds the streamer for an effect; nil means silence.
func streamFor(s Sound, speed float64) beep.Streamer {
	switch s {
	case SoundStroke:
		return click(220, 25*time.Millisecond, 0.8)
	case SoundWall:
		return click(440, 30*time.Millisecond, impactVolume(speed))
	case SoundObstacle:
		return click(330, 40*time.Millisecond, impactVolume(speed))
	case SoundSplash:
		return tone(110, 200*time.Millisecond, 0.6)
	case SoundCup:
		// rising arpeggio, C E G C
		return beep.Seq(
			tone(523.25, 90*time.Millisecond, 1),
			tone(659.25, 90*time.Millisecond, 1),
			tone(783.99, 90*time.Millisecond, 1),
			tone(1046.5, 220*time.Millisecond, 1),
		)
	}
	return nil
}

// PlayEvent plays the effect for a level event, if any
func PlayEvent(e golf.Event) {
	if !initialized {
		return
	}
	if st := streamFor(SoundFor(e), e.Speed); st != nil {
		speaker.Play(st)
	}
}
