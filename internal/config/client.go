package config

import (
	"flag"
	"fmt"

	"github.com/minigolfstudio/backend/internal/golf"
)

// Terminal client defaults
const (
	DefaultFPS   = 60
	DefaultLevel = 1
)

// ClientConfig configures the terminal client
type ClientConfig struct {
	Level    int
	FPS      int
	Sound    bool
	Preview  golf.PreviewMode
	MaxDelta int // milliseconds
}

// ParseClientArgs parses the terminal client's command line
func ParseClientArgs(args []string) (*ClientConfig, error) {
	fs := flag.NewFlagSet("minigolf", flag.ContinueOnError)

	level := fs.Int("level", DefaultLevel, "level to start on (1-5)")
	fps := fs.Int("fps", DefaultFPS, "frames per second (10-240)")
	sound := fs.Bool("sound", true, "play sound effects")
	preview := fs.String("preview", string(golf.PreviewStraight), "aim preview: straight or simulated")
	maxDelta := fs.Int("max-delta", 100, "longest frame step in milliseconds")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if _, err := golf.LevelByID(*level); err != nil {
		return nil, fmt.Errorf("level must be between 1 and %d, got %d", len(golf.Levels()), *level)
	}
	if *fps < 10 || *fps > 240 {
		return nil, fmt.Errorf("fps must be between 10 and 240, got %d", *fps)
	}
	mode := golf.PreviewMode(*preview)
	if mode != golf.PreviewStraight && mode != golf.PreviewSimulated {
		return nil, fmt.Errorf("preview must be %q or %q, got %q", golf.PreviewStraight, golf.PreviewSimulated, *preview)
	}
	if *maxDelta <= 0 {
		return nil, fmt.Errorf("max-delta must be positive, got %d", *maxDelta)
	}

	return &ClientConfig{
		Level:    *level,
		FPS:      *fps,
		Sound:    *sound,
		Preview:  mode,
		MaxDelta: *maxDelta,
	}, nil
}
