package tui

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/minigolfstudio/backend/internal/audio"
	"github.com/minigolfstudio/backend/internal/config"
	"github.com/minigolfstudio/backend/internal/game"
	"github.com/minigolfstudio/backend/internal/golf"
)

type mode int

const (
	modeMenu mode = iota
	modePlaying
)

// App is the terminal host: it owns one level session at a time and drives
// it from a render ticker, the way the browser drives it from animation frames.
type App struct {
	cfg      *config.ClientConfig
	screen   *Screen
	renderer *Renderer
	params   golf.Params

	mode     mode
	levels   []golf.Course
	selected int
	course   golf.Course
	session  *golf.LevelSession
	card     game.Scorecard
	holed    bool
	held     bool // primary mouse button is down
	message  string

	quit     chan struct{}
	quitOnce sync.Once
	sigChan  chan os.Signal
}

// NewApp creates an App drawing on screen.
func NewApp(cfg *config.ClientConfig, screen *Screen) *App {
	params := golf.DefaultParams()
	params.Preview = cfg.Preview
	return &App{
		cfg:      cfg,
		screen:   screen,
		renderer: NewRenderer(screen),
		params:   params,
		levels:   golf.Levels(),
		selected: cfg.Level - 1,
		quit:     make(chan struct{}),
	}
}

// Run starts on the configured level and loops until the player quits.
func (a *App) Run() error {
	if a.cfg.Sound {
		// The game works without sound.
		_ = audio.Init()
		defer audio.Close()
	}

	a.sigChan = make(chan os.Signal, 1)
	signal.Notify(a.sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.sigChan)
	go func() {
		select {
		case <-a.sigChan:
			a.stop()
		case <-a.quit:
		}
	}()

	if err := a.startLevel(a.cfg.Level); err != nil {
		return err
	}

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-a.quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.FPS))
	defer ticker.Stop()
	maxDelta := time.Duration(a.cfg.MaxDelta) * time.Millisecond

	last := time.Now()
	for {
		select {
		case <-a.quit:
			return nil

		case ev := <-events:
			if a.handleEvent(ev) {
				a.stop()
				return nil
			}

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > maxDelta {
				dt = maxDelta
			}
			a.update(dt.Seconds())
			a.render()
		}
	}
}

func (a *App) stop() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// startLevel replaces the current session with a fresh one on levelID.
func (a *App) startLevel(levelID int) error {
	course, err := golf.LevelByID(levelID)
	if err != nil {
		return err
	}
	session, err := golf.NewLevelSession(course, a.params)
	if err != nil {
		return fmt.Errorf("failed to start level %d: %w", levelID, err)
	}
	a.course = course
	a.session = session
	a.card.SetHole(course.ID, course.Name, course.Par)
	a.selected = levelID - 1
	a.mode = modePlaying
	a.holed = false
	a.held = false
	a.message = ""
	return nil
}

// update advances the session by dt seconds and reacts to its events.
func (a *App) update(dt float64) {
	if a.mode != modePlaying {
		return
	}
	for _, e := range a.session.Tick(dt) {
		audio.PlayEvent(e)
		switch e.Type {
		case golf.EventStrokeTaken:
			a.card.AddStroke()
		case golf.EventHoleCaptured:
			hole := a.card.CompleteHole()
			a.holed = true
			a.held = false
			next := "enter: next hole"
			if a.course.ID >= len(a.levels) {
				next = "enter: back to menu"
			}
			a.message = fmt.Sprintf("%s! %d strokes on a par %d.  %s  r: replay", hole.Label, hole.Strokes, hole.Par, next)
		}
	}
}

func (a *App) render() {
	switch a.mode {
	case modeMenu:
		a.renderer.RenderMenu(a.levels, a.selected, a.card)
	case modePlaying:
		a.renderer.RenderLevel(a.course, a.session.Snapshot(), a.card, a.message)
	}
}

// handleEvent processes keyboard and mouse input.
// Returns true if the application should quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if IsQuitKey(ev.Key(), ev.Rune()) {
			return true
		}
		if a.mode == modeMenu {
			a.handleMenuKey(ev)
		} else {
			a.handleLevelKey(ev)
		}

	case *tcell.EventMouse:
		if a.mode == modePlaying {
			a.handleMouse(ev)
		}

	case *tcell.EventResize:
		a.screen.Clear()
		a.render()
	}
	return false
}

func (a *App) handleMenuKey(ev *tcell.EventKey) {
	if step := MenuStep(ev.Key(), ev.Rune()); step != 0 {
		a.selected = (a.selected + step + len(a.levels)) % len(a.levels)
		return
	}
	if IsConfirmKey(ev.Key(), ev.Rune()) {
		a.startLevel(a.levels[a.selected].ID)
	}
}

func (a *App) handleLevelKey(ev *tcell.EventKey) {
	switch {
	case IsRestartKey(ev.Key(), ev.Rune()):
		a.startLevel(a.course.ID)
	case IsMenuKey(ev.Key(), ev.Rune()):
		a.mode = modeMenu
		a.held = false
	case IsConfirmKey(ev.Key(), ev.Rune()) && a.holed:
		if err := a.startLevel(a.course.ID + 1); err != nil {
			a.mode = modeMenu
			a.selected = 0
		}
	}
}

// handleMouse feeds the aim gesture. A report outside the court is treated
// like a pointer ray that misses the ground.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	w, h := a.screen.Size()
	vp, ok := NewViewport(w, h, a.course)
	if !ok {
		return
	}
	p, onCourt := vp.ToCourse(x, y)

	switch pointerPhase(ev.Buttons(), a.held) {
	case PointerDown:
		a.held = true
		if onCourt {
			a.session.PointerDown(p)
		}
	case PointerMove:
		if onCourt {
			a.session.PointerMove(p)
		}
	case PointerUp:
		a.held = false
		if onCourt {
			a.session.PointerUp(p)
		} else {
			a.session.PointerLeave()
		}
	}
}
