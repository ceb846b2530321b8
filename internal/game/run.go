package game

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/minigolfstudio/backend/internal/golf"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrRunClosed    = errors.New("run is closed")
	ErrInvalidInput = errors.New("invalid input")
)

// InputKind names a player action forwarded to a run.
type InputKind string

const (
	InputPointerDown  InputKind = "pointer_down"
	InputPointerMove  InputKind = "pointer_move"
	InputPointerUp    InputKind = "pointer_up"
	InputPointerLeave InputKind = "pointer_leave"
	InputRestart      InputKind = "restart"
	InputNextHole     InputKind = "next_hole"
)

// ScreenPoint is a pointer in viewport pixels together with the camera that rendered the view.
type ScreenPoint struct {
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Camera golf.Camera `json:"camera"`
}

// Input is one player action. Pointer inputs carry either a course-plane
// Point or a Screen position.
type Input struct {
	Kind   InputKind    `json:"kind"`
	Point  *golf.Vec3   `json:"point,omitempty"`
	Screen *ScreenPoint `json:"screen,omitempty"`
}

// Validate rejects pointer inputs that carry no position.
func (in Input) Validate() error {
	switch in.Kind {
	case InputPointerDown, InputPointerMove, InputPointerUp:
		if in.Point == nil && in.Screen == nil {
			return ErrInvalidInput
		}
	case InputPointerLeave, InputRestart, InputNextHole:
	default:
		return ErrInvalidInput
	}
	return nil
}

// Frame is pushed to subscribers after every tick that changed something.
type Frame struct {
	Type      string        `json:"type"`
	Seq       uint64        `json:"seq"`
	Status    RunStatus     `json:"status"`
	Snapshot  golf.Snapshot `json:"snapshot"`
	Events    []golf.Event  `json:"events,omitempty"`
	Scorecard Scorecard     `json:"scorecard"`
}

// RunView is the read-only picture of a run handed to HTTP handlers.
type RunView struct {
	ID           string        `json:"id"`
	Token        string        `json:"token"`
	PlayerID     int           `json:"player_id"`
	DisplayName  string        `json:"display_name"`
	Status       RunStatus     `json:"status"`
	Scorecard    Scorecard     `json:"scorecard"`
	Snapshot     golf.Snapshot `json:"snapshot"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}

type subscriber struct {
	ch      chan Frame
	dropped int
}

// Run is one player's play-through of the course list. The level session,
// scorecard and status belong to the loop goroutine; everything else reads
// the published RunView or subscribes to frames.
type Run struct {
	ID          string
	Token       string
	PlayerID    int
	DisplayName string
	CreatedAt   time.Time

	params       golf.Params
	tickInterval time.Duration
	maxDelta     time.Duration

	session      *golf.LevelSession
	card         Scorecard
	status       RunStatus
	seq          uint64
	dirty        bool
	lastActivity time.Time
	lastTouch    time.Time

	inputs     chan Input
	done       chan struct{}
	closeOnce  sync.Once
	stopStatus RunStatus

	mu          sync.RWMutex
	view        RunView
	subscribers map[int]*subscriber
	nextSub     int
	closed      bool

	onHoleComplete func(r *Run, hole HoleScore, total int, played time.Duration)
	onActivity     func(r *Run)
	onEnd          func(r *Run)
}

const (
	inputBuffer    = 64
	frameBuffer    = 32
	touchThrottle  = time.Second
	defaultTick    = time.Second / 60
	defaultMaxStep = 100 * time.Millisecond
)

func newRun(id, token string, playerID int, displayName string, levelID int, params golf.Params, tick, maxDelta time.Duration) (*Run, error) {
	if tick <= 0 {
		tick = defaultTick
	}
	if maxDelta <= 0 {
		maxDelta = defaultMaxStep
	}
	now := time.Now()
	r := &Run{
		ID:           id,
		Token:        token,
		PlayerID:     playerID,
		DisplayName:  displayName,
		CreatedAt:    now,
		params:       params,
		tickInterval: tick,
		maxDelta:     maxDelta,
		lastActivity: now,
		inputs:       make(chan Input, inputBuffer),
		done:         make(chan struct{}),
		subscribers:  make(map[int]*subscriber),
	}
	if err := r.loadHole(levelID); err != nil {
		return nil, err
	}
	r.publishView()
	return r, nil
}

// levelByID resolves hole numbers to courses.
var levelByID = golf.LevelByID

// loadHole builds a fresh level session and points the scorecard at it.
func (r *Run) loadHole(levelID int) error {
	course, err := levelByID(levelID)
	if err != nil {
		return err
	}
	session, err := golf.NewLevelSession(course, r.params)
	if err != nil {
		return err
	}
	r.session = session
	r.card.SetHole(course.ID, course.Name, course.Par)
	r.status = StatusInProgress
	r.dirty = true
	return nil
}

// Start launches the frame loop.
func (r *Run) Start() {
	go r.loop()
}

func (r *Run) loop() {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-r.done:
			r.finish(r.stopStatus)
			return
		case in := <-r.inputs:
			r.apply(in)
			if r.status == StatusCompleted {
				r.finish(StatusCompleted)
				return
			}
		case now := <-ticker.C:
			dt := clampDelta(now.Sub(last), r.maxDelta)
			last = now
			r.step(dt.Seconds())
		}
	}
}

// clampDelta caps a frame delta so a stalled host cannot tunnel the ball.
func clampDelta(dt, max time.Duration) time.Duration {
	if dt < 0 {
		return 0
	}
	if dt > max {
		return max
	}
	return dt
}

// Send queues an input for the loop.
func (r *Run) Send(in Input) error {
	if err := in.Validate(); err != nil {
		return err
	}
	select {
	case <-r.done:
		return ErrRunClosed
	default:
	}
	select {
	case r.inputs <- in:
		return nil
	case <-r.done:
		return ErrRunClosed
	}
}

// Stop ends the run with the given status. Only the first call counts.
func (r *Run) Stop(status RunStatus) {
	r.closeOnce.Do(func() {
		r.stopStatus = status
		close(r.done)
	})
}

// Done is closed once the run has been stopped.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// View returns the latest published state.
func (r *Run) View() RunView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v := r.view
	v.Scorecard = r.view.Scorecard.Copy()
	return v
}

// Subscribe returns a channel of frames and a function that releases it.
// Slow subscribers lose frames rather than stall the loop.
func (r *Run) Subscribe() (<-chan Frame, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Frame, frameBuffer)
	if r.closed {
		close(ch)
		return ch, func() {}
	}
	id := r.nextSub
	r.nextSub++
	r.subscribers[id] = &subscriber{ch: ch}

	// Start the subscriber off with the current picture.
	ch <- r.frameLocked(nil)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if s, ok := r.subscribers[id]; ok {
				delete(r.subscribers, id)
				close(s.ch)
			}
		})
	}
}

// apply handles one input on the loop goroutine.
func (r *Run) apply(in Input) {
	r.lastActivity = time.Now()
	r.dirty = true
	if r.onActivity != nil && r.lastActivity.Sub(r.lastTouch) >= touchThrottle {
		r.lastTouch = r.lastActivity
		r.onActivity(r)
	}

	switch in.Kind {
	case InputPointerDown:
		if r.status != StatusInProgress {
			return
		}
		if in.Screen != nil {
			s := in.Screen
			r.session.PointerDownScreen(s.Camera, s.X, s.Y, s.Width, s.Height)
		} else if in.Point != nil {
			r.session.PointerDown(*in.Point)
		}

	case InputPointerMove:
		if in.Screen != nil {
			s := in.Screen
			r.session.PointerMoveScreen(s.Camera, s.X, s.Y, s.Width, s.Height)
		} else if in.Point != nil {
			r.session.PointerMove(*in.Point)
		}

	case InputPointerUp:
		if in.Screen != nil {
			s := in.Screen
			r.session.PointerUpScreen(s.Camera, s.X, s.Y, s.Width, s.Height)
		} else if in.Point != nil {
			r.session.PointerUp(*in.Point)
		}

	case InputPointerLeave:
		r.session.PointerLeave()

	case InputRestart:
		r.session.Reset()
		r.card.SetHole(r.card.CurrentHole, r.card.HoleName, r.card.Par)
		r.status = StatusInProgress
		log.Printf("[RUN] %s restarted hole %d", r.Token, r.card.CurrentHole)

	case InputNextHole:
		if r.status != StatusHoleComplete {
			return
		}
		next := r.card.CurrentHole + 1
		if err := r.loadHole(next); err != nil {
			log.Printf("[RUN] %s finished the course (total %s)", r.Token, FormatScore(r.card.TotalScore))
			r.status = StatusCompleted
			r.publishView()
			return
		}
		log.Printf("[RUN] %s moved to hole %d", r.Token, next)
	}
	r.publishView()
}

// step advances the level by dt seconds and fans the frame out.
func (r *Run) step(dt float64) {
	events := r.session.Tick(dt)
	for _, e := range events {
		switch e.Type {
		case golf.EventStrokeTaken:
			r.card.AddStroke()
		case golf.EventHoleCaptured:
			hole := r.card.CompleteHole()
			r.status = StatusHoleComplete
			log.Printf("[RUN] %s holed out on %d in %d (%s)", r.Token, hole.LevelID, hole.Strokes, hole.Label)
			if r.onHoleComplete != nil {
				played := time.Duration(r.session.Elapsed() * float64(time.Second))
				r.onHoleComplete(r, hole, r.card.TotalScore, played)
			}
		}
	}

	snap := r.session.Snapshot()
	changed := r.dirty || len(events) > 0 || r.session.Moving() ||
		snap.State == golf.BallSinking || snap.Aim.Active
	if !changed {
		return
	}
	r.dirty = false
	r.seq++

	r.mu.Lock()
	r.view.Status = r.status
	r.view.Snapshot = snap
	r.view.Scorecard = r.card.Copy()
	r.view.LastActivity = r.lastActivity
	frame := r.frameLocked(events)
	r.broadcastLocked(frame)
	r.mu.Unlock()
}

// finish publishes the final state, closes subscribers and notifies the owner.
func (r *Run) finish(status RunStatus) {
	r.closeOnce.Do(func() { close(r.done) })
	r.status = status
	now := time.Now()

	r.mu.Lock()
	r.fillViewLocked()
	r.view.CompletedAt = &now
	frame := r.frameLocked(nil)
	frame.Type = "run_over"
	r.broadcastLocked(frame)
	for id, s := range r.subscribers {
		close(s.ch)
		delete(r.subscribers, id)
	}
	r.closed = true
	r.mu.Unlock()

	log.Printf("[RUN] %s ended (%s)", r.Token, status)
	if r.onEnd != nil {
		r.onEnd(r)
	}
}

func (r *Run) publishView() {
	r.mu.Lock()
	r.fillViewLocked()
	r.mu.Unlock()
}

func (r *Run) fillViewLocked() {
	r.view.ID = r.ID
	r.view.Token = r.Token
	r.view.PlayerID = r.PlayerID
	r.view.DisplayName = r.DisplayName
	r.view.CreatedAt = r.CreatedAt
	r.view.Status = r.status
	r.view.Scorecard = r.card.Copy()
	r.view.Snapshot = r.session.Snapshot()
	r.view.LastActivity = r.lastActivity
}

func (r *Run) frameLocked(events []golf.Event) Frame {
	return Frame{
		Type:      "frame",
		Seq:       r.seq,
		Status:    r.view.Status,
		Snapshot:  r.view.Snapshot,
		Events:    events,
		Scorecard: r.view.Scorecard.Copy(),
	}
}

func (r *Run) broadcastLocked(f Frame) {
	for id, s := range r.subscribers {
		select {
		case s.ch <- f:
		default:
			s.dropped++
			if s.dropped == 1 {
				log.Printf("[RUN] %s subscriber %d is falling behind, dropping frames", r.Token, id)
			}
		}
	}
}
