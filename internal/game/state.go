package game

// RunStatus represents where a run is in its lifecycle
type RunStatus string

const (
	StatusInProgress   RunStatus = "IN_PROGRESS"
	StatusHoleComplete RunStatus = "HOLE_COMPLETE" // ball captured, waiting for next/retry
	StatusCompleted    RunStatus = "COMPLETED"     // last hole finished
	StatusAbandoned    RunStatus = "ABANDONED"
)

// Active reports whether the run still accepts input.
func (s RunStatus) Active() bool {
	return s == StatusInProgress || s == StatusHoleComplete
}
