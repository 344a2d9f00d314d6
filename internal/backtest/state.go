package backtest

import "errors"

// State is the evaluator lifecycle state. An evaluator starts Idle,
// passes through Training exactly once per Evaluate call and ends in
// Ready or Failed. It never re-enters Training implicitly.
type State int

const (
	StateIdle State = iota
	StateTraining
	StateReady
	StateFailed
)

// ErrNotReady indicates an evaluate-one call against an evaluator whose
// training step has not completed successfully
var ErrNotReady = errors.New("evaluator not ready")

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateTraining:
		return "Training"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
