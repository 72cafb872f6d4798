package service

// SubmissionState tracks where a terminal's in-flight order submission is.
// Idle is both the initial and the terminal-reset state. Once Writing has
// begun the order is durable and the attempt can no longer be cancelled.
type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StateValidating
	StateWriting
	StateDecrementing
	StateSucceeded
	StateFailed
)

func (s SubmissionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateWriting:
		return "writing"
	case StateDecrementing:
		return "decrementing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// submission is the per-terminal state machine instance. failure holds the
// reason when the machine is parked in StateFailed.
type submission struct {
	state   SubmissionState
	failure error
}
