package batch

// Status is the lifecycle state of a WorkResult.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusAnalyzing  Status = "analyzing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusProcessing:
		return 1
	case StatusAnalyzing:
		return 2
	case StatusCompleted, StatusError:
		return 3
	default:
		return -1
	}
}

// IsTerminal reports whether s is completed or error.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// CanTransitionTo reports whether moving from s to next keeps the lifecycle monotonic.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() || next.rank() < 0 || s.rank() < 0 {
		return false
	}
	return next.rank() > s.rank()
}
