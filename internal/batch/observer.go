package batch

// Observer receives updates while a batch runs. Calls are serialized, so
// implementations need no locking of their own, but they must not block for
// long or call back into the Run.
type Observer interface {
	// ResultChanged is called with a copy of a result after each change.
	ResultChanged(result WorkResult)

	// ProgressChanged is called each time an item reaches a terminal state.
	ProgressChanged(done, total int, message string)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnResult   func(WorkResult)
	OnProgress func(done, total int, message string)
}

func (o ObserverFuncs) ResultChanged(r WorkResult) {
	if o.OnResult != nil {
		o.OnResult(r)
	}
}

func (o ObserverFuncs) ProgressChanged(done, total int, message string) {
	if o.OnProgress != nil {
		o.OnProgress(done, total, message)
	}
}

type nopObserver struct{}

func (nopObserver) ResultChanged(WorkResult)         {}
func (nopObserver) ProgressChanged(int, int, string) {}
