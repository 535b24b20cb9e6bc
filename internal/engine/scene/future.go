package scene

// Future is a one-shot completion signal.
//
// It is resolved at most once; every continuation registered with Then runs
// exactly once, immediately if the future is already resolved. Futures are
// owned by the frame goroutine and are not safe for concurrent use.
type Future struct {
	done      bool
	err       error
	callbacks []func(error)
}

// NewFuture creates a pending future.
func NewFuture() *Future {
	return &Future{}
}

// Resolved returns a future that has already completed with err.
func Resolved(err error) *Future {
	return &Future{done: true, err: err}
}

// Resolve completes the future. Later calls are ignored.
func (f *Future) Resolve(err error) {
	if f.done {
		return
	}
	f.done = true
	f.err = err

	callbacks := f.callbacks
	f.callbacks = nil
	for _, cb := range callbacks {
		cb(err)
	}
}

// Then registers a continuation.
func (f *Future) Then(fn func(err error)) {
	if f.done {
		fn(f.err)
		return
	}
	f.callbacks = append(f.callbacks, fn)
}

// Done reports whether the future has completed.
func (f *Future) Done() bool {
	return f.done
}

// Err returns the completion error, nil while pending or on success.
func (f *Future) Err() error {
	return f.err
}
