package scene

// Task is a unit of per-frame work.
//
// Step is called once per rendered frame and reports whether the task has
// finished. A finished task is never stepped again.
type Task interface {
	Step() (done bool)
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func() bool

// Step calls f.
func (f TaskFunc) Step() bool {
	return f()
}

// observer is a never-ending task that can be removed.
type observer struct {
	fn      func()
	removed bool
}

func (o *observer) Step() bool {
	if o.removed {
		return true
	}
	o.fn()
	return false
}
