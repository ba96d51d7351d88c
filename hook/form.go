package hook

import (
	"context"
	"sync"
)

// Mutator performs a write with the submitted data.
type Mutator[T, R any] func(ctx context.Context, data T) (R, error)

// FormState tracks one submission.
type FormState struct {
	Loading bool
	Error   string
	Success bool
}

// Form wraps a Mutator with submit state. Only one submission may be in
// flight; Reset and Close discard the outcome of an in-flight submission.
type Form[T, R any] struct {
	mu        sync.Mutex
	mutate    Mutator[T, R]
	state     FormState
	result    R
	hasResult bool
	inFlight  bool
	gen       uint64
	closed    bool
	rejected  error
	events    *dispatcher[FormState]
}

// NewForm returns an idle form around mutate.
func NewForm[T, R any](mutate Mutator[T, R]) *Form[T, R] {
	return &Form[T, R]{
		mutate: mutate,
		events: newDispatcher[FormState](),
	}
}

// Submit runs the mutation and reports whether it succeeded. Failures are
// recorded in State().Error; Submit never panics or returns an error. A call
// made while another submission is in flight returns false without touching
// state, and LastRejection reports ErrSubmitInFlight.
func (f *Form[T, R]) Submit(ctx context.Context, data T) bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	if f.inFlight {
		f.rejected = ErrSubmitInFlight
		f.mu.Unlock()
		return false
	}
	f.inFlight = true
	f.rejected = nil
	f.gen++
	gen := f.gen
	mutate := f.mutate
	f.commitLocked(FormState{Loading: true})
	f.mu.Unlock()

	res, err := guard(func() (R, error) { return mutate(ctx, data) })

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || gen != f.gen {
		return err == nil
	}
	f.inFlight = false
	f.rejected = nil
	if err != nil {
		f.commitLocked(FormState{Error: errorMessage(err)})
		return false
	}
	f.result = res
	f.hasResult = true
	f.commitLocked(FormState{Success: true})
	return true
}

// Reset returns the form to its initial state so it can be submitted again.
func (f *Form[T, R]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.gen++
	f.inFlight = false
	f.rejected = nil
	var zero R
	f.result = zero
	f.hasResult = false
	f.commitLocked(FormState{})
}

// Close discards any in-flight outcome and stops callbacks.
func (f *Form[T, R]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.gen++
	f.events.stop()
}

// State returns the current snapshot.
func (f *Form[T, R]) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Result returns the value of the last successful submission.
func (f *Form[T, R]) Result() (R, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.hasResult
}

// LastRejection reports why a Submit was turned away while the current
// submission ran. It is cleared once that submission finishes.
func (f *Form[T, R]) LastRejection() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rejected
}

// OnChange registers fn to be called with every state change, in order.
func (f *Form[T, R]) OnChange(fn func(FormState)) {
	f.events.subscribe(fn)
}

func (f *Form[T, R]) commitLocked(next FormState) {
	f.state = next
	f.events.publish(next)
}
