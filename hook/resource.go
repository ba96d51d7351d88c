package hook

import (
	"context"
	"reflect"
	"sync"
)

// Fetcher loads a value. It must honour ctx cancellation.
type Fetcher[T any] func(ctx context.Context) (T, error)

// ResourceState is what a Resource exposes. A nil Data and an empty Error
// stand for "no value".
type ResourceState[T any] struct {
	Data    *T
	Loading bool
	Error   string
}

// Resource keeps the result of the latest Fetcher run. Every run is tagged
// with a generation and only the newest generation may commit; older runs
// are cancelled and their results dropped. After Close nothing commits.
type Resource[T any] struct {
	mu      sync.Mutex
	parent  context.Context
	fetch   Fetcher[T]
	deps    []interface{}
	state   ResourceState[T]
	gen     uint64
	cancel  context.CancelFunc
	closed  bool
	changed chan struct{}
	events  *dispatcher[ResourceState[T]]
}

// NewResource mounts a resource and starts the first run. ctx scopes every
// run. A nil fetch leaves the resource idle until SetDeps supplies one.
func NewResource[T any](ctx context.Context, fetch Fetcher[T], deps ...interface{}) *Resource[T] {
	r := &Resource[T]{
		parent:  ctx,
		fetch:   fetch,
		deps:    append([]interface{}(nil), deps...),
		changed: make(chan struct{}),
		events:  newDispatcher[ResourceState[T]](),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startLocked()
	return r
}

// State returns the current snapshot.
func (r *Resource[T]) State() ResourceState[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SetDeps installs fetch and re-runs it when deps differ from the previous
// dependency list. It reports whether a run was started.
func (r *Resource[T]) SetDeps(fetch Fetcher[T], deps ...interface{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.fetch = fetch
	if depsEqual(r.deps, deps) {
		return false
	}
	r.deps = append([]interface{}(nil), deps...)
	r.startLocked()
	return true
}

// Refetch re-runs the current fetch regardless of dependencies.
func (r *Resource[T]) Refetch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.startLocked()
}

// Close unmounts the resource: the in-flight run is cancelled, its result is
// discarded and no further state changes or callbacks happen.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	close(r.changed)
	r.events.stop()
}

// Changes returns a channel that is closed at the next state change.
func (r *Resource[T]) Changes() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changed
}

// OnChange registers fn to be called with every committed state, in order.
func (r *Resource[T]) OnChange(fn func(ResourceState[T])) {
	r.events.subscribe(fn)
}

// Wait blocks until the resource is not loading or has been closed.
func (r *Resource[T]) Wait(ctx context.Context) (ResourceState[T], error) {
	for {
		r.mu.Lock()
		st, closed, ch := r.state, r.closed, r.changed
		r.mu.Unlock()
		if !st.Loading || closed {
			return st, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

func (r *Resource[T]) startLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	if r.fetch == nil {
		r.commitLocked(ResourceState[T]{})
		return
	}

	parent := r.parent
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel

	next := r.state
	next.Loading = true
	next.Error = ""
	r.commitLocked(next)

	go r.run(ctx, r.gen, r.fetch)
}

func (r *Resource[T]) run(ctx context.Context, gen uint64, fetch Fetcher[T]) {
	data, err := guard(func() (T, error) { return fetch(ctx) })

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || gen != r.gen {
		return
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	next := ResourceState[T]{}
	if err != nil {
		next.Error = errorMessage(err)
	} else {
		next.Data = &data
	}
	r.commitLocked(next)
}

func (r *Resource[T]) commitLocked(next ResourceState[T]) {
	r.state = next
	close(r.changed)
	r.changed = make(chan struct{})
	r.events.publish(next)
}

func depsEqual(a, b []interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
