package hook

import "sync"

// dispatcher delivers state snapshots to watchers in publish order from a
// single goroutine, so watchers may call back into the owner freely.
type dispatcher[S any] struct {
	mu       sync.Mutex
	queue    []S
	watchers []func(S)
	wake     chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
}

func newDispatcher[S any]() *dispatcher[S] {
	return &dispatcher[S]{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (d *dispatcher[S]) subscribe(fn func(S)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || fn == nil {
		return
	}
	d.watchers = append(d.watchers, fn)
	if !d.started {
		d.started = true
		go d.loop()
	}
}

// publish must be called in commit order; it never blocks on watchers.
func (d *dispatcher[S]) publish(s S) {
	d.mu.Lock()
	if d.stopped || len(d.watchers) == 0 {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, s)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher[S]) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	d.queue = nil
	close(d.done)
}

func (d *dispatcher[S]) loop() {
	for {
		select {
		case <-d.done:
			return
		case <-d.wake:
		}
		for {
			d.mu.Lock()
			if d.stopped || len(d.queue) == 0 {
				d.mu.Unlock()
				break
			}
			s := d.queue[0]
			d.queue = d.queue[1:]
			watchers := make([]func(S), len(d.watchers))
			copy(watchers, d.watchers)
			d.mu.Unlock()

			for _, w := range watchers {
				w(s)
			}
		}
	}
}
