package bridge

// ReadySignal is the fire-once broadcast telling bridges the application is
// ready. Subscribers registered before Fire run once when it fires; callers
// check Ready first so a late subscription never waits forever.
type ReadySignal struct {
	ready bool
	next  int
	subs  map[int]func()
	order []int
}

// NewReadySignal creates a signal that has not fired.
func NewReadySignal() *ReadySignal {
	return &ReadySignal{subs: make(map[int]func())}
}

// Ready reports whether the signal fired.
func (s *ReadySignal) Ready() bool {
	return s.ready
}

// Subscribe registers fn to run when the signal fires and returns the
// function removing it. Subscribing after the signal fired is a no-op.
func (s *ReadySignal) Subscribe(fn func()) (unsubscribe func()) {
	if s.ready {
		return func() {}
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	s.order = append(s.order, id)
	return func() { delete(s.subs, id) }
}

// Pending returns the number of subscribers waiting for the signal.
func (s *ReadySignal) Pending() int {
	return len(s.subs)
}

// Fire marks the application ready and runs the subscribers in subscription
// order. Later calls do nothing.
func (s *ReadySignal) Fire() {
	if s.ready {
		return
	}
	s.ready = true
	order, subs := s.order, s.subs
	s.order, s.subs = nil, make(map[int]func())
	for _, id := range order {
		if fn, ok := subs[id]; ok {
			fn()
		}
	}
}
