package event

import "strings"

type phase int

const (
	phaseOn phase = iota
	phaseAfter
)

// Subscription is returned by On and After and can be detached.
type Subscription struct {
	target  *Target
	pattern string
	phase   phase
	handler Handler
	id      int
}

// Detach removes the subscription from its target. Detaching twice is a no-op.
func (s *Subscription) Detach() {
	if s == nil || s.target == nil {
		return
	}
	s.target.remove(s)
	s.target = nil
}

// Target is an event emitter with YUI-style on/after phases and bubbling.
//
// A Target is not safe for concurrent use: every target lives on the UI
// event loop.
type Target struct {
	prefix  string
	owner   any
	subs    []*Subscription
	nextID  int
	parents []*Target

	// Defaults run between the on and after phases unless prevented.
	defaults map[string]Handler
}

// NewTarget creates a target whose fired events are prefixed with prefix.
// owner is reported as Facade.Target for events fired on this target.
func NewTarget(prefix string, owner any) *Target {
	return &Target{
		prefix:   prefix,
		owner:    owner,
		defaults: make(map[string]Handler),
	}
}

// Prefix returns the event prefix of the target.
func (t *Target) Prefix() string {
	return t.prefix
}

// On subscribes to the "on" phase of events matching pattern.
func (t *Target) On(pattern string, h Handler) *Subscription {
	return t.add(pattern, phaseOn, h)
}

// After subscribes to the "after" phase of events matching pattern. After
// subscribers run once every on subscriber and the default function ran.
func (t *Target) After(pattern string, h Handler) *Subscription {
	return t.add(pattern, phaseAfter, h)
}

// SetDefault sets the default function of the named event.
func (t *Target) SetDefault(name string, h Handler) {
	t.defaults[name] = h
}

func (t *Target) add(pattern string, p phase, h Handler) *Subscription {
	// A bare name only matches events fired with this target's prefix.
	if !strings.Contains(pattern, ":") {
		pattern = t.prefix + ":" + pattern
	}
	t.nextID++
	s := &Subscription{target: t, pattern: pattern, phase: p, handler: h, id: t.nextID}
	t.subs = append(t.subs, s)
	return s
}

func (t *Target) remove(s *Subscription) {
	for i, sub := range t.subs {
		if sub.id == s.id {
			t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
			return
		}
	}
}

// DetachAll removes every subscription and bubble target.
func (t *Target) DetachAll() {
	for _, s := range t.subs {
		s.target = nil
	}
	t.subs = nil
	t.parents = nil
}

// AddTarget makes events fired on t bubble to parent.
func (t *Target) AddTarget(parent *Target) {
	for _, p := range t.parents {
		if p == parent {
			return
		}
	}
	t.parents = append(t.parents, parent)
}

// RemoveTarget stops bubbling to parent.
func (t *Target) RemoveTarget(parent *Target) {
	for i, p := range t.parents {
		if p == parent {
			t.parents = append(t.parents[:i:i], t.parents[i+1:]...)
			return
		}
	}
}

// Fire fires the named event with the given facade (which may be nil) and
// returns false if the event was prevented.
//
// The on phase runs on t and then on every bubble target, depth-first. The
// default function, if any, runs next. The after phase then walks the same
// chain.
func (t *Target) Fire(name string, f *Facade) bool {
	if f == nil {
		f = &Facade{}
	}
	f.Type = t.prefix + ":" + name
	if f.Target == nil {
		f.Target = t.owner
	}

	chain := t.chain(nil)

	t.run(chain, phaseOn, f)
	if f.prevented {
		return false
	}
	if def, ok := t.defaults[name]; ok {
		def(f)
	}
	f.stopped = false
	t.run(chain, phaseAfter, f)
	return true
}

func (t *Target) run(chain []*Target, p phase, f *Facade) {
	for _, target := range chain {
		// Subscribers added or removed by a handler take effect on the next fire.
		subs := make([]*Subscription, len(target.subs))
		copy(subs, target.subs)
		for _, s := range subs {
			if s.phase != p || s.target == nil || !matches(s.pattern, f.Type) {
				continue
			}
			s.handler(f)
		}
		if f.stopped {
			return
		}
	}
}

func (t *Target) chain(seen map[*Target]bool) []*Target {
	if seen == nil {
		seen = make(map[*Target]bool)
	}
	if seen[t] {
		return nil
	}
	seen[t] = true
	out := []*Target{t}
	for _, p := range t.parents {
		out = append(out, p.chain(seen)...)
	}
	return out
}
