// Package event provides the named-event targets shared by views, view
// services and plugins.
//
// An event fired on a Target is identified by "<prefix>:<name>", where the
// prefix is the type name of the firing target. Subscribers match on the bare
// name (qualified with the subscribing target's own prefix), on the full
// type, or on "*:<name>" to catch the event from any
// descendant whose events bubble to the subscribing target.
package event

import "strings"

// Wildcard matches any prefix in a subscription pattern.
const Wildcard = "*"

// Facade is passed to every subscriber of a fired event.
type Facade struct {
	// Type is the full "<prefix>:<name>" type of the event.
	Type string
	// Target is the owner of the Target the event was originally fired on.
	Target any
	// Payload is the event specific data.
	Payload any

	// PrevVal and NewVal are set for attribute change events.
	PrevVal any
	NewVal  any

	// Src tags the origin of an attribute change (e.g. "remove").
	Src string
	// Meta holds additional change metadata.
	Meta map[string]any

	prevented bool
	stopped   bool
}

// Name returns the event name without its prefix.
func (f *Facade) Name() string {
	_, name := split(f.Type)
	return name
}

// PreventDefault prevents the default function and the after phase.
func (f *Facade) PreventDefault() {
	f.prevented = true
}

// Prevented reports whether PreventDefault has been called.
func (f *Facade) Prevented() bool {
	return f.prevented
}

// StopPropagation stops bubbling to further targets. Subscribers on the
// current target still run.
func (f *Facade) StopPropagation() {
	f.stopped = true
}

// Handler handles a fired event.
type Handler func(e *Facade)

func split(t string) (prefix, name string) {
	idx := strings.Index(t, ":")
	if idx == -1 {
		return "", t
	}
	return t[:idx], t[idx+1:]
}

// matches reports whether a subscription pattern matches an event type.
func matches(pattern, eventType string) bool {
	pPrefix, pName := split(pattern)
	ePrefix, eName := split(eventType)
	if pName != eName {
		return false
	}
	return pPrefix == Wildcard || pPrefix == ePrefix
}
