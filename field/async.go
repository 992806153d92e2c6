package field

import (
	"draftui/config"
	"draftui/event"
	"draftui/view"
)

// LoadingErrorChange is fired when an asynchronous view's loading error
// changes.
const LoadingErrorChange = "loadingErrorChange"

// LoadState is the state of an asynchronous view's load.
type LoadState int

const (
	Uninitialized LoadState = iota
	Loading
	Loaded
	Errored
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "error"
	}
	return "uninitialized"
}

// Async drives the load of a view that fetches data when it gets active.
//
// The load trigger is called when the view becomes active while nothing has
// been loaded yet or the previous load failed. It returns false when there is
// nothing to fetch, in which case the view is loaded right away. A view that
// is already loading does not start another load.
type Async struct {
	host    view.View
	state   LoadState
	loadErr error
	trigger func() bool
}

// InitAsync wires the load trigger to host's activation.
func (a *Async) InitAsync(host view.View, trigger func() bool) {
	a.host = host
	a.trigger = trigger
	host.Events().After(view.ActiveChange, func(e *event.Facade) {
		if active, _ := e.NewVal.(bool); active {
			a.activate()
		}
	})
	host.Events().SetDefault(LoadingErrorChange, func(e *event.Facade) {
		a.loadErr, _ = e.NewVal.(error)
	})
	host.Events().After(LoadingErrorChange, func(e *event.Facade) {
		host.Render()
	})
}

func (a *Async) activate() {
	if a.state == Loading || a.state == Loaded {
		return
	}
	a.state = Loading
	if !a.trigger() {
		a.state = Loaded
		return
	}
	if config.DebugLog != nil {
		config.DebugLog.Debug().Str("component", "AsyncView").Str("view", a.host.ID()).Msg("load started")
	}
	a.host.Render()
}

// LoadState returns the current state.
func (a *Async) LoadState() LoadState {
	return a.state
}

// LoadingError returns the error of the last load, if it failed.
func (a *Async) LoadingError() error {
	return a.loadErr
}

// SetLoadingError records a failed load.
func (a *Async) SetLoadingError(err error) {
	a.state = Errored
	a.host.Events().Fire(LoadingErrorChange, &event.Facade{PrevVal: a.loadErr, NewVal: err})
}

// markLoaded ends a successful load.
func (a *Async) markLoaded() {
	a.state = Loaded
	a.loadErr = nil
}

// startLoaded marks a view with nothing to fetch as loaded.
func (a *Async) startLoaded() {
	a.state = Loaded
}
