package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"draftui/config"
)

// CallbackMsg carries the outcome of an asynchronous call back to the event
// loop, where its continuation runs against the owner's state.
type CallbackMsg struct {
	Owner  string
	Result any
	Err    error

	done func(any, error)
}

// Loop is the single-threaded event loop all views share. Asynchronous work
// is queued as tea.Cmds; the outcome comes back as a CallbackMsg that the
// program hands to Deliver, so continuations always run on the loop.
//
// Owners register an id while they are alive. Results addressed to an owner
// that has been unregistered (a destroyed view, a disconnected bridge) are
// dropped.
type Loop struct {
	ctx   context.Context
	queue []tea.Cmd
	alive map[string]struct{}
}

// NewLoop creates a loop whose calls receive ctx.
func NewLoop(ctx context.Context) *Loop {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Loop{
		ctx:   ctx,
		alive: make(map[string]struct{}),
	}
}

// Context returns the context passed to asynchronous calls.
func (l *Loop) Context() context.Context {
	return l.ctx
}

// Register marks owner as alive.
func (l *Loop) Register(owner string) {
	l.alive[owner] = struct{}{}
}

// Unregister marks owner as gone; pending results for it will be dropped.
func (l *Loop) Unregister(owner string) {
	delete(l.alive, owner)
}

// Alive reports whether owner is registered.
func (l *Loop) Alive(owner string) bool {
	_, ok := l.alive[owner]
	return ok
}

// Go queues a command.
func (l *Loop) Go(cmd tea.Cmd) {
	if cmd != nil {
		l.queue = append(l.queue, cmd)
	}
}

// Pending returns the number of queued commands.
func (l *Loop) Pending() int {
	return len(l.queue)
}

// Flush returns every queued command as one batch and empties the queue.
func (l *Loop) Flush() tea.Cmd {
	if len(l.queue) == 0 {
		return nil
	}
	cmds := l.queue
	l.queue = nil
	return tea.Batch(cmds...)
}

// Drain returns the queued commands and empties the queue.
func (l *Loop) Drain() []tea.Cmd {
	cmds := l.queue
	l.queue = nil
	return cmds
}

// After queues a timer whose continuation runs on the loop once d elapsed.
func (l *Loop) After(owner string, d time.Duration, fn func()) {
	l.Go(tea.Tick(d, func(time.Time) tea.Msg {
		return CallbackMsg{Owner: owner, done: func(any, error) { fn() }}
	}))
}

// Deliver runs the continuation of a CallbackMsg. It returns false when msg
// is not a CallbackMsg. Messages for unregistered owners are dropped.
func (l *Loop) Deliver(msg tea.Msg) bool {
	cb, ok := msg.(CallbackMsg)
	if !ok {
		return false
	}
	if !l.Alive(cb.Owner) {
		if config.DebugLog != nil {
			config.DebugLog.Debug().Str("component", "Loop").Str("owner", cb.Owner).
				Msg("dropping result for released owner")
		}
		return true
	}
	if cb.done != nil {
		cb.done(cb.Result, cb.Err)
	}
	return true
}

// Call runs work off the loop and hands its result to done on the loop,
// provided owner is still alive by then. It mirrors the (error, response)
// callback contract of the remote API.
func Call[T any](l *Loop, owner string, work func(ctx context.Context) (T, error), done func(T, error)) {
	ctx := l.ctx
	l.Go(func() tea.Msg {
		res, err := work(ctx)
		return CallbackMsg{
			Owner:  owner,
			Result: res,
			Err:    err,
			done: func(r any, err error) {
				v, _ := r.(T)
				done(v, err)
			},
		}
	})
}
