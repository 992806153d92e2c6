// Package bridge attaches views to container nodes of the document. A bridge
// waits for the application to be ready, obtains its view from a factory and
// owns that view until the container is disconnected.
package bridge

import (
	"errors"

	"github.com/google/uuid"

	"draftui/config"
	"draftui/dom"
	"draftui/view"
)

// PresentationClass marks a container holding its view.
const PresentationClass = "ez-js-standard-form"

// ErrNoFactory is displayed by a bridge connected without a factory.
var ErrNoFactory = errors.New("no view factory configured")

// Factory creates the view of a bridge. CreateView runs asynchronously and
// calls done on the loop with the view or the error that prevented building
// it. Asynchronous work must be owned by owner so that results arriving
// after the bridge disconnected are dropped.
type Factory interface {
	CreateView(owner string, done func(view.View, error))
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(owner string, done func(view.View, error))

// CreateView calls f.
func (f FactoryFunc) CreateView(owner string, done func(view.View, error)) {
	f(owner, done)
}

// Bridge connects a container node to a view.
type Bridge struct {
	node    *dom.Node
	factory Factory
	ready   *ReadySignal
	loop    *view.Loop

	owner       string
	connected   bool
	view        view.View
	err         error
	unsubscribe func()
}

// New creates a bridge for node. The node keeps its placeholder content until
// the view is attached.
func New(node *dom.Node, factory Factory, ready *ReadySignal, loop *view.Loop) *Bridge {
	return &Bridge{node: node, factory: factory, ready: ready, loop: loop}
}

// Node returns the container node.
func (b *Bridge) Node() *dom.Node { return b.node }

// View returns the attached view, or nil.
func (b *Bridge) View() view.View { return b.view }

// Err returns the error of the last view creation, if it failed.
func (b *Bridge) Err() error { return b.err }

// Connected reports whether the bridge is connected.
func (b *Bridge) Connected() bool { return b.connected }

// Waiting reports whether the bridge waits for the ready signal.
func (b *Bridge) Waiting() bool { return b.unsubscribe != nil }

// Connect starts obtaining the view, right away when the application is
// ready, otherwise once the ready signal fires.
func (b *Bridge) Connect() {
	if b.connected {
		return
	}
	b.connected = true
	b.err = nil
	b.owner = "hostBridge-" + uuid.NewString()
	b.loop.Register(b.owner)

	if b.ready == nil || b.ready.Ready() {
		b.createView()
		return
	}
	if config.DebugLog != nil {
		config.DebugLog.Debug().Str("component", "Bridge").Str("owner", b.owner).Msg("waiting for app ready")
	}
	b.unsubscribe = b.ready.Subscribe(func() {
		b.unsubscribe = nil
		b.createView()
	})
}

func (b *Bridge) createView() {
	owner := b.owner
	if b.factory == nil {
		b.attachView(owner, nil, ErrNoFactory)
		return
	}
	b.factory.CreateView(owner, func(v view.View, err error) {
		b.attachView(owner, v, err)
	})
}

func (b *Bridge) attachView(owner string, v view.View, err error) {
	if !b.connected || owner != b.owner {
		if v != nil {
			v.Destroy(true)
		}
		return
	}
	if err != nil {
		b.err = err
		b.node.SetText(err.Error())
		if config.DebugLog != nil {
			config.DebugLog.Error().Err(err).Str("component", "Bridge").Msg("failed to create view")
		}
		return
	}
	if v == nil {
		return
	}
	v.Render()
	b.node.SetContent(v.Container())
	b.node.AddClass(PresentationClass)
	b.view = v
	v.SetActive(true)
}

// Disconnect deactivates and destroys the attached view, removing its node,
// and drops a pending ready subscription or view creation.
func (b *Bridge) Disconnect() {
	if !b.connected {
		return
	}
	b.connected = false
	if b.view != nil {
		b.view.SetActive(false)
		b.view.Destroy(true)
		b.view = nil
	}
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.loop.Unregister(b.owner)
	if config.DebugLog != nil {
		config.DebugLog.Debug().Str("component", "Bridge").Str("owner", b.owner).Msg("disconnected")
	}
}
