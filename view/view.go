// Package view provides the base View every editing view builds on, the
// Plugin contract and the registry plugins are attached from, and the event
// loop asynchronous work goes through.
package view

import (
	"draftui/config"
	"draftui/dom"
	"draftui/event"
)

// ActiveChange is fired when a view's active flag changes.
const ActiveChange = "activeChange"

// View is a renderable unit with an active lifecycle flag.
type View interface {
	Host
	Active() bool
	SetActive(active bool)
	Container() *dom.Node
	Render()
	Destroy(remove bool)
	Destroyed() bool
}

// DOMHandler binds a handler to an action on nodes matching a selector
// inside the view container.
type DOMHandler struct {
	Selector string
	Action   string
	Handler  dom.EventHandler
}

type childRelation struct {
	name string
	get  func() View
}

// Base implements View. Concrete views embed it and call Init from their
// constructor, passing themselves as self.
//
// The active flag starts false. The owner sets it true once the container is
// in the document and false before destroying the view; each change is
// cascaded synchronously to the child views the concrete view declared with
// DeclareChild.
type Base struct {
	HostBase

	self      View
	active    bool
	config    map[string]any
	tag       string
	container *dom.Node

	domHandlers []DOMHandler
	bound       int
	unbind      []func()

	children  []childRelation
	onDestroy []func()
	destroyed bool
}

// Init initializes the base view: it attaches the registered plugins, then
// subscribes the active cascade after every other activeChange subscriber.
func (b *Base) Init(self View, env *Env, name string) {
	b.self = self
	b.tag = "div"
	b.config = make(map[string]any)
	b.InitHost(self, env, name)

	b.events.SetDefault(ActiveChange, func(e *event.Facade) {
		b.active, _ = e.NewVal.(bool)
	})

	b.AttachPlugins(self)
	b.events.After(ActiveChange, b.setChildrenActive)
}

// DeclareChild declares a child view relation. get may return nil when the
// relation is currently empty.
func (b *Base) DeclareChild(name string, get func() View) {
	b.children = append(b.children, childRelation{name: name, get: get})
}

// Children returns the current child views keyed by relation name.
func (b *Base) Children() map[string]View {
	out := make(map[string]View, len(b.children))
	for _, rel := range b.children {
		if v := rel.get(); v != nil {
			out[rel.name] = v
		}
	}
	return out
}

// Active reports the active flag.
func (b *Base) Active() bool {
	return b.active
}

// SetActive changes the active flag, firing activeChange when it differs.
func (b *Base) SetActive(active bool) {
	if b.active == active {
		return
	}
	b.events.Fire(ActiveChange, &event.Facade{PrevVal: b.active, NewVal: active})
}

func (b *Base) setChildrenActive(e *event.Facade) {
	for _, rel := range b.children {
		child := rel.get()
		if child == nil {
			continue
		}
		child.SetActive(b.active)
	}
}

// Config returns the arbitrary configuration map of the view.
func (b *Base) Config() map[string]any {
	return b.config
}

// SetConfig replaces the configuration map.
func (b *Base) SetConfig(cfg map[string]any) {
	if cfg == nil {
		cfg = make(map[string]any)
	}
	b.config = cfg
}

// SetContainerTag changes the tag of the container. It has no effect once
// the container has been materialized.
func (b *Base) SetContainerTag(tag string) {
	b.tag = tag
}

// Container returns the view container, materializing it on first use.
// Handlers added before materialization are bound at that point.
func (b *Base) Container() *dom.Node {
	if b.container == nil {
		b.container = dom.El(b.tag).SetAttr("data-view", b.name)
		b.bindDOMHandlers()
	}
	return b.container
}

// HasContainer reports whether the container has been materialized.
func (b *Base) HasContainer() bool {
	return b.container != nil
}

// AddDOMEventHandlers merges handlers into the view's DOM handlers. They are
// bound right away if the container exists, otherwise when it is created.
func (b *Base) AddDOMEventHandlers(handlers ...DOMHandler) {
	b.domHandlers = append(b.domHandlers, handlers...)
	if b.container != nil {
		b.bindDOMHandlers()
	}
}

func (b *Base) bindDOMHandlers() {
	for ; b.bound < len(b.domHandlers); b.bound++ {
		h := b.domHandlers[b.bound]
		detach, err := b.container.Delegate(h.Selector, h.Action, h.Handler)
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Error().Err(err).Str("component", "View").Str("view", b.name).
					Msg("invalid DOM handler selector")
			}
			continue
		}
		b.unbind = append(b.unbind, detach)
	}
}

// Render is a no-op; concrete views provide their own.
func (b *Base) Render() {}

// OnDestroy registers fn to run during Destroy, after deactivation.
func (b *Base) OnDestroy(fn func()) {
	b.onDestroy = append(b.onDestroy, fn)
}

// Destroy deactivates the view (cascading to its children) and then
// releases it: destroy hooks, plugins, DOM handlers and event subscriptions.
// With remove the container is detached from its parent.
func (b *Base) Destroy(remove bool) {
	if b.destroyed {
		return
	}
	b.self.SetActive(false)

	for _, fn := range b.onDestroy {
		fn()
	}
	b.onDestroy = nil

	for _, detach := range b.unbind {
		detach()
	}
	b.unbind = nil

	b.ReleaseHost()
	if remove && b.container != nil {
		b.container.Remove()
	}
	b.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (b *Base) Destroyed() bool {
	return b.destroyed
}
