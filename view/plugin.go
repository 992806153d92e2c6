package view

import (
	"draftui/event"
)

// Host is a view or view service plugins can be attached to.
type Host interface {
	// Name is the host type name plugins are registered under.
	Name() string
	// ID identifies the host instance on the loop.
	ID() string
	Events() *event.Target
	Env() *Env
	Plugin(namespace string) Plugin
}

// Plugin extends one host instance.
type Plugin interface {
	// Namespace is the key the plugin is reachable under on its host.
	Namespace() string
	Attach(host Host)
	Detach()
}

// PluginFactory creates a plugin instance for a host.
type PluginFactory func() Plugin

// PluginBase implements the host bookkeeping shared by plugins.
type PluginBase struct {
	host Host
	subs []*event.Subscription
}

// Attach records the host. Plugins embedding PluginBase call it first from
// their own Attach.
func (p *PluginBase) Attach(host Host) {
	p.host = host
}

// Host returns the host the plugin is attached to.
func (p *PluginBase) Host() Host {
	return p.host
}

// OnHostEvent subscribes to events on the host (including bubbled ones when
// pattern is "*:<name>"). The subscription is removed on Detach.
func (p *PluginBase) OnHostEvent(pattern string, h event.Handler) {
	p.subs = append(p.subs, p.host.Events().On(pattern, h))
}

// AfterHostEvent is OnHostEvent for the after phase.
func (p *PluginBase) AfterHostEvent(pattern string, h event.Handler) {
	p.subs = append(p.subs, p.host.Events().After(pattern, h))
}

// Detach removes every host subscription.
func (p *PluginBase) Detach() {
	for _, s := range p.subs {
		s.Detach()
	}
	p.subs = nil
}
