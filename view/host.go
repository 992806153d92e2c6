package view

import (
	"github.com/google/uuid"

	"draftui/config"
	"draftui/dom"
	"draftui/event"
)

// Env carries the application-scoped collaborators every host needs. It is
// built once at startup and passed by reference.
type Env struct {
	Loop     *Loop
	Plugins  *PluginRegistry
	Animator dom.Animator
}

// HostBase implements Host: identity, events and plugin attachment.
type HostBase struct {
	name    string
	id      string
	env     *Env
	events  *event.Target
	plugins []Plugin
	byNS    map[string]Plugin
}

// InitHost sets up identity and events for self and registers it on the
// loop. It does not attach plugins.
func (h *HostBase) InitHost(self Host, env *Env, name string) {
	h.name = name
	h.id = name + "-" + uuid.NewString()
	h.env = env
	h.events = event.NewTarget(name, self)
	h.byNS = make(map[string]Plugin)
	env.Loop.Register(h.id)
}

// AttachPlugins attaches every plugin registered for the host's name, in
// registration order.
func (h *HostBase) AttachPlugins(self Host) {
	for _, factory := range h.env.Plugins.Plugins(h.name) {
		p := factory()
		p.Attach(self)
		h.plugins = append(h.plugins, p)
		h.byNS[p.Namespace()] = p
		if config.DebugLog != nil {
			config.DebugLog.Debug().Str("component", "PluginRegistry").Str("host", h.name).
				Str("plugin", p.Namespace()).Msg("plugged")
		}
	}
}

// ReleaseHost detaches plugins and event subscriptions and unregisters the
// host from the loop.
func (h *HostBase) ReleaseHost() {
	for i := len(h.plugins) - 1; i >= 0; i-- {
		h.plugins[i].Detach()
	}
	h.plugins = nil
	h.byNS = make(map[string]Plugin)
	h.events.DetachAll()
	h.env.Loop.Unregister(h.id)
}

// Name returns the host type name.
func (h *HostBase) Name() string { return h.name }

// ID returns the host instance id.
func (h *HostBase) ID() string { return h.id }

// Events returns the host's event target.
func (h *HostBase) Events() *event.Target { return h.events }

// Env returns the application environment.
func (h *HostBase) Env() *Env { return h.env }

// Plugin returns the attached plugin with the given namespace, or nil.
func (h *HostBase) Plugin(namespace string) Plugin { return h.byNS[namespace] }

// Plugins returns the attached plugins in attachment order.
func (h *HostBase) Plugins() []Plugin {
	out := make([]Plugin, len(h.plugins))
	copy(out, h.plugins)
	return out
}

// Fire fires the named event on the host.
func (h *HostBase) Fire(name string, f *event.Facade) bool {
	return h.events.Fire(name, f)
}
