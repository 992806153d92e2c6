package view

// PluginRegistry maps host type names to the plugins attached to every host
// of that type. Registration happens once at startup; the registry is then
// only read, so it needs no locking.
type PluginRegistry struct {
	plugins map[string][]PluginFactory
}

// NewPluginRegistry creates an empty registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		plugins: make(map[string][]PluginFactory),
	}
}

// Register records factory under every host name, in order. Registering the
// same factory twice attaches it twice.
func (r *PluginRegistry) Register(factory PluginFactory, hostNames ...string) {
	for _, name := range hostNames {
		r.plugins[name] = append(r.plugins[name], factory)
	}
}

// Plugins returns the factories registered for hostName, in registration
// order. The result is a copy.
func (r *PluginRegistry) Plugins(hostName string) []PluginFactory {
	registered := r.plugins[hostName]
	out := make([]PluginFactory, len(registered))
	copy(out, registered)
	return out
}
