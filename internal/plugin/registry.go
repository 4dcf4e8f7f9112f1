// Package plugin provides the static handler registration layer. Plugins
// are ordinary Go values registered by the binary's entry point; there is
// no filesystem discovery or runtime reflection. Registration happens once
// at startup, before the first dispatch.
package plugin

import (
	"fmt"
	"strings"

	"github.com/erickweyunga/ghala-hooks/internal/config"
	"github.com/erickweyunga/ghala-hooks/internal/events"
	"github.com/erickweyunga/ghala-hooks/internal/log"
)

// Subscription pairs an event name (or events.Wildcard) with a handler.
type Subscription struct {
	Event   string
	Handler events.Handler
}

// Plugin is a named unit of handler registrations with an activity flag.
// An inactive plugin's registrations are skipped entirely.
type Plugin struct {
	Name          string
	Description   string
	Active        bool
	Subscriptions []Subscription
}

// Subscriber is the part of the event bus the registry wires into.
type Subscriber interface {
	Subscribe(event string, h events.Handler)
}

// Registry holds registered plugins, preserving Add order. Add order
// determines handler registration order on the bus.
type Registry struct {
	order   []string
	plugins map[string]*Plugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]*Plugin),
	}
}

// Add registers a plugin in the registry.
func (r *Registry) Add(p *Plugin) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("plugin name is required")
	}
	if _, exists := r.plugins[p.Name]; exists {
		return fmt.Errorf("plugin %q already registered", p.Name)
	}
	for i, sub := range p.Subscriptions {
		if sub.Event == "" {
			return fmt.Errorf("plugin %q: subscription[%d] has no event name", p.Name, i)
		}
		if sub.Handler == nil {
			return fmt.Errorf("plugin %q: subscription[%d] has no handler", p.Name, i)
		}
	}
	r.plugins[p.Name] = p
	r.order = append(r.order, p.Name)
	return nil
}

// Get retrieves a plugin by name.
func (r *Registry) Get(name string) (*Plugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}

// All returns all registered plugins in Add order.
func (r *Registry) All() []*Plugin {
	out := make([]*Plugin, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.plugins[name])
	}
	return out
}

// Apply wires every active plugin's subscriptions onto the bus, in Add
// order. Config entries override the in-code activity flag. Returns the
// number of handlers wired.
func (r *Registry) Apply(bus Subscriber, conf map[string]config.PluginConf) int {
	logger := log.WithComponent("plugin")

	wired := 0
	for _, name := range r.order {
		p := r.plugins[name]

		active := p.Active
		if pc, ok := conf[name]; ok && pc.Active != nil {
			active = *pc.Active
		}
		if !active {
			logger.Info("plugin inactive, skipping registrations", "plugin", name)
			continue
		}

		for _, sub := range p.Subscriptions {
			bus.Subscribe(sub.Event, sub.Handler)
			wired++
		}
		logger.Info("plugin registered", "plugin", name, "subscriptions", len(p.Subscriptions))
	}
	return wired
}
