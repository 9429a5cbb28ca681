package command

import "sync"

// Registry is the command set of one program: operations, settings, and
// delegations keyed by name, plus the settings' current values. Command
// models are immutable after registration; setting values and delegation
// memos mutate for the life of the owning program. Both are read-modify-
// write slots, so access is serialized for callers that share a registry
// across goroutines.
type Registry struct {
	Name        string
	Version     string
	Description string

	mu       sync.RWMutex
	commands map[string]*Model
	order    []string
	settings map[string]any
	memos    map[string]*Registry
}

// NewRegistry creates an empty registry for one program.
func NewRegistry(name, version, description string) *Registry {
	return &Registry{
		Name:        name,
		Version:     version,
		Description: description,
		commands:    make(map[string]*Model),
		settings:    make(map[string]any),
		memos:       make(map[string]*Registry),
	}
}

// Add registers a command model. Names are unique across operations,
// settings, and delegations. A setting's value slot is created here with
// its declared initial value.
func (r *Registry) Add(m *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[m.Name]; exists {
		return declErr(m.Name, "name already registered")
	}
	r.commands[m.Name] = m
	r.order = append(r.order, m.Name)
	if m.Kind == KindSetting {
		r.settings[m.Name] = m.InitialValue
	}
	return nil
}

// MustAdd registers models and panics on a declaration error. Intended
// for program construction, where a bad declaration is a programming bug.
func (r *Registry) MustAdd(models ...*Model) *Registry {
	for _, m := range models {
		if err := r.Add(m); err != nil {
			panic(err)
		}
	}
	return r
}

// Lookup returns the model registered under name.
func (r *Registry) Lookup(name string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.commands[name]
	return m, ok
}

// Commands returns all models in declaration order.
func (r *Registry) Commands() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Model, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// CommandNames returns all command names in declaration order.
func (r *Registry) CommandNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SettingNames returns the names of all settings in declaration order.
func (r *Registry) SettingNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, name := range r.order {
		if r.commands[name].Kind == KindSetting {
			out = append(out, name)
		}
	}
	return out
}

// SettingValue returns the current value of a setting.
func (r *Registry) SettingValue(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.settings[name]
	return v, ok
}

// StoreSetting overwrites a setting's current value. The caller is the
// dispatcher, after a successful invocation of a setting with its update
// flag set.
func (r *Registry) StoreSetting(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[name] = value
}

// Memoized returns the cached delegate registry for a reuse delegation.
func (r *Registry) Memoized(name string) (*Registry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.memos[name]
	return d, ok
}

// Memoize caches a delegate registry produced by a reuse delegation.
func (r *Registry) Memoize(name string, delegate *Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memos[name] = delegate
}
