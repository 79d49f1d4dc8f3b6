package framebuf

import (
	"errors"
	"sort"
	"sync"
)

// BackendFactory creates a new, uninitialized Backend.
type BackendFactory func() (Backend, error)

// RegistryEntry describes a registered backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	//   - 100: GPU backends
	//   - 10: CPU backends
	Priority int

	Factory BackendFactory

	// Available reports if the backend can run on this system.
	Available func() bool
}

var globalRegistry = &Registry{}

// Registry maps backend names to factories.
//
// Backend packages register themselves from init:
//
//	func init() {
//	    framebuf.RegisterBackend("software", 10, factory, nil)
//	}
//
// and callers pick one by name or by priority:
//
//	b, err := framebuf.NewBackendByName("gpu")
//	b, err := framebuf.NewBackend() // best available
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates an empty registry. Most code uses the global one.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// RegisterBackend adds a backend to the global registry. A nil available
// means always available. Registering an existing name replaces it.
func RegisterBackend(name string, priority int, factory BackendFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// UnregisterBackend removes a backend from the global registry.
func UnregisterBackend(name string) {
	globalRegistry.Unregister(name)
}

// Backends returns all registered backend names, highest priority first.
func Backends() []string {
	return globalRegistry.List()
}

// AvailableBackends returns the names of backends that can run here.
func AvailableBackends() []string {
	return globalRegistry.Available()
}

// NewBackend creates a backend from the best available registration.
func NewBackend() (Backend, error) {
	return globalRegistry.NewBackend()
}

// NewBackendByName creates a backend from a specific registration.
func NewBackendByName(name string) (Backend, error) {
	return globalRegistry.NewBackendByName(name)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory BackendFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns all registered names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Available returns the available names sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(true)
}

// Get returns a copy of the named entry.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// NewBackend tries each available backend in priority order and returns the
// first one whose factory succeeds.
func (r *Registry) NewBackend() (Backend, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var errs []error
	for _, name := range available {
		b, err := r.NewBackendByName(name)
		if err == nil {
			return b, nil
		}
		Logger().Warn("framebuf: backend unavailable, trying next", "backend", name, "err", err)
		errs = append(errs, err)
	}
	return nil, errors.Join(append([]error{ErrNoBackendAvailable}, errs...)...)
}

// NewBackendByName creates a backend from the named registration.
func (r *Registry) NewBackendByName(name string) (Backend, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory()
}

// sortedNames must be called with the lock held. Equal priorities sort by
// name so selection is deterministic.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// ErrNoBackendAvailable is returned when no backend is registered or none
// can run on the current system.
var ErrNoBackendAvailable = errors.New("framebuf: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "framebuf: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but cannot run here.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "framebuf: backend unavailable: " + e.Name
}
