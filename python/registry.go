//go:build !ios && !android && (amd64 || arm64)

package python

// HandleRegistry tracks the handles this library currently holds one
// foreign reference for. Each entry corresponds to exactly one
// outstanding reference increment attributable to the library.
//
// The registry does no locking of its own: the façade serializes access
// under the package lock, matching how the rest of the shared binding
// state is protected.
type HandleRegistry struct {
	objects map[uint64]Handle
}

// NewHandleRegistry creates an empty registry.
func NewHandleRegistry() *HandleRegistry {
	return &HandleRegistry{objects: make(map[uint64]Handle)}
}

// Register records a handle as owned. Registering an id that is already
// present is a programmer error and fails with a *LogicError.
func (r *HandleRegistry) Register(h Handle) (Handle, error) {
	if _, ok := r.objects[h.ID()]; ok {
		return Handle{}, &LogicError{Op: "Register", Message: "object id " + utoa(h.ID()) + " is already registered"}
	}
	r.objects[h.ID()] = h
	return h, nil
}

// Unregister removes a handle. Unregistering an absent id is a
// programmer error and fails with a *LogicError.
func (r *HandleRegistry) Unregister(h Handle) error {
	if _, ok := r.objects[h.ID()]; !ok {
		return &LogicError{Op: "Unregister", Message: "object id " + utoa(h.ID()) + " is not registered"}
	}
	delete(r.objects, h.ID())
	return nil
}

// IsRegistered reports whether the handle's id is present.
func (r *HandleRegistry) IsRegistered(h Handle) bool {
	_, ok := r.objects[h.ID()]
	return ok
}

// Len returns the number of registered handles.
func (r *HandleRegistry) Len() int {
	return len(r.objects)
}

// Each visits every registered handle exactly once, in no particular
// order. The registry must not be mutated during the visit.
func (r *HandleRegistry) Each(fn func(Handle)) {
	for _, h := range r.objects {
		fn(h)
	}
}

// Clear empties the registry without releasing any foreign reference;
// releasing is the caller's responsibility.
func (r *HandleRegistry) Clear() {
	clear(r.objects)
}
