//go:build !ios && !android && (amd64 || arm64)

package python

import "sync/atomic"

// handleSeq is the process-wide id sequence. Ids start at 1 and are never
// reused; 0 is reserved for the zero Handle.
var handleSeq atomic.Uint64

// Handle pairs a foreign object pointer with a locally assigned id,
// identifying one logical use of that pointer. Two independently obtained
// handles to the same foreign pointer are distinct: equality and registry
// membership are decided by id alone.
//
// Creating, copying or dropping a Handle never touches the foreign
// reference count.
type Handle struct {
	ptr uintptr
	id  uint64
}

// NewHandle wraps a foreign pointer in a fresh Handle. Wrapping a null
// pointer yields the zero Handle.
func NewHandle(ptr uintptr) Handle {
	if ptr == 0 {
		return Handle{}
	}
	return Handle{ptr: ptr, id: handleSeq.Add(1)}
}

// Ptr returns the foreign pointer.
func (h Handle) Ptr() uintptr {
	return h.ptr
}

// ID returns the locally assigned id, 0 for the zero Handle.
func (h Handle) ID() uint64 {
	return h.id
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.id == 0
}

// Equal reports whether both handles identify the same logical use,
// which is an id comparison regardless of the pointers.
func (h Handle) Equal(other Handle) bool {
	return h.id == other.id
}
