//go:build !ios && !android && (amd64 || arm64)

package python

import "testing"

func TestRegistryRegisterAndQuery(t *testing.T) {
	r := NewHandleRegistry()
	h := NewHandle(0x1000)

	if r.IsRegistered(h) {
		t.Error("fresh handle should not be registered")
	}

	stored, err := r.Register(h)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !stored.Equal(h) {
		t.Error("Register should return the stored handle")
	}
	if !r.IsRegistered(h) {
		t.Error("handle should be registered after Register")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryDoubleRegisterFails(t *testing.T) {
	r := NewHandleRegistry()
	h := NewHandle(0x1000)

	if _, err := r.Register(h); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := r.Register(h); err == nil {
		t.Error("registering an already registered id should fail")
	} else if !IsLogicError(err) {
		t.Errorf("double register should be a LogicError, got %T", err)
	}
	if r.Len() != 1 {
		t.Errorf("failed Register changed Len to %d", r.Len())
	}
}

func TestRegistrySamePointerDistinctIDs(t *testing.T) {
	r := NewHandleRegistry()
	a := NewHandle(0x1000)
	b := NewHandle(0x1000)

	if _, err := r.Register(a); err != nil {
		t.Fatalf("Register a: %v", err)
	}
	if _, err := r.Register(b); err != nil {
		t.Fatalf("Register b: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2 (registry is keyed by id, not pointer)", r.Len())
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewHandleRegistry()
	h := NewHandle(0x1000)

	if err := r.Unregister(h); err == nil {
		t.Error("unregistering a never-registered handle should fail")
	} else if !IsLogicError(err) {
		t.Errorf("unregistering absent handle should be a LogicError, got %T", err)
	}

	if _, err := r.Register(h); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Unregister(h); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if r.IsRegistered(h) {
		t.Error("handle should not be registered after Unregister")
	}
	if err := r.Unregister(h); err == nil {
		t.Error("unregistering twice should fail")
	}
}

func TestRegistryEachVisitsEveryEntryOnce(t *testing.T) {
	r := NewHandleRegistry()
	want := make(map[uint64]bool)
	for i := 0; i < 10; i++ {
		h := NewHandle(uintptr(0x1000 + i))
		want[h.ID()] = true
		if _, err := r.Register(h); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	got := make(map[uint64]int)
	r.Each(func(h Handle) { got[h.ID()]++ })

	if len(got) != len(want) {
		t.Fatalf("visited %d entries, want %d", len(got), len(want))
	}
	for id, count := range got {
		if !want[id] {
			t.Errorf("visited unknown id %d", id)
		}
		if count != 1 {
			t.Errorf("id %d visited %d times", id, count)
		}
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewHandleRegistry()
	for i := 0; i < 5; i++ {
		if _, err := r.Register(NewHandle(uintptr(0x1000 + i))); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", r.Len())
	}
}
