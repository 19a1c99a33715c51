// Package concurrent provides a re-entrant mutual-exclusion lock with
// owner tracking. The owning goroutine may acquire the lock arbitrarily
// deep; a goroutine that does not own the lock and attempts to release it
// gets an error rather than silent corruption.
package concurrent

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// ErrNotOwner is returned by Unlock when the calling goroutine does not
// hold the lock.
var ErrNotOwner = errors.New("concurrent: unlocking while not having ownership")

// ErrLockLevelZero is returned by Unlock when the lock is not held at all.
var ErrLockLevelZero = errors.New("concurrent: unlocking while the lock level is zero")

// MutexLock is a re-entrant lock. The zero value is an unlocked lock.
//
// Lock blocks until the lock is available, except when the calling
// goroutine already owns it, in which case the lock level is incremented
// and Lock returns immediately. Each Lock must be balanced by an Unlock
// from the same goroutine; the lock is released to waiters when the level
// returns to zero.
type MutexLock struct {
	inner sync.Mutex // the actual exclusion, held while level > 0

	meta  sync.Mutex // guards owner and level
	owner uint64
	level uint
}

// NewMutexLock creates a lock, optionally acquired by the calling
// goroutine.
func NewMutexLock(locked bool) *MutexLock {
	l := &MutexLock{}
	if locked {
		l.Lock()
	}
	return l
}

// Lock acquires the lock, or increments the lock level when the calling
// goroutine already owns it.
func (l *MutexLock) Lock() {
	id := goroutineID()

	l.meta.Lock()
	if l.level > 0 && l.owner == id {
		l.level++
		l.meta.Unlock()
		return
	}
	l.meta.Unlock()

	l.inner.Lock()

	l.meta.Lock()
	l.owner = id
	l.level = 1
	l.meta.Unlock()
}

// Unlock decrements the lock level, releasing the lock to waiters when
// the level reaches zero. It returns ErrLockLevelZero when the lock is
// not held, and ErrNotOwner when held by another goroutine.
func (l *MutexLock) Unlock() error {
	id := goroutineID()

	l.meta.Lock()
	if l.level == 0 {
		l.meta.Unlock()
		return ErrLockLevelZero
	}
	if l.owner != id {
		owner := l.owner
		l.meta.Unlock()
		return fmt.Errorf("%w (owner goroutine %d, caller %d)", ErrNotOwner, owner, id)
	}

	l.level--
	release := l.level == 0
	if release {
		l.owner = 0
	}
	l.meta.Unlock()

	if release {
		l.inner.Unlock()
	}
	return nil
}

// LockLevel returns the current lock level.
func (l *MutexLock) LockLevel() uint {
	l.meta.Lock()
	defer l.meta.Unlock()
	return l.level
}

// OwnedByCaller reports whether the calling goroutine holds the lock.
func (l *MutexLock) OwnedByCaller() bool {
	id := goroutineID()
	l.meta.Lock()
	defer l.meta.Unlock()
	return l.level > 0 && l.owner == id
}

// goroutineID extracts the current goroutine's id from the runtime stack
// header ("goroutine N [running]:"). There is no supported API for it;
// re-entrancy needs a stable caller identity, and this is the standard
// technique.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := strings.TrimPrefix(string(buf[:n]), "goroutine ")
	if i := strings.IndexByte(s, ' '); i > 0 {
		if id, err := strconv.ParseUint(s[:i], 10, 64); err == nil {
			return id
		}
	}
	return 0
}
