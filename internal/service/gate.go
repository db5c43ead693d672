package service

import "sync"

// MoimGate serializes roster mutations per moim. The store commits admission
// batches atomically but cannot read its own writes inside a batch, so the
// capacity check-then-act runs under an in-process lock keyed by moim ID.
// Entries are reference counted and dropped when the last holder releases,
// keeping the map bounded by the number of moims with in-flight mutations.
type MoimGate struct {
	mu    sync.Mutex
	locks map[string]*moimLock
}

type moimLock struct {
	mu   sync.Mutex
	refs int
}

// NewMoimGate creates a new per-moim serialization gate
func NewMoimGate() *MoimGate {
	return &MoimGate{
		locks: make(map[string]*moimLock),
	}
}

// Lock acquires the lock for a moim, creating it on first use
func (g *MoimGate) Lock(moimID string) {
	g.mu.Lock()
	l, ok := g.locks[moimID]
	if !ok {
		l = &moimLock{}
		g.locks[moimID] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the lock for a moim
func (g *MoimGate) Unlock(moimID string) {
	g.mu.Lock()
	l, ok := g.locks[moimID]
	if !ok {
		g.mu.Unlock()
		return
	}
	l.refs--
	if l.refs == 0 {
		delete(g.locks, moimID)
	}
	g.mu.Unlock()

	l.mu.Unlock()
}
