package core

import "sync"

// IDAllocator hands out monotonically increasing identifiers. Each object
// store owns its own allocator so identities never leak between stores.
type IDAllocator struct {
	mu   sync.Mutex
	next uint32
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// AcquireNewID returns the next free identifier. Identifiers are never
// reused until Reset is called.
func (a *IDAllocator) AcquireNewID() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	return id
}

// Peek returns the identifier the next call to AcquireNewID will hand out.
func (a *IDAllocator) Peek() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}

func (a *IDAllocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next = 0
}
