package vulkan

import "sync"

// handleTable hands out opaque uint64 handles for backend objects. Zero is
// never issued so it stays the null handle.
type handleTable[T any] struct {
	mu    sync.Mutex
	next  uint64
	items map[uint64]T
}

func newHandleTable[T any]() *handleTable[T] {
	return &handleTable[T]{items: make(map[uint64]T)}
}

func (t *handleTable[T]) add(item T) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.items[t.next] = item
	return t.next
}

func (t *handleTable[T]) get(handle uint64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	item, ok := t.items[handle]
	return item, ok
}

// remove returns the item and forgets the handle.
func (t *handleTable[T]) remove(handle uint64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	item, ok := t.items[handle]
	if ok {
		delete(t.items, handle)
	}
	return item, ok
}

func (t *handleTable[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// drain empties the table and returns what it held.
func (t *handleTable[T]) drain() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0, len(t.items))
	for h, item := range t.items {
		out = append(out, item)
		delete(t.items, h)
	}
	return out
}
