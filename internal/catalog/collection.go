package catalog

import "sync"

// ChangedFunc is notified after the collection's membership changes.
// position is the index at which the change happened, removed and added
// are the number of groups taken out of and inserted at that position.
type ChangedFunc func(position, removed, added int)

// Collection is an ordered, observable list of entry groups. Structural
// changes (membership, order) go through the collection and notify
// subscribers; changes to the fields inside a group go through the
// group's own lock and are invisible here.
type Collection struct {
	mu     sync.RWMutex
	groups []*Group

	subMu sync.Mutex
	subs  map[int]ChangedFunc
	next  int
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{subs: make(map[int]ChangedFunc)}
}

// Len returns the number of groups.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.groups)
}

// At returns the group at index i, or nil if i is out of range.
func (c *Collection) At(i int) *Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.groups) {
		return nil
	}
	return c.groups[i]
}

// Snapshot returns a defensive copy of the current group references.
// Later structural changes do not affect the returned slice.
func (c *Collection) Snapshot() []*Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Group, len(c.groups))
	copy(out, c.groups)
	return out
}

// Append adds groups at the end of the collection.
func (c *Collection) Append(groups ...*Group) {
	if len(groups) == 0 {
		return
	}
	c.mu.Lock()
	pos := len(c.groups)
	c.groups = append(c.groups, groups...)
	c.mu.Unlock()

	c.notify(pos, 0, len(groups))
}

// Splice removes `removed` groups at position and inserts added in their
// place, mirroring the items-changed contract: one notification carrying
// (position, removed, len(added)). Out-of-range arguments are clamped.
func (c *Collection) Splice(position, removed int, added ...*Group) {
	c.mu.Lock()
	n := len(c.groups)
	if position < 0 {
		position = 0
	}
	if position > n {
		position = n
	}
	if removed < 0 {
		removed = 0
	}
	if position+removed > n {
		removed = n - position
	}
	next := make([]*Group, 0, n-removed+len(added))
	next = append(next, c.groups[:position]...)
	next = append(next, added...)
	next = append(next, c.groups[position+removed:]...)
	c.groups = next
	c.mu.Unlock()

	if removed == 0 && len(added) == 0 {
		return
	}
	c.notify(position, removed, len(added))
}

// Subscribe registers fn for items-changed notifications and returns an
// unsubscribe function. Notifications are delivered synchronously on the
// mutating goroutine, after the structural change is visible.
func (c *Collection) Subscribe(fn ChangedFunc) (cancel func()) {
	c.subMu.Lock()
	id := c.next
	c.next++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Collection) notify(position, removed, added int) {
	c.subMu.Lock()
	fns := make([]ChangedFunc, 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(position, removed, added)
	}
}
