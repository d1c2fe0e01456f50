package bias

import "sync"

// ChangedFunc is notified after the source's spec list changes, with the
// same (position, removed, added) shape the catalog collection uses.
type ChangedFunc func(position, removed, added int)

// Source is an ordered, observable list of bias specs. The search engine
// subscribes to it and recompiles its table whole on every change.
type Source struct {
	mu    sync.RWMutex
	specs []Spec

	subMu sync.Mutex
	subs  map[int]ChangedFunc
	next  int
}

// NewSource creates a source holding the given specs.
func NewSource(specs ...Spec) *Source {
	s := &Source{subs: make(map[int]ChangedFunc)}
	s.specs = append(s.specs, specs...)
	return s
}

// Specs returns a copy of the current spec list.
func (s *Source) Specs() []Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Spec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Len returns the number of specs.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.specs)
}

// Replace swaps the whole spec list, notifying subscribers once.
func (s *Source) Replace(specs []Spec) {
	s.mu.Lock()
	removed := len(s.specs)
	s.specs = make([]Spec, len(specs))
	copy(s.specs, specs)
	s.mu.Unlock()

	s.notify(0, removed, len(specs))
}

// Append adds specs at the end of the list.
func (s *Source) Append(specs ...Spec) {
	if len(specs) == 0 {
		return
	}
	s.mu.Lock()
	pos := len(s.specs)
	s.specs = append(s.specs, specs...)
	s.mu.Unlock()

	s.notify(pos, 0, len(specs))
}

// Subscribe registers fn for change notifications and returns an
// unsubscribe function.
func (s *Source) Subscribe(fn ChangedFunc) (cancel func()) {
	s.subMu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Source) notify(position, removed, added int) {
	s.subMu.Lock()
	fns := make([]ChangedFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(position, removed, added)
	}
}
