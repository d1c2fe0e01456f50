// Package catalog holds the live application catalog: entry groups that
// aggregate the physical package records for one logical application, and
// the observable ordered collection the search engine snapshots.
package catalog

import "sync"

// Fields is a consistent copy of a group's searchable fields, taken in a
// single lock acquisition. The search engine reads groups exclusively
// through this type so it can never observe a torn update.
type Fields struct {
	ID           string
	Title        string
	Developer    string
	Description  string
	SearchTokens string
	Searchable   bool
}

// Group is one logical application record. All mutable state is guarded by
// the group's own lock; owners mutate through Update so that field changes
// are atomic with respect to concurrent readers.
type Group struct {
	mu sync.Mutex

	fields Fields

	// Install-state counters, maintained by the package-manager side
	// under the same lock as the search fields.
	installable int
	updatable   int
	removable   int
}

// NewGroup creates a group from an initial set of fields.
func NewGroup(fields Fields) *Group {
	return &Group{fields: fields}
}

// Fields returns a copy of the searchable fields. The group lock is held
// for the duration of the copy and released before returning, so callers
// hold at most one group lock at a time and never across blocking calls.
func (g *Group) Fields() Fields {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fields
}

// ID returns the group's stable identifier.
func (g *Group) ID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fields.ID
}

// Update applies fn to the group's fields under the lock. fn must not
// block or call back into the group.
func (g *Group) Update(fn func(*Fields)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.fields)
}

// InstallCounts returns the (installable, updatable, removable) counters.
func (g *Group) InstallCounts() (installable, updatable, removable int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.installable, g.updatable, g.removable
}

// SetInstallCounts replaces the install-state counters.
func (g *Group) SetInstallCounts(installable, updatable, removable int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.installable = installable
	g.updatable = updatable
	g.removable = removable
}
