package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func group(id string) *Group {
	return NewGroup(Fields{ID: id, Title: id, Searchable: true})
}

func TestCollection_AppendNotifies(t *testing.T) {
	c := NewCollection()

	var gotPos, gotRemoved, gotAdded int
	c.Subscribe(func(position, removed, added int) {
		gotPos, gotRemoved, gotAdded = position, removed, added
	})

	c.Append(group("a"), group("b"))
	assert.Equal(t, 0, gotPos)
	assert.Equal(t, 0, gotRemoved)
	assert.Equal(t, 2, gotAdded)

	c.Append(group("c"))
	assert.Equal(t, 2, gotPos)
	assert.Equal(t, 1, gotAdded)
	assert.Equal(t, 3, c.Len())
}

func TestCollection_SpliceReplacesRange(t *testing.T) {
	c := NewCollection()
	c.Append(group("a"), group("b"), group("c"))

	var gotPos, gotRemoved, gotAdded int
	c.Subscribe(func(position, removed, added int) {
		gotPos, gotRemoved, gotAdded = position, removed, added
	})

	c.Splice(1, 1, group("x"), group("y"))

	assert.Equal(t, 1, gotPos)
	assert.Equal(t, 1, gotRemoved)
	assert.Equal(t, 2, gotAdded)

	require.Equal(t, 4, c.Len())
	assert.Equal(t, "a", c.At(0).ID())
	assert.Equal(t, "x", c.At(1).ID())
	assert.Equal(t, "y", c.At(2).ID())
	assert.Equal(t, "c", c.At(3).ID())
}

func TestCollection_SpliceClampsOutOfRange(t *testing.T) {
	c := NewCollection()
	c.Append(group("a"), group("b"))

	c.Splice(1, 10)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "a", c.At(0).ID())
}

func TestCollection_SnapshotIsDefensive(t *testing.T) {
	c := NewCollection()
	c.Append(group("a"), group("b"))

	snapshot := c.Snapshot()
	c.Splice(0, 2)

	require.Len(t, snapshot, 2)
	assert.Equal(t, "a", snapshot[0].ID())
	assert.Zero(t, c.Len())
}

func TestCollection_AtOutOfRange(t *testing.T) {
	c := NewCollection()
	assert.Nil(t, c.At(0))
	assert.Nil(t, c.At(-1))
}

func TestGroup_FieldsIsConsistentCopy(t *testing.T) {
	g := NewGroup(Fields{ID: "a", Title: "App", Searchable: true})

	g.Update(func(f *Fields) {
		f.Title = "Renamed"
		f.SearchTokens = "renamed app"
	})

	fields := g.Fields()
	assert.Equal(t, "Renamed", fields.Title)
	assert.Equal(t, "renamed app", fields.SearchTokens)
}

func TestGroup_InstallCounts(t *testing.T) {
	g := group("a")
	g.SetInstallCounts(1, 2, 3)

	installable, updatable, removable := g.InstallCounts()
	assert.Equal(t, 1, installable)
	assert.Equal(t, 2, updatable)
	assert.Equal(t, 3, removable)
}
