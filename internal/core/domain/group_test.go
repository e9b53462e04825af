package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddMember_AdminNeverJoinsRoster(t *testing.T) {
	g := NewGroup("g1", "Algebra Study", "admin")

	assert.False(t, g.AddMember("admin"))
	assert.False(t, g.IsMember("admin"))
}

func TestAddMember_Idempotent(t *testing.T) {
	g := NewGroup("g1", "Algebra Study", "admin")

	assert.True(t, g.AddMember("student"))
	assert.False(t, g.AddMember("student"))
	assert.True(t, g.IsMember("student"))
	assert.Len(t, g.Members, 1)
}

func TestAddMember_NilSet(t *testing.T) {
	g := &Group{ID: "g1", AdminID: "admin"}

	assert.True(t, g.AddMember("student"))
	assert.True(t, g.IsMember("student"))
}

func TestAddEditor_SameInvariants(t *testing.T) {
	g := NewGroup("g1", "Algebra Study", "admin")

	assert.False(t, g.AddEditor("admin"))
	assert.True(t, g.AddEditor("editor"))
	assert.False(t, g.AddEditor("editor"))
	assert.Len(t, g.Editors, 1)
}

func TestGroupClone_SetsAreIndependent(t *testing.T) {
	g := NewGroup("g1", "Algebra Study", "admin")
	g.AddMember("student")

	cp := g.Clone()
	cp.AddMember("another")

	assert.False(t, g.IsMember("another"))
	assert.True(t, cp.IsMember("student"))
}
