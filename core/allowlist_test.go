package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowlist_OpenMode(t *testing.T) {
	a := NewAllowlist(nil)
	assert.True(t, a.Open())
	assert.True(t, a.Allowed("anything"))
	assert.True(t, a.Allowed(""))
}

func TestAllowlist_NilIsOpen(t *testing.T) {
	var a *Allowlist
	assert.True(t, a.Open())
	assert.True(t, a.Allowed("room1"))
	assert.Equal(t, 0, a.Len())
}

func TestAllowlist_ExactMembership(t *testing.T) {
	a := NewAllowlist([]string{"A", "B"})
	assert.False(t, a.Open())
	assert.Equal(t, 2, a.Len())

	assert.True(t, a.Allowed("A"))
	assert.True(t, a.Allowed("B"))
	assert.False(t, a.Allowed("C"))
	assert.False(t, a.Allowed("a"), "matching is case-sensitive")
	assert.False(t, a.Allowed(" A"), "no trimming on lookup")
}

func TestAllowlist_SkipsBlank(t *testing.T) {
	a := NewAllowlist([]string{"", ""})
	assert.True(t, a.Open())
}

func TestParseAllowlist(t *testing.T) {
	assert.Nil(t, ParseAllowlist(""))
	assert.Equal(t, []string{"room1", "room2"}, ParseAllowlist(" room1 , room2,,"))
	assert.Empty(t, ParseAllowlist(" , "))
}
