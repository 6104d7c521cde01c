package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontierContactTierPopsFirst(t *testing.T) {
	f := newFrontier()

	require.True(t, f.push(frontierEntry{URL: "https://acme.example/news", Role: RoleGeneral, Depth: 1}))
	require.True(t, f.push(frontierEntry{URL: "https://acme.example/products", Role: RoleGeneral, Depth: 1}))
	require.True(t, f.push(frontierEntry{URL: "https://acme.example/kontakt", Role: RoleContact, Depth: 1}))

	entry, ok := f.pop()
	require.True(t, ok)
	assert.Equal(t, "https://acme.example/kontakt", entry.URL)

	// General entries drain FIFO after the contact tier empties.
	entry, _ = f.pop()
	assert.Equal(t, "https://acme.example/news", entry.URL)
	entry, _ = f.pop()
	assert.Equal(t, "https://acme.example/products", entry.URL)

	_, ok = f.pop()
	assert.False(t, ok)
}

func TestFrontierHomepageSharesContactTier(t *testing.T) {
	f := newFrontier()

	f.push(frontierEntry{URL: "https://acme.example/a", Role: RoleGeneral, Depth: 1})
	f.push(frontierEntry{URL: "https://acme.example/", Role: RoleHomepage, Depth: 0})

	entry, ok := f.pop()
	require.True(t, ok)
	assert.Equal(t, RoleHomepage, entry.Role)
}

func TestFrontierRejectsDuplicateURLs(t *testing.T) {
	f := newFrontier()

	assert.True(t, f.push(frontierEntry{URL: "https://acme.example/team", Role: RoleContact, Depth: 1}))
	assert.False(t, f.push(frontierEntry{URL: "https://acme.example/team", Role: RoleContact, Depth: 2}))
	assert.False(t, f.push(frontierEntry{URL: "https://acme.example/team", Role: RoleGeneral, Depth: 1}))

	assert.Equal(t, 1, f.len())
	assert.True(t, f.seen("https://acme.example/team"))
	assert.False(t, f.seen("https://acme.example/other"))
}

func TestPageRoleString(t *testing.T) {
	assert.Equal(t, "homepage", RoleHomepage.String())
	assert.Equal(t, "contact_candidate", RoleContact.String())
	assert.Equal(t, "general", RoleGeneral.String())
}
