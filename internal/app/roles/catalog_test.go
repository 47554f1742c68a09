package roles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgrimaldi/plume-agent/internal/domain"
)

func TestCatalogLoads(t *testing.T) {
	catalog := newCatalog(t)

	all := catalog.All()
	require.NotEmpty(t, all)

	seen := make(map[domain.RoleID]bool)
	for _, r := range all {
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.PromptTemplate)
		assert.Greater(t, r.Priority, 0)
		assert.False(t, seen[r.ID], "duplicate template id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestCatalogLookup(t *testing.T) {
	catalog := newCatalog(t)

	byID, ok := catalog.Lookup("technical_expert")
	require.True(t, ok)
	assert.Equal(t, "Technical Expert", byID.Name)

	byName, ok := catalog.Lookup("technical expert")
	require.True(t, ok)
	assert.Equal(t, byID.ID, byName.ID)

	_, ok = catalog.Lookup("nonexistent")
	assert.False(t, ok)
}

func TestCatalogFallbackPair(t *testing.T) {
	catalog := newCatalog(t)

	pair := catalog.FallbackPair()
	require.Len(t, pair, 2)
	assert.Equal(t, domain.RoleID("content_writer"), pair[0].ID)
	assert.Equal(t, domain.RoleID("editor"), pair[1].ID)
}
