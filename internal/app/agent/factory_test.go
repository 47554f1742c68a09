package agent_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgrimaldi/plume-agent/internal/app/agent"
	"github.com/lgrimaldi/plume-agent/internal/domain"
)

func TestFactoryCachesByRoleID(t *testing.T) {
	f := agent.NewFactory(&stubGen{}, time.Second, true)

	a1 := f.CreateAgent(testRole)
	a2 := f.CreateAgent(testRole)

	assert.Same(t, a1, a2)
	assert.Equal(t, 1, f.Size())
}

func TestFactoryCacheIgnoresRoleBodyChanges(t *testing.T) {
	f := agent.NewFactory(&stubGen{}, time.Second, true)

	a1 := f.CreateAgent(testRole)

	changed := testRole
	changed.PromptTemplate = "completely different instructions"
	a2 := f.CreateAgent(changed)

	// Keyed strictly by id: the stale handle is served.
	assert.Same(t, a1, a2)
	assert.Equal(t, testRole.PromptTemplate, a2.Role().PromptTemplate)
}

func TestFactoryWithoutCaching(t *testing.T) {
	f := agent.NewFactory(&stubGen{}, time.Second, false)

	a1 := f.CreateAgent(testRole)
	a2 := f.CreateAgent(testRole)

	assert.NotSame(t, a1, a2)
	assert.Equal(t, 0, f.Size())
}

func TestFactoryClear(t *testing.T) {
	f := agent.NewFactory(&stubGen{}, time.Second, true)

	a1 := f.CreateAgent(testRole)
	require.Equal(t, 1, f.Size())

	f.Clear()
	assert.Equal(t, 0, f.Size())

	a2 := f.CreateAgent(testRole)
	assert.NotSame(t, a1, a2)
}

func TestFactoryConcurrentFirstUse(t *testing.T) {
	f := agent.NewFactory(&stubGen{}, time.Second, true)

	roles := []domain.RoleDefinition{
		{ID: "a", Name: "A", PromptTemplate: "p", Priority: 1},
		{ID: "b", Name: "B", PromptTemplate: "p", Priority: 2},
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.CreateAgent(roles[i%len(roles)])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, f.Size())
}
