package plugin

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

type stubCalculator struct {
	meta score.Metadata
}

func (s stubCalculator) Metadata() score.Metadata { return s.meta }

func (s stubCalculator) Calculate(context.Context, score.Parameters) (score.Result, error) {
	return score.NewResult(1, "points", "ok", "Low", "low"), nil
}

func stubFactory(id score.ID) ports.CalculatorFactory {
	return func() (ports.Calculator, error) {
		return stubCalculator{meta: score.Metadata{ID: id, Title: "Stub", Category: "test", ResultUnit: "points"}}, nil
	}
}

func TestCatalogRegister(t *testing.T) {
	t.Run("registers and looks up", func(t *testing.T) {
		c := NewCatalog()
		require.NoError(t, c.Register("rox_index", stubFactory("rox_index")))

		factory, ok := c.Lookup("rox_index")
		require.True(t, ok)
		calc, err := factory()
		require.NoError(t, err)
		assert.Equal(t, score.ID("rox_index"), calc.Metadata().ID)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		c := NewCatalog()
		require.NoError(t, c.Register("rox_index", stubFactory("rox_index")))
		err := c.Register("rox_index", stubFactory("rox_index"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("rejects invalid id", func(t *testing.T) {
		c := NewCatalog()
		err := c.Register("Rox-Index", stubFactory("rox_index"))
		require.Error(t, err)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("rejects nil factory", func(t *testing.T) {
		c := NewCatalog()
		err := c.Register("rox_index", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil")
	})

	t.Run("unknown id misses", func(t *testing.T) {
		c := NewCatalog()
		_, ok := c.Lookup("missing")
		assert.False(t, ok)
	})
}

func TestCatalogIDsSorted(t *testing.T) {
	c := NewCatalog()
	for _, id := range []score.ID{"rox_index", "chads2_score", "ldl_calculated"} {
		require.NoError(t, c.Register(id, stubFactory(id)))
	}

	assert.Equal(t, []score.ID{"chads2_score", "ldl_calculated", "rox_index"}, c.IDs())
}

func TestCatalogConcurrentAccess(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register("rox_index", stubFactory("rox_index")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := c.Lookup("rox_index")
			assert.True(t, ok)
			_ = c.IDs()
		}()
	}
	wg.Wait()
}
