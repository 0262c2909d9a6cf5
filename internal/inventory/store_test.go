package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartsteel/pkg/api"
)

func TestMemoryStoreSeed(t *testing.T) {
	store := NewMemoryStore()

	materials, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, materials, 5)
}

func TestForElementCaseInsensitive(t *testing.T) {
	store := NewMemoryStore()

	lower, err := store.ForElement(context.Background(), "cr")
	require.NoError(t, err)
	upper, err := store.ForElement(context.Background(), "Cr")
	require.NoError(t, err)

	assert.Len(t, lower, 2)
	assert.Equal(t, upper, lower)
}

func TestAddAssignsID(t *testing.T) {
	store := NewEmptyMemoryStore()

	added, err := store.Add(context.Background(), api.Material{
		Name: "Moly Oxide", MainElement: "Mo", Purity: 0.57, StockKg: 400,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	kept, err := store.Add(context.Background(), api.Material{ID: "MAT099", Name: "Vanadium Slag", MainElement: "V"})
	require.NoError(t, err)
	assert.Equal(t, "MAT099", kept.ID)

	materials, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, materials, 2)
}

func TestCheckAvailabilityAvailable(t *testing.T) {
	status, err := CheckAvailability(context.Background(), NewMemoryStore(), "C", 25.51)
	require.NoError(t, err)

	assert.Equal(t, api.StockAvailable, status.StockStatus)
	assert.Equal(t, "Ferro-Carbon High Purity", status.Material)
	assert.Equal(t, 25.77, status.RawMassNeeded)
	assert.Nil(t, status.Substitution)
}

func TestCheckAvailabilityPrefersHighestPurity(t *testing.T) {
	// Two chromium lots in stock; the purer MAT002 must win even though
	// MAT005 appears later.
	status, err := CheckAvailability(context.Background(), NewMemoryStore(), "Cr", 108.7)
	require.NoError(t, err)

	assert.Equal(t, api.StockAvailable, status.StockStatus)
	assert.Equal(t, "Ferro-Chrome Low Carbon", status.Material)
}

func TestCheckAvailabilitySubstitution(t *testing.T) {
	store := NewEmptyMemoryStore()
	_, err := store.Add(context.Background(), api.Material{
		ID: "MAT101", Name: "Ferro-Moly Premium", MainElement: "Mo", Purity: 0.90, StockKg: 10,
	})
	require.NoError(t, err)
	_, err = store.Add(context.Background(), api.Material{
		ID: "MAT102", Name: "Moly Oxide Bulk", MainElement: "Mo", Purity: 0.50, StockKg: 1000,
	})
	require.NoError(t, err)

	status, err := CheckAvailability(context.Background(), store, "Mo", 50)
	require.NoError(t, err)

	assert.Equal(t, api.StockUnavailable, status.StockStatus)
	assert.Equal(t, "Ferro-Moly Premium", status.Material)
	require.NotNil(t, status.Substitution)
	assert.Equal(t, "Moly Oxide Bulk", status.Substitution.Material)
	assert.Equal(t, 100.0, status.Substitution.RawMassNeeded)
	assert.Equal(t, "Insufficient stock of Ferro-Moly Premium. Switched to Moly Oxide Bulk.", status.Substitution.Reason)
}

func TestCheckAvailabilityCriticalShortage(t *testing.T) {
	t.Run("no candidates", func(t *testing.T) {
		status, err := CheckAvailability(context.Background(), NewMemoryStore(), "Ti", 10)
		require.NoError(t, err)
		assert.Equal(t, api.StockCriticalShortage, status.StockStatus)
		assert.Empty(t, status.Material)
	})

	t.Run("no candidate covers demand", func(t *testing.T) {
		status, err := CheckAvailability(context.Background(), NewMemoryStore(), "Cr", 5000)
		require.NoError(t, err)
		assert.Equal(t, api.StockCriticalShortage, status.StockStatus)
		assert.Equal(t, "Ferro-Chrome Low Carbon", status.Material)
		assert.Nil(t, status.Substitution)
	})
}
