package session

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tindahan/pos-backend/internal/entity"
)

func TestMemoryStoreLoadUnknownTerminal(t *testing.T) {
	store := NewMemoryStore()

	cart, err := store.Load(context.Background(), "till-1")
	require.NoError(t, err)
	assert.Equal(t, 0, cart.Len())
}

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	cart := entity.NewCart()
	cart.AddItem(entity.Product{ID: "p1", Name: "Coffee", Price: decimal.NewFromFloat(8.50), Stock: 10})
	require.NoError(t, store.Save(ctx, "till-1", cart))

	loaded, err := store.Load(ctx, "till-1")
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	line, ok := loaded.Line("p1")
	require.True(t, ok)
	assert.Equal(t, "Coffee", line.Name)

	// The stored cart is isolated from later mutations of the loaded copy.
	loaded.RemoveItem("p1")
	again, err := store.Load(ctx, "till-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Len())
}

func TestMemoryStoreTerminalsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	cart := entity.NewCart()
	cart.AddItem(entity.Product{ID: "p1", Name: "Coffee", Price: decimal.NewFromFloat(8.50), Stock: 10})
	require.NoError(t, store.Save(ctx, "till-1", cart))

	other, err := store.Load(ctx, "till-2")
	require.NoError(t, err)
	assert.Equal(t, 0, other.Len())
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	cart := entity.NewCart()
	cart.AddItem(entity.Product{ID: "p1", Name: "Coffee", Price: decimal.NewFromFloat(8.50), Stock: 10})
	require.NoError(t, store.Save(ctx, "till-1", cart))
	require.NoError(t, store.Clear(ctx, "till-1"))

	loaded, err := store.Load(ctx, "till-1")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}
