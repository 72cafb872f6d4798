package entity

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartTotalsScenario(t *testing.T) {
	// One product, price 100.00, quantity 2, payment 250.00.
	cart := NewCart()
	cart.AddItem(testProduct("p1", "Coffee", 100.00, 10))
	cart.SetQuantity("p1", 2)

	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("200.00")))
	assert.True(t, cart.GrandTotal().Equal(decimal.RequireFromString("200.00")))

	change, err := cart.Change(decimal.RequireFromString("250.00"))
	require.NoError(t, err)
	assert.True(t, change.Equal(decimal.RequireFromString("50.00")))
}

func TestCartSubtotalEqualsGrandTotal(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("p1", "Coffee", 8.50, 10))
	cart.AddItem(testProduct("p2", "Soda", 68.00, 10))
	cart.SetQuantity("p2", 3)

	assert.True(t, cart.Subtotal().Equal(cart.GrandTotal()))
}

func TestCartTotalsNoDriftOverManyLines(t *testing.T) {
	// 50 lines priced 0.10 each, quantity 3: binary floats would drift,
	// decimal arithmetic must give exactly 15.00.
	cart := NewCart()
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("p%d", i)
		cart.AddItem(Product{ID: id, Name: id, Price: decimal.RequireFromString("0.10"), Stock: 10})
		cart.SetQuantity(id, 3)
	}

	require.Equal(t, 50, cart.Len())
	assert.Equal(t, "15.00", cart.Subtotal().StringFixed(2))
	assert.Equal(t, "15.00", cart.GrandTotal().StringFixed(2))
}

func TestChangeRejectedWhenPaymentShort(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("p1", "Coffee", 100.00, 10))

	_, err := cart.Change(decimal.RequireFromString("99.99"))
	require.Error(t, err)

	var insufficient *InsufficientPaymentError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Required.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, insufficient.Offered.Equal(decimal.RequireFromString("99.99")))
}

func TestChangeExactPayment(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("p1", "Coffee", 100.00, 10))

	change, err := cart.Change(decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	assert.True(t, change.IsZero())
}

func TestEmptyCartTotals(t *testing.T) {
	cart := NewCart()
	assert.True(t, cart.Subtotal().IsZero())
	assert.True(t, cart.GrandTotal().IsZero())
}
