package entity

import "github.com/shopspring/decimal"

// Subtotal returns the sum of unit price times quantity over all lines.
// Monetary values use decimal arithmetic so long carts sum without
// binary-float drift.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// GrandTotal returns the amount due for the cart. It equals the subtotal;
// a future tax or discount layer would hook in here.
func (c *Cart) GrandTotal() decimal.Decimal {
	return c.Subtotal()
}

// Change returns payment minus grand total. When the payment does not cover
// the grand total it returns an InsufficientPaymentError and no change
// value is defined; callers must block submission in that case.
func (c *Cart) Change(payment decimal.Decimal) (decimal.Decimal, error) {
	due := c.GrandTotal()
	if payment.LessThan(due) {
		return decimal.Zero, &InsufficientPaymentError{Required: due, Offered: payment}
	}
	return payment.Sub(due), nil
}
