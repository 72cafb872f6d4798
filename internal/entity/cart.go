package entity

import (
	"github.com/shopspring/decimal"
)

// CartLine is one product/quantity pairing in a cart. It carries a snapshot
// of the product as it looked when the cashier added it. Stock here is the
// terminal's cached figure and is only a soft guard; the authoritative
// check happens at submission time.
type CartLine struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ImageURL   string          `json:"image_url"`
	Stock      int             `json:"stock"`
	Quantity   int             `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the mutable working set of line items for one cashier session.
// Each terminal owns exactly one instance; it performs no I/O and is reset
// after a successful or abandoned sale. Lines keep insertion order; the
// first line's category seeds the transaction code.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem puts a product into the cart. If a line for the product already
// exists its quantity is incremented by one, otherwise a new line with
// quantity one is appended. No stock check happens here.
func (c *Cart) AddItem(p Product) {
	if i := c.find(p.ID); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID:  p.ID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		UnitPrice:  p.Price,
		ImageURL:   p.ImageURL,
		Stock:      p.Stock,
		Quantity:   1,
	})
}

// SetQuantity sets the quantity of an existing line. Quantities above the
// cached stock figure are clamped to it. A quantity below one, including a
// clamp against zero cached stock, removes the line: a line never carries a
// quantity under one. Returns the quantity actually applied (zero when the
// line was removed or the product is not in the cart).
func (c *Cart) SetQuantity(productID string, quantity int) int {
	i := c.find(productID)
	if i < 0 {
		return 0
	}
	if quantity > c.Lines[i].Stock {
		quantity = c.Lines[i].Stock
	}
	if quantity < 1 {
		c.RemoveItem(productID)
		return 0
	}
	c.Lines[i].Quantity = quantity
	return quantity
}

// RemoveItem removes the line for the given product unconditionally.
func (c *Cart) RemoveItem(productID string) {
	if i := c.find(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// Reset empties the cart. Used after a completed sale or an explicit
// cancellation.
func (c *Cart) Reset() {
	c.Lines = nil
}

// Len returns the number of lines in the cart.
func (c *Cart) Len() int {
	return len(c.Lines)
}

// Line returns the line for the given product, if present.
func (c *Cart) Line(productID string) (CartLine, bool) {
	if i := c.find(productID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}
