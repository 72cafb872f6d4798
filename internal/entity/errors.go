package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyCart is returned when a submission is attempted with no lines.
var ErrEmptyCart = errors.New("cart has no line items")

// ErrSubmissionInProgress is returned when a terminal attempts to submit
// while its previous submission has not reached a terminal state.
var ErrSubmissionInProgress = errors.New("submission already in progress for this terminal")

// InsufficientPaymentError means the tendered amount does not cover the
// grand total. No I/O has happened; the cashier is re-prompted.
type InsufficientPaymentError struct {
	Required decimal.Decimal
	Offered  decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: %s tendered, %s due", e.Offered, e.Required)
}

// ProductNotFoundError means a product referenced by the cart vanished from
// the catalog between cart population and submission. The submission is
// aborted before any writes and the cart is left intact for correction.
type ProductNotFoundError struct {
	ProductID string
	Name      string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q (%s) not found", e.Name, e.ProductID)
}

// StockShortage describes one cart line whose requested quantity exceeds
// the live stock figure.
type StockShortage struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError collects every offending line found at validation
// time. The check is all-or-nothing: when any line is short, no order is
// created and no stock is touched.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	names := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		names[i] = s.Name
	}
	return "insufficient stock for: " + strings.Join(names, ", ")
}

// StockRaceLostError means a concurrent sale consumed stock between
// validation and decrement. The order record has already been persisted at
// this point, so this is a reported inconsistency requiring manual
// reconciliation, not a rollback.
type StockRaceLostError struct {
	OrderID   string
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *StockRaceLostError) Error() string {
	return fmt.Sprintf("stock race lost on %q (%s): requested %d, available %d; order %s already persisted",
		e.Name, e.ProductID, e.Requested, e.Available, e.OrderID)
}
