package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store catalog. Stock is the
// authoritative remaining sellable quantity; it is owned by the store, not
// by any cached copy a terminal holds.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	CategoryID  string          `json:"category_id"`
	Stock       int             `json:"stock"`
}

// Category groups products for the POS tab bar.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Payment methods accepted at the terminal.
const (
	PaymentCash  = "cash"
	PaymentGCash = "gcash"
)

// Payment carries the tender details for one submission. Reference and
// CustomerInfo are only meaningful for non-cash methods.
type Payment struct {
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Reference    string          `json:"reference,omitempty"`
	CustomerInfo string          `json:"customer_info,omitempty"`
	StaffID      string          `json:"staff_id"`
}

// OrderLine is a line-item snapshot within a persisted order.
type OrderLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Order is the durable record of a completed sale. It is written exactly
// once per successful submission and never mutated or deleted afterwards.
type Order struct {
	ID              string          `json:"id"`
	TransactionCode string          `json:"transaction_code"`
	Lines           []OrderLine     `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	Change          decimal.Decimal `json:"change"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentRef      string          `json:"payment_ref,omitempty"`
	PaymentCustomer string          `json:"payment_customer,omitempty"`
	StaffID         string          `json:"staff_id"`
	CreatedAt       time.Time       `json:"created_at"`
}
