package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event represents a domain event published to the message broker.
type Event interface {
	EventType() string
}

// OrderPlaced is emitted once per successfully persisted sale.
type OrderPlaced struct {
	OrderID         string          `json:"order_id"`
	TransactionCode string          `json:"transaction_code"`
	Lines           []OrderLine     `json:"lines"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	StaffID         string          `json:"staff_id"`
	PlacedAt        time.Time       `json:"placed_at"`
}

func (e OrderPlaced) EventType() string { return "OrderPlaced" }

// ProductStockUpdated is emitted after a line's stock decrement lands.
type ProductStockUpdated struct {
	ProductID string `json:"product_id"`
	NewStock  int    `json:"new_stock"`
}

func (e ProductStockUpdated) EventType() string { return "ProductStockUpdated" }

// StockDriftDetected is emitted when a decrement fails after the order was
// already written: the ledger and the inventory disagree and someone has to
// reconcile them. Downstream consumers must not swallow this.
type StockDriftDetected struct {
	OrderID    string    `json:"order_id"`
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	Requested  int       `json:"requested"`
	Available  int       `json:"available"`
	DetectedAt time.Time `json:"detected_at"`
}

func (e StockDriftDetected) EventType() string { return "StockDriftDetected" }
