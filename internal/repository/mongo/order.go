package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tindahan/pos-backend/internal/entity"
	"github.com/tindahan/pos-backend/internal/repository"
)

type orderLineDoc struct {
	ProductID string `bson:"product_id"`
	Name      string `bson:"name"`
	Category  string `bson:"category"`
	Quantity  int    `bson:"quantity"`
	UnitPrice string `bson:"unit_price"`
	LineTotal string `bson:"line_total"`
}

type orderDoc struct {
	ID              string         `bson:"_id"`
	TransactionCode string         `bson:"transaction_code"`
	Lines           []orderLineDoc `bson:"lines"`
	Subtotal        string         `bson:"subtotal"`
	GrandTotal      string         `bson:"grand_total"`
	PaymentAmount   string         `bson:"payment_amount"`
	Change          string         `bson:"change"`
	PaymentMethod   string         `bson:"payment_method"`
	PaymentRef      string         `bson:"payment_ref,omitempty"`
	PaymentCustomer string         `bson:"payment_customer,omitempty"`
	StaffID         string         `bson:"staff_id"`
	CreatedAt       time.Time      `bson:"created_at"`
}

func toOrderDoc(o *entity.Order) orderDoc {
	lines := make([]orderLineDoc, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineDoc{
			ProductID: l.ProductID,
			Name:      l.Name,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}
	return orderDoc{
		ID:              o.ID,
		TransactionCode: o.TransactionCode,
		Lines:           lines,
		Subtotal:        o.Subtotal.StringFixed(2),
		GrandTotal:      o.GrandTotal.StringFixed(2),
		PaymentAmount:   o.PaymentAmount.StringFixed(2),
		Change:          o.Change.StringFixed(2),
		PaymentMethod:   o.PaymentMethod,
		PaymentRef:      o.PaymentRef,
		PaymentCustomer: o.PaymentCustomer,
		StaffID:         o.StaffID,
		CreatedAt:       o.CreatedAt,
	}
}

func (d orderDoc) toEntity() (entity.Order, error) {
	money := func(s string) (decimal.Decimal, error) {
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	}

	o := entity.Order{
		ID:              d.ID,
		TransactionCode: d.TransactionCode,
		PaymentMethod:   d.PaymentMethod,
		PaymentRef:      d.PaymentRef,
		PaymentCustomer: d.PaymentCustomer,
		StaffID:         d.StaffID,
		CreatedAt:       d.CreatedAt,
	}

	var err error
	if o.Subtotal, err = money(d.Subtotal); err != nil {
		return o, fmt.Errorf("bad subtotal on order %s: %w", d.ID, err)
	}
	if o.GrandTotal, err = money(d.GrandTotal); err != nil {
		return o, fmt.Errorf("bad grand total on order %s: %w", d.ID, err)
	}
	if o.PaymentAmount, err = money(d.PaymentAmount); err != nil {
		return o, fmt.Errorf("bad payment amount on order %s: %w", d.ID, err)
	}
	if o.Change, err = money(d.Change); err != nil {
		return o, fmt.Errorf("bad change on order %s: %w", d.ID, err)
	}

	o.Lines = make([]entity.OrderLine, 0, len(d.Lines))
	for _, l := range d.Lines {
		unit, err := money(l.UnitPrice)
		if err != nil {
			return o, fmt.Errorf("bad unit price on order %s: %w", d.ID, err)
		}
		total, err := money(l.LineTotal)
		if err != nil {
			return o, fmt.Errorf("bad line total on order %s: %w", d.ID, err)
		}
		o.Lines = append(o.Lines, entity.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: unit,
			LineTotal: total,
		})
	}
	return o, nil
}

type orderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository creates an OrderRepository backed by the document store.
func NewOrderRepository(db *mongo.Database) repository.OrderRepository {
	return &orderRepository{col: db.Collection("orders")}
}

// Create appends the order as a single document. Orders are never updated
// or deleted by this subsystem.
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	if _, err := r.col.InsertOne(ctx, toOrderDoc(order)); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *orderRepository) FindRecent(ctx context.Context, limit int) ([]entity.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]entity.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
