package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tindahan/pos-backend/internal/entity"
	"github.com/tindahan/pos-backend/internal/messaging"
	"github.com/tindahan/pos-backend/internal/repository"
	"github.com/tindahan/pos-backend/internal/session"
)

// PosService orchestrates the cashier flow: per-terminal cart mutations and
// the order-submission pipeline.
type PosService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	orders     repository.OrderRepository
	sessions   session.Store
	publisher  messaging.Publisher
	now        func() time.Time

	// submissions holds one machine per terminal currently in flight,
	// Succeeded, or parked in Failed. Idle machines are evicted: terminal
	// IDs come from a client header, so idle entries must not accumulate.
	mu          sync.Mutex
	submissions map[string]*submission
}

func NewPosService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	orders repository.OrderRepository,
	sessions session.Store,
	publisher messaging.Publisher,
) *PosService {
	return &PosService{
		products:    products,
		categories:  categories,
		orders:      orders,
		sessions:    sessions,
		publisher:   publisher,
		now:         time.Now,
		submissions: make(map[string]*submission),
	}
}

// GetCart returns the terminal's current cart.
func (s *PosService) GetCart(ctx context.Context, terminalID string) (*entity.Cart, error) {
	return s.sessions.Load(ctx, terminalID)
}

// AddToCart looks up the product and adds a snapshot of it to the
// terminal's cart. No stock check happens here; validation is deferred to
// submission.
func (s *PosService) AddToCart(ctx context.Context, terminalID, productID string) (*entity.Cart, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &entity.ProductNotFoundError{ProductID: productID}
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	cart, err := s.sessions.Load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	cart.AddItem(*product)
	if err := s.sessions.Save(ctx, terminalID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity updates a line's quantity; below one removes the line, above
// the cached stock figure is clamped.
func (s *PosService) SetQuantity(ctx context.Context, terminalID, productID string, quantity int) (*entity.Cart, error) {
	cart, err := s.sessions.Load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	cart.SetQuantity(productID, quantity)
	if err := s.sessions.Save(ctx, terminalID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveFromCart drops a line unconditionally.
func (s *PosService) RemoveFromCart(ctx context.Context, terminalID, productID string) (*entity.Cart, error) {
	cart, err := s.sessions.Load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	if err := s.sessions.Save(ctx, terminalID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart abandons the terminal's cart.
func (s *PosService) ClearCart(ctx context.Context, terminalID string) error {
	return s.sessions.Clear(ctx, terminalID)
}

// SubmissionState reports where the terminal's submission machine currently is.
func (s *PosService) SubmissionState(terminalID string) SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.submissions[terminalID]; ok {
		return sub.state
	}
	return StateIdle
}

// Acknowledge moves a Failed machine back to Idle after the cashier has
// seen the failure. It is a no-op in any other state.
func (s *PosService) Acknowledge(terminalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.submissions[terminalID]; ok && sub.state == StateFailed {
		delete(s.submissions, terminalID)
	}
}

// begin transitions Idle -> Validating, refusing re-entry while a
// submission is in flight or parked in Failed.
func (s *PosService) begin(terminalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[terminalID]
	if !ok {
		sub = &submission{state: StateIdle}
		s.submissions[terminalID] = sub
	}
	// Succeeded is terminal for the previous sale; the next submission
	// starts a fresh machine. Failed stays parked until acknowledged.
	if sub.state != StateIdle && sub.state != StateSucceeded {
		return entity.ErrSubmissionInProgress
	}
	sub.state = StateValidating
	sub.failure = nil
	return nil
}

func (s *PosService) setState(terminalID string, state SubmissionState, failure error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == StateIdle && failure == nil {
		delete(s.submissions, terminalID)
		return
	}
	if sub, ok := s.submissions[terminalID]; ok {
		sub.state = state
		sub.failure = failure
	}
}

// SubmitOrder runs the submission pipeline for the terminal's current cart:
// Validating -> Writing -> Decrementing. Failures before the order write
// reset the machine to Idle and leave the cart intact so the cashier can
// adjust and retry; failures after the write park the machine in Failed
// because the ledger and the inventory now disagree.
func (s *PosService) SubmitOrder(ctx context.Context, terminalID string, payment entity.Payment) (*entity.Order, error) {
	cart, err := s.sessions.Load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	if cart.Len() == 0 {
		return nil, entity.ErrEmptyCart
	}

	// Payment precondition. No I/O has happened for this submission yet.
	change, err := cart.Change(payment.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.begin(terminalID); err != nil {
		return nil, err
	}

	order, err := s.validateAndWrite(ctx, terminalID, cart, payment, change)
	if err != nil {
		// Nothing durable was written; the cart survives for correction.
		s.setState(terminalID, StateIdle, nil)
		return nil, err
	}

	if err := s.decrementStock(ctx, terminalID, order); err != nil {
		// The order is already durable. Park the machine in Failed; the
		// cashier must acknowledge before this terminal submits again.
		s.setState(terminalID, StateFailed, err)
		return nil, err
	}

	if err := s.publisher.PublishEvent(ctx, messaging.TopicOrdersPlaced, order.ID, entity.OrderPlaced{
		OrderID:         order.ID,
		TransactionCode: order.TransactionCode,
		Lines:           order.Lines,
		GrandTotal:      order.GrandTotal,
		StaffID:         order.StaffID,
		PlacedAt:        order.CreatedAt,
	}); err != nil {
		slog.Error("Failed to publish OrderPlaced", "order_id", order.ID, "err", err)
	}

	if err := s.sessions.Clear(ctx, terminalID); err != nil {
		slog.Error("Failed to clear cart after sale", "terminal", terminalID, "err", err)
	}
	s.setState(terminalID, StateSucceeded, nil)

	slog.Info("Order completed", "order_id", order.ID, "code", order.TransactionCode, "lines", len(order.Lines))
	return order, nil
}

// validateAndWrite re-reads every product from the store, performs the
// all-or-nothing stock check, and persists the order record.
func (s *PosService) validateAndWrite(ctx context.Context, terminalID string, cart *entity.Cart, payment entity.Payment, change decimal.Decimal) (*entity.Order, error) {
	categoryNames, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	var shortages []entity.StockShortage
	for _, line := range cart.Lines {
		live, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &entity.ProductNotFoundError{ProductID: line.ProductID, Name: line.Name}
			}
			return nil, fmt.Errorf("failed to re-read product %s: %w", line.ProductID, err)
		}
		if line.Quantity > live.Stock {
			shortages = append(shortages, entity.StockShortage{
				ProductID: line.ProductID,
				Name:      line.Name,
				Requested: line.Quantity,
				Available: live.Stock,
			})
		}
	}
	if len(shortages) > 0 {
		return nil, &entity.InsufficientStockError{Shortages: shortages}
	}

	s.setState(terminalID, StateWriting, nil)

	lines := make([]entity.OrderLine, 0, cart.Len())
	for _, l := range cart.Lines {
		lines = append(lines, entity.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Category:  categoryNames[l.CategoryID],
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
		})
	}

	order := &entity.Order{
		ID:              uuid.NewString(),
		TransactionCode: entity.TransactionCode(categoryNames[cart.Lines[0].CategoryID]),
		Lines:           lines,
		Subtotal:        cart.Subtotal(),
		GrandTotal:      cart.GrandTotal(),
		PaymentAmount:   payment.Amount,
		Change:          change,
		PaymentMethod:   payment.Method,
		PaymentRef:      payment.Reference,
		PaymentCustomer: payment.CustomerInfo,
		StaffID:         payment.StaffID,
		CreatedAt:       s.now(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	return order, nil
}

// decrementStock applies the per-line stock decrements after the order is
// durable. A conditional decrement losing the race means the ledger already
// holds a sale the inventory cannot cover; that drift is surfaced loudly
// and published for reconciliation, never swallowed.
func (s *PosService) decrementStock(ctx context.Context, terminalID string, order *entity.Order) error {
	s.setState(terminalID, StateDecrementing, nil)

	for _, line := range order.Lines {
		remaining, err := s.products.DecrementStock(ctx, line.ProductID, line.Quantity)
		switch {
		case errors.Is(err, repository.ErrStockConflict), errors.Is(err, repository.ErrNotFound):
			available := 0
			if live, ferr := s.products.FindByID(ctx, line.ProductID); ferr == nil {
				available = live.Stock
			}
			raceErr := &entity.StockRaceLostError{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Name:      line.Name,
				Requested: line.Quantity,
				Available: available,
			}
			slog.Error("Stock drift: order persisted but decrement lost",
				"order_id", order.ID, "product_id", line.ProductID,
				"requested", line.Quantity, "available", available)
			if perr := s.publisher.PublishEvent(ctx, messaging.TopicInventoryDrift, order.ID, entity.StockDriftDetected{
				OrderID:    order.ID,
				ProductID:  line.ProductID,
				Name:       line.Name,
				Requested:  line.Quantity,
				Available:  available,
				DetectedAt: s.now(),
			}); perr != nil {
				slog.Error("Failed to publish StockDriftDetected", "order_id", order.ID, "err", perr)
			}
			return raceErr
		case err != nil:
			return fmt.Errorf("failed to decrement stock for %s: %w", line.ProductID, err)
		}

		if perr := s.publisher.PublishEvent(ctx, messaging.TopicInventoryUpdate, line.ProductID, entity.ProductStockUpdated{
			ProductID: line.ProductID,
			NewStock:  remaining,
		}); perr != nil {
			slog.Error("Failed to publish ProductStockUpdated", "product_id", line.ProductID, "err", perr)
		}
	}
	return nil
}

// categoryNames loads the category id -> name mapping used on line
// snapshots and the transaction code prefix.
func (s *PosService) categoryNames(ctx context.Context) (map[string]string, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}
