package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tindahan/pos-backend/internal/entity"
	"github.com/tindahan/pos-backend/internal/service"
)

// Handler handles HTTP requests for the POS backend. Terminal identity
// comes from the X-Terminal-ID header; each terminal owns its cart.
type Handler struct {
	pos     *service.PosService
	catalog *service.CatalogService
}

func NewHandler(pos *service.PosService, catalog *service.CatalogService) *Handler {
	return &Handler{pos: pos, catalog: catalog}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.handleGetProducts)
	mux.HandleFunc("GET /api/categories", h.handleGetCategories)
	mux.HandleFunc("GET /api/orders", h.handleGetOrders)
	mux.HandleFunc("POST /api/orders", h.handleSubmitOrder)
	mux.HandleFunc("GET /api/cart", h.handleGetCart)
	mux.HandleFunc("DELETE /api/cart", h.handleClearCart)
	mux.HandleFunc("POST /api/cart/items", h.handleAddItem)
	mux.HandleFunc("PUT /api/cart/items/{productID}", h.handleSetQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{productID}", h.handleRemoveItem)
}

func terminalID(r *http.Request) string {
	if id := r.Header.Get("X-Terminal-ID"); id != "" {
		return id
	}
	return "default"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		slog.Error("Failed to get products", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.GetCategories(r.Context())
	if err != nil {
		slog.Error("Failed to get categories", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		var err error
		limit, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	orders, err := h.catalog.GetRecentOrders(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to get orders", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type cartView struct {
	Lines      []entity.CartLine `json:"lines"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
}

func viewOf(cart *entity.Cart) cartView {
	lines := cart.Lines
	if lines == nil {
		lines = []entity.CartLine{}
	}
	return cartView{Lines: lines, Subtotal: cart.Subtotal(), GrandTotal: cart.GrandTotal()}
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.pos.GetCart(r.Context(), terminalID(r))
	if err != nil {
		slog.Error("Failed to load cart", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(cart))
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.pos.ClearCart(r.Context(), terminalID(r)); err != nil {
		slog.Error("Failed to clear cart", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.pos.AddToCart(r.Context(), terminalID(r), req.ProductID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(cart))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.pos.SetQuantity(r.Context(), terminalID(r), r.PathValue("productID"), req.Quantity)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(cart))
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.pos.RemoveFromCart(r.Context(), terminalID(r), r.PathValue("productID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(cart))
}

type submitOrderRequest struct {
	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentRef      string          `json:"payment_ref"`
	PaymentCustomer string          `json:"payment_customer"`
	StaffID         string          `json:"staff_id"`
}

func (h *Handler) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	method := req.PaymentMethod
	if method == "" {
		method = entity.PaymentCash
	}

	order, err := h.pos.SubmitOrder(r.Context(), terminalID(r), entity.Payment{
		Amount:       req.PaymentAmount,
		Method:       method,
		Reference:    req.PaymentRef,
		CustomerInfo: req.PaymentCustomer,
		StaffID:      req.StaffID,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// writeDomainError maps the submission error taxonomy onto HTTP statuses.
// Every failure carries a human-readable message for the cashier.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		insufficientPayment *entity.InsufficientPaymentError
		productNotFound     *entity.ProductNotFoundError
		insufficientStock   *entity.InsufficientStockError
		stockRaceLost       *entity.StockRaceLostError
	)

	switch {
	case errors.Is(err, entity.ErrEmptyCart):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &insufficientPayment):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &productNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &insufficientStock):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     err.Error(),
			"shortages": insufficientStock.Shortages,
		})
	case errors.Is(err, entity.ErrSubmissionInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &stockRaceLost):
		// The order is durable but inventory drifted; this must be loud.
		slog.Error("Stock race lost", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		slog.Error("Request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// EnableCORS is middleware to allow the console frontend to connect.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Terminal-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
