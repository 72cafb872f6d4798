package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tindahan/pos-backend/internal/entity"
	"github.com/tindahan/pos-backend/internal/messaging"
	"github.com/tindahan/pos-backend/internal/repository"
	"github.com/tindahan/pos-backend/internal/service"
	"github.com/tindahan/pos-backend/internal/session"
)

// memProductRepo is a minimal in-memory ProductRepository for handler tests.
type memProductRepo struct {
	products map[string]entity.Product
}

func (r *memProductRepo) FindAll(_ context.Context, categoryID string) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) UpdateStock(_ context.Context, id string, newStock int) error {
	p := r.products[id]
	p.Stock = newStock
	r.products[id] = p
	return nil
}

func (r *memProductRepo) DecrementStock(_ context.Context, id string, quantity int) (int, error) {
	p, ok := r.products[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if p.Stock < quantity {
		return 0, repository.ErrStockConflict
	}
	p.Stock -= quantity
	r.products[id] = p
	return p.Stock, nil
}

func (r *memProductRepo) Seed(context.Context, []entity.Product) error { return nil }

type memCategoryRepo struct{ categories []entity.Category }

func (r *memCategoryRepo) FindAll(context.Context) ([]entity.Category, error) {
	return r.categories, nil
}
func (r *memCategoryRepo) Seed(context.Context, []entity.Category) error { return nil }

type memOrderRepo struct{ orders []entity.Order }

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.orders = append(r.orders, *o)
	return nil
}

func (r *memOrderRepo) FindRecent(_ context.Context, limit int) ([]entity.Order, error) {
	if limit > len(r.orders) {
		limit = len(r.orders)
	}
	return r.orders[:limit], nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memProductRepo, *memOrderRepo) {
	t.Helper()

	products := &memProductRepo{products: map[string]entity.Product{
		"p1": {ID: "p1", Name: "Coffee", Price: decimal.NewFromFloat(100.00), CategoryID: "cat-1", Stock: 10},
		"p2": {ID: "p2", Name: "Soda", Price: decimal.NewFromFloat(68.00), CategoryID: "cat-2", Stock: 5},
	}}
	categories := &memCategoryRepo{categories: []entity.Category{
		{ID: "cat-1", Name: "Beverages"},
		{ID: "cat-2", Name: "Snacks"},
	}}
	orders := &memOrderRepo{}

	pos := service.NewPosService(products, categories, orders, session.NewMemoryStore(), messaging.NopPublisher{})
	catalog := service.NewCatalogService(products, categories, orders)

	mux := http.NewServeMux()
	NewHandler(pos, catalog).RegisterRoutes(mux)
	srv := httptest.NewServer(EnableCORS(mux))
	t.Cleanup(srv.Close)
	return srv, products, orders
}

func doJSON(t *testing.T, method, url, terminal, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if terminal != "" {
		req.Header.Set("X-Terminal-ID", terminal)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestGetProducts(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/products")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []entity.Product
	decode(t, resp, &products)
	assert.Len(t, products, 2)
}

func TestGetProductsFilteredByCategory(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/products?category=cat-2")
	require.NoError(t, err)

	var products []entity.Product
	decode(t, resp, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
}

func TestGetCategories(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/categories")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []entity.Category
	decode(t, resp, &categories)
	assert.Len(t, categories, 2)
}

func TestCartFlow(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// Add twice: second add increments the same line.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/cart/items", "till-1", `{"product_id":"p1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/cart/items", "till-1", `{"product_id":"p1"}`)

	var cart struct {
		Lines    []entity.CartLine `json:"lines"`
		Subtotal decimal.Decimal   `json:"subtotal"`
	}
	decode(t, resp, &cart)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, "200.00", cart.Subtotal.StringFixed(2))

	// Change quantity.
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/cart/items/p1", "till-1", `{"quantity":3}`)
	decode(t, resp, &cart)
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	// Another terminal sees its own empty cart.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/cart", "till-2", "")
	decode(t, resp, &cart)
	assert.Empty(t, cart.Lines)

	// Remove the line.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/cart/items/p1", "till-1", "")
	decode(t, resp, &cart)
	assert.Empty(t, cart.Lines)
}

func TestAddUnknownProductReturnsNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/cart/items", "till-1", `{"product_id":"ghost"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitOrder(t *testing.T) {
	srv, products, orders := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/cart/items", "till-1", `{"product_id":"p1"}`)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/orders", "till-1",
		`{"payment_amount":"150.00","payment_method":"cash","staff_id":"staff-7"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order entity.Order
	decode(t, resp, &order)
	assert.Equal(t, "100.00", order.GrandTotal.StringFixed(2))
	assert.Equal(t, "50.00", order.Change.StringFixed(2))
	assert.Equal(t, "staff-7", order.StaffID)

	require.Len(t, orders.orders, 1)
	assert.Equal(t, 9, products.products["p1"].Stock)

	// Orders listing shows the sale.
	listResp, err := http.Get(srv.URL + "/api/orders?limit=10")
	require.NoError(t, err)
	var list []entity.Order
	decode(t, listResp, &list)
	assert.Len(t, list, 1)
}

func TestSubmitOrderInsufficientPayment(t *testing.T) {
	srv, _, orders := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/cart/items", "till-1", `{"product_id":"p1"}`)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/orders", "till-1", `{"payment_amount":"10.00"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, orders.orders)
}

func TestSubmitOrderInsufficientStock(t *testing.T) {
	srv, products, orders := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/cart/items", "till-1", `{"product_id":"p2"}`)
	resp.Body.Close()
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/cart/items/p2", "till-1", `{"quantity":5}`)
	resp.Body.Close()

	// Live stock drops after the cart was built.
	p := products.products["p2"]
	p.Stock = 1
	products.products["p2"] = p

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/orders", "till-1", `{"payment_amount":"1000.00"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body struct {
		Error     string                 `json:"error"`
		Shortages []entity.StockShortage `json:"shortages"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Shortages, 1)
	assert.Equal(t, "p2", body.Shortages[0].ProductID)
	assert.Contains(t, body.Error, "Soda")
	assert.Empty(t, orders.orders)
}

func TestSubmitOrderEmptyCart(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/orders", "till-9", `{"payment_amount":"100.00"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/products", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
