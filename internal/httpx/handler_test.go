package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jcmexdev/pos-counter/internal/backend"
	"github.com/jcmexdev/pos-counter/internal/checkout"
	"github.com/jcmexdev/pos-counter/internal/checkout/receiptlog"
	"github.com/jcmexdev/pos-counter/internal/domain"
	"github.com/jcmexdev/pos-counter/internal/draft"
)

type fakeCatalog struct {
	products []domain.Product
	loadErr  error
	loads    int
}

func (f *fakeCatalog) Load(ctx context.Context) error {
	f.loads++
	return f.loadErr
}

func (f *fakeCatalog) Products() []domain.Product { return f.products }

func (f *fakeCatalog) Lookup(id string) (domain.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (f *fakeCatalog) PriceFor(id string) (float64, bool) {
	p, ok := f.Lookup(id)
	return p.Price, ok
}

func (f *fakeCatalog) LoadedAt() time.Time { return time.Time{} }

type fakeBackend struct {
	products  []domain.Product
	sales     map[string]domain.Sale
	created   []domain.Sale
	updated   map[string]domain.Sale
	finalized []string
	clients   []domain.Client
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sales: make(map[string]domain.Sale), updated: make(map[string]domain.Sale)}
}

func (f *fakeBackend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeBackend) ListProductsRange(ctx context.Context, r backend.DateRange) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeBackend) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: id}
}

func (f *fakeBackend) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = fmt.Sprintf("p%d", len(f.products)+1)
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeBackend) UpdateProduct(ctx context.Context, id string, p domain.Product) (domain.Product, error) {
	p.ID = id
	return p, nil
}

func (f *fakeBackend) DeleteProduct(ctx context.Context, id string) error { return nil }

func (f *fakeBackend) ListSales(ctx context.Context) ([]domain.Sale, error) {
	out := make([]domain.Sale, 0, len(f.sales))
	for _, s := range f.sales {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeBackend) GetSale(ctx context.Context, id string) (domain.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return domain.Sale{}, &domain.NotFoundError{Kind: "sale", ID: id}
	}
	return s, nil
}

func (f *fakeBackend) CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	sale.ID = fmt.Sprintf("s%d", len(f.created)+1)
	f.created = append(f.created, sale)
	f.sales[sale.ID] = sale
	return sale, nil
}

func (f *fakeBackend) UpdateSale(ctx context.Context, id string, sale domain.Sale) (domain.Sale, error) {
	sale.ID = id
	f.updated[id] = sale
	f.sales[id] = sale
	return sale, nil
}

func (f *fakeBackend) FinalizeSale(ctx context.Context, id string, method domain.PaymentMethod) (domain.Sale, error) {
	f.finalized = append(f.finalized, id)
	s := f.sales[id]
	s.Finished = true
	s.PaymentMethod = method
	f.sales[id] = s
	return s, nil
}

func (f *fakeBackend) CreateClient(ctx context.Context, client domain.Client) error {
	f.clients = append(f.clients, client)
	return nil
}

type fakeReceiptReader struct {
	entries map[string]*receiptlog.Entry
}

func (f *fakeReceiptReader) LatestForSale(ctx context.Context, saleID string) (*receiptlog.Entry, error) {
	e, ok := f.entries[saleID]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "receipt", ID: saleID}
	}
	return e, nil
}

func newTestServer(cat *fakeCatalog, be *fakeBackend) *httptest.Server {
	h := NewHandler(cat, be, draft.NewStore(), checkout.NewStore(), nil, nil, nil)
	return httptest.NewServer(NewRouter(h))
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Coke", Price: 50},
		{ID: "p2", Name: "Chips", Price: 30},
	}
}

func TestGetCatalogServesCachedProducts(t *testing.T) {
	srv := newTestServer(&fakeCatalog{products: testProducts()}, newFakeBackend())
	defer srv.Close()

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/catalog", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	products, _ := body["products"].([]any)
	if len(products) != 2 {
		t.Errorf("got %d products, want 2", len(products))
	}
}

func TestReloadCatalogReportsFailure(t *testing.T) {
	cat := &fakeCatalog{loadErr: &domain.TransportError{Op: "list products", Err: fmt.Errorf("refused")}}
	srv := newTestServer(cat, newFakeBackend())
	defer srv.Close()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/catalog/reload", nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	if body["error"] != "backend_unreachable" {
		t.Errorf("error code = %v", body["error"])
	}
	if cat.loads != 1 {
		t.Errorf("loads = %d, want 1", cat.loads)
	}
}

func TestDraftFlow(t *testing.T) {
	be := newFakeBackend()
	srv := newTestServer(&fakeCatalog{products: testProducts()}, be)
	defer srv.Close()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/drafts", map[string]any{"table_number": "4"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create draft status = %d", resp.StatusCode)
	}
	draftID, _ := body["id"].(string)
	if draftID == "" {
		t.Fatalf("no draft id in %v", body)
	}

	itemsURL := srv.URL + "/api/drafts/" + draftID + "/items"
	resp, body = doJSON(t, http.MethodPost, itemsURL, map[string]any{"product_id": "p1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add item status = %d", resp.StatusCode)
	}

	// adding again bumps the quantity, no duplicate line
	_, body = doJSON(t, http.MethodPost, itemsURL, map[string]any{"product_id": "p1"})
	items, _ := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("got %d lines, want 1", len(items))
	}

	// quantity arrives as a string and still parses
	resp, body = doJSON(t, http.MethodPatch, itemsURL+"/p1", map[string]any{"quantity": "3"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set quantity status = %d", resp.StatusCode)
	}
	if body["total"] != float64(150) {
		t.Errorf("total = %v, want 150", body["total"])
	}

	// removing a line from a new cart is not allowed
	resp, _ = doJSON(t, http.MethodDelete, itemsURL+"/p1", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("remove status = %d, want 409", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/drafts/"+draftID+"/submit", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status = %d: %v", resp.StatusCode, body)
	}
	if len(be.created) != 1 {
		t.Fatalf("backend got %d creates, want 1", len(be.created))
	}
	if be.created[0].TableNumber != "4" || be.created[0].Total != 150 {
		t.Errorf("created sale = %+v", be.created[0])
	}

	// draft is gone once submitted
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/drafts/"+draftID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after submit status = %d, want 404", resp.StatusCode)
	}
}

func TestSubmitEmptyDraftRejectedLocally(t *testing.T) {
	be := newFakeBackend()
	srv := newTestServer(&fakeCatalog{products: testProducts()}, be)
	defer srv.Close()

	_, body := doJSON(t, http.MethodPost, srv.URL+"/api/drafts", map[string]any{"table_number": "4"})
	draftID, _ := body["id"].(string)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/drafts/"+draftID+"/submit", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if len(be.created) != 0 {
		t.Errorf("backend was called for an invalid draft")
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "at least one item") {
		t.Errorf("message = %q", msg)
	}
}

func TestCheckoutFlow(t *testing.T) {
	be := newFakeBackend()
	be.sales["s1"] = domain.Sale{
		ID: "s1", TableNumber: "4", Total: 100,
		Items: []domain.LineItem{{ProductID: "p1", Name: "Coke", Quantity: 2, UnitPrice: 50}},
	}
	srv := newTestServer(&fakeCatalog{products: testProducts()}, be)
	defer srv.Close()

	// confirming before choosing a method has no session to act on
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/orders/s1/confirm", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("confirm without session status = %d, want 404", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/orders/s1/payment", map[string]any{"method": "mpesa"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("payment status = %d: %v", resp.StatusCode, body)
	}
	if body["state"] != "AWAITING_CONFIRMATION" {
		t.Errorf("state = %v", body["state"])
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/orders/s1/confirm", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm status = %d: %v", resp.StatusCode, body)
	}
	if len(be.finalized) != 1 || be.finalized[0] != "s1" {
		t.Fatalf("finalized = %v", be.finalized)
	}
	rendered, _ := body["rendered"].(string)
	if !strings.Contains(rendered, "2x Coke") || !strings.Contains(rendered, "M-Pesa") {
		t.Errorf("rendered receipt missing lines:\n%s", rendered)
	}
}

func TestSelectPaymentRejectsUnknownMethod(t *testing.T) {
	be := newFakeBackend()
	be.sales["s1"] = domain.Sale{ID: "s1", TableNumber: "4", Total: 100,
		Items: []domain.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: 100}}}
	srv := newTestServer(&fakeCatalog{}, be)
	defer srv.Close()

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/orders/s1/payment", map[string]any{"method": "bitcoin"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCancelCheckoutReturnsToOpen(t *testing.T) {
	be := newFakeBackend()
	be.sales["s1"] = domain.Sale{ID: "s1", TableNumber: "4", Total: 100,
		Items: []domain.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: 100}}}
	srv := newTestServer(&fakeCatalog{}, be)
	defer srv.Close()

	doJSON(t, http.MethodPost, srv.URL+"/api/orders/s1/payment", map[string]any{"method": "cash"})
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/orders/s1/cancel", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel status = %d", resp.StatusCode)
	}
	if body["state"] != "OPEN" {
		t.Errorf("state = %v, want OPEN", body["state"])
	}
	if len(be.finalized) != 0 {
		t.Errorf("cancel reached the backend")
	}
}

func TestEditOrderOpensEditingDraft(t *testing.T) {
	be := newFakeBackend()
	be.sales["s1"] = domain.Sale{ID: "s1", TableNumber: "4", Total: 100,
		Items: []domain.LineItem{{ProductID: "p1", Name: "Coke", Quantity: 2, UnitPrice: 50}}}
	srv := newTestServer(&fakeCatalog{products: testProducts()}, be)
	defer srv.Close()

	doJSON(t, http.MethodPost, srv.URL+"/api/orders/s1/payment", map[string]any{"method": "cash"})
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/orders/s1/edit", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("edit status = %d", resp.StatusCode)
	}
	if body["editing"] != true {
		t.Errorf("editing = %v, want true", body["editing"])
	}
	if body["sale_id"] != "s1" {
		t.Errorf("sale_id = %v", body["sale_id"])
	}

	// the checkout session is gone
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/orders/s1/confirm", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("confirm after edit status = %d, want 404", resp.StatusCode)
	}
}

func TestListOrdersFiltersFinished(t *testing.T) {
	be := newFakeBackend()
	be.sales["s1"] = domain.Sale{ID: "s1", TableNumber: "4", Finished: false}
	be.sales["s2"] = domain.Sale{ID: "s2", TableNumber: "7", Finished: true}
	srv := newTestServer(&fakeCatalog{}, be)
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/orders", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var sales []SaleResponse
	if err := json.NewDecoder(resp.Body).Decode(&sales); err != nil {
		t.Fatal(err)
	}
	if len(sales) != 1 || sales[0].ID != "s1" {
		t.Errorf("open orders = %+v, want only s1", sales)
	}
}

func TestExportSalesCSV(t *testing.T) {
	be := newFakeBackend()
	be.sales["s2"] = domain.Sale{ID: "s2", TableNumber: "7", Total: 70, Finished: true,
		PaymentMethod: domain.PaymentCash, Date: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	srv := newTestServer(&fakeCatalog{}, be)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/reports/sales.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "s2") {
		t.Errorf("csv missing sale row:\n%s", buf.String())
	}
}

func TestReprintReceipt(t *testing.T) {
	reader := &fakeReceiptReader{entries: map[string]*receiptlog.Entry{
		"s1": {
			Receipt: receiptlog.Receipt{
				SaleID: "s1", TableNumber: "4", PaymentMethod: "cash",
				Total: 100, Items: `[{"name":"Coke"}]`,
				IssuedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	}}
	h := NewHandler(&fakeCatalog{}, newFakeBackend(), draft.NewStore(), checkout.NewStore(), nil, reader, nil)
	srv := httptest.NewServer(NewRouter(h))
	defer srv.Close()

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/sales/s1/receipt", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["total"] != float64(100) {
		t.Errorf("total = %v, want 100", body["total"])
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/sales/s2/receipt", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing receipt status = %d, want 404", resp.StatusCode)
	}
}

func TestReprintReceiptDisabled(t *testing.T) {
	srv := newTestServer(&fakeCatalog{}, newFakeBackend())
	defer srv.Close()

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/sales/s1/receipt", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListSalesInvalidRange(t *testing.T) {
	srv := newTestServer(&fakeCatalog{}, newFakeBackend())
	defer srv.Close()

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/sales?from=not-a-date", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["error"] != "invalid_range" {
		t.Errorf("error code = %v", body["error"])
	}
}
