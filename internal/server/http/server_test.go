package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	cfgpkg "github.com/ZeroFairy/kuenyawz-api/internal/config"
	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	pebblestore "github.com/ZeroFairy/kuenyawz-api/internal/storage/pebble"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	rt, err := runtime.Open(runtime.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
		NodeID:  1,
		Config:  cfgpkg.Default(),
	})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return New(rt)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/accounts",
		`{"fullName":"Test User","email":"user@example.com","password":"secret"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: %d body: %s", w.Code, w.Body)
	}
	var acc struct {
		AccountID string `json:"accountId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &acc); err != nil || acc.AccountID == "" {
		t.Fatalf("create response: %s (%v)", w.Body, err)
	}

	// IDs cross the wire as decimal strings.
	if strings.ContainsAny(acc.AccountID, "{}") {
		t.Fatalf("id must be a plain string: %q", acc.AccountID)
	}

	w = do(t, s, http.MethodGet, "/v1/accounts/"+acc.AccountID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status: %d", w.Code)
	}

	// Duplicate email conflicts.
	w = do(t, s, http.MethodPost, "/v1/accounts",
		`{"fullName":"Other","email":"user@example.com","password":"secret"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate email status: %d", w.Code)
	}

	w = do(t, s, http.MethodDelete, "/v1/accounts/"+acc.AccountID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status: %d", w.Code)
	}
	w = do(t, s, http.MethodGet, "/v1/accounts/"+acc.AccountID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status: %d", w.Code)
	}
}

func TestProductHandlers(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/products",
		`{"name":"Lapis","category":"cake","available":true,"variants":[{"type":"whole","price":650000,"minQuantity":1}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: %d body: %s", w.Code, w.Body)
	}
	var p struct {
		ProductID string `json:"productId"`
		Variants  []struct {
			VariantID string `json:"variantId"`
		} `json:"variants"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ProductID == "" || len(p.Variants) != 1 || p.Variants[0].VariantID == "" {
		t.Fatalf("keys missing in response: %s", w.Body)
	}

	w = do(t, s, http.MethodGet, "/v1/products?category=cake", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status: %d", w.Code)
	}

	// Bad filter expressions are client errors.
	w = do(t, s, http.MethodGet, "/v1/products?filter=min_price+%3C", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad filter status: %d", w.Code)
	}

	w = do(t, s, http.MethodPost, "/v1/products", `{"name":"no variants"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid product status: %d", w.Code)
	}
}

func TestIDInspectHandler(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/accounts",
		`{"fullName":"A","email":"a@b.c","password":"x"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: %d", w.Code)
	}
	var acc struct {
		AccountID string `json:"accountId"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &acc)

	w = do(t, s, http.MethodGet, "/v1/ids/"+acc.AccountID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("inspect status: %d", w.Code)
	}
	var parts struct {
		NodeID   int64 `json:"node_id"`
		Sequence int64 `json:"sequence"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &parts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if parts.NodeID != 1 {
		t.Fatalf("node id: want 1, got %d", parts.NodeID)
	}

	w = do(t, s, http.MethodGet, "/v1/ids/not-a-number", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id status: %d", w.Code)
	}
}

func TestTransactionHandlers(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/transactions", `{"accountId":"42","amount":350000}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: %d body: %s", w.Code, w.Body)
	}
	var tx struct {
		TransactionID string `json:"transactionId"`
		ReferenceID   string `json:"referenceId"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tx); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tx.Status != "PENDING" {
		t.Fatalf("status: %s", tx.Status)
	}

	w = do(t, s, http.MethodGet, "/v1/transactions/ref/"+tx.ReferenceID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get by ref status: %d", w.Code)
	}

	w = do(t, s, http.MethodPost, "/v1/transactions/"+tx.TransactionID+"/finalize", `{"status":"SUCCESS"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("finalize status: %d body: %s", w.Code, w.Body)
	}
	w = do(t, s, http.MethodPost, "/v1/transactions/"+tx.TransactionID+"/finalize", `{"status":"CANCELLED"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("refinalize status: %d", w.Code)
	}
}
