package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecolife/inventory/internal/core/domain"
)

func newTestRouter(t *testing.T, seed ...domain.Product) (http.Handler, func() error) {
	svc, table := newTestInventory(t, seed...)
	return NewHTTPHandler(svc, zerolog.Nop()).Router(), table.Close
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTP_HealthCheck(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHTTP_RequestIDEchoed(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestHTTP_ListEmpty(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(h, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHTTP_CreateAndGet(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(h, http.MethodPost, "/api/products", `{"id":"ECO001","name":"Cepillo de Bambú","quantity":10,"price":2.99}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(h, http.MethodGet, "/api/products/ECO001", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got ProductJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, ProductJSON{ID: "ECO001", Name: "Cepillo de Bambú", Quantity: 10, Price: 2.99}, got)
}

func TestHTTP_CreateErrors(t *testing.T) {
	h, _ := newTestRouter(t, bamboo)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"invalid body", `{`, http.StatusBadRequest},
		{"missing fields", `{"id":"ECO002","name":"Panel"}`, http.StatusBadRequest},
		{"negative quantity", `{"id":"ECO002","name":"Panel","quantity":-1,"price":1}`, http.StatusBadRequest},
		{"duplicate", `{"id":"ECO001","name":"Otro","quantity":1,"price":1}`, http.StatusConflict},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/api/products", c.body)
			assert.Equal(t, c.code, rec.Code)
		})
	}
}

func TestHTTP_Search(t *testing.T) {
	h, _ := newTestRouter(t, bamboo, domain.NewProduct("ECO002", "Panel solar", 3, 120))

	rec := do(h, http.MethodGet, "/api/products/search?name=bambu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []ProductJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "ECO001", got[0].ID)

	rec = do(h, http.MethodGet, "/api/products/search?name=compost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_UpdatePartial(t *testing.T) {
	h, _ := newTestRouter(t, bamboo)

	rec := do(h, http.MethodPatch, "/api/products/ECO001", `{"quantity":-2,"price":3.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UpdateProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Product.Quantity)
	assert.Equal(t, 3.5, resp.Product.Price)
	assert.Equal(t, []string{"quantity cannot be negative"}, resp.Rejected)

	rec = do(h, http.MethodPatch, "/api/products/missing", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_Delete(t *testing.T) {
	h, _ := newTestRouter(t, bamboo)

	rec := do(h, http.MethodDelete, "/api/products/ECO001", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(h, http.MethodDelete, "/api/products/ECO001", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_StorageUnavailable(t *testing.T) {
	h, closeTable := newTestRouter(t)
	require.NoError(t, closeTable())

	rec := do(h, http.MethodPost, "/api/products", `{"id":"ECO001","name":"Cepillo","quantity":1,"price":1}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHTTP_SitePages(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(h, http.MethodGet, "/", "")
	assert.Contains(t, rec.Body.String(), "Bienvenido al Sistema EcoLife")

	rec = do(h, http.MethodGet, "/usuario/Ana", "")
	assert.Contains(t, rec.Body.String(), "Bienvenido, Ana!")

	rec = do(h, http.MethodGet, "/producto/bambu", "")
	assert.Contains(t, rec.Body.String(), "Producto: bambu – Disponible")

	rec = do(h, http.MethodGet, "/servicio/vidrio", "")
	assert.Equal(t, "Servicio solicitado: Recolección de vidrio – En proceso.", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = do(h, http.MethodGet, "/servicio/papel&cart%C3%B3n", "")
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Recolección de papel&amp;cartón")

	rec = do(h, http.MethodGet, "/usuario/%3Cscript%3E", "")
	assert.NotContains(t, rec.Body.String(), "<script>")
}
