package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ecolife/inventory/internal/core/domain"
	"github.com/ecolife/inventory/internal/core/service"
)

type HTTPHandler struct {
	inventory *service.InventoryService
	logger    zerolog.Logger
}

type ProductJSON struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type CreateProductRequest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

type UpdateProductRequest struct {
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

type UpdateProductResponse struct {
	Product  ProductJSON `json:"product"`
	Rejected []string    `json:"rejected,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewHTTPHandler(inventory *service.InventoryService, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{inventory: inventory, logger: logger}
}

// Router wires the JSON API, the health check and the EcoLife site pages.
func (h *HTTPHandler) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api/products").Subrouter()
	api.HandleFunc("", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("", h.CreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/search", h.SearchProducts).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.UpdateProduct).Methods(http.MethodPatch)
	api.HandleFunc("/{id}", h.DeleteProduct).Methods(http.MethodDelete)

	registerSite(r)

	return requestLogger(h.logger, r)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.inventory.ListAll()
	if err != nil && !errors.Is(err, service.ErrEmpty) {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(products))
}

func (h *HTTPHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.inventory.SearchByName(r.URL.Query().Get("name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(products))
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.inventory.Get(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productJSON(product))
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	if req.ID == "" || req.Name == "" || req.Quantity == nil || req.Price == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "missing required fields"})
		return
	}

	product := domain.NewProduct(req.ID, req.Name, *req.Quantity, *req.Price)
	if err := product.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	if err := h.inventory.Add(r.Context(), product); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, productJSON(product))
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	result, err := h.inventory.Update(r.Context(), mux.Vars(r)["id"], service.UpdateRequest{
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := UpdateProductResponse{Product: productJSON(result.Product)}
	for _, rejected := range result.Rejected {
		resp.Rejected = append(resp.Rejected, rejected.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Remove(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, message = http.StatusNotFound, "product not found"
	case errors.Is(err, service.ErrDuplicateID):
		status, message = http.StatusConflict, "product already exists"
	case errors.Is(err, service.ErrStorageIntegrity):
		status, message = http.StatusConflict, "storage integrity violation"
	case service.IsFatal(err):
		status, message = http.StatusServiceUnavailable, "storage unavailable"
		h.logger.Error().Err(err).Msg("storage unavailable")
	default:
		h.logger.Error().Err(err).Msg("unexpected inventory error")
	}

	writeJSON(w, status, ErrorResponse{Message: message})
}

func productJSON(p domain.Product) ProductJSON {
	return ProductJSON{ID: p.ID(), Name: p.Name(), Quantity: p.Quantity(), Price: p.Price()}
}

func toJSON(products []domain.Product) []ProductJSON {
	out := make([]ProductJSON, 0, len(products))
	for _, p := range products {
		out = append(out, productJSON(p))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
