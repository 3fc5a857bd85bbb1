package http

import (
	"encoding/json"
	"net/http"

	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/internal/service"

	"go.uber.org/zap"
)

// ProductsHandler serves the public product listing and the admin CRUD.
type ProductsHandler struct {
	storage repository.Storage
	catalog *service.CatalogService
	log     *zap.Logger
}

// NewProductsHandler creates the products handler.
func NewProductsHandler(storage repository.Storage, catalog *service.CatalogService, log *zap.Logger) *ProductsHandler {
	return &ProductsHandler{
		storage: storage,
		catalog: catalog,
		log:     log,
	}
}

// ProductListResponse is the paginated listing body.
type ProductListResponse struct {
	Items   []*domain.Product `json:"items"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// ListPublic handles GET /api/products?category=&page=&per_page=.
func (h *ProductsHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.list(w, r, false)
}

// HandleCollection handles GET and POST on /api/admin/products.
func (h *ProductsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r, true)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleItem handles GET, PUT and DELETE on /api/admin/products/{id}.
func (h *ProductsHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/admin/products/")
	if !ok {
		writeError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request, includeInactive bool) {
	opts := repository.ListOptions{
		CategorySlug:    r.URL.Query().Get("category"),
		Page:            queryInt(r, "page", "1"),
		PerPage:         queryInt(r, "per_page", "8"),
		IncludeInactive: includeInactive,
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 || opts.PerPage > 100 {
		opts.PerPage = defaultPageSize
	}

	products, total, err := h.storage.ListProducts(r.Context(), opts)
	if err != nil {
		h.log.Error("failed to list products", zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ProductListResponse{
		Items:   products,
		Total:   total,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	})
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, "create product", err)
		return
	}

	h.log.Info("product created", zap.Int64("id", product.ID), zap.String("slug", product.Slug))
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	product, err := h.storage.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var input service.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, h.log, "update product", err)
		return
	}

	h.log.Info("product updated", zap.Int64("id", product.ID), zap.String("slug", product.Slug))
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, h.log, "delete product", err)
		return
	}

	h.log.Info("product deleted", zap.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
