package http

import (
	"encoding/json"
	"net/http"

	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/internal/service"

	"go.uber.org/zap"
)

// CategoriesHandler serves both taxonomies: the store categories that
// file partners and the product categories that file products.
type CategoriesHandler struct {
	storage repository.Storage
	catalog *service.CatalogService
	log     *zap.Logger
}

// NewCategoriesHandler creates the categories handler.
func NewCategoriesHandler(storage repository.Storage, catalog *service.CatalogService, log *zap.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		storage: storage,
		catalog: catalog,
		log:     log,
	}
}

// ListPublic handles GET /api/categories.
func (h *CategoriesHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	categories, err := h.storage.ListCategories(r.Context())
	if err != nil {
		h.log.Error("failed to list categories", zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": categories})
}

// ListProductCategoriesPublic handles GET /api/product-categories.
func (h *CategoriesHandler) ListProductCategoriesPublic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	categories, err := h.storage.ListProductCategories(r.Context())
	if err != nil {
		h.log.Error("failed to list product categories", zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": categories})
}

// HandleCollection handles GET and POST on /api/admin/categories.
func (h *CategoriesHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListPublic(w, r)
	case http.MethodPost:
		var input service.CreateCategoryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		category, err := h.catalog.CreateCategory(r.Context(), input)
		if err != nil {
			writeServiceError(w, h.log, "create category", err)
			return
		}
		h.log.Info("category created", zap.Int64("id", category.ID), zap.String("slug", category.Slug))
		writeJSON(w, http.StatusCreated, category)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleItem handles PUT and DELETE on /api/admin/categories/{id}.
func (h *CategoriesHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/admin/categories/")
	if !ok {
		writeError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var input service.CreateCategoryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		category, err := h.catalog.UpdateCategory(r.Context(), id, input)
		if err != nil {
			writeServiceError(w, h.log, "update category", err)
			return
		}
		writeJSON(w, http.StatusOK, category)
	case http.MethodDelete:
		if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
			writeServiceError(w, h.log, "delete category", err)
			return
		}
		h.log.Info("category deleted", zap.Int64("id", id))
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleProductCategoryCollection handles GET and POST on
// /api/admin/product-categories.
func (h *CategoriesHandler) HandleProductCategoryCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListProductCategoriesPublic(w, r)
	case http.MethodPost:
		var input service.CreateCategoryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		category, err := h.catalog.CreateProductCategory(r.Context(), input)
		if err != nil {
			writeServiceError(w, h.log, "create product category", err)
			return
		}
		h.log.Info("product category created", zap.Int64("id", category.ID), zap.String("slug", category.Slug))
		writeJSON(w, http.StatusCreated, category)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleProductCategoryItem handles PUT and DELETE on
// /api/admin/product-categories/{id}.
func (h *CategoriesHandler) HandleProductCategoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/admin/product-categories/")
	if !ok {
		writeError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var input service.CreateCategoryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		category, err := h.catalog.UpdateProductCategory(r.Context(), id, input)
		if err != nil {
			writeServiceError(w, h.log, "update product category", err)
			return
		}
		writeJSON(w, http.StatusOK, category)
	case http.MethodDelete:
		if err := h.catalog.DeleteProductCategory(r.Context(), id); err != nil {
			writeServiceError(w, h.log, "delete product category", err)
			return
		}
		h.log.Info("product category deleted", zap.Int64("id", id))
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
