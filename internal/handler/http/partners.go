package http

import (
	"encoding/json"
	"net/http"

	"PartnerHub-Backend/internal/auth"
	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/internal/service"

	"go.uber.org/zap"
)

const defaultPageSize = 8

// PartnersHandler serves the public partner listing and the admin CRUD.
type PartnersHandler struct {
	storage repository.Storage
	catalog *service.CatalogService
	log     *zap.Logger
}

// NewPartnersHandler creates the partners handler.
func NewPartnersHandler(storage repository.Storage, catalog *service.CatalogService, log *zap.Logger) *PartnersHandler {
	return &PartnersHandler{
		storage: storage,
		catalog: catalog,
		log:     log,
	}
}

// PartnerListResponse is the paginated listing body.
type PartnerListResponse struct {
	Items   []*domain.Partner `json:"items"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// ListPublic handles GET /api/partners?category=&page=&per_page=. Only
// active partners are visible here.
func (h *PartnersHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.list(w, r, false)
}

// HandleCollection handles GET and POST on /api/admin/partners.
func (h *PartnersHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r, true)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleItem handles GET, PUT and DELETE on /api/admin/partners/{id}.
func (h *PartnersHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/admin/partners/")
	if !ok {
		writeError(w, "Invalid partner id", http.StatusBadRequest)
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

func (h *PartnersHandler) list(w http.ResponseWriter, r *http.Request, includeInactive bool) {
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

	partners, total, err := h.storage.ListPartners(r.Context(), opts)
	if err != nil {
		h.log.Error("failed to list partners", zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, PartnerListResponse{
		Items:   partners,
		Total:   total,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	})
}

func (h *PartnersHandler) create(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePartnerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	partner, err := h.catalog.CreatePartner(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, "create partner", err)
		return
	}

	admin, _ := auth.AdminEmailFromContext(r.Context())
	h.log.Info("partner created",
		zap.Int64("id", partner.ID), zap.String("slug", partner.Slug), zap.String("admin", admin))
	writeJSON(w, http.StatusCreated, partner)
}

func (h *PartnersHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	partner, err := h.storage.GetPartner(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, "get partner", err)
		return
	}
	writeJSON(w, http.StatusOK, partner)
}

func (h *PartnersHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var input service.CreatePartnerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	partner, err := h.catalog.UpdatePartner(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, h.log, "update partner", err)
		return
	}

	h.log.Info("partner updated", zap.Int64("id", partner.ID), zap.String("slug", partner.Slug))
	writeJSON(w, http.StatusOK, partner)
}

func (h *PartnersHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.catalog.DeletePartner(r.Context(), id); err != nil {
		writeServiceError(w, h.log, "delete partner", err)
		return
	}

	admin, _ := auth.AdminEmailFromContext(r.Context())
	h.log.Info("partner deleted", zap.Int64("id", id), zap.String("admin", admin))
	w.WriteHeader(http.StatusNoContent)
}
