package http

import (
	"PartnerHub-Backend/internal/analytics"
	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/pkg/useragent"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RedirectHandler serves the outbound links: it resolves the catalog
// entry behind a slug, counts the visit when it is a genuine navigation,
// and always sends the visitor somewhere. A resolved slug goes to the
// target URL, anything else goes to the home page. Counting is best
// effort; the redirect is not.
type RedirectHandler struct {
	storage repository.Storage
	log     *zap.Logger
	homeURL string
	now     func() time.Time
}

// NewRedirectHandler creates the redirect handler.
func NewRedirectHandler(storage repository.Storage, log *zap.Logger, homeURL string) *RedirectHandler {
	if homeURL == "" {
		homeURL = "/"
	}
	return &RedirectHandler{
		storage: storage,
		log:     log,
		homeURL: homeURL,
		now:     time.Now,
	}
}

// HandlePartner handles GET /out/partner/{slug}.
func (h *RedirectHandler) HandlePartner(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.KindPartner, "/out/partner/")
}

// HandleProduct handles GET /out/product/{slug}.
func (h *RedirectHandler) HandleProduct(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.KindProduct, "/out/product/")
}

func (h *RedirectHandler) handle(w http.ResponseWriter, r *http.Request, kind domain.EntityKind, prefix string) {
	// Redirect responses must never be cached or revalidated: a cached
	// redirect would bypass counting entirely.
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	slug := strings.TrimPrefix(r.URL.Path, prefix)
	if slug == "" || strings.Contains(slug, "/") {
		h.log.Debug("malformed outbound path", zap.String("path", r.URL.Path))
		http.Redirect(w, r, h.homeURL, http.StatusFound)
		return
	}

	out, err := h.storage.ResolveOutbound(r.Context(), kind, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.log.Info("outbound slug did not resolve",
				zap.String("kind", string(kind)), zap.String("slug", slug))
		} else {
			h.log.Error("failed to resolve outbound slug",
				zap.String("kind", string(kind)), zap.String("slug", slug), zap.Error(err))
		}
		http.Redirect(w, r, h.homeURL, http.StatusFound)
		return
	}

	visit := analytics.ClassifyRequest(r)
	counted := false
	if visit.Countable() {
		if err := h.storage.RecordClick(r.Context(), kind, out.EntityID, h.now()); err != nil {
			// A dropped click is acceptable; losing the redirect is not.
			// The visitor still goes to the resolved target.
			h.log.Error("failed to record click",
				zap.String("kind", string(kind)), zap.String("slug", slug), zap.Error(err))
		} else {
			counted = true
		}
	}

	device := useragent.Parse(r.UserAgent())
	h.log.Info("outbound redirect",
		zap.String("kind", string(kind)),
		zap.String("slug", slug),
		zap.Bool("counted", counted),
		zap.Bool("prefetch", visit.Prefetch),
		zap.String("fetch_dest", visit.FetchDest),
		zap.String("device_type", device.DeviceType))

	http.Redirect(w, r, out.URL, http.StatusFound)
}
