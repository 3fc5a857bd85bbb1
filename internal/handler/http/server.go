package http

import (
	"net/http"

	"PartnerHub-Backend/internal/auth"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Router bundles every handler the HTTP surface needs.
type Router struct {
	Redirect   *RedirectHandler
	Dashboard  *DashboardHandler
	Partners   *PartnersHandler
	Products   *ProductsHandler
	Categories *CategoriesHandler
	Auth       *auth.AuthHandlers
	Health     *HealthHandler
	Middleware *auth.Middleware
}

// SetupRoutes registers every route on a fresh mux. Outbound redirects
// and public listings are open; everything under /api/admin requires an
// allowlisted session.
func (rt *Router) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mw := rt.Middleware

	// Outbound redirects
	mux.HandleFunc("/out/partner/", rt.Redirect.HandlePartner)
	mux.HandleFunc("/out/product/", rt.Redirect.HandleProduct)

	// Public catalog
	mux.HandleFunc("/api/partners", mw.CORS(rt.Partners.ListPublic))
	mux.HandleFunc("/api/products", mw.CORS(rt.Products.ListPublic))
	mux.HandleFunc("/api/categories", mw.CORS(rt.Categories.ListPublic))
	mux.HandleFunc("/api/product-categories", mw.CORS(rt.Categories.ListProductCategoriesPublic))

	// Auth
	mux.HandleFunc("/api/auth/login", mw.CORS(rt.Auth.Login))

	// Admin catalog
	mux.HandleFunc("/api/admin/partners", mw.CORS(mw.RequireAdmin(rt.Partners.HandleCollection)))
	mux.HandleFunc("/api/admin/partners/", mw.CORS(mw.RequireAdmin(rt.Partners.HandleItem)))
	mux.HandleFunc("/api/admin/products", mw.CORS(mw.RequireAdmin(rt.Products.HandleCollection)))
	mux.HandleFunc("/api/admin/products/", mw.CORS(mw.RequireAdmin(rt.Products.HandleItem)))
	mux.HandleFunc("/api/admin/categories", mw.CORS(mw.RequireAdmin(rt.Categories.HandleCollection)))
	mux.HandleFunc("/api/admin/categories/", mw.CORS(mw.RequireAdmin(rt.Categories.HandleItem)))
	mux.HandleFunc("/api/admin/product-categories", mw.CORS(mw.RequireAdmin(rt.Categories.HandleProductCategoryCollection)))
	mux.HandleFunc("/api/admin/product-categories/", mw.CORS(mw.RequireAdmin(rt.Categories.HandleProductCategoryItem)))

	// Admin analytics
	mux.HandleFunc("/api/admin/stats/top", mw.CORS(mw.RequireAdmin(rt.Dashboard.TopClicks)))
	mux.HandleFunc("/api/admin/stats/series", mw.CORS(mw.RequireAdmin(rt.Dashboard.DailySeries)))

	// Observability
	mux.HandleFunc("/health", rt.Health.Health)
	mux.HandleFunc("/ready", rt.Health.Ready)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
