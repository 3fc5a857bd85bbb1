// Package main provides the entry point for the PartnerHub backend.
//
//	@title			PartnerHub API
//	@version		1.0.0
//	@description	Affiliate catalog backend: outbound click tracking, partner and product management, admin analytics.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Authorization header. Format: "Bearer {token}"
package main

import (
	"PartnerHub-Backend/internal/analytics"
	"PartnerHub-Backend/internal/auth"
	"PartnerHub-Backend/internal/config"
	"PartnerHub-Backend/internal/database"
	"PartnerHub-Backend/internal/domain"
	httpHandler "PartnerHub-Backend/internal/handler/http"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/internal/repository/postgres"
	"PartnerHub-Backend/internal/service"
	"PartnerHub-Backend/pkg/logger"
	"PartnerHub-Backend/pkg/useragent"
	"context"
	"errors"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting PartnerHub backend", zap.String("env", cfg.Env))

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	if cfg.Database.SeedData {
		if err := database.SeedData(db, log); err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
	}

	if err := useragent.InitGlobalParser(cfg.Site.UAParserRegexes, log); err != nil {
		log.Warn("failed to initialize User-Agent parser, using fallback", zap.Error(err))
	}

	storage := postgres.New(db, log)

	tokenDuration, err := time.ParseDuration(cfg.Auth.TokenDuration)
	if err != nil {
		log.Warn("failed to parse token_duration, using default 12h", zap.Error(err))
		tokenDuration = 12 * time.Hour
	}
	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:     []byte(cfg.Auth.JWTSecret),
		TokenDuration: tokenDuration,
		Issuer:        cfg.Auth.Issuer,
	})
	passwordService := auth.NewPasswordService()
	allowlist := auth.NewAllowlist(cfg.Auth.AdminEmails)

	if cfg.Auth.BootstrapPassword != "" {
		bootstrapAdmins(storage, passwordService, cfg.Auth.AdminEmails, cfg.Auth.BootstrapPassword, log)
	}

	catalog := service.NewCatalog(storage, log)
	stats := analytics.NewStats(storage, log)
	middleware := auth.NewMiddleware(jwtService, allowlist, log)

	router := &httpHandler.Router{
		Redirect:   httpHandler.NewRedirectHandler(storage, log, cfg.Site.HomeURL),
		Dashboard:  httpHandler.NewDashboardHandler(stats, log),
		Partners:   httpHandler.NewPartnersHandler(storage, catalog, log),
		Products:   httpHandler.NewProductsHandler(storage, catalog, log),
		Categories: httpHandler.NewCategoriesHandler(storage, catalog, log),
		Auth:       auth.NewAuthHandlers(storage, jwtService, passwordService, allowlist, log),
		Health:     httpHandler.NewHealthHandler(storage, log),
		Middleware: middleware,
	}

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  parseDurationOr(cfg.HTTPServer.ReadTimeout, 30*time.Second),
		WriteTimeout: parseDurationOr(cfg.HTTPServer.WriteTimeout, 30*time.Second),
		IdleTimeout:  parseDurationOr(cfg.HTTPServer.IdleTimeout, 60*time.Second),
	}

	go func() {
		log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down PartnerHub backend...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}
}

// bootstrapAdmins creates allowlisted admin accounts that do not exist
// yet. Existing accounts are left untouched.
func bootstrapAdmins(storage repository.Storage, passwords *auth.PasswordService, emails []string, password string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		if _, err := storage.GetAdminByEmail(ctx, email); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to check admin account", zap.String("email", email), zap.Error(err))
			continue
		}

		hash, err := passwords.HashPassword(password)
		if err != nil {
			log.Error("failed to hash bootstrap password", zap.Error(err))
			return
		}
		if err := storage.CreateAdmin(ctx, &domain.AdminUser{Email: email, PasswordHash: hash, Active: true}); err != nil {
			log.Error("failed to create admin account", zap.String("email", email), zap.Error(err))
			continue
		}
		log.Info("bootstrapped admin account", zap.String("email", email))
	}
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
