package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/propmaint/backend/internal/blob"
	"github.com/propmaint/backend/internal/config"
	"github.com/propmaint/backend/internal/controllers"
	"github.com/propmaint/backend/internal/database"
	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/docstore/gormstore"
	"github.com/propmaint/backend/internal/docstore/notion"
	"github.com/propmaint/backend/internal/logger"
	"github.com/propmaint/backend/internal/middleware"
	"github.com/propmaint/backend/internal/routes"
	"github.com/propmaint/backend/internal/services"
)

// devSessionSecret signs sessions in local runs without SESSION_SECRET.
const devSessionSecret = "propmaint-dev-secret"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}
	logger.Initialize(cfg.Logging.Level, cfg.Logging.Dir)
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open store", map[string]interface{}{
			"driver": cfg.Store.Driver,
			"error":  err.Error(),
		})
	}

	blobs, uploadDir := openBlobStore(cfg)

	collections := cfg.IncidentCollections()
	incidents := services.NewIncidentService(store, collections, cfg.Cache.TTL)
	incidents.OwnsUpload = blobs.Owns
	maintenance := services.NewMaintenanceService(store, collections.Maintenance, cfg.Cache.TTL)

	secret := []byte(cfg.Auth.SessionSecret)
	if len(secret) == 0 {
		logger.Warn("SESSION_SECRET not set, using the development secret", nil)
		secret = []byte(devSessionSecret)
	}
	auth, err := controllers.NewAuthController(controllers.AuthSettings{
		TechnicianPassword: cfg.Auth.AdminPassword,
		ManagerPassword:    cfg.Auth.GestionPassword,
		SessionSecret:      secret,
		SessionTTL:         cfg.Auth.SessionTTL,
		CookieSecure:       cfg.Auth.CookieSecure,
	})
	if err != nil {
		logger.Fatal("Failed to configure authentication", map[string]interface{}{"error": err.Error()})
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(middleware.CustomLoggerMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigin))
	r.Use(gin.Recovery())

	r.GET("/health", healthHandler(cfg.Store.Driver, store))

	routes.SetupRoutes(r, routes.Deps{
		Incidents:      incidents,
		Maintenance:    maintenance,
		Auth:           auth,
		Blobs:          blobs,
		MaxUploadBytes: cfg.Blob.MaxBytes,
		SessionSecret:  secret,
		UploadDir:      uploadDir,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	logger.Info("Starting propmaint backend server", map[string]interface{}{
		"port":     cfg.Port,
		"gin_mode": gin.Mode(),
		"store":    cfg.Store.Driver,
		"cache":    cfg.Cache.TTL.String(),
	})

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.Info("Shutting down server gracefully...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("Server exited gracefully", nil)
	}
}

// openStore builds the page store for the configured driver. The memory
// store is seeded from data/initial-maintenance.json in local runs.
func openStore(cfg config.Config) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.Connect(cfg.Store.DatabaseURL, strings.EqualFold(cfg.Logging.Level, "DEBUG"))
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		return gormstore.New(db), nil
	case config.DriverMemory:
		store := docstore.NewMemoryStore()
		if cfg.IsLocal() {
			seedMemory(store, cfg.Collections.Maintenance)
		}
		return store, nil
	default:
		client := notion.New(cfg.Store.Notion.APIKey)
		if cfg.Store.Notion.BaseURL != "" {
			client.BaseURL = cfg.Store.Notion.BaseURL
		}
		return client, nil
	}
}

func seedMemory(store *docstore.MemoryStore, collectionID string) {
	tasks, err := database.LoadMaintenanceSeed("")
	if err != nil {
		logger.Warn("Maintenance seed not loaded", map[string]interface{}{"error": err.Error()})
		return
	}
	if _, err := database.SeedMaintenance(context.Background(), store, collectionID, tasks, time.Now()); err != nil {
		logger.Warn("Failed to seed maintenance tasks", map[string]interface{}{"error": err.Error()})
	}
}

// openBlobStore returns the upload target and, for local storage, the
// directory to serve back under /uploads.
func openBlobStore(cfg config.Config) (blob.Store, string) {
	if cfg.Blob.Token != "" {
		vs := blob.NewVercelStore(cfg.Blob.Token)
		if cfg.Blob.BaseURL != "" {
			vs.BaseURL = cfg.Blob.BaseURL
		}
		return vs, ""
	}
	logger.Info("Blob token not set, storing uploads locally", map[string]interface{}{
		"dir": cfg.Blob.UploadDir,
	})
	return blob.NewLocalStore(cfg.Blob.UploadDir), cfg.Blob.UploadDir
}

func healthHandler(driver string, store docstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeStatus := "ok"
		var storeError string

		if p, ok := store.(docstore.Pinger); ok {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				storeStatus = "error"
				storeError = err.Error()
			}
		}

		overallStatus := "ok"
		statusCode := http.StatusOK
		if storeStatus != "ok" {
			overallStatus = "error"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":    overallStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   "1.0.0",
			"services": gin.H{
				"store": gin.H{
					"driver": driver,
					"status": storeStatus,
					"error":  storeError,
				},
			},
		})
	}
}
