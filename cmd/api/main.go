package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/allamta/informed/internal/application/analysis"
	"github.com/allamta/informed/internal/config"
	"github.com/allamta/informed/internal/domain/analyses"
	"github.com/allamta/informed/internal/domain/ingredients"
	openaiclient "github.com/allamta/informed/internal/infra/ai/openai"
	mysqldb "github.com/allamta/informed/internal/infra/db/mysql"
	postgresdb "github.com/allamta/informed/internal/infra/db/postgres"
	"github.com/allamta/informed/internal/infra/httpserver"
	tessocr "github.com/allamta/informed/internal/infra/ocr"
	minioStore "github.com/allamta/informed/internal/infra/storage"
	"github.com/allamta/informed/internal/logger"
	"github.com/allamta/informed/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zl := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer zl.Sync()
	zlog := zl.Sugar()
	middleware.SetLogger(zlog)

	ctx := context.Background()

	// connect database; the cache store and audit trail share one pool
	var (
		db        *sql.DB
		cache     ingredients.CacheStore
		auditRepo analyses.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		cache = postgresdb.NewIngredientRepository(db)
		auditRepo = postgresdb.NewAnalysisRepository(db)
	default:
		db, err = mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		cache = mysqldb.NewIngredientRepository(db)
		auditRepo = mysqldb.NewAnalysisRepository(db)
	}
	defer db.Close()

	// image archive is optional; the pipeline runs without it
	var images analyses.ImageStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		images = store
	}

	model := openaiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	engine := tessocr.NewTesseractEngine(cfg.OCR.Languages...)

	svc := &analysis.Service{
		Extractor:  analysis.NewExtractor(engine, cfg.OCR.ConfidenceThreshold),
		Normalizer: analysis.NewNormalizer(model),
		Resolver:   analysis.NewResolver(cache, model, zlog),
		Audits:     auditRepo,
		Images:     images,
		Clock:      analysis.SystemClock{},
		Log:        zlog,
	}

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	limiter := middleware.NewRateLimiter(10, 2)

	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, checkers, limiter))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Infow("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zlog.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		zlog.Warnw("shutdown error", "error", err)
	}
}
