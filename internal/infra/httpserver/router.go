package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domai "github.com/allamta/informed/internal/domain/ai"
	"github.com/allamta/informed/internal/domain/analyses"
	"github.com/allamta/informed/internal/domain/ingredients"
	domocr "github.com/allamta/informed/internal/domain/ocr"
	"github.com/allamta/informed/internal/middleware"
)

// maxUploadBytes caps label images at 10 MiB.
const maxUploadBytes = 10 << 20

// AnalysisService is the application surface the router needs.
type AnalysisService interface {
	AnalyzeAndStore(ctx context.Context, image []byte, contentType string) (*ingredients.AnalysisResult, error)
	ListAnalyses(ctx context.Context, page, pageSize int) ([]*analyses.Analysis, error)
	GetAnalysis(ctx context.Context, id analyses.AnalysisID) (*analyses.Analysis, error)
}

type Router struct {
	svc AnalysisService
}

func NewRouter(svc AnalysisService, checkers map[string]middleware.HealthChecker, limiter *middleware.RateLimiter) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(rt chi.Router) {
		if limiter != nil {
			rt.Use(limiter.Middleware)
		}
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/analyses", r.wrap(r.handleListAnalyses))
		rt.Get("/analyses/{id}", r.wrap(r.handleGetAnalysis))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks caller mistakes so wrap can answer 400.
type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var bad badRequestError
			switch {
			case errors.As(err, &bad):
				http.Error(w, bad.msg, http.StatusBadRequest)
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, domocr.ErrExtraction):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "model quota exceeded", http.StatusTooManyRequests)
			case errors.Is(err, domai.ErrModelUnavailable):
				http.Error(w, "model unavailable", http.StatusBadGateway)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /api/analyze
// Multipart form with a "file" field holding the label image.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)

	file, header, err := req.FormFile("file")
	if err != nil {
		return badRequestError{msg: "file field is required"}
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if len(image) == 0 {
		return badRequestError{msg: "empty file received"}
	}

	result, err := r.svc.AnalyzeAndStore(req.Context(), image, header.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(result)
}

// GET /api/analyses/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if id == "" {
		return badRequestError{msg: "id is required"}
	}

	a, err := r.svc.GetAnalysis(req.Context(), analyses.AnalysisID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(a)
}

// GET /api/analyses?page=&page_size=
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.svc.ListAnalyses(req.Context(), page, size)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*analyses.Analysis{}
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}
