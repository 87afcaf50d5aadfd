package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors for the three pipeline stages plus the cache store. Registered
// on the default registry; exposed via promhttp in the router.
var (
	ModelCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "model_api_calls_total",
		Help: "Total number of calls made to the generative model API",
	})

	ModelErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "model_api_errors_total",
		Help: "Total number of failed generative model API calls",
	}, []string{"error_type"})

	ModelDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "model_api_duration_seconds",
		Help:    "Time spent waiting for generative model API responses",
		Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	})

	OCRRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocr_requests_total",
		Help: "Total number of OCR text extraction requests",
	})

	OCRErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocr_errors_total",
		Help: "Total number of failed OCR text extractions",
	})

	OCRDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ocr_duration_seconds",
		Help:    "Time spent on OCR text extraction",
		Buckets: []float64{0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingredient_cache_hits_total",
		Help: "Number of ingredient lookups found in the database cache",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingredient_cache_misses_total",
		Help: "Number of ingredient lookups not found in the database cache",
	})

	DBQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "db_queries_total",
		Help: "Total number of database queries",
	}, []string{"operation"})

	DBErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of failed database operations",
	}, []string{"operation"})
)
