package routes

import (
	"net/http"

	"github.com/careseeker/careseeker-backend/internal/api/handlers"
	"github.com/careseeker/careseeker-backend/internal/api/middleware"
	"github.com/careseeker/careseeker-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	careHomeHandler  *handlers.CareHomeHandler
	reviewHandler    *handlers.ReviewHandler
	referenceHandler *handlers.ReferenceHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	careHomeHandler *handlers.CareHomeHandler,
	reviewHandler *handlers.ReviewHandler,
	referenceHandler *handlers.ReferenceHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		careHomeHandler:  careHomeHandler,
		reviewHandler:    reviewHandler,
		referenceHandler: referenceHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Care home discovery endpoints
	r.mux.HandleFunc("GET /api/care-homes", r.careHomeHandler.ListCareHomes)
	r.mux.HandleFunc("GET /api/care-homes/nearby", r.careHomeHandler.NearbyCareHomes)
	r.mux.HandleFunc("GET /api/care-homes/{id}", r.careHomeHandler.GetCareHome)

	// Care home admin endpoints
	r.mux.HandleFunc("POST /api/care-homes", r.careHomeHandler.CreateCareHome)
	r.mux.HandleFunc("PATCH /api/care-homes/{id}", r.careHomeHandler.UpdateCareHome)
	r.mux.HandleFunc("DELETE /api/care-homes/{id}", r.careHomeHandler.DeleteCareHome)

	// Review endpoints
	r.mux.HandleFunc("POST /api/care-homes/{id}/reviews", r.reviewHandler.CreateReview)
	r.mux.HandleFunc("GET /api/care-homes/{id}/reviews", r.reviewHandler.ListReviews)

	// Reference data endpoints
	r.mux.HandleFunc("GET /api/care-types", r.referenceHandler.ListCareTypes)
	r.mux.HandleFunc("GET /api/facilities", r.referenceHandler.ListFacilities)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
