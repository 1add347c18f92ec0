package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"minigold/internal/app"
	"minigold/internal/core"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes caps multipart intake submissions.
const maxUploadBytes = 20 << 20

// Options configures NewHandler.
type Options struct {
	// AllowedOrigins is a comma-separated CORS allow list; empty disables CORS.
	AllowedOrigins string
	JWTSecret      string
	Logger         *slog.Logger
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
	logger    *slog.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		svc:       svc,
		jwtSecret: opts.JWTSecret,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(opts.AllowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.With(RequestBodyLimit(1<<10)).Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// Intake submissions carry a file: multipart, up to maxUploadBytes.
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(core.RoleAdmin))
			r.Use(RequestBodyLimit(maxUploadBytes))
			r.Post("/api/request-admin", h.createRequestAdmin)
			r.Put("/api/request-admin/{id}", h.updateRequestAdmin)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequestBodyLimit(1 << 20)) // 1 MB

			r.Get("/api/auth/me", h.me)
			r.Get("/api/statuses", h.statuses)
			r.Get("/api/grid/{table}", h.grid)
			r.Get("/api/products", h.searchProducts)
			r.Get("/api/stock", h.listStock)
			r.Get("/api/stock/{productID}/movements", h.listStockMovements)
			r.Get("/api/production-process/{id}", h.getProductionRun)
			r.Get("/api/produksi/{id}", h.getStage(core.StageProduksi))
			r.Get("/api/kemasan/{id}", h.getStage(core.StageKemasan))
			r.Get("/api/packaging/{id}", h.getPackaging)

			// ── Intake ───────────────────────────────────────────────────────
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(core.RoleAdmin))
				r.Post("/api/products", h.createProduct)
				r.Put("/api/products/{id}", h.updateProduct)
				r.Get("/api/request-admin/summary", h.summarizeRequests)
				r.Get("/api/request-admin/{id}", h.getRequestAdmin)
				r.Delete("/api/request-admin/{id}", h.deleteRequestAdmin)
				r.Get("/api/request-admin/{id}/attachment", h.downloadAttachment)
				r.Post("/api/production-runs", h.createProductionRun)
			})

			// ── Produksi / Kemasan ───────────────────────────────────────────
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(core.RoleAdmin, core.RoleProduksi))
				r.Put("/api/produksi/{id}", h.advanceStage(core.StageProduksi))
				r.Put("/api/kemasan/{id}", h.advanceStage(core.StageKemasan))
			})

			// ── Packaging ────────────────────────────────────────────────────
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(core.RoleAdmin, core.RolePackaging))
				r.Put("/api/packaging/{id}", h.finalizePackaging)
				r.Delete("/api/packaging/{id}", h.deletePackaging)
			})
		})
	})

	h.router = r
	return r
}

// health reports liveness.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// pathID parses a positive integer URL parameter. It writes a 400 and returns
// false when the parameter is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
