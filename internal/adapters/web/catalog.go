package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"minigold/internal/app"

	"github.com/go-chi/chi/v5"
)

// ── Reference data ────────────────────────────────────────────────────────────

// statuses handles GET /api/statuses.
func (h *Handler) statuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Statuses())
}

// grid handles GET /api/grid/{table} with DataTables server-side parameters.
func (h *Handler) grid(w http.ResponseWriter, r *http.Request) {
	req, err := parseGridQuery(chi.URLParam(r, "table"), r.URL.Query())
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.FetchGrid(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func parseGridQuery(table string, q url.Values) (app.GridRequest, error) {
	req := app.GridRequest{
		Table:  table,
		Search: q.Get("search[value]"),
		Desc:   strings.EqualFold(q.Get("order[0][dir]"), "desc"),
		Length: 10,
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"draw", &req.Draw},
		{"start", &req.Start},
		{"length", &req.Length},
		{"order[0][column]", &req.OrderColumn},
	}
	for _, p := range ints {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid %s %q", p.key, v)
		}
		*p.dst = n
	}
	return req, nil
}

// ── Products ──────────────────────────────────────────────────────────────────

// searchProducts handles GET /api/products?q=&limit=.
func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.svc.SearchProducts(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req app.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = 0
	p, err := h.svc.SaveProduct(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, p)
}

// updateProduct handles PUT /api/products/{id}.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req app.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id
	p, err := h.svc.SaveProduct(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// listStock handles GET /api/stock.
func (h *Handler) listStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.svc.ListStock(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, stock)
}

// listStockMovements handles GET /api/stock/{productID}/movements.
func (h *Handler) listStockMovements(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	moves, err := h.svc.ListStockMovements(r.Context(), productID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, moves)
}
