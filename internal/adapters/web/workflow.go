package web

import (
	"net/http"

	"minigold/internal/app"
	"minigold/internal/core"
)

// createProductionRun handles POST /api/production-runs.
func (h *Handler) createProductionRun(w http.ResponseWriter, r *http.Request) {
	var req app.CreateProductionRunRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	run, err := h.svc.CreateProductionRun(r.Context(), authFromContext(r.Context()).Actor(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, run)
}

// getProductionRun handles GET /api/production-process/{id}.
func (h *Handler) getProductionRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	run, err := h.svc.GetProductionRun(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, run)
}

// getStage handles GET /api/produksi/{id} and GET /api/kemasan/{id}.
func (h *Handler) getStage(stage core.Stage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		rec, err := h.svc.GetStage(r.Context(), stage, id)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, rec)
	}
}

// advanceStage handles PUT /api/produksi/{id} and PUT /api/kemasan/{id}.
func (h *Handler) advanceStage(stage core.Stage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req app.StageUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.ID = id
		rec, err := h.svc.AdvanceStage(r.Context(), authFromContext(r.Context()).Actor(), stage, req)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, rec)
	}
}

// getPackaging handles GET /api/packaging/{id}.
func (h *Handler) getPackaging(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetPackaging(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

// finalizePackaging handles PUT /api/packaging/{id}.
func (h *Handler) finalizePackaging(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req app.PackagingUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id
	p, err := h.svc.FinalizePackaging(r.Context(), authFromContext(r.Context()).Actor(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

// deletePackaging handles DELETE /api/packaging/{id}.
func (h *Handler) deletePackaging(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePackaging(r.Context(), authFromContext(r.Context()).Actor(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
