package web

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"minigold/internal/app"
	"minigold/internal/core"
)

// createRequestAdmin handles POST /api/request-admin (multipart).
func (h *Handler) createRequestAdmin(w http.ResponseWriter, r *http.Request) {
	h.saveRequestAdmin(w, r, 0)
}

// updateRequestAdmin handles PUT /api/request-admin/{id} (multipart). The
// attachment part is optional on edits.
func (h *Handler) updateRequestAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.saveRequestAdmin(w, r, id)
}

// saveRequestAdmin reads the "request" JSON field and the optional "attachment"
// file part of a multipart submission.
func (h *Handler) saveRequestAdmin(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, "invalid multipart body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var req app.SaveRequestAdminRequest
	if err := json.Unmarshal([]byte(r.FormValue("request")), &req); err != nil {
		writeError(w, r, "invalid request field: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	req.ID = id

	file, header, err := r.FormFile("attachment")
	switch {
	case err == nil:
		defer file.Close()
		req.Attachment = &core.AttachmentUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		writeError(w, r, "invalid attachment: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	claims := authFromContext(r.Context())
	ra, err := h.svc.SaveRequestAdmin(r.Context(), claims.Actor(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSONStatus(w, status, ra)
}

// getRequestAdmin handles GET /api/request-admin/{id}.
func (h *Handler) getRequestAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ra, err := h.svc.GetRequestAdmin(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, ra)
}

// deleteRequestAdmin handles DELETE /api/request-admin/{id}.
func (h *Handler) deleteRequestAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteRequestAdmin(r.Context(), authFromContext(r.Context()).Actor(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// downloadAttachment handles GET /api/request-admin/{id}/attachment.
func (h *Handler) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	info, body, err := h.svc.OpenAttachment(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.FileName}))
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("attachment download interrupted", "request_admin_id", id, "error", err)
	}
}

// summarizeRequests handles GET /api/request-admin/summary?ids=1,2.
func (h *Handler) summarizeRequests(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	plan, err := h.svc.SummarizeRequests(r.Context(), ids)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, plan)
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("invalid id " + strconv.Quote(part))
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("ids is required")
	}
	return ids, nil
}
