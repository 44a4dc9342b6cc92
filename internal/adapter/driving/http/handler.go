package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/workbook/internal/adapter/driven/jsonfile"
	"github.com/ericfisherdev/workbook/internal/application"
	"github.com/ericfisherdev/workbook/internal/domain/model"
	"github.com/ericfisherdev/workbook/internal/domain/port/driven"
)

// maxBodyBytes caps request bodies; a single internship is a few hundred bytes.
const maxBodyBytes = 64 << 10

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	workbook *application.WorkBookService
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(workbook *application.WorkBookService, logger *slog.Logger) *Handler {
	return &Handler{
		workbook: workbook,
		logger:   logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/internships", h.ListInternships)
	mux.HandleFunc("POST /api/v1/internships", h.AddInternship)
	mux.HandleFunc("DELETE /api/v1/internships", h.RemoveInternship)
	mux.HandleFunc("PATCH /api/v1/internships/stage", h.UpdateStage)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging; the request ID
	// is assigned first so every log line carries it.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// ListInternships returns all tracked internships, or only those carrying
// the tag query parameter when it is set.
func (h *Handler) ListInternships(w http.ResponseWriter, r *http.Request) {
	var (
		internships []model.Internship
		err         error
	)
	if raw := r.URL.Query().Get("tag"); raw != "" {
		tag, tagErr := model.NewTag(raw)
		if tagErr != nil {
			writeFieldError(w, tagErr)
			return
		}
		internships, err = h.workbook.ListTagged(r.Context(), tag)
	} else {
		internships, err = h.workbook.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list internships", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]InternshipResponse, 0, len(internships))
	for _, in := range internships {
		resp = append(resp, toInternshipResponse(in))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddInternship validates the posted record and stores it. The body uses the
// same field names as the data file; validation failures return the field's
// message unchanged.
func (h *Handler) AddInternship(w http.ResponseWriter, r *http.Request) {
	var req jsonfile.AdaptedInternship
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.ToModel()
	if err != nil {
		writeFieldError(w, err)
		return
	}

	if err := h.workbook.Add(r.Context(), in); err != nil {
		if errors.Is(err, driven.ErrInternshipAlreadyExists) {
			writeError(w, http.StatusConflict, "internship already exists")
			return
		}
		h.logger.Error("failed to add internship",
			"company", in.Company().String(), "role", in.Role().String(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toInternshipResponse(in))
}

// RemoveInternship deletes the internship named by the company and role
// query parameters.
func (h *Handler) RemoveInternship(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	role := r.URL.Query().Get("role")
	if company == "" || role == "" {
		writeError(w, http.StatusBadRequest, "company and role are required")
		return
	}

	if err := h.workbook.Remove(r.Context(), company, role); err != nil {
		if errors.Is(err, driven.ErrInternshipNotFound) {
			writeError(w, http.StatusNotFound, "internship not found")
			return
		}
		h.logger.Error("failed to remove internship", "company", company, "role", role, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// stageRequest is the body of a stage update.
type stageRequest struct {
	Stage *string `json:"stage"`
}

// UpdateStage moves the internship named by the company and role query
// parameters to the posted stage.
func (h *Handler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	role := r.URL.Query().Get("role")
	if company == "" || role == "" {
		writeError(w, http.StatusBadRequest, "company and role are required")
		return
	}

	var req stageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Stage == nil {
		writeFieldError(w, model.MissingFieldError(model.FieldStage))
		return
	}

	stage, err := model.NewStage(*req.Stage)
	if err != nil {
		writeFieldError(w, err)
		return
	}

	moved, err := h.workbook.UpdateStage(r.Context(), company, role, stage)
	if err != nil {
		if errors.Is(err, driven.ErrInternshipNotFound) {
			writeError(w, http.StatusNotFound, "internship not found")
			return
		}
		h.logger.Error("failed to update stage", "company", company, "role", role, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toInternshipResponse(moved))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
