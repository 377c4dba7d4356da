package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/Gbun420/TalentVault-app/internal/contextkeys"
	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/service"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead is the allowance for form boundaries and headers on
// top of the CV size limit.
const multipartOverhead = 64 << 10

// JobseekerHandler serves the jobseeker's own profile and contact reveal.
type JobseekerHandler struct {
	svc        *service.JobseekerService
	maxCVBytes int64
}

// NewJobseekerHandler creates a new JobseekerHandler.
func NewJobseekerHandler(svc *service.JobseekerService, maxCVBytes int64) *JobseekerHandler {
	return &JobseekerHandler{svc: svc, maxCVBytes: maxCVBytes}
}

// Dashboard handles GET /jobseeker.
func (h *JobseekerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context(), contextkeys.SessionFrom(r.Context()))
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, dash)
}

// SaveProfile handles PUT /api/jobseeker/profile.
func (h *JobseekerHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveProfileRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	if err := h.svc.SaveProfile(r.Context(), contextkeys.SessionFrom(r.Context()), &req); err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// UploadCV handles POST /api/jobseeker/cv. The file is taken from the "file"
// field of a multipart form, or from the raw body otherwise.
func (h *JobseekerHandler) UploadCV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxCVBytes+multipartOverhead)

	var body io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				Error(w, r, domain.ErrValidation("CV file is too large"))
				return
			}
			Error(w, r, domain.ErrBadRequest("missing file field"))
			return
		}
		defer file.Close()
		body = file
	}

	key, err := h.svc.UploadCV(r.Context(), contextkeys.SessionFrom(r.Context()), body)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"cvStoragePath": key})
}

// Contact handles GET /api/jobseekers/{id}/contact.
func (h *JobseekerHandler) Contact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reveal, err := h.svc.RevealContact(r.Context(), contextkeys.SessionFrom(r.Context()), id)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, reveal)
}
