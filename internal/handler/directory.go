package handler

import (
	"net/http"

	"github.com/Gbun420/TalentVault-app/internal/contextkeys"
	"github.com/Gbun420/TalentVault-app/internal/service"
)

// DirectoryHandler serves the employer CV search and employer home page.
type DirectoryHandler struct {
	svc *service.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(svc *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

// Search handles GET /api/directory.
func (h *DirectoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.svc.Search(r.Context(), contextkeys.SessionFrom(r.Context()), service.DirectoryQuery{
		Skills:       q.Get("skills"),
		Role:         q.Get("role"),
		Experience:   q.Get("experience"),
		Availability: q.Get("availability"),
		Location:     q.Get("location"),
		WorkPermit:   q.Get("workPermit"),
	})
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, entries)
}

// EmployerDashboard handles GET /employer.
func (h *DirectoryHandler) EmployerDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.EmployerDashboard(r.Context(), contextkeys.SessionFrom(r.Context()))
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, dash)
}
