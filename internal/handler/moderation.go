package handler

import (
	"net/http"

	"github.com/Gbun420/TalentVault-app/internal/contextkeys"
	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/service"
)

type ModerationHandler struct {
	svc *service.ModerationService
}

func NewModerationHandler(svc *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

// Moderate handles POST /api/admin/moderate.
func (h *ModerationHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	var req domain.ModerateRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	result, err := h.svc.Moderate(r.Context(), contextkeys.SessionFrom(r.Context()), req.JobseekerID, req.Action)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, result)
}
