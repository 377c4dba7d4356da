package handler

import (
	"net/http"

	"github.com/Gbun420/TalentVault-app/internal/contextkeys"
	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/service"
)

// UnlockHandler serves the unlock endpoint.
type UnlockHandler struct {
	svc *service.EntitlementService
}

// NewUnlockHandler creates a new UnlockHandler.
func NewUnlockHandler(svc *service.EntitlementService) *UnlockHandler {
	return &UnlockHandler{svc: svc}
}

// Unlock handles POST /api/unlock. A denial is a 402 carrying the reason so
// the UI can offer the right purchase.
func (h *UnlockHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req domain.UnlockRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	decision, err := h.svc.Unlock(r.Context(), contextkeys.SessionFrom(r.Context()), req.JobseekerID)
	if err != nil {
		Error(w, r, err)
		return
	}

	if !decision.Granted {
		JSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"ok":     false,
			"reason": decision.Reason,
			"error":  decision.Reason.Message(),
		})
		return
	}
	JSON(w, http.StatusOK, decision)
}
