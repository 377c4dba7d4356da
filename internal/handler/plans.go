package handler

import (
	"net/http"

	"github.com/Gbun420/TalentVault-app/internal/service"
)

// PlansHandler handles plan-related endpoints.
type PlansHandler struct {
	svc *service.SubscriptionService
}

// NewPlansHandler creates a new PlansHandler.
func NewPlansHandler(svc *service.SubscriptionService) *PlansHandler {
	return &PlansHandler{svc: svc}
}

// List handles GET /api/plans.
func (h *PlansHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.Plans(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, plans)
}
