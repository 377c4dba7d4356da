package handler

import (
	"net/http"

	"github.com/Gbun420/TalentVault-app/internal/contextkeys"
	"github.com/Gbun420/TalentVault-app/internal/service"
)

type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Dashboard returns directory metrics and the moderation board.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context(), contextkeys.SessionFrom(r.Context()))
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, dash)
}
