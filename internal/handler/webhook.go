package handler

import (
	"io"
	"net/http"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/service"
)

// maxWebhookBody bounds processor payloads.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	svc *service.ReconcilerService
}

func NewWebhookHandler(svc *service.ReconcilerService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// HandlePayment handles POST /api/webhooks/payment. The raw body is needed
// for signature verification, so it is never decoded here.
func (h *WebhookHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		Error(w, r, domain.ErrBadRequest("failed to read body"))
		return
	}

	signature := r.Header.Get(h.svc.SignatureHeader())
	if err := h.svc.HandleWebhook(r.Context(), body, signature); err != nil {
		Error(w, r, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"received": true})
}
