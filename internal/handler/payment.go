package handler

import (
	"net/http"

	"github.com/Gbun420/TalentVault-app/internal/contextkeys"
	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/service"
)

type PaymentHandler struct {
	checkout      *service.CheckoutService
	subscriptions *service.SubscriptionService
}

func NewPaymentHandler(checkout *service.CheckoutService, subscriptions *service.SubscriptionService) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, subscriptions: subscriptions}
}

// CreateCheckout handles POST /api/checkout.
func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, r, err)
		return
	}

	resp, err := h.checkout.CreateCheckout(r.Context(), contextkeys.SessionFrom(r.Context()), &req)
	if err != nil {
		Error(w, r, err)
		return
	}

	JSON(w, http.StatusOK, resp)
}

// GetSubscription handles GET /api/payment/subscription.
func (h *PaymentHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subscriptions.GetCurrentSubscription(r.Context(), contextkeys.SessionFrom(r.Context()))
	if err != nil {
		Error(w, r, err)
		return
	}
	if sub == nil {
		JSON(w, http.StatusOK, map[string]string{"status": "none"})
		return
	}
	JSON(w, http.StatusOK, sub)
}
