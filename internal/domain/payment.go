package domain

import "time"

// PaymentType tags what a checkout buys.
type PaymentType string

const (
	PaymentTypeUnlock       PaymentType = "unlock"
	PaymentTypeSubscription PaymentType = "subscription"
)

// PaymentStatus only ever moves pending -> succeeded.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
)

// Payment is a ledger row per checkout attempt.
type Payment struct {
	ID                string            `json:"id"`
	UserID            string            `json:"userId"`
	JobseekerID       *string           `json:"jobseekerId,omitempty"`
	AmountCents       int64             `json:"amountCents"`
	Currency          string            `json:"currency"`
	PaymentType       PaymentType       `json:"paymentType"`
	Status            PaymentStatus     `json:"status"`
	CheckoutSessionID string            `json:"checkoutSessionId"`
	PaymentIntentID   *string           `json:"paymentIntentId,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// PaymentSettlement is the processor-confirmed outcome applied to a pending row.
type PaymentSettlement struct {
	CheckoutSessionID string
	AmountCents       int64
	Currency          string
	PaymentIntentID   *string
}

// CheckoutMode selects what a checkout request buys.
type CheckoutMode string

const (
	CheckoutModeUnlock       CheckoutMode = "unlock"
	CheckoutModeSubscription CheckoutMode = "subscription"
)

// CheckoutRequest is the body of POST /api/checkout.
type CheckoutRequest struct {
	Mode             CheckoutMode `json:"mode" validate:"required,oneof=unlock subscription"`
	JobseekerID      string       `json:"jobseekerId"`
	SubscriptionType string       `json:"subscriptionType" validate:"omitempty,oneof=limited unlimited"`
}

// CheckoutResponse carries either a redirect URL or the already-unlocked flag.
type CheckoutResponse struct {
	URL             string `json:"url,omitempty"`
	AlreadyUnlocked bool   `json:"alreadyUnlocked,omitempty"`
}

// WebhookEvent is a delivery ledger row, unique per (provider, event id).
type WebhookEvent struct {
	Provider        string
	EventID         string
	EventType       string
	ProcessedAt     *time.Time
	ProcessingError *string
}
