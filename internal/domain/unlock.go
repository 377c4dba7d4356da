package domain

import "time"

// Unlock is a permanent grant letting an employer see a jobseeker's contact
// details. Rows are never deleted.
type Unlock struct {
	ID          string    `json:"id"`
	EmployerID  string    `json:"employerId"`
	JobseekerID string    `json:"jobseekerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DenyReason explains why an unlock was refused.
type DenyReason string

const (
	DenyNoActiveSubscription DenyReason = "no_active_subscription"
	DenyLimitReached         DenyReason = "limit_reached"
)

// Message is the user-facing text for a denial.
func (r DenyReason) Message() string {
	switch r {
	case DenyNoActiveSubscription:
		return "No active subscription. Please purchase to unlock."
	case DenyLimitReached:
		return "Unlock limit reached for this billing period."
	default:
		return "Payment required."
	}
}

// UnlockDecision is the outcome of an entitlement check.
type UnlockDecision struct {
	Granted         bool       `json:"ok"`
	AlreadyUnlocked bool       `json:"alreadyUnlocked,omitempty"`
	Reason          DenyReason `json:"reason,omitempty"`
}

// UnlockRequest is the body of POST /api/unlock.
type UnlockRequest struct {
	JobseekerID string `json:"jobseekerId" validate:"required"`
}
