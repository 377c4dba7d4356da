package domain

import "time"

// SubscriptionStatus is the local view of a processor subscription.
type SubscriptionStatus string

const (
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
)

// MapProcessorStatus folds the processor's status vocabulary into the local
// enum. Anything outside active/past_due/canceled is incomplete.
func MapProcessorStatus(status string) SubscriptionStatus {
	switch status {
	case "active":
		return SubscriptionActive
	case "past_due":
		return SubscriptionPastDue
	case "canceled":
		return SubscriptionCanceled
	default:
		return SubscriptionIncomplete
	}
}

// EmployerSubscription is an employer's recurring plan. There is one row per
// employer, overwritten by every reconciled processor event.
type EmployerSubscription struct {
	ID                      string             `json:"id"`
	EmployerID              string             `json:"employerId"`
	PlanCode                PlanCode           `json:"planCode"`
	Status                  SubscriptionStatus `json:"status"`
	CurrentPeriodStart      *time.Time         `json:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd        *time.Time         `json:"currentPeriodEnd,omitempty"`
	CancelAt                *time.Time         `json:"cancelAt,omitempty"`
	CanceledAt              *time.Time         `json:"canceledAt,omitempty"`
	ProcessorCustomerID     *string            `json:"-"`
	ProcessorSubscriptionID *string            `json:"-"`
	CreatedAt               time.Time          `json:"createdAt"`
	UpdatedAt               time.Time          `json:"updatedAt"`
}

// ActiveAt reports whether the subscription grants access at now: status
// active and, when a period end is known, not yet past it.
func (s *EmployerSubscription) ActiveAt(now time.Time) bool {
	if s == nil || s.Status != SubscriptionActive {
		return false
	}
	return s.CurrentPeriodEnd == nil || s.CurrentPeriodEnd.After(now)
}

// PeriodWindow returns the billing window used for quota counting. Missing
// bounds fall back to [now-1 month, now]; that fallback is approximate.
func (s *EmployerSubscription) PeriodWindow(now time.Time) (start, end time.Time) {
	start = now.AddDate(0, -1, 0)
	end = now
	if s.CurrentPeriodStart != nil {
		start = *s.CurrentPeriodStart
	}
	if s.CurrentPeriodEnd != nil {
		end = *s.CurrentPeriodEnd
	}
	return start, end
}

// SubscriptionSummary is the employer dashboard view of the subscription.
type SubscriptionSummary struct {
	PlanCode         PlanCode           `json:"planCode"`
	Status           SubscriptionStatus `json:"status"`
	CurrentPeriodEnd *time.Time         `json:"currentPeriodEnd,omitempty"`
}

// EmployerDashboard is the payload of the employer home page.
type EmployerDashboard struct {
	FullName     string               `json:"fullName"`
	Subscription *SubscriptionSummary `json:"subscription"`
	UnlockedIDs  []string             `json:"unlockedJobseekerIds"`
}
