package payment

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidSignature is returned by ParseEvent when the payload does not
	// verify against the webhook secret.
	ErrInvalidSignature = errors.New("payment: invalid webhook signature")
	// ErrWebhookNotConfigured is returned by ParseEvent when no secret is set.
	ErrWebhookNotConfigured = errors.New("payment: webhook secret not configured")
	// ErrMalformedEvent is returned when a signed event's object cannot be
	// decoded. The accompanying *Event still carries the id and type.
	ErrMalformedEvent = errors.New("payment: malformed event object")
)

// Gateway defines the interface for payment providers.
type Gateway interface {
	// Price looks up a configured price so the pending ledger row can record
	// amount and currency.
	Price(ctx context.Context, priceID string) (*Price, error)
	// CreateCheckoutSession creates a hosted checkout and returns its id and URL.
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)
	// ParseEvent verifies the webhook signature and normalises the event.
	ParseEvent(payload []byte, signature string) (*Event, error)
	// SignatureHeader names the request header carrying the webhook signature.
	SignatureHeader() string
	// Name identifies the provider in the webhook ledger.
	Name() string
}

// Price is the amount charged for a configured price id.
type Price struct {
	ID          string
	AmountCents int64
	Currency    string
}

// CheckoutMode mirrors the processor's checkout modes.
type CheckoutMode string

const (
	ModePayment      CheckoutMode = "payment"
	ModeSubscription CheckoutMode = "subscription"
)

// CheckoutSessionRequest describes a hosted checkout. SubscriptionMetadata is
// copied onto the processor's subscription object so lifecycle events can be
// attributed without a lookup.
type CheckoutSessionRequest struct {
	Mode                 CheckoutMode
	PriceID              string
	CustomerEmail        string
	SuccessURL           string
	CancelURL            string
	Metadata             map[string]string
	SubscriptionMetadata map[string]string
}

// CheckoutSession is the processor's confirmation of a created checkout.
type CheckoutSession struct {
	ID  string
	URL string
}

// EventKind is the closed set of events the reconciler understands.
type EventKind int

const (
	EventUnhandled EventKind = iota
	EventCheckoutCompleted
	EventSubscriptionCreated
	EventSubscriptionUpdated
	EventSubscriptionDeleted
)

func (k EventKind) String() string {
	switch k {
	case EventCheckoutCompleted:
		return "checkout_completed"
	case EventSubscriptionCreated:
		return "subscription_created"
	case EventSubscriptionUpdated:
		return "subscription_updated"
	case EventSubscriptionDeleted:
		return "subscription_deleted"
	default:
		return "unhandled"
	}
}

// KindFromType maps a processor event type string to an EventKind.
func KindFromType(eventType string) EventKind {
	switch eventType {
	case "checkout.session.completed":
		return EventCheckoutCompleted
	case "customer.subscription.created":
		return EventSubscriptionCreated
	case "customer.subscription.updated":
		return EventSubscriptionUpdated
	case "customer.subscription.deleted":
		return EventSubscriptionDeleted
	default:
		return EventUnhandled
	}
}

// Event is a verified, normalised webhook event. Exactly one of Checkout or
// Subscription is set for the handled kinds.
type Event struct {
	ID           string
	Type         string
	Kind         EventKind
	Checkout     *CompletedCheckout
	Subscription *SubscriptionState
}

// CompletedCheckout is the payload of a checkout.session.completed event.
type CompletedCheckout struct {
	SessionID       string
	AmountCents     int64
	Currency        string
	PaymentIntentID string
	CustomerID      string
	SubscriptionID  string
	Metadata        map[string]string
}

// SubscriptionState is the payload of a subscription lifecycle event.
// Timestamps are zero when the processor did not send them.
type SubscriptionState struct {
	ID                 string
	CustomerID         string
	Status             string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAt           time.Time
	CanceledAt         time.Time
	Metadata           map[string]string
}

// FromUnix converts processor epoch seconds, mapping 0 to the zero time.
func FromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
