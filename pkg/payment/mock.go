package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MockGateway is an in-process provider for development and tests. Webhook
// payloads are MockEvent JSON signed with HMAC-SHA256 ("sha256=<hex>").
type MockGateway struct {
	secret string
	prices map[string]Price

	mu       sync.Mutex
	sessions []CheckoutSessionRequest
	failNext error
}

// NewMockGateway creates a mock gateway that knows the given prices.
func NewMockGateway(webhookSecret string, prices ...Price) *MockGateway {
	g := &MockGateway{secret: webhookSecret, prices: make(map[string]Price, len(prices))}
	for _, p := range prices {
		g.prices[p.ID] = p
	}
	return g
}

func (g *MockGateway) Name() string { return "mock" }

func (g *MockGateway) SignatureHeader() string { return "X-Mock-Signature" }

func (g *MockGateway) Price(ctx context.Context, priceID string) (*Price, error) {
	p, ok := g.prices[priceID]
	if !ok {
		return nil, fmt.Errorf("no such price: %s", priceID)
	}
	return &p, nil
}

func (g *MockGateway) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failNext; err != nil {
		g.failNext = nil
		return nil, err
	}
	g.sessions = append(g.sessions, *req)

	id := "cs_mock_" + uuid.New().String()
	return &CheckoutSession{ID: id, URL: "https://example.com/pay?session_id=" + id}, nil
}

// FailNextCheckout makes the next CreateCheckoutSession call return err.
func (g *MockGateway) FailNextCheckout(err error) {
	g.mu.Lock()
	g.failNext = err
	g.mu.Unlock()
}

// Sessions returns the checkout requests received so far.
func (g *MockGateway) Sessions() []CheckoutSessionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]CheckoutSessionRequest, len(g.sessions))
	copy(out, g.sessions)
	return out
}

// MockEvent is the wire format accepted by MockGateway.ParseEvent.
type MockEvent struct {
	ID           string                  `json:"id"`
	Type         string                  `json:"type"`
	Checkout     *MockCheckoutObject     `json:"checkout,omitempty"`
	Subscription *MockSubscriptionObject `json:"subscription,omitempty"`
}

// MockCheckoutObject mirrors the fields of a completed checkout session.
type MockCheckoutObject struct {
	ID            string            `json:"id"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentIntent string            `json:"payment_intent"`
	Customer      string            `json:"customer"`
	Subscription  string            `json:"subscription"`
	Metadata      map[string]string `json:"metadata"`
}

// MockSubscriptionObject mirrors the fields of a subscription object. Times
// are epoch seconds.
type MockSubscriptionObject struct {
	ID                 string            `json:"id"`
	Customer           string            `json:"customer"`
	Status             string            `json:"status"`
	CurrentPeriodStart int64             `json:"current_period_start"`
	CurrentPeriodEnd   int64             `json:"current_period_end"`
	CancelAt           int64             `json:"cancel_at"`
	CanceledAt         int64             `json:"canceled_at"`
	Metadata           map[string]string `json:"metadata"`
}

// Sign returns the signature header value for payload.
func (g *MockGateway) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func (g *MockGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	if g.secret == "" {
		return nil, ErrWebhookNotConfigured
	}
	if !verifySignature(signature, payload, g.secret) {
		return nil, ErrInvalidSignature
	}

	var raw MockEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return &Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	out := &Event{ID: raw.ID, Type: raw.Type, Kind: KindFromType(raw.Type)}
	switch out.Kind {
	case EventCheckoutCompleted:
		if raw.Checkout == nil {
			return out, fmt.Errorf("%w: missing checkout object", ErrMalformedEvent)
		}
		c := raw.Checkout
		out.Checkout = &CompletedCheckout{
			SessionID:       c.ID,
			AmountCents:     c.AmountTotal,
			Currency:        c.Currency,
			PaymentIntentID: c.PaymentIntent,
			CustomerID:      c.Customer,
			SubscriptionID:  c.Subscription,
			Metadata:        c.Metadata,
		}
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		if raw.Subscription == nil {
			return out, fmt.Errorf("%w: missing subscription object", ErrMalformedEvent)
		}
		s := raw.Subscription
		out.Subscription = &SubscriptionState{
			ID:                 s.ID,
			CustomerID:         s.Customer,
			Status:             s.Status,
			CurrentPeriodStart: FromUnix(s.CurrentPeriodStart),
			CurrentPeriodEnd:   FromUnix(s.CurrentPeriodEnd),
			CancelAt:           FromUnix(s.CancelAt),
			CanceledAt:         FromUnix(s.CanceledAt),
			Metadata:           s.Metadata,
		}
	case EventUnhandled:
	}
	return out, nil
}

func verifySignature(signature string, payload []byte, secret string) bool {
	parts := strings.SplitN(signature, "=", 2)
	if len(parts) != 2 || parts[0] != "sha256" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expectedSignature := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(parts[1]), []byte(expectedSignature))
}
