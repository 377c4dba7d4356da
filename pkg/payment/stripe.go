package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway talks to Stripe Checkout and verifies Stripe webhooks.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway creates a gateway for the given secret key. An empty
// webhookSecret makes every ParseEvent call fail with ErrWebhookNotConfigured.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) SignatureHeader() string { return "Stripe-Signature" }

// Price retrieves a price object.
func (g *StripeGateway) Price(ctx context.Context, priceID string) (*Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx

	p, err := g.api.Prices.Get(priceID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve price %s: %w", priceID, err)
	}
	return &Price{ID: p.ID, AmountCents: p.UnitAmount, Currency: string(p.Currency)}, nil
}

// CreateCheckoutSession creates a one-line-item Checkout session.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(req.Mode)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if len(req.SubscriptionMetadata) > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: req.SubscriptionMetadata,
		}
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// ParseEvent verifies the Stripe-Signature header and decodes the object of
// the event kinds the reconciler handles.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	if g.webhookSecret == "" {
		return nil, ErrWebhookNotConfigured
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: evt.ID, Type: string(evt.Type), Kind: KindFromType(string(evt.Type))}
	if evt.Data == nil {
		out.Kind = EventUnhandled
		return out, nil
	}

	switch out.Kind {
	case EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &s); err != nil {
			return out, fmt.Errorf("%w: checkout session: %v", ErrMalformedEvent, err)
		}
		out.Checkout = checkoutFromStripe(&s)
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(evt.Data.Raw, &sub); err != nil {
			return out, fmt.Errorf("%w: subscription: %v", ErrMalformedEvent, err)
		}
		out.Subscription = subscriptionFromStripe(&sub)
	case EventUnhandled:
	}
	return out, nil
}

func checkoutFromStripe(s *stripe.CheckoutSession) *CompletedCheckout {
	c := &CompletedCheckout{
		SessionID:   s.ID,
		AmountCents: s.AmountTotal,
		Currency:    string(s.Currency),
		Metadata:    s.Metadata,
	}
	if c.AmountCents == 0 {
		c.AmountCents = s.AmountSubtotal
	}
	if s.PaymentIntent != nil {
		c.PaymentIntentID = s.PaymentIntent.ID
	}
	if s.Customer != nil {
		c.CustomerID = s.Customer.ID
	}
	if s.Subscription != nil {
		c.SubscriptionID = s.Subscription.ID
	}
	return c
}

func subscriptionFromStripe(sub *stripe.Subscription) *SubscriptionState {
	st := &SubscriptionState{
		ID:                 sub.ID,
		Status:             string(sub.Status),
		CurrentPeriodStart: FromUnix(sub.CurrentPeriodStart),
		CurrentPeriodEnd:   FromUnix(sub.CurrentPeriodEnd),
		CancelAt:           FromUnix(sub.CancelAt),
		CanceledAt:         FromUnix(sub.CanceledAt),
		Metadata:           sub.Metadata,
	}
	if sub.Customer != nil {
		st.CustomerID = sub.Customer.ID
	}
	return st
}
