package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/logger"
	"github.com/Gbun420/TalentVault-app/pkg/payment"
)

// ReconcilerService applies verified processor events to local state. Every
// write is an upsert or a keyed update, so redelivery is safe.
type ReconcilerService struct {
	gateway       payment.Gateway
	events        WebhookEventRepository
	payments      PaymentRepository
	unlocks       UnlockRepository
	subscriptions SubscriptionRepository
	now           func() time.Time
}

// NewReconcilerService creates a new ReconcilerService.
func NewReconcilerService(gateway payment.Gateway, events WebhookEventRepository, payments PaymentRepository, unlocks UnlockRepository, subscriptions SubscriptionRepository) *ReconcilerService {
	return &ReconcilerService{
		gateway:       gateway,
		events:        events,
		payments:      payments,
		unlocks:       unlocks,
		subscriptions: subscriptions,
		now:           time.Now,
	}
}

// SignatureHeader names the header the handler must pass to HandleWebhook.
func (s *ReconcilerService) SignatureHeader() string {
	return s.gateway.SignatureHeader()
}

// HandleWebhook verifies and applies one delivery. A nil error means the
// delivery should be acknowledged; an internal error asks the processor to retry.
func (s *ReconcilerService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	log := logger.FromContext(ctx)

	evt, err := s.gateway.ParseEvent(payload, signature)
	switch {
	case err == nil:
	case errors.Is(err, payment.ErrWebhookNotConfigured):
		log.Error("webhook secret is not configured", "provider", s.gateway.Name())
		return domain.ErrUnauthenticated("webhook not configured")
	case errors.Is(err, payment.ErrMalformedEvent):
		log.Warn("webhook event ignored: malformed object", "event_id", evt.ID, "event_type", evt.Type, "error", err)
		return nil
	default:
		log.Warn("webhook signature rejected", "provider", s.gateway.Name(), "error", err)
		return domain.ErrUnauthenticated("invalid signature")
	}

	log = log.With("event_id", evt.ID, "event_type", evt.Type)

	processed, err := s.events.Record(ctx, &domain.WebhookEvent{
		Provider:  s.gateway.Name(),
		EventID:   evt.ID,
		EventType: evt.Type,
	})
	if err != nil {
		return domain.ErrInternal("failed to record event", err)
	}
	if processed {
		log.Info("webhook event already processed")
		return nil
	}

	if err := s.apply(ctx, evt); err != nil {
		log.Error("webhook processing failed", "error", err)
		if markErr := s.events.MarkFailed(ctx, s.gateway.Name(), evt.ID, err.Error()); markErr != nil {
			log.Error("failed to record webhook failure", "error", markErr)
		}
		return domain.ErrInternal("webhook processing failed", err)
	}

	if err := s.events.MarkProcessed(ctx, s.gateway.Name(), evt.ID, s.now()); err != nil {
		return domain.ErrInternal("failed to mark event processed", err)
	}
	return nil
}

func (s *ReconcilerService) apply(ctx context.Context, evt *payment.Event) error {
	switch evt.Kind {
	case payment.EventCheckoutCompleted:
		return s.checkoutCompleted(ctx, evt)
	case payment.EventSubscriptionCreated, payment.EventSubscriptionUpdated, payment.EventSubscriptionDeleted:
		return s.subscriptionChanged(ctx, evt)
	case payment.EventUnhandled:
		logger.FromContext(ctx).Info("webhook event ignored: unhandled type", "event_id", evt.ID, "event_type", evt.Type)
		return nil
	default:
		return fmt.Errorf("unknown event kind %d", evt.Kind)
	}
}

func (s *ReconcilerService) checkoutCompleted(ctx context.Context, evt *payment.Event) error {
	c := evt.Checkout
	meta := c.Metadata

	switch domain.PaymentType(meta[MetaPaymentType]) {
	case domain.PaymentTypeUnlock:
		employerID, jobseekerID := meta[MetaEmployerID], meta[MetaJobseekerID]
		if employerID == "" || jobseekerID == "" {
			ignoreMissingMetadata(ctx, evt, "employer_id/jobseeker_id")
			return nil
		}
		if err := s.settle(ctx, c); err != nil {
			return err
		}
		if _, err := s.unlocks.Create(ctx, employerID, jobseekerID); err != nil {
			return fmt.Errorf("upsert unlock: %w", err)
		}
		return nil

	case domain.PaymentTypeSubscription:
		employerID := meta[MetaEmployerID]
		code, ok := domain.ParsePlanCode(meta[MetaPlanCode])
		if employerID == "" || !ok {
			ignoreMissingMetadata(ctx, evt, "employer_id/plan_code")
			return nil
		}
		if err := s.settle(ctx, c); err != nil {
			return err
		}
		now := s.now()
		sub := &domain.EmployerSubscription{
			ID:                      domain.NewID(),
			EmployerID:              employerID,
			PlanCode:                code,
			Status:                  domain.SubscriptionActive,
			ProcessorCustomerID:     optional(c.CustomerID),
			ProcessorSubscriptionID: optional(c.SubscriptionID),
			CreatedAt:               now,
			UpdatedAt:               now,
		}
		if err := s.subscriptions.UpsertFromCheckout(ctx, sub); err != nil {
			return fmt.Errorf("upsert subscription: %w", err)
		}
		return nil

	default:
		ignoreMissingMetadata(ctx, evt, "payment_type")
		return nil
	}
}

func (s *ReconcilerService) settle(ctx context.Context, c *payment.CompletedCheckout) error {
	matched, err := s.payments.MarkSucceeded(ctx, domain.PaymentSettlement{
		CheckoutSessionID: c.SessionID,
		AmountCents:       c.AmountCents,
		Currency:          c.Currency,
		PaymentIntentID:   optional(c.PaymentIntentID),
	})
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if !matched {
		logger.FromContext(ctx).Warn("no pending payment for checkout session", "checkout_session_id", c.SessionID)
	}
	return nil
}

func (s *ReconcilerService) subscriptionChanged(ctx context.Context, evt *payment.Event) error {
	st := evt.Subscription
	employerID := st.Metadata[MetaEmployerID]
	code, ok := domain.ParsePlanCode(st.Metadata[MetaPlanCode])
	if employerID == "" || !ok {
		ignoreMissingMetadata(ctx, evt, "employer_id/plan_code")
		return nil
	}

	now := s.now()
	sub := &domain.EmployerSubscription{
		ID:                      domain.NewID(),
		EmployerID:              employerID,
		PlanCode:                code,
		Status:                  domain.MapProcessorStatus(st.Status),
		CurrentPeriodStart:      optionalTime(st.CurrentPeriodStart),
		CurrentPeriodEnd:        optionalTime(st.CurrentPeriodEnd),
		CancelAt:                optionalTime(st.CancelAt),
		CanceledAt:              optionalTime(st.CanceledAt),
		ProcessorCustomerID:     optional(st.CustomerID),
		ProcessorSubscriptionID: optional(st.ID),
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.subscriptions.UpsertFromLifecycle(ctx, sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func ignoreMissingMetadata(ctx context.Context, evt *payment.Event, missing string) {
	logger.FromContext(ctx).Warn("webhook event ignored: missing metadata",
		"event_id", evt.ID, "event_type", evt.Type, "missing", missing)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
