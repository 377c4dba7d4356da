package service

import (
	"context"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/logger"
	"github.com/Gbun420/TalentVault-app/pkg/payment"
	"github.com/go-playground/validator/v10"
)

// Metadata keys attached to checkout sessions and subscriptions.
const (
	MetaPaymentType = "payment_type"
	MetaEmployerID  = "employer_id"
	MetaJobseekerID = "jobseeker_id"
	MetaPlanCode    = "plan_code"
)

// PriceIDs are the processor price ids per purchasable item. Empty means not
// configured.
type PriceIDs struct {
	Unlock    string
	Limited   string
	Unlimited string
}

func (p PriceIDs) forPlan(code domain.PlanCode) string {
	switch code {
	case domain.PlanLimited:
		return p.Limited
	case domain.PlanUnlimited:
		return p.Unlimited
	}
	return ""
}

// CheckoutService creates hosted checkouts and records pending payments.
type CheckoutService struct {
	gateway    payment.Gateway
	payments   PaymentRepository
	unlocks    UnlockRepository
	prices     PriceIDs
	successURL string
	cancelURL  string
	validate   *validator.Validate
	now        func() time.Time
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(gateway payment.Gateway, payments PaymentRepository, unlocks UnlockRepository, prices PriceIDs, successURL, cancelURL string) *CheckoutService {
	return &CheckoutService{
		gateway:    gateway,
		payments:   payments,
		unlocks:    unlocks,
		prices:     prices,
		successURL: successURL,
		cancelURL:  cancelURL,
		validate:   newValidator(),
		now:        time.Now,
	}
}

// CreateCheckout starts a one-time unlock or a subscription checkout. The
// pending payment row is written only after the processor created the session.
func (s *CheckoutService) CreateCheckout(ctx context.Context, session domain.Session, req *domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	if !session.Authenticated() {
		return nil, domain.ErrUnauthenticated("unauthorized")
	}
	if !session.Role().CanPurchase() {
		return nil, domain.ErrForbidden("only employers can purchase")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrBadRequest(formatValidationErrors(err))
	}

	switch req.Mode {
	case domain.CheckoutModeUnlock:
		return s.checkoutUnlock(ctx, session, req.JobseekerID)
	case domain.CheckoutModeSubscription:
		code, ok := domain.ParsePlanCode(req.SubscriptionType)
		if !ok {
			return nil, domain.ErrBadRequest("subscriptionType must be limited or unlimited")
		}
		return s.checkoutSubscription(ctx, session, code)
	default:
		return nil, domain.ErrBadRequest("invalid checkout mode")
	}
}

func (s *CheckoutService) checkoutUnlock(ctx context.Context, session domain.Session, jobseekerID string) (*domain.CheckoutResponse, error) {
	if s.prices.Unlock == "" {
		return nil, domain.ErrNotConfigured("unlock price is not configured")
	}
	if jobseekerID == "" {
		return nil, domain.ErrBadRequest("jobseekerId is required")
	}

	exists, err := s.unlocks.Exists(ctx, session.IdentityID, jobseekerID)
	if err != nil {
		return nil, domain.ErrInternal("failed to check unlock", err)
	}
	if exists {
		return &domain.CheckoutResponse{AlreadyUnlocked: true}, nil
	}

	meta := map[string]string{
		MetaPaymentType: string(domain.PaymentTypeUnlock),
		MetaEmployerID:  session.IdentityID,
		MetaJobseekerID: jobseekerID,
	}
	return s.start(ctx, session, &payment.CheckoutSessionRequest{
		Mode:     payment.ModePayment,
		PriceID:  s.prices.Unlock,
		Metadata: meta,
	}, domain.PaymentTypeUnlock, &jobseekerID)
}

func (s *CheckoutService) checkoutSubscription(ctx context.Context, session domain.Session, code domain.PlanCode) (*domain.CheckoutResponse, error) {
	priceID := s.prices.forPlan(code)
	if priceID == "" {
		return nil, domain.ErrNotConfigured("subscription price is not configured")
	}

	meta := map[string]string{
		MetaPaymentType: string(domain.PaymentTypeSubscription),
		MetaEmployerID:  session.IdentityID,
		MetaPlanCode:    string(code),
	}
	return s.start(ctx, session, &payment.CheckoutSessionRequest{
		Mode:                 payment.ModeSubscription,
		PriceID:              priceID,
		Metadata:             meta,
		SubscriptionMetadata: meta,
	}, domain.PaymentTypeSubscription, nil)
}

func (s *CheckoutService) start(ctx context.Context, session domain.Session, req *payment.CheckoutSessionRequest, kind domain.PaymentType, jobseekerID *string) (*domain.CheckoutResponse, error) {
	log := logger.FromContext(ctx)

	price, err := s.gateway.Price(ctx, req.PriceID)
	if err != nil {
		log.Error("price lookup failed", "price_id", req.PriceID, "error", err)
		return nil, domain.ErrInternal("failed to create checkout", err)
	}

	req.CustomerEmail = session.Email
	req.SuccessURL = s.successURL
	req.CancelURL = s.cancelURL

	cs, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		log.Error("checkout session failed", "provider", s.gateway.Name(), "error", err)
		return nil, domain.ErrInternal("failed to create checkout", err)
	}

	now := s.now()
	p := &domain.Payment{
		ID:                domain.NewID(),
		UserID:            session.IdentityID,
		JobseekerID:       jobseekerID,
		AmountCents:       price.AmountCents,
		Currency:          price.Currency,
		PaymentType:       kind,
		Status:            domain.PaymentPending,
		CheckoutSessionID: cs.ID,
		Metadata:          req.Metadata,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.payments.CreatePending(ctx, p); err != nil {
		log.Error("pending payment not recorded", "checkout_session_id", cs.ID, "error", err)
		return nil, domain.ErrInternal("failed to create checkout", err)
	}

	log.Info("checkout created", "checkout_session_id", cs.ID, "payment_type", kind)
	return &domain.CheckoutResponse{URL: cs.URL}, nil
}
