package service

import (
	"context"

	"github.com/Gbun420/TalentVault-app/internal/domain"
)

// SubscriptionService exposes the plan catalog and the caller's subscription.
type SubscriptionService struct {
	subscriptions SubscriptionRepository
	plans         PlanRepository
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(subscriptions SubscriptionRepository, plans PlanRepository) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, plans: plans}
}

// GetCurrentSubscription returns the caller's subscription row, or nil.
func (s *SubscriptionService) GetCurrentSubscription(ctx context.Context, session domain.Session) (*domain.EmployerSubscription, error) {
	if !session.Authenticated() {
		return nil, domain.ErrUnauthenticated("unauthorized")
	}
	sub, err := s.subscriptions.Latest(ctx, session.IdentityID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load subscription", err)
	}
	return sub, nil
}

// Plans lists the catalog.
func (s *SubscriptionService) Plans(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, domain.ErrInternal("failed to load plans", err)
	}
	return plans, nil
}
