package service

import (
	"context"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/logger"
)

// EntitlementService decides whether an employer may see a jobseeker's contact
// details and records the grant.
type EntitlementService struct {
	unlocks       UnlockRepository
	subscriptions SubscriptionRepository
	plans         PlanRepository
	jobseekers    JobseekerRepository
	now           func() time.Time
}

// NewEntitlementService creates a new EntitlementService.
func NewEntitlementService(unlocks UnlockRepository, subscriptions SubscriptionRepository, plans PlanRepository, jobseekers JobseekerRepository) *EntitlementService {
	return &EntitlementService{
		unlocks:       unlocks,
		subscriptions: subscriptions,
		plans:         plans,
		jobseekers:    jobseekers,
		now:           time.Now,
	}
}

// Unlock authorizes the caller, checks the target exists and runs CanUnlock.
func (s *EntitlementService) Unlock(ctx context.Context, session domain.Session, jobseekerID string) (*domain.UnlockDecision, error) {
	if !session.Authenticated() {
		return nil, domain.ErrUnauthenticated("unauthorized")
	}
	if !session.Role().CanPurchase() {
		return nil, domain.ErrForbidden("only employers can unlock contact details")
	}
	if jobseekerID == "" {
		return nil, domain.ErrBadRequest("jobseekerId is required")
	}

	exists, err := s.jobseekers.Exists(ctx, jobseekerID)
	if err != nil {
		return nil, domain.ErrInternal("failed to look up jobseeker", err)
	}
	if !exists {
		return nil, domain.ErrNotFound("jobseeker not found")
	}

	return s.CanUnlock(ctx, session.IdentityID, session.Role(), jobseekerID)
}

// CanUnlock evaluates, in order: existing unlock, admin bypass, active
// subscription, unlimited plan, limited plan quota. A grant creates the
// unlock row. Lookup failures are internal errors and never grant.
func (s *EntitlementService) CanUnlock(ctx context.Context, employerID string, role domain.Role, jobseekerID string) (*domain.UnlockDecision, error) {
	exists, err := s.unlocks.Exists(ctx, employerID, jobseekerID)
	if err != nil {
		return nil, domain.ErrInternal("failed to check unlock", err)
	}
	if exists {
		return &domain.UnlockDecision{Granted: true, AlreadyUnlocked: true}, nil
	}

	if role == domain.RoleAdmin {
		return s.grant(ctx, employerID, jobseekerID)
	}

	now := s.now()
	sub, err := s.subscriptions.Latest(ctx, employerID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load subscription", err)
	}
	if !sub.ActiveAt(now) {
		return deny(domain.DenyNoActiveSubscription), nil
	}

	switch sub.PlanCode {
	case domain.PlanUnlimited:
		return s.grant(ctx, employerID, jobseekerID)

	case domain.PlanLimited:
		plan, err := s.plans.Get(ctx, domain.PlanLimited)
		if err != nil {
			return nil, domain.ErrInternal("failed to load plan", err)
		}
		if plan == nil {
			return nil, domain.ErrNotConfigured("limited plan is not configured")
		}

		quota := 0
		if plan.UnlocksIncluded != nil {
			quota = *plan.UnlocksIncluded
		}

		start, end := sub.PeriodWindow(now)
		if sub.CurrentPeriodStart == nil || sub.CurrentPeriodEnd == nil {
			logger.FromContext(ctx).Warn("subscription lacks period bounds, using approximate window",
				"employer_id", employerID, "start", start, "end", end)
		}
		used, err := s.unlocks.CountInWindow(ctx, employerID, start, end)
		if err != nil {
			return nil, domain.ErrInternal("failed to count unlocks", err)
		}
		// Count and insert are not isolated; concurrent requests can exceed
		// the quota by one.
		if used >= quota {
			return deny(domain.DenyLimitReached), nil
		}
		return s.grant(ctx, employerID, jobseekerID)

	default:
		logger.FromContext(ctx).Warn("subscription has unknown plan", "employer_id", employerID, "plan_code", sub.PlanCode)
		return deny(domain.DenyNoActiveSubscription), nil
	}
}

func (s *EntitlementService) grant(ctx context.Context, employerID, jobseekerID string) (*domain.UnlockDecision, error) {
	created, err := s.unlocks.Create(ctx, employerID, jobseekerID)
	if err != nil {
		return nil, domain.ErrInternal("failed to record unlock", err)
	}
	return &domain.UnlockDecision{Granted: true, AlreadyUnlocked: !created}, nil
}

func deny(reason domain.DenyReason) *domain.UnlockDecision {
	return &domain.UnlockDecision{Granted: false, Reason: reason}
}
