package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/Gbun420/TalentVault-app/internal/domain"
)

// DirectoryLimit caps a single search page.
const DirectoryLimit = 50

// DirectoryQuery is the raw employer search form.
type DirectoryQuery struct {
	Skills       string
	Role         string
	Experience   string
	Availability string
	Location     string
	WorkPermit   string
}

// DirectoryService serves the employer CV search and employer home page.
type DirectoryService struct {
	jobseekers    JobseekerRepository
	unlocks       UnlockRepository
	subscriptions SubscriptionRepository
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(jobseekers JobseekerRepository, unlocks UnlockRepository, subscriptions SubscriptionRepository) *DirectoryService {
	return &DirectoryService{jobseekers: jobseekers, unlocks: unlocks, subscriptions: subscriptions}
}

// Search lists visible profiles. Contact details are never part of the result.
func (s *DirectoryService) Search(ctx context.Context, session domain.Session, q DirectoryQuery) ([]domain.DirectoryEntry, error) {
	if !session.Authenticated() {
		return nil, domain.ErrUnauthenticated("unauthorized")
	}
	if !session.Role().CanPurchase() {
		return nil, domain.ErrForbidden("only employers can search the directory")
	}

	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	entries, err := s.jobseekers.Search(ctx, filter)
	if err != nil {
		return nil, domain.ErrInternal("failed to search directory", err)
	}
	if entries == nil {
		entries = []domain.DirectoryEntry{}
	}
	return entries, nil
}

func (q DirectoryQuery) filter() (domain.DirectoryFilter, error) {
	f := domain.DirectoryFilter{
		Skills:       cleanList(strings.Split(q.Skills, ",")),
		Role:         strings.TrimSpace(q.Role),
		Availability: strings.TrimSpace(q.Availability),
		Location:     strings.TrimSpace(q.Location),
		WorkPermit:   strings.TrimSpace(q.WorkPermit),
		Limit:        DirectoryLimit,
	}
	if q.Experience != "" {
		min, max, ok := ParseExperienceBand(q.Experience)
		if !ok {
			return f, domain.ErrBadRequest("experience must be one of 0-2, 3-5, 6-10, 10+")
		}
		f.MinExperience, f.MaxExperience = min, max
	}
	return f, nil
}

// ParseExperienceBand parses "a-b" or "a+" into inclusive bounds.
func ParseExperienceBand(band string) (min, max *int, ok bool) {
	band = strings.TrimSpace(band)
	if lo, found := strings.CutSuffix(band, "+"); found {
		n, err := strconv.Atoi(lo)
		if err != nil || n < 0 {
			return nil, nil, false
		}
		return &n, nil, true
	}

	lo, hi, found := strings.Cut(band, "-")
	if !found {
		return nil, nil, false
	}
	a, err1 := strconv.Atoi(lo)
	b, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil || a < 0 || b < a {
		return nil, nil, false
	}
	return &a, &b, true
}

// EmployerDashboard loads the subscription summary and unlocked profiles.
func (s *DirectoryService) EmployerDashboard(ctx context.Context, session domain.Session) (*domain.EmployerDashboard, error) {
	if !session.Authenticated() || session.Profile == nil {
		return nil, domain.ErrUnauthenticated("unauthorized")
	}
	if !session.Role().CanPurchase() {
		return nil, domain.ErrForbidden("forbidden")
	}

	sub, err := s.subscriptions.Latest(ctx, session.IdentityID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load subscription", err)
	}
	ids, err := s.unlocks.ListJobseekerIDs(ctx, session.IdentityID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load unlocks", err)
	}
	if ids == nil {
		ids = []string{}
	}

	out := &domain.EmployerDashboard{FullName: session.Profile.FullName, UnlockedIDs: ids}
	if sub != nil {
		out.Subscription = &domain.SubscriptionSummary{
			PlanCode:         sub.PlanCode,
			Status:           sub.Status,
			CurrentPeriodEnd: sub.CurrentPeriodEnd,
		}
	}
	return out, nil
}
