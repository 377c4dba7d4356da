package handler

import (
	"context"
	"sync"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
)

// store is an in-memory backing for the repository ports the handler tests
// exercise. Only the behaviour the handlers observe is modelled.
type store struct {
	mu         sync.Mutex
	jobseekers map[string]bool
	unlocks    map[[2]string]bool
	subs       map[string]*domain.EmployerSubscription
	payments   map[string]*domain.Payment
	events     map[string]*domain.WebhookEvent
	moderated  map[string]domain.ModerationChange
}

func newStore() *store {
	return &store{
		jobseekers: map[string]bool{},
		unlocks:    map[[2]string]bool{},
		subs:       map[string]*domain.EmployerSubscription{},
		payments:   map[string]*domain.Payment{},
		events:     map[string]*domain.WebhookEvent{},
		moderated:  map[string]domain.ModerationChange{},
	}
}

type jobseekerRepo struct{ *store }

func (s jobseekerRepo) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobseekers[id], nil
}

func (jobseekerRepo) GetProfile(context.Context, string) (*domain.JobseekerProfile, error) {
	return nil, nil
}

func (jobseekerRepo) GetContact(context.Context, string) (*domain.JobseekerContact, error) {
	return nil, nil
}

func (jobseekerRepo) ListExperiences(context.Context, string) ([]domain.WorkExperience, error) {
	return nil, nil
}

func (jobseekerRepo) Save(context.Context, string, *domain.SaveProfileRequest, time.Time) error {
	return nil
}

func (jobseekerRepo) SetCVPath(context.Context, string, string, time.Time) error {
	return nil
}

func (jobseekerRepo) Search(context.Context, domain.DirectoryFilter) ([]domain.DirectoryEntry, error) {
	return nil, nil
}

type unlockRepo struct{ *store }

func (s unlockRepo) Exists(_ context.Context, employerID, jobseekerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocks[[2]string{employerID, jobseekerID}], nil
}

func (s unlockRepo) Create(_ context.Context, employerID, jobseekerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]string{employerID, jobseekerID}
	if s.unlocks[key] {
		return false, nil
	}
	s.unlocks[key] = true
	return true, nil
}

func (unlockRepo) CountInWindow(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (unlockRepo) ListJobseekerIDs(context.Context, string) ([]string, error) {
	return nil, nil
}

func (s *store) Latest(_ context.Context, employerID string) (*domain.EmployerSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subs[employerID]; ok {
		cp := *sub
		return &cp, nil
	}
	return nil, nil
}

func (s *store) UpsertFromCheckout(_ context.Context, sub *domain.EmployerSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	s.subs[sub.EmployerID] = &cp
	return nil
}

func (s *store) UpsertFromLifecycle(ctx context.Context, sub *domain.EmployerSubscription) error {
	return s.UpsertFromCheckout(ctx, sub)
}

type planRepo struct{}

func (planRepo) Get(_ context.Context, code domain.PlanCode) (*domain.SubscriptionPlan, error) {
	for _, p := range domain.DefaultPlans() {
		if p.PlanCode == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (planRepo) List(context.Context) ([]domain.SubscriptionPlan, error) {
	return domain.DefaultPlans(), nil
}

func (s *store) CreatePending(_ context.Context, p *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.payments[p.CheckoutSessionID] = &cp
	return nil
}

func (s *store) MarkSucceeded(_ context.Context, st domain.PaymentSettlement) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[st.CheckoutSessionID]
	if !ok {
		return false, nil
	}
	p.Status = domain.PaymentSucceeded
	return true, nil
}

func (s *store) Record(_ context.Context, evt *domain.WebhookEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := evt.Provider + "/" + evt.EventID
	if existing, ok := s.events[key]; ok {
		return existing.ProcessedAt != nil, nil
	}
	cp := *evt
	s.events[key] = &cp
	return false, nil
}

func (s *store) MarkProcessed(_ context.Context, provider, eventID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[provider+"/"+eventID]; ok {
		e.ProcessedAt = &at
	}
	return nil
}

func (s *store) MarkFailed(_ context.Context, provider, eventID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[provider+"/"+eventID]; ok {
		e.ProcessingError = &reason
	}
	return nil
}

func (s *store) Apply(_ context.Context, jobseekerID string, change domain.ModerationChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moderated[jobseekerID] = change
	return nil
}

func withRole(id string, role domain.Role) domain.Session {
	return domain.Session{IdentityID: id, Email: id + "@example.com", Profile: &domain.Profile{ID: id, Role: role}}
}
