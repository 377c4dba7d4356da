package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
)

// memStore implements every repository port in memory.
type memStore struct {
	mu  sync.Mutex
	now func() time.Time

	profiles    map[string]*domain.Profile
	jobseekers  map[string]*domain.JobseekerProfile
	contacts    map[string]*domain.JobseekerContact
	experiences map[string][]domain.WorkExperience
	fullNames   map[string]string
	unlocks     map[[2]string]time.Time
	subs        map[string]*domain.EmployerSubscription
	plans       map[domain.PlanCode]*domain.SubscriptionPlan
	payments    map[string]*domain.Payment
	events      map[string]*domain.WebhookEvent
	flags       []domain.ModerationFlag

	// fail makes the named method return the error.
	fail map[string]error
}

func newMemStore(now func() time.Time) *memStore {
	s := &memStore{
		now:         now,
		profiles:    map[string]*domain.Profile{},
		jobseekers:  map[string]*domain.JobseekerProfile{},
		contacts:    map[string]*domain.JobseekerContact{},
		experiences: map[string][]domain.WorkExperience{},
		fullNames:   map[string]string{},
		unlocks:     map[[2]string]time.Time{},
		subs:        map[string]*domain.EmployerSubscription{},
		plans:       map[domain.PlanCode]*domain.SubscriptionPlan{},
		payments:    map[string]*domain.Payment{},
		events:      map[string]*domain.WebhookEvent{},
		fail:        map[string]error{},
	}
	for _, p := range domain.DefaultPlans() {
		p := p
		s.plans[p.PlanCode] = &p
	}
	return s
}

func (s *memStore) failing(method string) error {
	return s.fail[method]
}

func (s *memStore) addJobseeker(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobseekers[id] = &domain.JobseekerProfile{
		ID:               id,
		Headline:         "Backend developer",
		Skills:           []string{"go"},
		Visibility:       domain.VisibilityPublic,
		ModerationStatus: domain.ModerationApproved,
	}
}

func (s *memStore) unlockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unlocks)
}

// ProfileRepository

func (s *memStore) FindActiveByID(ctx context.Context, id string) (*domain.Profile, error) {
	if err := s.failing("FindActiveByID"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// JobseekerRepository

func (s *memStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := s.failing("Exists"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobseekers[id]
	return ok, nil
}

func (s *memStore) GetProfile(ctx context.Context, id string) (*domain.JobseekerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.jobseekers[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) GetContact(ctx context.Context, id string) (*domain.JobseekerContact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) ListExperiences(ctx context.Context, id string) ([]domain.WorkExperience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WorkExperience(nil), s.experiences[id]...), nil
}

func (s *memStore) Save(ctx context.Context, id string, req *domain.SaveProfileRequest, now time.Time) error {
	if err := s.failing("Save"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	status := domain.ModerationApproved
	if prev, ok := s.jobseekers[id]; ok {
		status = prev.ModerationStatus
	}
	summary := req.Summary
	s.jobseekers[id] = &domain.JobseekerProfile{
		ID:                id,
		Headline:          req.Headline,
		Summary:           &summary,
		Skills:            req.Skills,
		PreferredRoles:    req.PreferredRoles,
		YearsExperience:   req.YearsExperience,
		Availability:      req.Availability,
		Location:          req.Location,
		Visibility:        req.Visibility,
		SalaryExpectation: req.SalaryExpectation,
		ModerationStatus:  status,
		UpdatedAt:         now,
	}
	c := &domain.JobseekerContact{JobseekerID: id, ContactEmail: req.ContactEmail, UpdatedAt: now}
	if prev, ok := s.contacts[id]; ok {
		c.CVStoragePath = prev.CVStoragePath
	}
	if req.Phone != "" {
		phone := req.Phone
		c.Phone = &phone
	}
	s.contacts[id] = c
	s.fullNames[id] = req.FullName

	exps := make([]domain.WorkExperience, 0, len(req.Experiences))
	for _, e := range req.Experiences {
		we := domain.WorkExperience{ID: domain.NewID(), JobseekerID: id, Title: e.Title, Company: e.Company, StartDate: e.StartDate, IsCurrent: e.IsCurrent}
		if e.EndDate != "" {
			end := e.EndDate
			we.EndDate = &end
		}
		exps = append(exps, we)
	}
	s.experiences[id] = exps
	return nil
}

func (s *memStore) SetCVPath(ctx context.Context, id, path string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		c = &domain.JobseekerContact{JobseekerID: id}
		s.contacts[id] = c
	}
	c.CVStoragePath = &path
	c.UpdatedAt = now
	return nil
}

func (s *memStore) Search(ctx context.Context, f domain.DirectoryFilter) ([]domain.DirectoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.DirectoryEntry
	for id, p := range s.jobseekers {
		if p.Visibility == domain.VisibilityHidden || p.ModerationStatus == domain.ModerationSuspended {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
			continue
		}
		out = append(out, domain.DirectoryEntry{ID: id, Headline: p.Headline, Skills: p.Skills, Location: p.Location})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UnlockRepository

type unlockRepo struct{ *memStore }

func (s unlockRepo) Exists(ctx context.Context, employerID, jobseekerID string) (bool, error) {
	if err := s.failing("UnlockExists"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.unlocks[[2]string{employerID, jobseekerID}]
	return ok, nil
}

func (s unlockRepo) Create(ctx context.Context, employerID, jobseekerID string) (bool, error) {
	if err := s.failing("UnlockCreate"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]string{employerID, jobseekerID}
	if _, ok := s.unlocks[key]; ok {
		return false, nil
	}
	s.unlocks[key] = s.now()
	return true, nil
}

func (s unlockRepo) CountInWindow(ctx context.Context, employerID string, start, end time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, at := range s.unlocks {
		if k[0] == employerID && !at.Before(start) && !at.After(end) {
			n++
		}
	}
	return n, nil
}

func (s unlockRepo) ListJobseekerIDs(ctx context.Context, employerID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for k := range s.unlocks {
		if k[0] == employerID {
			ids = append(ids, k[1])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// SubscriptionRepository

func (s *memStore) Latest(ctx context.Context, employerID string) (*domain.EmployerSubscription, error) {
	if err := s.failing("Latest"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[employerID]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (s *memStore) UpsertFromCheckout(ctx context.Context, sub *domain.EmployerSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.subs[sub.EmployerID]; ok {
		prev.PlanCode = sub.PlanCode
		prev.Status = sub.Status
		prev.ProcessorCustomerID = sub.ProcessorCustomerID
		prev.ProcessorSubscriptionID = sub.ProcessorSubscriptionID
		prev.UpdatedAt = sub.UpdatedAt
		return nil
	}
	cp := *sub
	s.subs[sub.EmployerID] = &cp
	return nil
}

func (s *memStore) UpsertFromLifecycle(ctx context.Context, sub *domain.EmployerSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	if prev, ok := s.subs[sub.EmployerID]; ok {
		cp.ID = prev.ID
		cp.CreatedAt = prev.CreatedAt
	}
	s.subs[sub.EmployerID] = &cp
	return nil
}

// PlanRepository

type planRepo struct{ *memStore }

func (s planRepo) Get(ctx context.Context, code domain.PlanCode) (*domain.SubscriptionPlan, error) {
	if err := s.failing("PlanGet"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[code]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s planRepo) List(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.SubscriptionPlan
	for _, p := range s.plans {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceCents < out[j].PriceCents })
	return out, nil
}

// PaymentRepository

func (s *memStore) CreatePending(ctx context.Context, p *domain.Payment) error {
	if err := s.failing("CreatePending"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.payments[p.CheckoutSessionID] = &cp
	return nil
}

func (s *memStore) MarkSucceeded(ctx context.Context, st domain.PaymentSettlement) (bool, error) {
	if err := s.failing("MarkSucceeded"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[st.CheckoutSessionID]
	if !ok {
		return false, nil
	}
	p.Status = domain.PaymentSucceeded
	p.AmountCents = st.AmountCents
	p.Currency = st.Currency
	p.PaymentIntentID = st.PaymentIntentID
	return true, nil
}

// ModerationRepository

func (s *memStore) Apply(ctx context.Context, jobseekerID string, ch domain.ModerationChange) error {
	if err := s.failing("Apply"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.jobseekers[jobseekerID]
	if !ok {
		return fmt.Errorf("no profile %s", jobseekerID)
	}
	p.ModerationStatus = ch.ModerationStatus
	if ch.Visibility != nil {
		p.Visibility = *ch.Visibility
	}
	if ch.ResolveFlagsAt != nil {
		for i := range s.flags {
			// mirrors resolveFlagsSQL: only open flags on this subject
			f := &s.flags[i]
			if f.SubjectType == domain.SubjectJobseekerProfile && f.SubjectID == jobseekerID && f.ResolvedAt == nil {
				f.Status = domain.ModerationApproved
				at := *ch.ResolveFlagsAt
				f.ResolvedAt = &at
			}
		}
	}
	if ch.NewFlag != nil {
		s.flags = append(s.flags, *ch.NewFlag)
	}
	return nil
}

// WebhookEventRepository

func (s *memStore) Record(ctx context.Context, evt *domain.WebhookEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := evt.Provider + "/" + evt.EventID
	if prev, ok := s.events[key]; ok {
		return prev.ProcessedAt != nil, nil
	}
	cp := *evt
	s.events[key] = &cp
	return false, nil
}

func (s *memStore) MarkProcessed(ctx context.Context, provider, eventID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.events[provider+"/"+eventID]
	e.ProcessedAt = &at
	e.ProcessingError = nil
	return nil
}

func (s *memStore) MarkFailed(ctx context.Context, provider, eventID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.events[provider+"/"+eventID]
	e.ProcessingError = &reason
	return nil
}

// AdminRepository

func (s *memStore) Stats(ctx context.Context, now time.Time) (*domain.AdminStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &domain.AdminStats{CVs: len(s.jobseekers), Unlocks: len(s.unlocks)}
	for _, p := range s.profiles {
		if p.Role == domain.RoleEmployer && p.DeletedAt == nil {
			st.Employers++
		}
	}
	for _, sub := range s.subs {
		if sub.ActiveAt(now) {
			st.ActiveSubscriptions++
		}
	}
	return st, nil
}

func (s *memStore) RecentProfiles(ctx context.Context, limit int) ([]domain.AdminProfileRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AdminProfileRow
	for id, p := range s.jobseekers {
		out = append(out, domain.AdminProfileRow{ID: id, Headline: p.Headline, Visibility: p.Visibility, ModerationStatus: p.ModerationStatus})
	}
	return out, nil
}

// memFiles is an in-memory FileStore.
type memFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	signErr error
}

func newMemFiles() *memFiles {
	return &memFiles{objects: map[string][]byte{}}
}

func (f *memFiles) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	f.mu.Lock()
	f.objects[key] = buf.Bytes()
	f.mu.Unlock()
	return nil
}

func (f *memFiles) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return fmt.Sprintf("https://files.test/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

func session(id string, role domain.Role) domain.Session {
	return domain.Session{
		IdentityID: id,
		Email:      id + "@example.com",
		Profile:    &domain.Profile{ID: id, Email: id + "@example.com", FullName: "User " + id, Role: role},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
