package service

import (
	"context"
	"io"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
)

// ProfileRepository reads account rows. Soft-deleted rows are never returned.
type ProfileRepository interface {
	FindActiveByID(ctx context.Context, id string) (*domain.Profile, error)
}

// JobseekerRepository stores jobseeker profiles, contacts and experiences.
type JobseekerRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetProfile(ctx context.Context, id string) (*domain.JobseekerProfile, error)
	GetContact(ctx context.Context, id string) (*domain.JobseekerContact, error)
	ListExperiences(ctx context.Context, id string) ([]domain.WorkExperience, error)
	// Save writes profile, contact, full name and experiences atomically.
	Save(ctx context.Context, id string, req *domain.SaveProfileRequest, now time.Time) error
	SetCVPath(ctx context.Context, id, path string, now time.Time) error
	Search(ctx context.Context, filter domain.DirectoryFilter) ([]domain.DirectoryEntry, error)
}

// UnlockRepository is the append-only unlock log.
type UnlockRepository interface {
	Exists(ctx context.Context, employerID, jobseekerID string) (bool, error)
	// Create is idempotent per pair; created is false when the row existed.
	Create(ctx context.Context, employerID, jobseekerID string) (created bool, err error)
	CountInWindow(ctx context.Context, employerID string, start, end time.Time) (int, error)
	ListJobseekerIDs(ctx context.Context, employerID string) ([]string, error)
}

// SubscriptionRepository holds one subscription row per employer.
type SubscriptionRepository interface {
	Latest(ctx context.Context, employerID string) (*domain.EmployerSubscription, error)
	// UpsertFromCheckout activates the plan without touching period bounds.
	UpsertFromCheckout(ctx context.Context, sub *domain.EmployerSubscription) error
	// UpsertFromLifecycle overwrites status, period bounds and cancellation times.
	UpsertFromLifecycle(ctx context.Context, sub *domain.EmployerSubscription) error
}

// PlanRepository reads the plan catalog.
type PlanRepository interface {
	Get(ctx context.Context, code domain.PlanCode) (*domain.SubscriptionPlan, error)
	List(ctx context.Context) ([]domain.SubscriptionPlan, error)
}

// PaymentRepository is the checkout ledger.
type PaymentRepository interface {
	CreatePending(ctx context.Context, p *domain.Payment) error
	// MarkSucceeded returns false when no row matches the session id.
	MarkSucceeded(ctx context.Context, s domain.PaymentSettlement) (bool, error)
}

// ModerationRepository applies a moderation change in one transaction.
type ModerationRepository interface {
	Apply(ctx context.Context, jobseekerID string, change domain.ModerationChange) error
}

// WebhookEventRepository is the delivery ledger keyed by (provider, event id).
type WebhookEventRepository interface {
	// Record inserts the event if new and reports whether it was already processed.
	Record(ctx context.Context, evt *domain.WebhookEvent) (processed bool, err error)
	MarkProcessed(ctx context.Context, provider, eventID string, at time.Time) error
	MarkFailed(ctx context.Context, provider, eventID, reason string) error
}

// AdminRepository serves the admin console.
type AdminRepository interface {
	Stats(ctx context.Context, now time.Time) (*domain.AdminStats, error)
	RecentProfiles(ctx context.Context, limit int) ([]domain.AdminProfileRow, error)
}

// FileStore keeps uploaded CV files.
type FileStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
