package service

import (
	"context"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/logger"
)

// ModerationService applies admin actions to jobseeker profiles.
type ModerationService struct {
	jobseekers JobseekerRepository
	moderation ModerationRepository
	now        func() time.Time
}

// NewModerationService creates a new ModerationService.
func NewModerationService(jobseekers JobseekerRepository, moderation ModerationRepository) *ModerationService {
	return &ModerationService{jobseekers: jobseekers, moderation: moderation, now: time.Now}
}

// Moderate runs one action and returns the profile's new state.
func (s *ModerationService) Moderate(ctx context.Context, session domain.Session, jobseekerID, action string) (*domain.ModerationResult, error) {
	if !session.Authenticated() {
		return nil, domain.ErrUnauthenticated("unauthorized")
	}
	if session.Role() != domain.RoleAdmin {
		return nil, domain.ErrForbidden("admin access required")
	}
	act, ok := domain.ParseModerationAction(action)
	if !ok {
		return nil, domain.ErrBadRequest("invalid action")
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

	change := s.plan(act, session.IdentityID, jobseekerID)
	if err := s.moderation.Apply(ctx, jobseekerID, change); err != nil {
		return nil, domain.ErrInternal("failed to apply moderation", err)
	}

	logger.FromContext(ctx).Info("profile moderated", "jobseeker_id", jobseekerID, "action", act)
	return &domain.ModerationResult{ModerationStatus: change.ModerationStatus, Visibility: change.Visibility}, nil
}

func (s *ModerationService) plan(act domain.ModerationAction, adminID, jobseekerID string) domain.ModerationChange {
	now := s.now()
	flag := func(status domain.ModerationStatus, reason string) *domain.ModerationFlag {
		return &domain.ModerationFlag{
			ID:          domain.NewID(),
			SubjectType: domain.SubjectJobseekerProfile,
			SubjectID:   jobseekerID,
			RaisedBy:    adminID,
			Status:      status,
			Reason:      reason,
			CreatedAt:   now,
		}
	}
	visibility := func(v domain.Visibility) *domain.Visibility { return &v }

	switch act {
	case domain.ActionFlag:
		return domain.ModerationChange{
			ModerationStatus: domain.ModerationPending,
			NewFlag:          flag(domain.ModerationPending, "Flagged by admin"),
		}
	case domain.ActionUnflag:
		return domain.ModerationChange{
			ModerationStatus: domain.ModerationApproved,
			ResolveFlagsAt:   &now,
		}
	case domain.ActionHide:
		return domain.ModerationChange{
			ModerationStatus: domain.ModerationSuspended,
			Visibility:       visibility(domain.VisibilityHidden),
			NewFlag:          flag(domain.ModerationSuspended, "Hidden by admin"),
		}
	default: // unhide
		return domain.ModerationChange{
			ModerationStatus: domain.ModerationApproved,
			Visibility:       visibility(domain.VisibilityPublic),
			ResolveFlagsAt:   &now,
		}
	}
}
