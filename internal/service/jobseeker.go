package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

const pdfMIME = "application/pdf"

// JobseekerService owns the jobseeker's own profile and the contact reveal.
type JobseekerService struct {
	jobseekers JobseekerRepository
	unlocks    UnlockRepository
	files      FileStore
	linkTTL    time.Duration
	maxCVBytes int64
	validate   *validator.Validate
	now        func() time.Time
}

// NewJobseekerService creates a new JobseekerService. files may be nil when
// CV storage is not configured.
func NewJobseekerService(jobseekers JobseekerRepository, unlocks UnlockRepository, files FileStore, linkTTL time.Duration, maxCVBytes int64) *JobseekerService {
	return &JobseekerService{
		jobseekers: jobseekers,
		unlocks:    unlocks,
		files:      files,
		linkTTL:    linkTTL,
		maxCVBytes: maxCVBytes,
		validate:   newValidator(),
		now:        time.Now,
	}
}

// Dashboard loads everything the jobseeker home page shows. Admins may open
// the page too; they see their own, usually empty, record.
func (s *JobseekerService) Dashboard(ctx context.Context, session domain.Session) (*domain.JobseekerDashboard, error) {
	if err := requireRole(session, domain.RoleJobseeker, domain.RoleAdmin); err != nil {
		return nil, err
	}
	id := session.IdentityID

	profile, err := s.jobseekers.GetProfile(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to load profile", err)
	}
	contact, err := s.jobseekers.GetContact(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to load contact", err)
	}
	experiences, err := s.jobseekers.ListExperiences(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to load experiences", err)
	}
	if experiences == nil {
		experiences = []domain.WorkExperience{}
	}

	return &domain.JobseekerDashboard{
		FullName:    session.Profile.FullName,
		Profile:     profile,
		Contact:     contact,
		Experiences: experiences,
	}, nil
}

// SaveProfile validates and stores the caller's profile in one transaction.
func (s *JobseekerService) SaveProfile(ctx context.Context, session domain.Session, req *domain.SaveProfileRequest) error {
	if err := requireRole(session, domain.RoleJobseeker); err != nil {
		return err
	}

	normalizeProfile(req)
	if err := s.validate.Struct(req); err != nil {
		return domain.ErrValidation(formatValidationErrors(err))
	}

	if err := s.jobseekers.Save(ctx, session.IdentityID, req, s.now()); err != nil {
		return domain.ErrInternal("failed to save profile", err)
	}
	logger.FromContext(ctx).Info("jobseeker profile saved", "jobseeker_id", session.IdentityID)
	return nil
}

func normalizeProfile(req *domain.SaveProfileRequest) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Headline = strings.TrimSpace(req.Headline)
	req.Summary = strings.TrimSpace(req.Summary)
	req.Availability = strings.TrimSpace(req.Availability)
	req.Location = strings.TrimSpace(req.Location)
	req.WorkPermitStatus = strings.TrimSpace(req.WorkPermitStatus)
	req.ContactEmail = strings.TrimSpace(req.ContactEmail)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Skills = cleanList(req.Skills)
	req.PreferredRoles = cleanList(req.PreferredRoles)

	for i := range req.Experiences {
		e := &req.Experiences[i]
		e.Title = strings.TrimSpace(e.Title)
		e.Company = strings.TrimSpace(e.Company)
		e.StartDate = strings.TrimSpace(e.StartDate)
		e.EndDate = strings.TrimSpace(e.EndDate)
		if e.IsCurrent {
			e.EndDate = ""
		}
	}
}

// cleanList trims entries and drops blanks and case-insensitive duplicates.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// UploadCV stores a PDF for the caller and returns its storage key.
func (s *JobseekerService) UploadCV(ctx context.Context, session domain.Session, r io.Reader) (string, error) {
	if err := requireRole(session, domain.RoleJobseeker); err != nil {
		return "", err
	}
	if s.files == nil {
		return "", domain.ErrNotConfigured("CV storage is not configured")
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxCVBytes+1))
	if err != nil {
		return "", domain.ErrBadRequest("failed to read upload")
	}
	if int64(len(data)) > s.maxCVBytes {
		return "", domain.ErrValidation(fmt.Sprintf("CV must be at most %d MB", s.maxCVBytes>>20))
	}
	if len(data) == 0 {
		return "", domain.ErrValidation("CV file is empty")
	}
	if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
		return "", domain.ErrValidation("CV must be a PDF file")
	}

	now := s.now()
	key := fmt.Sprintf("%s/cv-%d.pdf", session.IdentityID, now.UnixMilli())
	if err := s.files.Put(ctx, key, bytes.NewReader(data), int64(len(data)), pdfMIME); err != nil {
		return "", domain.ErrInternal("failed to store CV", err)
	}
	if err := s.jobseekers.SetCVPath(ctx, session.IdentityID, key, now); err != nil {
		return "", domain.ErrInternal("failed to record CV", err)
	}
	return key, nil
}

// RevealContact returns decrypted contact details to the owner, an admin, or
// an employer holding an unlock for this jobseeker.
func (s *JobseekerService) RevealContact(ctx context.Context, session domain.Session, jobseekerID string) (*domain.ContactReveal, error) {
	if !session.Authenticated() || session.Profile == nil {
		return nil, domain.ErrUnauthenticated("unauthorized")
	}

	switch session.Role() {
	case domain.RoleAdmin:
	case domain.RoleJobseeker:
		if session.IdentityID != jobseekerID {
			return nil, domain.ErrForbidden("not your profile")
		}
	case domain.RoleEmployer:
		unlocked, err := s.unlocks.Exists(ctx, session.IdentityID, jobseekerID)
		if err != nil {
			return nil, domain.ErrInternal("failed to check unlock", err)
		}
		if !unlocked {
			return nil, domain.ErrPaymentRequired("Unlock this profile to view contact details.")
		}
	default:
		return nil, domain.ErrForbidden("forbidden")
	}

	contact, err := s.jobseekers.GetContact(ctx, jobseekerID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load contact", err)
	}
	if contact == nil {
		return nil, domain.ErrNotFound("contact details not found")
	}

	out := &domain.ContactReveal{
		JobseekerID:  jobseekerID,
		ContactEmail: contact.ContactEmail,
		Phone:        contact.Phone,
	}
	if contact.CVStoragePath != nil && s.files != nil {
		link, err := s.files.SignedURL(ctx, *contact.CVStoragePath, s.linkTTL)
		if err != nil {
			logger.FromContext(ctx).Error("failed to sign CV link", "jobseeker_id", jobseekerID, "error", err)
		} else {
			out.CVURL = &link
		}
	}
	return out, nil
}

// requireRole rejects sessions without a profile holding one of roles.
func requireRole(session domain.Session, roles ...domain.Role) error {
	if !session.Authenticated() || session.Profile == nil {
		return domain.ErrUnauthenticated("unauthorized")
	}
	for _, role := range roles {
		if session.Role() == role {
			return nil
		}
	}
	return domain.ErrForbidden("forbidden")
}
