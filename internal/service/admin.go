package service

import (
	"context"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
)

const adminProfileLimit = 50

// AdminService serves the admin console.
type AdminService struct {
	repo AdminRepository
	now  func() time.Time
}

// NewAdminService creates a new AdminService.
func NewAdminService(repo AdminRepository) *AdminService {
	return &AdminService{repo: repo, now: time.Now}
}

// Dashboard returns directory metrics and the most recently updated profiles.
func (s *AdminService) Dashboard(ctx context.Context, session domain.Session) (*domain.AdminDashboard, error) {
	if err := requireRole(session, domain.RoleAdmin); err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(ctx, s.now())
	if err != nil {
		return nil, domain.ErrInternal("failed to load stats", err)
	}
	profiles, err := s.repo.RecentProfiles(ctx, adminProfileLimit)
	if err != nil {
		return nil, domain.ErrInternal("failed to load profiles", err)
	}
	if profiles == nil {
		profiles = []domain.AdminProfileRow{}
	}
	return &domain.AdminDashboard{Stats: *stats, Profiles: profiles}, nil
}
