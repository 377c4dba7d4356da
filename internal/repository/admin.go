package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository serves the aggregate queries of the admin console.
type AdminRepository struct {
	db *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// Stats counts directory entities. Active subscriptions are those with
// status active whose period has not ended at now.
func (r *AdminRepository) Stats(ctx context.Context, now time.Time) (*domain.AdminStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM jobseeker_profiles WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM profiles WHERE role = 'employer' AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM unlocked_contacts),
			(SELECT COUNT(*) FROM employer_subscriptions
				WHERE status = 'active' AND (current_period_end IS NULL OR current_period_end > $1))
	`
	var s domain.AdminStats
	if err := r.db.QueryRow(ctx, query, now).Scan(&s.CVs, &s.Employers, &s.Unlocks, &s.ActiveSubscriptions); err != nil {
		return nil, fmt.Errorf("failed to query admin stats: %w", err)
	}
	return &s, nil
}

// RecentProfiles lists the most recently updated jobseeker profiles,
// including hidden and suspended ones.
func (r *AdminRepository) RecentProfiles(ctx context.Context, limit int) ([]domain.AdminProfileRow, error) {
	query := `
		SELECT j.id, p.full_name, j.headline, j.visibility, j.moderation_status, j.skills,
		       j.years_experience, j.location, j.updated_at
		FROM jobseeker_profiles j
		JOIN profiles p ON p.id = j.id
		WHERE j.deleted_at IS NULL
		ORDER BY j.updated_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	out := []domain.AdminProfileRow{}
	for rows.Next() {
		var row domain.AdminProfileRow
		var visibility, moderation string
		if err := rows.Scan(&row.ID, &row.FullName, &row.Headline, &visibility, &moderation,
			&row.Skills, &row.YearsExperience, &row.Location, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		row.Visibility = domain.Visibility(visibility)
		row.ModerationStatus = domain.ModerationStatus(moderation)
		out = append(out, row)
	}
	return out, rows.Err()
}
