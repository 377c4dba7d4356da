package repository

import (
	"context"
	"fmt"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	updateModerationSQL = `
		UPDATE jobseeker_profiles SET
			moderation_status = $2,
			visibility = COALESCE($3, visibility),
			updated_at = NOW()
		WHERE id = $1`

	// resolveFlagsSQL closes every open flag on a subject as approved.
	resolveFlagsSQL = `
		UPDATE moderation_flags SET status = 'approved', resolved_at = $3
		WHERE subject_type = $1 AND subject_id = $2 AND resolved_at IS NULL`

	insertFlagSQL = `
		INSERT INTO moderation_flags (id, subject_type, subject_id, raised_by, status, reason, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

// ModerationRepository writes moderation state and the flag audit trail.
type ModerationRepository struct {
	db *pgxpool.Pool
}

// NewModerationRepository creates a new ModerationRepository.
func NewModerationRepository(db *pgxpool.Pool) *ModerationRepository {
	return &ModerationRepository{db: db}
}

// Apply updates the profile, appends the flag and resolves open flags in one
// transaction.
func (r *ModerationRepository) Apply(ctx context.Context, jobseekerID string, change domain.ModerationChange) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var visibility *string
		if change.Visibility != nil {
			v := string(*change.Visibility)
			visibility = &v
		}
		_, err := tx.Exec(ctx, updateModerationSQL,
			jobseekerID, string(change.ModerationStatus), visibility,
		)
		if err != nil {
			return fmt.Errorf("failed to update moderation status: %w", err)
		}

		if change.ResolveFlagsAt != nil {
			_, err := tx.Exec(ctx, resolveFlagsSQL,
				domain.SubjectJobseekerProfile, jobseekerID, *change.ResolveFlagsAt,
			)
			if err != nil {
				return fmt.Errorf("failed to resolve flags: %w", err)
			}
		}

		if f := change.NewFlag; f != nil {
			_, err := tx.Exec(ctx, insertFlagSQL,
				f.ID, f.SubjectType, f.SubjectID, f.RaisedBy, string(f.Status), f.Reason, f.CreatedAt, f.ResolvedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert moderation flag: %w", err)
			}
		}
		return nil
	})
}
