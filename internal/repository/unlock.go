package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnlockRepository handles the append-only unlocked_contacts log.
type UnlockRepository struct {
	db *pgxpool.Pool
}

// NewUnlockRepository creates a new UnlockRepository.
func NewUnlockRepository(db *pgxpool.Pool) *UnlockRepository {
	return &UnlockRepository{db: db}
}

// Exists reports whether the employer has unlocked the jobseeker.
func (r *UnlockRepository) Exists(ctx context.Context, employerID, jobseekerID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM unlocked_contacts WHERE employer_id = $1 AND jobseeker_id = $2)`,
		employerID, jobseekerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check unlock: %w", err)
	}
	return exists, nil
}

// Create inserts the unlock unless the pair already exists.
func (r *UnlockRepository) Create(ctx context.Context, employerID, jobseekerID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO unlocked_contacts (id, employer_id, jobseeker_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (employer_id, jobseeker_id) DO NOTHING`,
		domain.NewID(), employerID, jobseekerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create unlock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountInWindow counts unlocks created within [start, end].
func (r *UnlockRepository) CountInWindow(ctx context.Context, employerID string, start, end time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM unlocked_contacts
		WHERE employer_id = $1 AND created_at >= $2 AND created_at <= $3`,
		employerID, start, end,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unlocks: %w", err)
	}
	return n, nil
}

// ListJobseekerIDs returns every jobseeker the employer has unlocked.
func (r *UnlockRepository) ListJobseekerIDs(ctx context.Context, employerID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT jobseeker_id FROM unlocked_contacts WHERE employer_id = $1 ORDER BY created_at DESC`, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlocks: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan unlock: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
