package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository reads the account rows owned by the identity provider.
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindActiveByID returns the profile for an identity, skipping soft-deleted rows.
func (r *ProfileRepository) FindActiveByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `
		SELECT id, email, full_name, role, created_at, deleted_at
		FROM profiles WHERE id = $1 AND deleted_at IS NULL
	`
	var p domain.Profile
	var role string
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Email, &p.FullName, &role, &p.CreatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	p.Role = domain.Role(role)
	return &p, nil
}
