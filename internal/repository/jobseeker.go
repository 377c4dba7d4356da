package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/pkg/crypto"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JobseekerRepository handles jobseeker profiles, contacts and experiences.
// Contact email and phone are encrypted at rest.
type JobseekerRepository struct {
	db  *pgxpool.Pool
	enc *crypto.Encryptor
}

// NewJobseekerRepository creates a new JobseekerRepository.
func NewJobseekerRepository(db *pgxpool.Pool, enc *crypto.Encryptor) *JobseekerRepository {
	return &JobseekerRepository{db: db, enc: enc}
}

// Exists reports whether a live jobseeker profile row exists.
func (r *JobseekerRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobseeker_profiles WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check jobseeker: %w", err)
	}
	return exists, nil
}

// GetProfile returns the jobseeker profile or nil if there is none.
func (r *JobseekerRepository) GetProfile(ctx context.Context, id string) (*domain.JobseekerProfile, error) {
	query := `
		SELECT id, headline, summary, skills, preferred_roles, years_experience, availability,
		       location, visibility, work_permit_status, salary_expectation_eur, moderation_status, updated_at
		FROM jobseeker_profiles WHERE id = $1 AND deleted_at IS NULL
	`
	var p domain.JobseekerProfile
	var visibility, moderation string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Headline, &p.Summary, &p.Skills, &p.PreferredRoles, &p.YearsExperience,
		&p.Availability, &p.Location, &visibility, &p.WorkPermitStatus, &p.SalaryExpectation,
		&moderation, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get jobseeker profile: %w", err)
	}
	p.Visibility = domain.Visibility(visibility)
	p.ModerationStatus = domain.ModerationStatus(moderation)
	return &p, nil
}

// GetContact returns the decrypted contact row or nil if there is none.
func (r *JobseekerRepository) GetContact(ctx context.Context, id string) (*domain.JobseekerContact, error) {
	query := `
		SELECT jobseeker_id, contact_email, phone, cv_storage_path, updated_at
		FROM jobseeker_contacts WHERE jobseeker_id = $1
	`
	var c domain.JobseekerContact
	var email string
	var phone *string
	err := r.db.QueryRow(ctx, query, id).Scan(&c.JobseekerID, &email, &phone, &c.CVStoragePath, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get jobseeker contact: %w", err)
	}

	c.ContactEmail, err = r.enc.DecryptString(email)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt contact email: %w", err)
	}
	c.Phone, err = r.enc.DecryptOptional(phone)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt phone: %w", err)
	}
	return &c, nil
}

// ListExperiences returns work history, most recent start first.
func (r *JobseekerRepository) ListExperiences(ctx context.Context, id string) ([]domain.WorkExperience, error) {
	query := `
		SELECT id, jobseeker_id, title, company, start_date, end_date, is_current, location, description
		FROM work_experiences WHERE jobseeker_id = $1 ORDER BY start_date DESC
	`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query experiences: %w", err)
	}
	defer rows.Close()

	experiences := []domain.WorkExperience{}
	for rows.Next() {
		var e domain.WorkExperience
		if err := rows.Scan(&e.ID, &e.JobseekerID, &e.Title, &e.Company, &e.StartDate,
			&e.EndDate, &e.IsCurrent, &e.Location, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		experiences = append(experiences, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate experiences: %w", err)
	}
	return experiences, nil
}

// Save writes the profile, the contact row, the account full name and the
// experience list in one transaction. New profiles start approved; an
// existing moderation status is left alone.
func (r *JobseekerRepository) Save(ctx context.Context, id string, req *domain.SaveProfileRequest, now time.Time) error {
	email, err := r.enc.EncryptString(req.ContactEmail)
	if err != nil {
		return fmt.Errorf("failed to encrypt contact email: %w", err)
	}
	phone, err := r.enc.EncryptOptional(nullable(req.Phone))
	if err != nil {
		return fmt.Errorf("failed to encrypt phone: %w", err)
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO jobseeker_profiles (id, headline, summary, skills, preferred_roles, years_experience,
				availability, location, visibility, work_permit_status, salary_expectation_eur,
				moderation_status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'approved', $12, $12)
			ON CONFLICT (id) DO UPDATE SET
				headline = EXCLUDED.headline,
				summary = EXCLUDED.summary,
				skills = EXCLUDED.skills,
				preferred_roles = EXCLUDED.preferred_roles,
				years_experience = EXCLUDED.years_experience,
				availability = EXCLUDED.availability,
				location = EXCLUDED.location,
				visibility = EXCLUDED.visibility,
				work_permit_status = EXCLUDED.work_permit_status,
				salary_expectation_eur = EXCLUDED.salary_expectation_eur,
				updated_at = EXCLUDED.updated_at`,
			id, req.Headline, nullable(req.Summary), req.Skills, req.PreferredRoles, req.YearsExperience,
			req.Availability, req.Location, string(req.Visibility), nullable(req.WorkPermitStatus),
			req.SalaryExpectation, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert jobseeker profile: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO jobseeker_contacts (jobseeker_id, contact_email, phone, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (jobseeker_id) DO UPDATE SET
				contact_email = EXCLUDED.contact_email,
				phone = EXCLUDED.phone,
				updated_at = EXCLUDED.updated_at`,
			id, email, phone, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert jobseeker contact: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE profiles SET full_name = $2 WHERE id = $1`, id, req.FullName); err != nil {
			return fmt.Errorf("failed to update full name: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM work_experiences WHERE jobseeker_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear experiences: %w", err)
		}
		for _, e := range req.Experiences {
			_, err := tx.Exec(ctx, `
				INSERT INTO work_experiences (id, jobseeker_id, title, company, start_date, end_date,
					is_current, location, description, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				domain.NewID(), id, e.Title, e.Company, e.StartDate, nullable(e.EndDate),
				e.IsCurrent, nullable(e.Location), nullable(e.Description), now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert experience: %w", err)
			}
		}
		return nil
	})
}

// SetCVPath records the storage key of an uploaded CV.
func (r *JobseekerRepository) SetCVPath(ctx context.Context, id, path string, now time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE jobseeker_contacts SET cv_storage_path = $2, updated_at = $3 WHERE jobseeker_id = $1`,
		id, path, now,
	)
	if err != nil {
		return fmt.Errorf("failed to set cv path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to set cv path: no contact row for %s", id)
	}
	return nil
}

// Search runs the employer directory query. Only visible, unsuspended,
// live profiles are returned, newest first.
func (r *JobseekerRepository) Search(ctx context.Context, f domain.DirectoryFilter) ([]domain.DirectoryEntry, error) {
	query, args := buildSearchQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobseekers: %w", err)
	}
	defer rows.Close()

	entries := []domain.DirectoryEntry{}
	for rows.Next() {
		var e domain.DirectoryEntry
		if err := rows.Scan(&e.ID, &e.FullName, &e.Headline, &e.Summary, &e.Skills, &e.PreferredRoles,
			&e.YearsExperience, &e.Availability, &e.WorkPermitStatus, &e.Location); err != nil {
			return nil, fmt.Errorf("failed to scan directory entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate directory: %w", err)
	}
	return entries, nil
}

func buildSearchQuery(f domain.DirectoryFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`
		SELECT j.id, p.full_name, j.headline, j.summary, j.skills, j.preferred_roles,
		       j.years_experience, j.availability, j.work_permit_status, j.location
		FROM jobseeker_profiles j
		JOIN profiles p ON p.id = j.id
		WHERE j.visibility IN ('public', 'employers_only')
		  AND j.moderation_status <> 'suspended'
		  AND j.deleted_at IS NULL
		  AND p.deleted_at IS NULL`)

	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if len(f.Skills) > 0 {
		b.WriteString(" AND j.skills @> " + arg(f.Skills))
	}
	if f.Role != "" {
		b.WriteString(" AND j.preferred_roles @> " + arg([]string{f.Role}))
	}
	if f.MinExperience != nil {
		b.WriteString(" AND j.years_experience >= " + arg(*f.MinExperience))
	}
	if f.MaxExperience != nil {
		b.WriteString(" AND j.years_experience <= " + arg(*f.MaxExperience))
	}
	if f.Availability != "" {
		b.WriteString(" AND j.availability ILIKE " + arg(containsPattern(f.Availability)))
	}
	if f.Location != "" {
		b.WriteString(" AND j.location ILIKE " + arg(containsPattern(f.Location)))
	}
	if f.WorkPermit != "" {
		b.WriteString(" AND j.work_permit_status ILIKE " + arg(containsPattern(f.WorkPermit)))
	}

	b.WriteString(" ORDER BY j.updated_at DESC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + arg(f.Limit))
	}
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
