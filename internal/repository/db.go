package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RunMigrations creates the schema and seeds the plan catalog. Every
// statement is idempotent.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS profiles (
			id         TEXT PRIMARY KEY,
			email      TEXT NOT NULL,
			full_name  TEXT NOT NULL DEFAULT '',
			role       TEXT NOT NULL CHECK (role IN ('jobseeker', 'employer', 'admin')),
			location   TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role) WHERE deleted_at IS NULL;

		CREATE TABLE IF NOT EXISTS jobseeker_profiles (
			id                     TEXT PRIMARY KEY REFERENCES profiles(id),
			headline               TEXT NOT NULL,
			summary                TEXT,
			skills                 TEXT[] NOT NULL DEFAULT '{}',
			preferred_roles        TEXT[] NOT NULL DEFAULT '{}',
			years_experience       INTEGER,
			availability           TEXT NOT NULL DEFAULT '',
			location               TEXT NOT NULL DEFAULT '',
			visibility             TEXT NOT NULL DEFAULT 'employers_only'
				CHECK (visibility IN ('public', 'employers_only', 'hidden')),
			work_permit_status     TEXT,
			salary_expectation_eur INTEGER,
			moderation_status      TEXT NOT NULL DEFAULT 'approved'
				CHECK (moderation_status IN ('approved', 'pending', 'suspended')),
			created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at             TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_jobseeker_profiles_updated ON jobseeker_profiles(updated_at DESC);
		CREATE INDEX IF NOT EXISTS idx_jobseeker_profiles_skills ON jobseeker_profiles USING GIN (skills);

		CREATE TABLE IF NOT EXISTS jobseeker_contacts (
			jobseeker_id    TEXT PRIMARY KEY REFERENCES jobseeker_profiles(id),
			contact_email   TEXT NOT NULL,
			phone           TEXT,
			cv_storage_path TEXT,
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS work_experiences (
			id           TEXT PRIMARY KEY,
			jobseeker_id TEXT NOT NULL REFERENCES jobseeker_profiles(id),
			title        TEXT NOT NULL,
			company      TEXT NOT NULL,
			start_date   TEXT NOT NULL,
			end_date     TEXT,
			is_current   BOOLEAN NOT NULL DEFAULT FALSE,
			location     TEXT,
			description  TEXT,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_work_experiences_jobseeker ON work_experiences(jobseeker_id);

		CREATE TABLE IF NOT EXISTS unlocked_contacts (
			id           TEXT PRIMARY KEY,
			employer_id  TEXT NOT NULL,
			jobseeker_id TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (employer_id, jobseeker_id)
		);
		CREATE INDEX IF NOT EXISTS idx_unlocked_contacts_window ON unlocked_contacts(employer_id, created_at);

		CREATE TABLE IF NOT EXISTS subscription_plans (
			plan_code        TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			price_cents      BIGINT NOT NULL,
			currency         TEXT NOT NULL DEFAULT 'eur',
			unlocks_included INTEGER,
			popular          BOOLEAN NOT NULL DEFAULT FALSE
		);

		CREATE TABLE IF NOT EXISTS employer_subscriptions (
			id                        TEXT PRIMARY KEY,
			employer_id               TEXT NOT NULL UNIQUE,
			plan_code                 TEXT NOT NULL REFERENCES subscription_plans(plan_code),
			status                    TEXT NOT NULL
				CHECK (status IN ('active', 'past_due', 'canceled', 'incomplete')),
			current_period_start      TIMESTAMPTZ,
			current_period_end        TIMESTAMPTZ,
			cancel_at                 TIMESTAMPTZ,
			canceled_at               TIMESTAMPTZ,
			processor_customer_id     TEXT,
			processor_subscription_id TEXT,
			created_at                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at                TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS payments (
			id                  TEXT PRIMARY KEY,
			user_id             TEXT NOT NULL,
			jobseeker_id        TEXT,
			amount_cents        BIGINT NOT NULL,
			currency            TEXT NOT NULL,
			payment_type        TEXT NOT NULL CHECK (payment_type IN ('unlock', 'subscription')),
			status              TEXT NOT NULL CHECK (status IN ('pending', 'succeeded')),
			checkout_session_id TEXT NOT NULL UNIQUE,
			payment_intent_id   TEXT,
			metadata            JSONB NOT NULL DEFAULT '{}',
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments(user_id);

		CREATE TABLE IF NOT EXISTS moderation_flags (
			id           TEXT PRIMARY KEY,
			subject_type TEXT NOT NULL,
			subject_id   TEXT NOT NULL,
			raised_by    TEXT NOT NULL,
			status       TEXT NOT NULL CHECK (status IN ('pending', 'approved', 'suspended')),
			reason       TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			resolved_at  TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_moderation_flags_subject ON moderation_flags(subject_type, subject_id);

		CREATE TABLE IF NOT EXISTS webhook_events (
			provider         TEXT NOT NULL,
			event_id         TEXT NOT NULL,
			event_type       TEXT NOT NULL,
			attempts         INTEGER NOT NULL DEFAULT 1,
			received_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			processed_at     TIMESTAMPTZ,
			processing_error TEXT,
			PRIMARY KEY (provider, event_id)
		);

		INSERT INTO subscription_plans (plan_code, name, price_cents, currency, unlocks_included, popular)
		VALUES
			('limited', 'Limited', 4900, 'eur', 10, FALSE),
			('unlimited', 'Unlimited', 14900, 'eur', NULL, TRUE)
		ON CONFLICT (plan_code) DO NOTHING;
	`
	_, err := pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
