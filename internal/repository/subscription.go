package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Latest returns the employer's subscription row regardless of status.
func (r *SubscriptionRepository) Latest(ctx context.Context, employerID string) (*domain.EmployerSubscription, error) {
	query := `
		SELECT id, employer_id, plan_code, status, current_period_start, current_period_end,
		       cancel_at, canceled_at, processor_customer_id, processor_subscription_id, created_at, updated_at
		FROM employer_subscriptions WHERE employer_id = $1 ORDER BY updated_at DESC LIMIT 1
	`
	var sub domain.EmployerSubscription
	var plan, status string
	err := r.db.QueryRow(ctx, query, employerID).Scan(
		&sub.ID, &sub.EmployerID, &plan, &status,
		&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.CancelAt, &sub.CanceledAt,
		&sub.ProcessorCustomerID, &sub.ProcessorSubscriptionID, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No subscription
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	sub.PlanCode = domain.PlanCode(plan)
	sub.Status = domain.SubscriptionStatus(status)
	return &sub, nil
}

func (r *SubscriptionRepository) UpsertFromCheckout(ctx context.Context, sub *domain.EmployerSubscription) error {
	query := `
		INSERT INTO employer_subscriptions (id, employer_id, plan_code, status,
			processor_customer_id, processor_subscription_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employer_id) DO UPDATE SET
			plan_code = EXCLUDED.plan_code,
			status = EXCLUDED.status,
			processor_customer_id = COALESCE(EXCLUDED.processor_customer_id, employer_subscriptions.processor_customer_id),
			processor_subscription_id = COALESCE(EXCLUDED.processor_subscription_id, employer_subscriptions.processor_subscription_id),
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		sub.ID, sub.EmployerID, string(sub.PlanCode), string(sub.Status),
		sub.ProcessorCustomerID, sub.ProcessorSubscriptionID, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription from checkout: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) UpsertFromLifecycle(ctx context.Context, sub *domain.EmployerSubscription) error {
	query := `
		INSERT INTO employer_subscriptions (id, employer_id, plan_code, status, current_period_start,
			current_period_end, cancel_at, canceled_at, processor_customer_id, processor_subscription_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (employer_id) DO UPDATE SET
			plan_code = EXCLUDED.plan_code,
			status = EXCLUDED.status,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			cancel_at = EXCLUDED.cancel_at,
			canceled_at = EXCLUDED.canceled_at,
			processor_customer_id = EXCLUDED.processor_customer_id,
			processor_subscription_id = EXCLUDED.processor_subscription_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		sub.ID, sub.EmployerID, string(sub.PlanCode), string(sub.Status),
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.CancelAt, sub.CanceledAt,
		sub.ProcessorCustomerID, sub.ProcessorSubscriptionID, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription from lifecycle: %w", err)
	}
	return nil
}
