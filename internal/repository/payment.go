package repository

import (
	"context"
	"fmt"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRepository handles the checkout ledger.
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreatePending records a checkout before the payer is redirected.
func (r *PaymentRepository) CreatePending(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (id, user_id, jobseeker_id, amount_cents, currency, payment_type, status,
			checkout_session_id, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	_, err := r.db.Exec(ctx, query,
		p.ID, p.UserID, p.JobseekerID, p.AmountCents, p.Currency, string(p.PaymentType),
		string(p.Status), p.CheckoutSessionID, metadata, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// MarkSucceeded settles the pending row for a checkout session. Settling an
// already-succeeded row rewrites the same values.
func (r *PaymentRepository) MarkSucceeded(ctx context.Context, s domain.PaymentSettlement) (bool, error) {
	query := `
		UPDATE payments SET
			status = 'succeeded',
			amount_cents = $2,
			currency = $3,
			payment_intent_id = COALESCE($4, payment_intent_id),
			updated_at = NOW()
		WHERE checkout_session_id = $1
	`
	tag, err := r.db.Exec(ctx, query, s.CheckoutSessionID, s.AmountCents, s.Currency, s.PaymentIntentID)
	if err != nil {
		return false, fmt.Errorf("failed to settle payment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
