package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WebhookEventRepository is the processor delivery ledger.
type WebhookEventRepository struct {
	db *pgxpool.Pool
}

// NewWebhookEventRepository creates a new WebhookEventRepository.
func NewWebhookEventRepository(db *pgxpool.Pool) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// Record registers a delivery. Redeliveries bump the attempt counter.
func (r *WebhookEventRepository) Record(ctx context.Context, evt *domain.WebhookEvent) (bool, error) {
	query := `
		INSERT INTO webhook_events (provider, event_id, event_type, attempts, received_at)
		VALUES ($1, $2, $3, 1, NOW())
		ON CONFLICT (provider, event_id) DO UPDATE SET attempts = webhook_events.attempts + 1
		RETURNING processed_at IS NOT NULL
	`
	var processed bool
	if err := r.db.QueryRow(ctx, query, evt.Provider, evt.EventID, evt.EventType).Scan(&processed); err != nil {
		return false, fmt.Errorf("failed to record webhook event: %w", err)
	}
	return processed, nil
}

func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, provider, eventID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE webhook_events SET processed_at = $3, processing_error = NULL
		WHERE provider = $1 AND event_id = $2`,
		provider, eventID, at,
	)
	if err != nil {
		return fmt.Errorf("failed to mark webhook event processed: %w", err)
	}
	return nil
}

func (r *WebhookEventRepository) MarkFailed(ctx context.Context, provider, eventID, reason string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE webhook_events SET processing_error = $3
		WHERE provider = $1 AND event_id = $2`,
		provider, eventID, reason,
	)
	if err != nil {
		return fmt.Errorf("failed to mark webhook event failed: %w", err)
	}
	return nil
}
