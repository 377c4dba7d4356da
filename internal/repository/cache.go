package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrickmn/go-cache"
)

const planListKey = "plans:all"

// PlanRepository reads the subscription_plans catalog through an in-process
// cache. The catalog only changes with a migration, so entries simply expire.
type PlanRepository struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

// NewPlanRepository creates a new PlanRepository caching rows for ttl.
func NewPlanRepository(db *pgxpool.Pool, ttl time.Duration) *PlanRepository {
	return &PlanRepository{
		db:    db,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Get returns the plan for code, or nil when the catalog has no such row.
// Misses are not cached.
func (r *PlanRepository) Get(ctx context.Context, code domain.PlanCode) (*domain.SubscriptionPlan, error) {
	key := "plan:" + string(code)
	if v, found := r.cache.Get(key); found {
		plan := v.(domain.SubscriptionPlan)
		return &plan, nil
	}

	query := `
		SELECT plan_code, name, price_cents, currency, unlocks_included, popular
		FROM subscription_plans WHERE plan_code = $1
	`
	plan, err := scanPlan(r.db.QueryRow(ctx, query, string(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	r.cache.Set(key, plan, cache.DefaultExpiration)
	return &plan, nil
}

// List returns the catalog ordered by price.
func (r *PlanRepository) List(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	if v, found := r.cache.Get(planListKey); found {
		return v.([]domain.SubscriptionPlan), nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT plan_code, name, price_cents, currency, unlocks_included, popular
		FROM subscription_plans ORDER BY price_cents ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.SubscriptionPlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}
	r.cache.Set(planListKey, plans, cache.DefaultExpiration)
	return plans, nil
}

func scanPlan(row pgx.Row) (domain.SubscriptionPlan, error) {
	var p domain.SubscriptionPlan
	var code string
	err := row.Scan(&code, &p.Name, &p.PriceCents, &p.Currency, &p.UnlocksIncluded, &p.Popular)
	p.PlanCode = domain.PlanCode(code)
	return p, err
}
