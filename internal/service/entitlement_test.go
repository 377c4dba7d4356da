package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newEntitlement(store *memStore) *EntitlementService {
	svc := NewEntitlementService(unlockRepo{store}, store, planRepo{store}, store)
	svc.now = store.now
	return svc
}

func activeSub(employerID string, plan domain.PlanCode, now time.Time) *domain.EmployerSubscription {
	start, end := now.AddDate(0, 0, -10), now.AddDate(0, 0, 20)
	return &domain.EmployerSubscription{
		ID:                 "sub-" + employerID,
		EmployerID:         employerID,
		PlanCode:           plan,
		Status:             domain.SubscriptionActive,
		CurrentPeriodStart: &start,
		CurrentPeriodEnd:   &end,
	}
}

func TestCanUnlock_IdempotentGrant(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.subs["emp"] = activeSub("emp", domain.PlanUnlimited, testNow)
	svc := newEntitlement(store)
	ctx := context.Background()

	first, err := svc.CanUnlock(ctx, "emp", domain.RoleEmployer, "js")
	require.NoError(t, err)
	assert.True(t, first.Granted)
	assert.False(t, first.AlreadyUnlocked)

	second, err := svc.CanUnlock(ctx, "emp", domain.RoleEmployer, "js")
	require.NoError(t, err)
	assert.True(t, second.Granted)
	assert.True(t, second.AlreadyUnlocked)
	assert.Equal(t, 1, store.unlockCount())
}

func TestCanUnlock_AdminAlwaysGranted(t *testing.T) {
	subs := map[string]*domain.EmployerSubscription{
		"none":     nil,
		"canceled": {EmployerID: "adm", PlanCode: domain.PlanLimited, Status: domain.SubscriptionCanceled},
		"past_due": {EmployerID: "adm", PlanCode: domain.PlanUnlimited, Status: domain.SubscriptionPastDue},
	}
	for name, sub := range subs {
		t.Run(name, func(t *testing.T) {
			store := newMemStore(fixedClock(testNow))
			if sub != nil {
				store.subs["adm"] = sub
			}
			d, err := newEntitlement(store).CanUnlock(context.Background(), "adm", domain.RoleAdmin, "js")
			require.NoError(t, err)
			assert.True(t, d.Granted)
			assert.Equal(t, 1, store.unlockCount())
		})
	}
}

func TestCanUnlock_NoActiveSubscription(t *testing.T) {
	expired := testNow.Add(-time.Hour)
	cases := map[string]*domain.EmployerSubscription{
		"no row":     nil,
		"past_due":   {EmployerID: "emp", PlanCode: domain.PlanUnlimited, Status: domain.SubscriptionPastDue},
		"incomplete": {EmployerID: "emp", PlanCode: domain.PlanUnlimited, Status: domain.SubscriptionIncomplete},
		"expired":    {EmployerID: "emp", PlanCode: domain.PlanUnlimited, Status: domain.SubscriptionActive, CurrentPeriodEnd: &expired},
	}
	for name, sub := range cases {
		t.Run(name, func(t *testing.T) {
			store := newMemStore(fixedClock(testNow))
			if sub != nil {
				store.subs["emp"] = sub
			}
			d, err := newEntitlement(store).CanUnlock(context.Background(), "emp", domain.RoleEmployer, "js")
			require.NoError(t, err)
			assert.False(t, d.Granted)
			assert.Equal(t, domain.DenyNoActiveSubscription, d.Reason)
			assert.Zero(t, store.unlockCount())
		})
	}
}

func TestCanUnlock_UnlimitedIgnoresCount(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.subs["emp"] = activeSub("emp", domain.PlanUnlimited, testNow)
	svc := newEntitlement(store)

	for i := 0; i < 25; i++ {
		d, err := svc.CanUnlock(context.Background(), "emp", domain.RoleEmployer, fmt.Sprintf("js-%d", i))
		require.NoError(t, err)
		assert.True(t, d.Granted)
	}
	assert.Equal(t, 25, store.unlockCount())
}

func TestCanUnlock_LimitedQuota(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.subs["emp"] = activeSub("emp", domain.PlanLimited, testNow)
	three := 3
	store.plans[domain.PlanLimited].UnlocksIncluded = &three
	svc := newEntitlement(store)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := svc.CanUnlock(ctx, "emp", domain.RoleEmployer, fmt.Sprintf("js-%d", i))
		require.NoError(t, err)
		assert.True(t, d.Granted, "unlock %d", i)
	}

	d, err := svc.CanUnlock(ctx, "emp", domain.RoleEmployer, "js-4")
	require.NoError(t, err)
	assert.False(t, d.Granted)
	assert.Equal(t, domain.DenyLimitReached, d.Reason)

	// Already unlocked pairs stay visible after the quota is used up.
	d, err = svc.CanUnlock(ctx, "emp", domain.RoleEmployer, "js-2")
	require.NoError(t, err)
	assert.True(t, d.AlreadyUnlocked)
}

func TestCanUnlock_LimitedCountsOnlyCurrentPeriod(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.subs["emp"] = activeSub("emp", domain.PlanLimited, testNow)
	one := 1
	store.plans[domain.PlanLimited].UnlocksIncluded = &one
	store.unlocks[[2]string{"emp", "old"}] = testNow.AddDate(0, -2, 0)

	d, err := newEntitlement(store).CanUnlock(context.Background(), "emp", domain.RoleEmployer, "new")
	require.NoError(t, err)
	assert.True(t, d.Granted)
}

func TestCanUnlock_LimitedMissingBoundsUsesLastMonth(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.subs["emp"] = &domain.EmployerSubscription{EmployerID: "emp", PlanCode: domain.PlanLimited, Status: domain.SubscriptionActive}
	one := 1
	store.plans[domain.PlanLimited].UnlocksIncluded = &one
	store.unlocks[[2]string{"emp", "recent"}] = testNow.AddDate(0, 0, -5)

	d, err := newEntitlement(store).CanUnlock(context.Background(), "emp", domain.RoleEmployer, "new")
	require.NoError(t, err)
	assert.Equal(t, domain.DenyLimitReached, d.Reason)
}

func TestCanUnlock_LimitedPlanMisconfigured(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.subs["emp"] = activeSub("emp", domain.PlanLimited, testNow)
	delete(store.plans, domain.PlanLimited)

	_, err := newEntitlement(store).CanUnlock(context.Background(), "emp", domain.RoleEmployer, "js")
	assert.True(t, domain.IsKind(err, domain.KindNotConfigured))

	store.plans[domain.PlanLimited] = &domain.SubscriptionPlan{PlanCode: domain.PlanLimited}
	d, err := newEntitlement(store).CanUnlock(context.Background(), "emp", domain.RoleEmployer, "js")
	require.NoError(t, err)
	assert.Equal(t, domain.DenyLimitReached, d.Reason)
}

func TestCanUnlock_LookupErrorsNeverGrant(t *testing.T) {
	for _, method := range []string{"UnlockExists", "Latest", "PlanGet", "UnlockCreate"} {
		t.Run(method, func(t *testing.T) {
			store := newMemStore(fixedClock(testNow))
			store.subs["emp"] = activeSub("emp", domain.PlanLimited, testNow)
			store.fail[method] = errors.New("db down")

			d, err := newEntitlement(store).CanUnlock(context.Background(), "emp", domain.RoleEmployer, "js")
			assert.Nil(t, d)
			assert.True(t, domain.IsKind(err, domain.KindInternal))
		})
	}
}

func TestUnlock_Authorization(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.addJobseeker("js")
	svc := newEntitlement(store)
	ctx := context.Background()

	_, err := svc.Unlock(ctx, domain.Session{}, "js")
	assert.True(t, domain.IsKind(err, domain.KindUnauthenticated))

	_, err = svc.Unlock(ctx, session("js-2", domain.RoleJobseeker), "js")
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	_, err = svc.Unlock(ctx, session("emp", domain.RoleEmployer), "")
	assert.True(t, domain.IsKind(err, domain.KindBadRequest))

	_, err = svc.Unlock(ctx, session("emp", domain.RoleEmployer), "missing")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	d, err := svc.Unlock(ctx, session("emp", domain.RoleEmployer), "js")
	require.NoError(t, err)
	assert.Equal(t, domain.DenyNoActiveSubscription, d.Reason)
}

// Quota counting and the insert are not isolated: concurrent unlocks on a
// limited plan can overgrant, but never by more than the number of racers
// and never twice for the same pair.
func TestCanUnlock_ConcurrentSamePairSingleRow(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.subs["emp"] = activeSub("emp", domain.PlanUnlimited, testNow)
	svc := newEntitlement(store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := svc.CanUnlock(context.Background(), "emp", domain.RoleEmployer, "js")
			assert.NoError(t, err)
			assert.True(t, d.Granted)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, store.unlockCount())
}
