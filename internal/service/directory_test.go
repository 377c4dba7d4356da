package service

import (
	"context"
	"testing"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExperienceBand(t *testing.T) {
	intp := func(n int) *int { return &n }
	tests := []struct {
		band     string
		min, max *int
		ok       bool
	}{
		{"0-2", intp(0), intp(2), true},
		{"6-10", intp(6), intp(10), true},
		{"10+", intp(10), nil, true},
		{"5-3", nil, nil, false},
		{"lots", nil, nil, false},
		{"-1+", nil, nil, false},
	}
	for _, tt := range tests {
		min, max, ok := ParseExperienceBand(tt.band)
		assert.Equal(t, tt.ok, ok, tt.band)
		assert.Equal(t, tt.min, min, tt.band)
		assert.Equal(t, tt.max, max, tt.band)
	}
}

func TestDirectoryQuery_Filter(t *testing.T) {
	f, err := DirectoryQuery{Skills: "Go, postgres,,go", Role: " Backend ", Experience: "3-5", Location: "Sliema"}.filter()
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "postgres"}, f.Skills)
	assert.Equal(t, "Backend", f.Role)
	assert.Equal(t, 3, *f.MinExperience)
	assert.Equal(t, 5, *f.MaxExperience)
	assert.Equal(t, DirectoryLimit, f.Limit)

	_, err = DirectoryQuery{Experience: "forever"}.filter()
	assert.True(t, domain.IsKind(err, domain.KindBadRequest))
}

func TestDirectorySearch(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.addJobseeker("a")
	store.addJobseeker("b")
	store.jobseekers["b"].Visibility = domain.VisibilityHidden
	svc := NewDirectoryService(store, unlockRepo{store}, store)
	ctx := context.Background()

	got, err := svc.Search(ctx, session("emp", domain.RoleEmployer), DirectoryQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	_, err = svc.Search(ctx, session("js", domain.RoleJobseeker), DirectoryQuery{})
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	got, err = svc.Search(ctx, session("adm", domain.RoleAdmin), DirectoryQuery{Location: "nowhere"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEmployerDashboard(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	svc := NewDirectoryService(store, unlockRepo{store}, store)
	emp := session("emp", domain.RoleEmployer)

	d, err := svc.EmployerDashboard(context.Background(), emp)
	require.NoError(t, err)
	assert.Nil(t, d.Subscription)
	assert.Equal(t, []string{}, d.UnlockedIDs)

	store.subs["emp"] = activeSub("emp", domain.PlanLimited, testNow)
	store.unlocks[[2]string{"emp", "js-2"}] = testNow
	store.unlocks[[2]string{"emp", "js-1"}] = testNow
	store.unlocks[[2]string{"other", "js-3"}] = testNow

	d, err = svc.EmployerDashboard(context.Background(), emp)
	require.NoError(t, err)
	require.NotNil(t, d.Subscription)
	assert.Equal(t, domain.PlanLimited, d.Subscription.PlanCode)
	assert.Equal(t, []string{"js-1", "js-2"}, d.UnlockedIDs)
}

func TestAdminDashboard(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.addJobseeker("js")
	store.profiles["emp"] = &domain.Profile{ID: "emp", Role: domain.RoleEmployer}
	store.subs["emp"] = activeSub("emp", domain.PlanUnlimited, testNow)
	store.unlocks[[2]string{"emp", "js"}] = testNow
	svc := NewAdminService(store)
	svc.now = store.now

	d, err := svc.Dashboard(context.Background(), session("adm", domain.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, domain.AdminStats{CVs: 1, Employers: 1, Unlocks: 1, ActiveSubscriptions: 1}, d.Stats)
	assert.Len(t, d.Profiles, 1)

	_, err = svc.Dashboard(context.Background(), session("emp", domain.RoleEmployer))
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
}

func TestSubscriptionService(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	svc := NewSubscriptionService(store, planRepo{store})
	ctx := context.Background()

	plans, err := svc.Plans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, domain.PlanLimited, plans[0].PlanCode)

	sub, err := svc.GetCurrentSubscription(ctx, session("emp", domain.RoleEmployer))
	require.NoError(t, err)
	assert.Nil(t, sub)

	_, err = svc.GetCurrentSubscription(ctx, domain.Session{})
	assert.True(t, domain.IsKind(err, domain.KindUnauthenticated))
}
