package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModeration(store *memStore) *ModerationService {
	svc := NewModerationService(store, store)
	svc.now = store.now
	return svc
}

func TestModerate_Actions(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.addJobseeker("js")
	svc := newModeration(store)
	admin := session("adm", domain.RoleAdmin)
	ctx := context.Background()

	res, err := svc.Moderate(ctx, admin, "js", "flag")
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationPending, res.ModerationStatus)
	assert.Nil(t, res.Visibility)
	require.Len(t, store.flags, 1)
	assert.Equal(t, domain.ModerationPending, store.flags[0].Status)
	assert.Equal(t, "adm", store.flags[0].RaisedBy)

	res, err = svc.Moderate(ctx, admin, "js", "unflag")
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationApproved, res.ModerationStatus)
	assert.Equal(t, domain.ModerationApproved, store.flags[0].Status)
	assert.Equal(t, testNow, *store.flags[0].ResolvedAt)

	res, err = svc.Moderate(ctx, admin, "js", "hide")
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationSuspended, res.ModerationStatus)
	assert.Equal(t, domain.VisibilityHidden, *res.Visibility)
	assert.Equal(t, domain.VisibilityHidden, store.jobseekers["js"].Visibility)
	require.Len(t, store.flags, 2)
	assert.Equal(t, domain.ModerationSuspended, store.flags[1].Status)

	res, err = svc.Moderate(ctx, admin, "js", "unhide")
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationApproved, res.ModerationStatus)
	assert.Equal(t, domain.VisibilityPublic, *res.Visibility)
	assert.Equal(t, domain.ModerationApproved, store.jobseekers["js"].ModerationStatus)
	for _, f := range store.flags {
		assert.Equal(t, domain.ModerationApproved, f.Status)
	}
}

func TestModerate_Rejections(t *testing.T) {
	store := newMemStore(fixedClock(testNow))
	store.addJobseeker("js")
	svc := newModeration(store)
	ctx := context.Background()

	_, err := svc.Moderate(ctx, domain.Session{}, "js", "flag")
	assert.True(t, domain.IsKind(err, domain.KindUnauthenticated))

	_, err = svc.Moderate(ctx, session("emp", domain.RoleEmployer), "js", "flag")
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	_, err = svc.Moderate(ctx, session("adm", domain.RoleAdmin), "js", "delete")
	assert.True(t, domain.IsKind(err, domain.KindBadRequest))

	_, err = svc.Moderate(ctx, session("adm", domain.RoleAdmin), "nobody", "hide")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	store.fail["Apply"] = errors.New("tx aborted")
	_, err = svc.Moderate(ctx, session("adm", domain.RoleAdmin), "js", "hide")
	assert.True(t, domain.IsKind(err, domain.KindInternal))
	assert.Equal(t, domain.VisibilityPublic, store.jobseekers["js"].Visibility)
}
