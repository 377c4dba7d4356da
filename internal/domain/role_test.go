package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleHomeIsExhaustive(t *testing.T) {
	assert.Len(t, roleHome, len(Roles))
	for _, r := range Roles {
		assert.True(t, r.Valid(), r)
		assert.NotEqual(t, LoginPath, r.Home(), r)
	}
	assert.Equal(t, LoginPath, Role("recruiter").Home())
	assert.False(t, Role("").Valid())
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("employer")
	assert.True(t, ok)
	assert.Equal(t, RoleEmployer, r)

	_, ok = ParseRole("Employer")
	assert.False(t, ok)
}

func TestCanPurchase(t *testing.T) {
	assert.True(t, RoleEmployer.CanPurchase())
	assert.True(t, RoleAdmin.CanPurchase())
	assert.False(t, RoleJobseeker.CanPurchase())
	assert.False(t, Role("").CanPurchase())
}

func TestSession(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	s := Session{IdentityID: "u"}
	assert.True(t, s.Authenticated())
	assert.Equal(t, Role(""), s.Role())
	s.Profile = &Profile{Role: RoleAdmin}
	assert.Equal(t, RoleAdmin, s.Role())
}
