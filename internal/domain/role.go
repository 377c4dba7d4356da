package domain

import "time"

// Role is the closed set of account roles. The zero value is "no role".
type Role string

const (
	RoleJobseeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role. Adding a role means extending this slice and
// the home table below; TestRoleHomeIsExhaustive fails otherwise.
var Roles = []Role{RoleJobseeker, RoleEmployer, RoleAdmin}

var roleHome = map[Role]string{
	RoleJobseeker: "/jobseeker",
	RoleEmployer:  "/employer",
	RoleAdmin:     "/admin",
}

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/auth/login"

// ParseRole converts a stored role string. Unknown values return ok=false.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleHome[r]
	return r, ok
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleHome[r]
	return ok
}

// Home returns the role's landing page, or the login page for an unknown role.
func (r Role) Home() string {
	if home, ok := roleHome[r]; ok {
		return home
	}
	return LoginPath
}

// CanPurchase reports whether the role may buy unlocks or subscriptions.
func (r Role) CanPurchase() bool {
	return r == RoleEmployer || r == RoleAdmin
}

// Profile is the account row keyed by the identity provider's user id.
type Profile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"-"`
}

// Session is the resolved identity of an inbound request. A zero Session is
// unauthenticated; an authenticated identity without a live profile row has
// IdentityID set and Profile nil.
type Session struct {
	IdentityID string
	Email      string
	Profile    *Profile
}

// Authenticated reports whether the request carried a valid credential.
func (s Session) Authenticated() bool {
	return s.IdentityID != ""
}

// Role returns the profile role, or "" when no profile is attached.
func (s Session) Role() Role {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}
