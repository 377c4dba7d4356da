package service

import (
	"net/url"
	"strings"

	"github.com/Gbun420/TalentVault-app/internal/config"
	"github.com/Gbun420/TalentVault-app/internal/domain"
)

// Outcome is the kind of access decision.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
	Forbid
)

// Decision is the result of a page access check. Location is set for Redirect.
type Decision struct {
	Outcome  Outcome
	Location string
}

type protectedPrefix struct {
	prefix string
	role   domain.Role
}

// Ordered so that the first match wins.
var protectedPrefixes = []protectedPrefix{
	{prefix: "/admin", role: domain.RoleAdmin},
	{prefix: "/employer", role: domain.RoleEmployer},
	{prefix: "/jobseeker", role: domain.RoleJobseeker},
}

// RouteGuard decides page access from the path and the resolved session.
type RouteGuard struct {
	policy config.GuardPolicy
}

// NewRouteGuard creates a guard with an explicit admin policy.
func NewRouteGuard(policy config.GuardPolicy) *RouteGuard {
	return &RouteGuard{policy: policy}
}

// RequiredRoles returns the roles that may open path, or nil when path is
// not protected.
func (g *RouteGuard) RequiredRoles(path string) []domain.Role {
	for _, p := range protectedPrefixes {
		if path == p.prefix || strings.HasPrefix(path, p.prefix+"/") {
			if g.policy == config.GuardSuperuser && p.role != domain.RoleAdmin {
				return []domain.Role{p.role, domain.RoleAdmin}
			}
			return []domain.Role{p.role}
		}
	}
	return nil
}

// CheckAccess decides whether session may open path.
func (g *RouteGuard) CheckAccess(path string, session domain.Session) Decision {
	required := g.RequiredRoles(path)
	if required == nil {
		return Decision{Outcome: Allow}
	}
	return g.Require(path, session, required)
}

// Require decides access to path for an explicit role set. A caller already
// on the home page it would be sent to is forbidden instead of redirected.
func (g *RouteGuard) Require(path string, session domain.Session, allowed []domain.Role) Decision {
	if !session.Authenticated() {
		return Decision{Outcome: Redirect, Location: LoginURL(path)}
	}

	role := session.Role()
	for _, r := range allowed {
		if r == role {
			return Decision{Outcome: Allow}
		}
	}

	home := role.Home()
	if home == domain.LoginPath {
		home = LoginURL(path)
	}
	if home == path {
		return Decision{Outcome: Forbid}
	}
	return Decision{Outcome: Redirect, Location: home}
}

// LoginURL is the login page carrying the original path.
func LoginURL(redirectTo string) string {
	return domain.LoginPath + "?redirectTo=" + url.QueryEscape(redirectTo)
}
