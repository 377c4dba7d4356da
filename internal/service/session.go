package service

import (
	"context"
	"fmt"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/logger"
	"github.com/golang-jwt/jwt/v5"
)

// identityClaims are the claims the identity provider puts in its access token.
type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionResolver turns a session token into a Session.
type SessionResolver struct {
	jwtSecret []byte
	profiles  ProfileRepository
}

// NewSessionResolver creates a new SessionResolver.
func NewSessionResolver(jwtSecret string, profiles ProfileRepository) *SessionResolver {
	return &SessionResolver{jwtSecret: []byte(jwtSecret), profiles: profiles}
}

// Resolve never fails. A missing or invalid token yields the zero Session; a
// profile lookup error is logged and leaves Profile nil.
func (s *SessionResolver) Resolve(ctx context.Context, token string) domain.Session {
	if token == "" {
		return domain.Session{}
	}

	claims, err := s.verify(token)
	if err != nil {
		logger.FromContext(ctx).Debug("session token rejected", "error", err)
		return domain.Session{}
	}

	session := domain.Session{IdentityID: claims.Subject, Email: claims.Email}

	profile, err := s.profiles.FindActiveByID(ctx, claims.Subject)
	if err != nil {
		logger.FromContext(ctx).Error("profile lookup failed", "identity_id", claims.Subject, "error", err)
		return session
	}
	if profile != nil && !profile.Role.Valid() {
		logger.FromContext(ctx).Warn("profile has unknown role", "identity_id", claims.Subject, "role", profile.Role)
	}
	session.Profile = profile
	return session
}

func (s *SessionResolver) verify(tokenStr string) (*identityClaims, error) {
	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
