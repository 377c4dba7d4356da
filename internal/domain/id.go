package domain

import "github.com/google/uuid"

// NewID generates a new row id.
func NewID() string {
	return uuid.New().String()
}
