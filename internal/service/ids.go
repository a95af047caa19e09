package service

import "github.com/google/uuid"

// idLength is the number of hex characters kept from a random UUID.
const idLength = 8

// NewID returns a short random task id.
func NewID() string {
	return uuid.NewString()[:idLength]
}
