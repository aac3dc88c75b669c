package service

import (
	"hotel-backoffice/internal/models"

	"github.com/google/uuid"
)

func newID() uuid.UUID {
	return uuid.New()
}

// roleAllowed is the second half of the authenticate-then-authorize gate:
// a fixed allow-list per operation, checked against the resolved role.
func roleAllowed(role models.Role, allowed ...models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
