package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an external collaborator: this service only checks existence
// and projects the distinct customers a merchant has invoiced.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"-"`
}
