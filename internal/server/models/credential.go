// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
)

// Credential is a stored login identity.
type Credential struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// IsAdmin reports whether the credential carries the privileged role.
func (c *Credential) IsAdmin() bool {
	return c.Role == common.RoleAdmin
}
