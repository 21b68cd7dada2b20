// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity record. A user may own several login methods
// (email, phone, federated) that all resolve to the same row.
type User struct {
	ID           uuid.UUID     // The unique identifier for the user.
	Email        string        // Optional primary email, stored lower-cased; unique when present.
	Phone        string        // Optional phone in E.164 form; unique when present.
	FullName     string        // The user's display name.
	Role         Role          // The user's role (admin or user).
	IsActive     bool          // Inactive users cannot authenticate.
	LoginMethods []LoginMethod // The credentials linked to this user.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LoginMethodByIdentifier returns the login method whose provider identifier
// matches the given normalized identifier, or nil when none matches.
func (u *User) LoginMethodByIdentifier(identifier string) *LoginMethod {
	for i := range u.LoginMethods {
		if u.LoginMethods[i].ProviderUserID == identifier {
			return &u.LoginMethods[i]
		}
	}

	return nil
}
