package entity

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies how a credential was established.
type Provider string

const (
	// ProviderEmail is an email + password credential.
	ProviderEmail Provider = "EMAIL"
	// ProviderPhone is a phone + password credential.
	ProviderPhone Provider = "PHONE"
	// ProviderGoogle is a federated Google credential.
	ProviderGoogle Provider = "GOOGLE"
	// ProviderFacebook is a federated Facebook credential.
	ProviderFacebook Provider = "FACEBOOK"
)

// String returns the string representation of the Provider.
func (p Provider) String() string {
	return string(p)
}

// LoginMethod represents a single way of logging in (a credential).
// A user's email/password is one record; a linked phone number is another.
// The (Provider, ProviderUserID) pair is globally unique.
type LoginMethod struct {
	ID             uuid.UUID // The unique ID for this specific credential record.
	UserID         uuid.UUID // Links this credential to the User it belongs to.
	Provider       Provider  // The credential kind: EMAIL, PHONE or a federated provider.
	ProviderUserID string    // The normalized email, E.164 phone, or federated subject id.
	Email          string    // Mirror of the email identifier, when Provider is EMAIL.
	Phone          string    // Mirror of the phone identifier, when Provider is PHONE.
	PasswordHash   string    // bcrypt digest; empty for federated credentials.
	CreatedAt      time.Time
}
