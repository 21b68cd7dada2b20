// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for one-way digests of secrets. It is
// used for passwords and for refresh tokens, which are persisted only as
// digests.
type PasswordHasher interface {
	// Hash generates a salted digest from a plaintext secret.
	Hash(plaintext string) (string, error)

	// Check compares a plaintext secret with a digest in constant time.
	Check(plaintext, digest string) bool
}
