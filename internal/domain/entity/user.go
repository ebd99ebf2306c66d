// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is the sole entity in the system: one registered account.
// The identifier is assigned by the store on creation and is immutable
// afterwards. PasswordHash holds the bcrypt digest of the credential;
// the plaintext password is never stored.
type User struct {
	ID           uint   // Store-assigned identifier, immutable after creation.
	FirstName    string // Required given name.
	LastName     string // Required family name.
	Email        string // Login identifier, globally unique, matched exactly.
	PasswordHash string // One-way salted hash of the password. Never echoed to callers.

	// Optional profile fields collected by the signup form.
	Phone          string
	ClinicName     string
	Specialization string

	CreatedAt time.Time // Timestamp of when this account was created.
}
