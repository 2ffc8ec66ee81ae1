package domain

import "time"

// User is the single canonical identity a person has in the system,
// regardless of which strategy created it.
//
// PasswordHash is set only for accounts created through local signup.
// Provider-only accounts carry a nil PasswordHash, which is how the
// resolver tells "wrong password" apart from "no local credential at all".
type User struct {
	ID           string            `json:"id" db:"id"`
	Email        *string           `json:"email" db:"email"`
	PasswordHash *string           `json:"-" db:"password_hash"`
	FullName     *string           `json:"fullname" db:"fullname"`
	FirstName    *string           `json:"firstname" db:"firstname"`
	LastName     *string           `json:"lastname" db:"lastname"`
	ImageURL     *string           `json:"image_url" db:"image_url"`
	Online       bool              `json:"online" db:"online"`
	ProviderIDs  map[string]string `json:"-"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// HasLocalCredential reports whether the account can authenticate with
// email and password.
func (u *User) HasLocalCredential() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// ExternalProfile is the normalized identity data a provider's token
// exchange yields. ExternalID is the provider's stable subject identifier.
type ExternalProfile struct {
	ExternalID string  `json:"external_id"`
	FullName   string  `json:"fullname"`
	FirstName  string  `json:"firstname"`
	LastName   string  `json:"lastname"`
	Email      *string `json:"email"`
	ImageURL   *string `json:"image_url"`
}
