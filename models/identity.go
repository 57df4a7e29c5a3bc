// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Identity is the signed-in user as reported by the identity provider.
type Identity struct {
	// ID is the stable provider-issued user identifier. It is written as
	// user_id on every record the user owns.
	ID    string `json:"id"`
	Email string `json:"email"`

	// IDToken is the provider session token. It is never persisted.
	IDToken string `json:"-"`
}

// Credentials are the email/password pair submitted by the auth forms.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResult is what every auth operation returns to the view layer.
type AuthResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
