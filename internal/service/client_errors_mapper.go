// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/go-case-keeper/internal/adapter"
	"github.com/MKhiriev/go-case-keeper/internal/validators"
)

// userMessage translates an adapter or validation error into the text shown
// to the user.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	// identity
	case errors.Is(err, adapter.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, adapter.ErrEmailExists):
		return "An account with this email already exists"
	case errors.Is(err, adapter.ErrWeakPassword), errors.Is(err, validators.ErrInvalidPassword):
		return "Password should be at least 6 characters"
	case errors.Is(err, adapter.ErrTooManyAttempts):
		return "Too many attempts, please try again later"
	case errors.Is(err, adapter.ErrUserDisabled):
		return "This account has been disabled"
	case errors.Is(err, adapter.ErrInvalidToken):
		return "Provider sign-in was rejected"
	case errors.Is(err, adapter.ErrIdentityUnavailable):
		return "Authentication service is unavailable"
	case errors.Is(err, validators.ErrInvalidEmail):
		return "Please enter a valid email address"

	// records
	case errors.Is(err, adapter.ErrPermissionDenied):
		return "Missing or insufficient permissions"
	case errors.Is(err, adapter.ErrStoreUnavailable):
		return "The database is unreachable, check your connection"
	case errors.Is(err, adapter.ErrRecordNotFound), errors.Is(err, ErrCaseNotFound):
		return "Case not found"
	case errors.Is(err, ErrHearingNotFound):
		return "Hearing date not found"

	// validation
	case errors.Is(err, validators.ErrInvalidClientName):
		return "Client name is required"
	case errors.Is(err, validators.ErrInvalidCaseNumber):
		return "Case number is required"
	case errors.Is(err, validators.ErrInvalidCourtName):
		return "Court name is required"
	case errors.Is(err, validators.ErrInvalidStatus):
		return "Status must be Active or Closed"
	case errors.Is(err, validators.ErrInvalidHearing):
		return "Hearing date must be in YYYY-MM-DD format"
	case errors.Is(err, validators.ErrInvalidFile):
		return "File must have a name"
	}

	return err.Error()
}
