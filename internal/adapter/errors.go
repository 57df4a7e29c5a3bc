// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	// ErrRecordNotFound indicates that the addressed record does not exist.
	ErrRecordNotFound = errors.New("record not found")
	// ErrBatchFailed indicates that an atomic batch was rejected and no write
	// was applied.
	ErrBatchFailed = errors.New("batch commit failed")
	// ErrSubscriptionFailed indicates that a live subscription stopped with
	// an error.
	ErrSubscriptionFailed = errors.New("subscription failed")
	// ErrStoreUnavailable indicates a transport or availability failure of
	// the record store.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrPermissionDenied indicates that the store rejected the request for
	// the signed-in user.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidCredentials indicates a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailExists indicates that sign-up was attempted for a taken email.
	ErrEmailExists = errors.New("email already in use")
	// ErrWeakPassword indicates that the provider rejected the password.
	ErrWeakPassword = errors.New("password is too weak")
	// ErrTooManyAttempts indicates that the provider throttled sign-in.
	ErrTooManyAttempts = errors.New("too many attempts, try again later")
	// ErrUserDisabled indicates that the account has been disabled.
	ErrUserDisabled = errors.New("user account is disabled")
	// ErrInvalidToken indicates that an ID token failed verification.
	ErrInvalidToken = errors.New("invalid id token")
	// ErrIdentityUnavailable indicates a transport failure of the identity
	// provider.
	ErrIdentityUnavailable = errors.New("identity provider unavailable")
)
