// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks case and hearing input before it reaches the
// record store. Failures are reported as the sentinels in errors.go so the
// service layer can turn them into user-facing messages.
package validators

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/validator_mock.go -package=mock

// Validator checks an input value. When fields are given only those struct
// fields are checked, which is how partial updates are validated.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
