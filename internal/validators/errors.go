// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidClientName = errors.New("client name is required")
	ErrInvalidCaseNumber = errors.New("case number is required")
	ErrInvalidCourtName  = errors.New("court name is required")
	ErrInvalidStatus     = errors.New("status must be Active or Closed")
	ErrInvalidHearing    = errors.New("hearing date must be a YYYY-MM-DD date")
	ErrInvalidFile       = errors.New("file must have an id and a name")
	ErrInvalidEmail      = errors.New("a valid email is required")
	ErrInvalidPassword   = errors.New("password must be at least 6 characters")
	ErrInvalidInput      = errors.New("invalid input")
)
