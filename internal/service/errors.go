// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrCaseNotFound    = errors.New("case not found")
	ErrHearingNotFound = errors.New("hearing date not found")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrStoreWrite      = errors.New("store write failed")
	ErrStoreRead       = errors.New("store read failed")
	ErrInvalidInput    = errors.New("invalid input")
	ErrAuthFailed      = errors.New("authentication failed")
	ErrCacheDecoding   = errors.New("cached snapshot is corrupted")
)
