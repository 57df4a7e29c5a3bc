// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// SnapshotRepository persists the last full record snapshot of a
// subscription under a string key, so the view can be painted before the
// live data arrives.
type SnapshotRepository interface {
	// LoadSnapshot returns the payload stored under key, or
	// [ErrSnapshotNotFound] when nothing was saved yet.
	LoadSnapshot(ctx context.Context, key string) (string, error)
	// SaveSnapshot replaces the payload stored under key.
	SaveSnapshot(ctx context.Context, key, payload string) error
}
