// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Built-in defaults applied when no other source sets a field.
const (
	DefaultMaxFileSizeMB  = 50
	DefaultCacheDSN       = "cases.db"
	DefaultRequestTimeout = 15 * time.Second
	DefaultAuthBaseURL    = "https://identitytoolkit.googleapis.com/v1"
	DefaultSnapshotBuffer = 1
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			MaxFileSizeMB: DefaultMaxFileSizeMB,
			Version:       "dev",
		},
		Storage: Storage{
			Cache: Cache{DSN: DefaultCacheDSN},
		},
		Adapter: Adapter{
			Backend:        BackendFirestore,
			RequestTimeout: DefaultRequestTimeout,
			Firebase: Firebase{
				AuthBaseURL: DefaultAuthBaseURL,
			},
		},
		Workers: Workers{SnapshotBuffer: DefaultSnapshotBuffer},
	}
}
