// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// MaxFileSizeBytes is the attachment limit in bytes.
	MaxFileSizeBytes int64
	// Version is the application version shown in the build info view.
	Version string
}

// ClientFirebase holds Firebase settings used by the Firestore store and
// the identity provider.
type ClientFirebase struct {
	ProjectID       string
	CredentialsFile string
	APIKey          string
	AuthBaseURL     string
	VerifyTokens    bool
}

// ClientMongo holds MongoDB settings.
type ClientMongo struct {
	URI      string
	Database string
}

// ClientAdapter holds settings used by the client adapter layer.
type ClientAdapter struct {
	// Backend is the selected record store kind.
	Backend string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// Firebase holds Firebase project settings.
	Firebase ClientFirebase
	// Mongo holds MongoDB settings.
	Mongo ClientMongo
}

// ClientCache contains local cache connection settings.
type ClientCache struct {
	// DSN is the SQLite connection string.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// Cache holds local snapshot cache settings.
	Cache ClientCache
}

// ClientWorkers contains feed worker settings.
type ClientWorkers struct {
	// SnapshotBuffer is the capacity of each live subscription channel.
	SnapshotBuffer int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains record store and identity provider settings.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Workers contains feed worker settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			MaxFileSizeBytes: int64(cfg.App.MaxFileSizeMB) << 20,
			Version:          cfg.App.Version,
		},
		Adapter: ClientAdapter{
			Backend:        cfg.Adapter.Backend,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Firebase: ClientFirebase{
				ProjectID:       cfg.Adapter.Firebase.ProjectID,
				CredentialsFile: cfg.Adapter.Firebase.CredentialsFile,
				APIKey:          cfg.Adapter.Firebase.APIKey,
				AuthBaseURL:     cfg.Adapter.Firebase.AuthBaseURL,
				VerifyTokens:    cfg.Adapter.Firebase.VerifyTokens,
			},
			Mongo: ClientMongo{
				URI:      cfg.Adapter.Mongo.URI,
				Database: cfg.Adapter.Mongo.Database,
			},
		},
		Storage: ClientStorage{
			Cache: ClientCache{DSN: cfg.Storage.Cache.DSN},
		},
		Workers: ClientWorkers{SnapshotBuffer: cfg.Workers.SnapshotBuffer},
	}
}
