// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Supported record store backends.
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendMemory    = "memory"
)

// StructuredConfig is the top-level configuration container for the
// go-case-keeper application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix - prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       - direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the attachment size limit
	// and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local snapshot cache.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds configuration for the hosted record store and the
	// identity provider.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for the live snapshot feeds.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// MaxFileSizeMB is the largest attachment accepted, in megabytes.
	// Env: APP_MAX_FILE_SIZE_MB
	MaxFileSizeMB int `env:"MAX_FILE_SIZE_MB"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the local persistence layer.
type Storage struct {
	// Cache holds the SQLite snapshot cache settings.
	Cache Cache `envPrefix:"CACHE_"`
}

// Cache holds connection settings for the local SQLite snapshot cache.
type Cache struct {
	// DSN is the SQLite file path or DSN (e.g. "cases.db").
	// Env: STORAGE_CACHE_DSN
	DSN string `env:"DSN"`
}

// Adapter holds configuration for the external collaborators.
type Adapter struct {
	// Backend selects the record store: "firestore", "mongo" or "memory".
	// Env: ADAPTER_BACKEND
	Backend string `env:"BACKEND"`

	// RequestTimeout bounds every outbound call to the record store and the
	// identity provider (e.g. "15s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Firebase holds project and credential settings shared by the
	// Firestore store and the identity provider.
	Firebase Firebase `envPrefix:"FIREBASE_"`

	// Mongo holds settings for the MongoDB record store.
	Mongo Mongo `envPrefix:"MONGO_"`
}

// Firebase holds Firebase project settings.
type Firebase struct {
	// ProjectID is the Google Cloud project hosting Firestore.
	// Env: ADAPTER_FIREBASE_PROJECT_ID
	ProjectID string `env:"PROJECT_ID"`

	// CredentialsFile is an optional service-account JSON file. When empty
	// the Application Default Credentials are used.
	// Env: ADAPTER_FIREBASE_CREDENTIALS_FILE
	CredentialsFile string `env:"CREDENTIALS_FILE"`

	// APIKey is the Web API key used by the Identity Toolkit REST API.
	// Env: ADAPTER_FIREBASE_API_KEY
	APIKey string `env:"API_KEY"`

	// AuthBaseURL is the Identity Toolkit endpoint root.
	// Env: ADAPTER_FIREBASE_AUTH_BASE_URL
	AuthBaseURL string `env:"AUTH_BASE_URL"`

	// VerifyTokens enables ID token verification through the Admin SDK
	// after every sign-in.
	// Env: ADAPTER_FIREBASE_VERIFY_TOKENS
	VerifyTokens bool `env:"VERIFY_TOKENS"`
}

// Mongo holds MongoDB connection settings.
type Mongo struct {
	// URI is the MongoDB connection string. Live subscriptions rely on change
	// streams, so the deployment must be a replica set.
	// Env: ADAPTER_MONGO_URI
	URI string `env:"URI"`

	// Database is the database holding the cases and hearing_dates
	// collections.
	// Env: ADAPTER_MONGO_DATABASE
	Database string `env:"DATABASE"`
}

// Workers holds configuration for the snapshot feed workers.
type Workers struct {
	// SnapshotBuffer is the capacity of each live subscription channel.
	// Env: WORKERS_SNAPSHOT_BUFFER
	SnapshotBuffer int `env:"SNAPSHOT_BUFFER"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (the first source that sets a field wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
