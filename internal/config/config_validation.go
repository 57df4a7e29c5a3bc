// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
)

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants that hold regardless of the runtime that consumes it.
func (cfg *StructuredConfig) validate() error {
	var errs error

	if cfg.App.MaxFileSizeMB < 0 {
		errs = errors.Join(errs, fmt.Errorf("%w: negative max file size", ErrInvalidAppConfigs))
	}
	if cfg.Adapter.RequestTimeout < 0 {
		errs = errors.Join(errs, fmt.Errorf("%w: negative request timeout", ErrInvalidAdapterConfigs))
	}
	if cfg.Workers.SnapshotBuffer < 0 {
		errs = errors.Join(errs, fmt.Errorf("%w: negative snapshot buffer", ErrInvalidWorkerConfigs))
	}

	return errs
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.Cache.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.MaxFileSizeBytes <= 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	switch cfg.Adapter.Backend {
	case BackendMemory:
	case BackendFirestore:
		if cfg.Adapter.Firebase.ProjectID == "" || cfg.Adapter.Firebase.APIKey == "" {
			return fmt.Errorf("%w: firestore backend needs project id and api key", ErrInvalidAdapterConfigs)
		}
	case BackendMongo:
		if cfg.Adapter.Mongo.URI == "" || cfg.Adapter.Mongo.Database == "" {
			return fmt.Errorf("%w: mongo backend needs uri and database", ErrInvalidAdapterConfigs)
		}
		if cfg.Adapter.Firebase.APIKey == "" {
			return fmt.Errorf("%w: mongo backend signs in through firebase and needs an api key", ErrInvalidAdapterConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidAdapterConfigs, cfg.Adapter.Backend)
	}

	if cfg.Adapter.Firebase.VerifyTokens && cfg.Adapter.Firebase.ProjectID == "" {
		return fmt.Errorf("%w: token verification needs a project id", ErrInvalidAdapterConfigs)
	}

	if cfg.Workers.SnapshotBuffer <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
