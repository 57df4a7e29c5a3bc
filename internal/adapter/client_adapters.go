// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-case-keeper/internal/config"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
)

// ClientAdapters groups the external collaborators selected by configuration.
type ClientAdapters struct {
	// RecordStore is the hosted document database.
	RecordStore RecordStore
	// IdentityProvider signs users in and out.
	IdentityProvider IdentityProvider
}

// NewClientAdapters builds the record store and identity provider for
// cfg.Backend:
//   - "firestore": Firestore store, Firebase identity;
//   - "mongo": MongoDB store, Firebase identity;
//   - "memory": in-process store and identity, for local development.
func NewClientAdapters(ctx context.Context, cfg config.ClientAdapter, workersCfg config.ClientWorkers, log *logger.Logger) (*ClientAdapters, error) {
	log.Info().Str("backend", cfg.Backend).Msg("creating new adapters...")

	if cfg.Backend == config.BackendMemory {
		return &ClientAdapters{
			RecordStore:      NewMemoryRecordStore(log, WithSnapshotBuffer(workersCfg.SnapshotBuffer)),
			IdentityProvider: NewMemoryIdentityProvider(log),
		}, nil
	}

	var (
		recordStore RecordStore
		err         error
	)
	switch cfg.Backend {
	case config.BackendFirestore:
		recordStore, err = NewFirestoreRecordStore(ctx, cfg, workersCfg.SnapshotBuffer, log)
	case config.BackendMongo:
		recordStore, err = NewMongoRecordStore(ctx, cfg, workersCfg.SnapshotBuffer, log)
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("record store: %w", err)
	}

	identityProvider, err := NewFirebaseIdentityProvider(ctx, cfg, log)
	if err != nil {
		_ = recordStore.Close()
		return nil, fmt.Errorf("identity provider: %w", err)
	}

	return &ClientAdapters{
		RecordStore:      recordStore,
		IdentityProvider: identityProvider,
	}, nil
}

// Close releases the record store connection.
func (a *ClientAdapters) Close() error {
	return a.RecordStore.Close()
}
