// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/models"
)

// SnapshotFeed hands every snapshot of a live subscription to a handler.
// It stops when the subscription channel is closed or ctx is done.
type SnapshotFeed struct {
	name   string
	source <-chan models.Snapshot
	handle func(models.Snapshot)
	logger *logger.Logger
}

// NewSnapshotFeed returns a [Worker] draining source into handle.
func NewSnapshotFeed(name string, source <-chan models.Snapshot, handle func(models.Snapshot), log *logger.Logger) *SnapshotFeed {
	return &SnapshotFeed{
		name:   name,
		source: source,
		handle: handle,
		logger: log,
	}
}

func (f *SnapshotFeed) Run(ctx context.Context) error {
	f.logger.Debug().Str("func", "SnapshotFeed.Run").Str("feed", f.name).Msg("feed started")
	defer f.logger.Debug().Str("func", "SnapshotFeed.Run").Str("feed", f.name).Msg("feed stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-f.source:
			if !ok {
				return nil
			}
			f.handle(snap)
		}
	}
}
