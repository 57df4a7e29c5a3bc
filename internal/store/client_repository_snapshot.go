// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-case-keeper/internal/logger"
)

type snapshotRepository struct {
	*DB
	now    func() time.Time
	logger *logger.Logger
}

// NewSnapshotRepository returns a [SnapshotRepository] over the local SQLite
// database.
func NewSnapshotRepository(db *DB, logger *logger.Logger) SnapshotRepository {
	return &snapshotRepository{
		DB:     db,
		now:    time.Now,
		logger: logger,
	}
}

func (r *snapshotRepository) LoadSnapshot(ctx context.Context, key string) (string, error) {
	query, args, err := buildLoadSnapshotQuery(key)
	if err != nil {
		r.logger.Err(err).Str("func", "snapshotRepository.LoadSnapshot").Str("key", key).Msg("failed to build query")
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var payload string
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSnapshotNotFound
	}
	if err != nil {
		r.logger.Err(err).Str("func", "snapshotRepository.LoadSnapshot").Str("key", key).Msg("failed to read snapshot")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return payload, nil
}

func (r *snapshotRepository) SaveSnapshot(ctx context.Context, key, payload string) error {
	query, args, err := buildSaveSnapshotQuery(key, payload, r.now().UTC())
	if err != nil {
		r.logger.Err(err).Str("func", "snapshotRepository.SaveSnapshot").Str("key", key).Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "snapshotRepository.SaveSnapshot").Str("key", key).Msg("failed to save snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
