// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-case-keeper/internal/config"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
)

func TestCreateLocalDBFileIfNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.db")

	require.NoError(t, createLocalDBFileIfNotExists(path))
	_, err := os.Stat(path)
	assert.NoError(t, err)

	// second call keeps the existing file
	require.NoError(t, createLocalDBFileIfNotExists(path))
}

func TestCreateLocalDBFileIfNotExists_InMemory(t *testing.T) {
	assert.NoError(t, createLocalDBFileIfNotExists(":memory:"))
}

func TestNewClientStorages_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := config.ClientStorage{Cache: config.ClientCache{DSN: filepath.Join(t.TempDir(), "cases.db")}}

	storages, err := NewClientStorages(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer storages.Close()

	_, err = storages.SnapshotRepository.LoadSnapshot(ctx, "cases_u1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, storages.SnapshotRepository.SaveSnapshot(ctx, "cases_u1", "first"))
	require.NoError(t, storages.SnapshotRepository.SaveSnapshot(ctx, "cases_u1", "second"))

	payload, err := storages.SnapshotRepository.LoadSnapshot(ctx, "cases_u1")
	require.NoError(t, err)
	assert.Equal(t, "second", payload)
}

func TestCreateLocalDBFileIfNotExists_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "nested", "cases.db")

	require.NoError(t, createLocalDBFileIfNotExists(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestNewConnectSQLite_InMemorySharesConnection(t *testing.T) {
	ctx := context.Background()

	db, err := NewConnectSQLite(ctx, config.ClientCache{DSN: memoryDSN}, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate(ctx))
	_, err = db.ExecContext(ctx, `INSERT INTO snapshots (key, payload) VALUES ('hearings_u1', '[]')`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n))
	assert.Equal(t, 1, n)
}
