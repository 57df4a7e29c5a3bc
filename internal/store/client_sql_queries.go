// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const snapshotsTable = "snapshots"

// sqlite uses ? placeholders
var sqliteBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildLoadSnapshotQuery(key string) (string, []any, error) {
	return sqliteBuilder.
		Select("payload").
		From(snapshotsTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}

func buildSaveSnapshotQuery(key, payload string, at time.Time) (string, []any, error) {
	return sqliteBuilder.
		Insert(snapshotsTable).
		Columns("key", "payload", "updated_at").
		Values(key, payload, at).
		Suffix("ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
}
