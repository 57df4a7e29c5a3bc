// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-case-keeper/models"
)

// cloneValue deep-copies the container types a record field may hold so that
// callers never share mutable state with the store.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneFields(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneFields(item)
		}
		return out
	default:
		return v
	}
}

func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

// resolveServerTimestamps replaces every top-level [models.ServerTimestampValue]
// with ts.
func resolveServerTimestamps(fields map[string]any, ts models.ServerTimestamp) map[string]any {
	out := cloneFields(fields)
	for k, v := range out {
		if models.IsServerTimestamp(v) {
			out[k] = ts
		}
	}
	return out
}

func serverTimestampAt(t time.Time) models.ServerTimestamp {
	return models.ServerTimestamp{Seconds: t.Unix(), Nanoseconds: int32(t.Nanosecond())}
}

// sendSnapshot blocks until snap is delivered or ctx is done.
func sendSnapshot(ctx context.Context, ch chan<- models.Snapshot, snap models.Snapshot) bool {
	select {
	case ch <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
