// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-case-keeper/internal/store"
	"github.com/MKhiriev/go-case-keeper/models"
)

const (
	casesCachePrefix    = "cases_"
	hearingsCachePrefix = "hearings_"
)

// CasesCacheKey is the cache key of the case snapshot of userID.
func CasesCacheKey(userID string) string {
	return casesCachePrefix + userID
}

// HearingsCacheKey is the cache key of the hearing snapshot of userID.
func HearingsCacheKey(userID string) string {
	return hearingsCachePrefix + userID
}

// Session is the explicit per-user context of every operation: the signed-in
// identity, the last human-readable error and the local snapshot cache.
// A Session is safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	identity *models.Identity
	lastErr  string

	cache store.SnapshotRepository
}

// NewSession returns a signed-out session. cache may be nil, in which case
// nothing is cached.
func NewSession(cache store.SnapshotRepository) *Session {
	return &Session{cache: cache}
}

// UserID returns the id of the signed-in user, or "" when signed out.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return ""
	}
	return s.identity.ID
}

// Identity returns the signed-in identity.
func (s *Session) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

func (s *Session) setIdentity(identity models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = &identity
	s.lastErr = ""
}

func (s *Session) clearIdentity() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.lastErr = ""
}

// Err returns the last recorded error message, or "".
func (s *Session) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastErr
}

// SetError records msg in the error slot.
func (s *Session) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = msg
}

// ClearError empties the error slot.
func (s *Session) ClearError() {
	s.SetError("")
}

// loadSnapshot returns the cached records under key. ok is false when
// nothing usable is cached.
func (s *Session) loadSnapshot(ctx context.Context, key string) ([]models.Record, bool, error) {
	if s.cache == nil {
		return nil, false, nil
	}

	payload, err := s.cache.LoadSnapshot(ctx, key)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var records []models.Record
	if err = json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrCacheDecoding, err)
	}
	return records, true, nil
}

// saveSnapshot overwrites the cached records under key.
func (s *Session) saveSnapshot(ctx context.Context, key string, records []models.Record) error {
	if s.cache == nil {
		return nil
	}

	if records == nil {
		records = []models.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.cache.SaveSnapshot(ctx, key, string(payload))
}
