// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-case-keeper/models"
)

// CaseBook holds the raw case and hearing snapshots of the signed-in user and
// the joined view derived from them. The view is recomputed on every update.
// CaseBook is safe for concurrent use.
type CaseBook struct {
	mu       sync.RWMutex
	cases    []models.Record
	hearings []models.Record
	view     []models.Case
	loading  bool

	watchers map[chan struct{}]struct{}
	now      func() time.Time
}

// NewCaseBook returns an empty, idle book. now supplies the fallback creation
// time of records without one; nil means [time.Now].
func NewCaseBook(now func() time.Time) *CaseBook {
	if now == nil {
		now = time.Now
	}
	return &CaseBook{
		view:     []models.Case{},
		watchers: make(map[chan struct{}]struct{}),
		now:      now,
	}
}

// Cases returns the current view.
func (b *CaseBook) Cases() []models.Case {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return slices.Clone(b.view)
}

// Find returns the case with id.
func (b *CaseBook) Find(id string) (models.Case, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, c := range b.view {
		if c.ID == id {
			return c, true
		}
	}
	return models.Case{}, false
}

// IsLoading reports whether the book is waiting for its first data: neither
// a cached snapshot was painted nor a live case snapshot has arrived.
func (b *CaseBook) IsLoading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.loading
}

// Watch returns a channel that receives a value after every change. Changes
// are coalesced; a slow watcher only sees that something changed. The
// returned func stops the watch.
func (b *CaseBook) Watch() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.watchers[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.watchers, ch)
		b.mu.Unlock()
	}
}

// begin clears the book for a user without cached data.
func (b *CaseBook) begin() {
	b.update(func() {
		b.cases, b.hearings = nil, nil
		b.loading = true
	})
}

// paint shows cached snapshots.
func (b *CaseBook) paint(cases, hearings []models.Record) {
	b.update(func() {
		b.cases, b.hearings = cases, hearings
		b.loading = false
	})
}

func (b *CaseBook) setCases(cases []models.Record) {
	b.update(func() {
		b.cases = cases
		b.loading = false
	})
}

func (b *CaseBook) setHearings(hearings []models.Record) {
	b.update(func() {
		b.hearings = hearings
	})
}

// failed ends loading after a subscription error; the last view is kept.
func (b *CaseBook) failed() {
	b.update(func() {
		b.loading = false
	})
}

// reset empties the book for a signed-out session.
func (b *CaseBook) reset() {
	b.update(func() {
		b.cases, b.hearings = nil, nil
		b.loading = false
	})
}

func (b *CaseBook) update(fn func()) {
	b.mu.Lock()
	fn()
	b.view = JoinCases(b.cases, b.hearings, b.now())
	for ch := range b.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	b.mu.Unlock()
}
