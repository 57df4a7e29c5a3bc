// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-case-keeper/internal/adapter"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/mock"
	"github.com/MKhiriev/go-case-keeper/internal/store"
	"github.com/MKhiriev/go-case-keeper/models"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

// liveFeeds stubs the two subscriptions of the sync job with channels the
// test drives.
type liveFeeds struct {
	cases    chan models.Snapshot
	hearings chan models.Snapshot
}

func expectSubscriptions(records *mock.MockRecordStore, userID string) *liveFeeds {
	feeds := &liveFeeds{
		cases:    make(chan models.Snapshot),
		hearings: make(chan models.Snapshot),
	}
	var casesOut, hearingsOut <-chan models.Snapshot = feeds.cases, feeds.hearings

	records.EXPECT().Subscribe(gomock.Any(), userQuery(models.CollectionCases, userID)).Return(casesOut)
	records.EXPECT().Subscribe(gomock.Any(), userQuery(models.CollectionHearings, userID)).Return(hearingsOut)
	return feeds
}

func signedInSession(cache store.SnapshotRepository) *Session {
	s := NewSession(cache)
	s.setIdentity(models.Identity{ID: "u1"})
	return s
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func bookIDs(b *CaseBook) []string {
	ids := []string{}
	for _, c := range b.Cases() {
		ids = append(ids, c.ID)
	}
	return ids
}

// ── cache ──

func TestSyncJob_PaintsCacheThenLive(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	cache := mock.NewMockSnapshotRepository(ctrl)
	book := newTestBook()
	job := NewClientSyncJob(records, book, logger.Nop())
	s := signedInSession(cache)

	cached := []models.Record{caseRecord("cached", map[string]any{"client_name": "Acme"})}
	cache.EXPECT().LoadSnapshot(gomock.Any(), "cases_u1").Return(mustJSON(t, cached), nil)
	cache.EXPECT().LoadSnapshot(gomock.Any(), "hearings_u1").Return("[]", nil)

	live := []models.Record{caseRecord("live", map[string]any{"client_name": "Globex"})}
	cache.EXPECT().SaveSnapshot(gomock.Any(), "cases_u1", mustJSON(t, live)).Return(nil)

	feeds := expectSubscriptions(records, "u1")

	job.Start(context.Background(), s)
	defer job.Stop()

	assert.Equal(t, []string{"cached"}, bookIDs(book), "cache is painted before any live data")
	assert.False(t, book.IsLoading())

	feeds.cases <- models.Snapshot{Records: live}
	require.Eventually(t, func() bool {
		ids := bookIDs(book)
		return len(ids) == 1 && ids[0] == "live"
	}, waitFor, tick)
}

func TestSyncJob_PartialCacheIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	cache := mock.NewMockSnapshotRepository(ctrl)
	book := newTestBook()
	job := NewClientSyncJob(records, book, logger.Nop())
	s := signedInSession(cache)

	cached := []models.Record{caseRecord("cached", nil)}
	cache.EXPECT().LoadSnapshot(gomock.Any(), "cases_u1").Return(mustJSON(t, cached), nil)
	cache.EXPECT().LoadSnapshot(gomock.Any(), "hearings_u1").Return("", store.ErrSnapshotNotFound)
	cache.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	feeds := expectSubscriptions(records, "u1")

	job.Start(context.Background(), s)
	defer job.Stop()

	assert.Empty(t, book.Cases())
	assert.True(t, book.IsLoading())

	feeds.hearings <- models.Snapshot{Records: []models.Record{}}
	feeds.cases <- models.Snapshot{Records: []models.Record{}}
	require.Eventually(t, func() bool { return !book.IsLoading() }, waitFor, tick)
}

func TestSyncJob_CorruptedCacheStartsLoading(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	cache := mock.NewMockSnapshotRepository(ctrl)
	book := newTestBook()
	job := NewClientSyncJob(records, book, logger.Nop())
	s := signedInSession(cache)

	cache.EXPECT().LoadSnapshot(gomock.Any(), gomock.Any()).Return("{oops", nil).Times(2)
	expectSubscriptions(records, "u1")

	job.Start(context.Background(), s)
	defer job.Stop()

	assert.True(t, book.IsLoading())
	assert.Empty(t, s.Err())
}

// ── subscription errors ──

func TestSyncJob_SubscriptionErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	book := newTestBook()
	job := NewClientSyncJob(records, book, logger.Nop())
	s := signedInSession(nil)

	feeds := expectSubscriptions(records, "u1")

	job.Start(context.Background(), s)
	defer job.Stop()
	require.True(t, book.IsLoading())

	feeds.cases <- models.Snapshot{Err: adapter.ErrPermissionDenied}
	require.Eventually(t, func() bool { return !book.IsLoading() }, waitFor, tick)
	assert.Equal(t, "Failed to load cases: Missing or insufficient permissions", s.Err())

	feeds.hearings <- models.Snapshot{Err: adapter.ErrStoreUnavailable}
	require.Eventually(t, func() bool {
		return s.Err() == "Failed to load hearing dates: The database is unreachable, check your connection"
	}, waitFor, tick)
}

// ── lifecycle ──

func TestSyncJob_SignedOutResetsBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	book := newTestBook()
	book.paint([]models.Record{caseRecord("c1", nil)}, nil)
	job := NewClientSyncJob(records, book, logger.Nop())

	job.Start(context.Background(), NewSession(nil))

	assert.Empty(t, book.Cases())
	assert.False(t, book.IsLoading())
}

func TestSyncJob_StopWhenIdle(t *testing.T) {
	job := NewClientSyncJob(mock.NewMockRecordStore(gomock.NewController(t)), newTestBook(), logger.Nop())

	job.Stop()
	job.Stop()
}

func TestSyncJob_StopEndsSubscriptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	job := NewClientSyncJob(records, newTestBook(), logger.Nop())

	var subCtx []context.Context
	records.EXPECT().Subscribe(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ models.Query) <-chan models.Snapshot {
		subCtx = append(subCtx, ctx)
		return make(chan models.Snapshot)
	}).Times(2)

	job.Start(context.Background(), signedInSession(nil))
	job.Stop()

	require.Len(t, subCtx, 2)
	for _, ctx := range subCtx {
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	}
}

func TestSyncJob_ConcurrentStartsLeaveOneJob(t *testing.T) {
	const starts = 8

	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	job := NewClientSyncJob(records, newTestBook(), logger.Nop())

	var (
		mu     sync.Mutex
		subCtx []context.Context
	)
	records.EXPECT().Subscribe(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ models.Query) <-chan models.Snapshot {
		mu.Lock()
		subCtx = append(subCtx, ctx)
		mu.Unlock()
		return make(chan models.Snapshot)
	}).Times(2 * starts)

	var wg sync.WaitGroup
	for range starts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job.Start(context.Background(), signedInSession(nil))
		}()
	}
	wg.Wait()

	live := 0
	mu.Lock()
	for _, ctx := range subCtx {
		if ctx.Err() == nil {
			live++
		}
	}
	mu.Unlock()
	assert.Equal(t, 2, live, "only the last job keeps its subscriptions")

	job.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, subCtx, 2*starts)
	for _, ctx := range subCtx {
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	}
}

// ── end to end over the memory store ──

func TestSyncJob_FollowsMemoryStore(t *testing.T) {
	ctx := context.Background()
	records := adapter.NewMemoryRecordStore(logger.Nop())
	book := newTestBook()
	job := NewClientSyncJob(records, book, logger.Nop())
	s := signedInSession(nil)

	caseID, err := records.Create(ctx, models.CollectionCases, map[string]any{
		models.FieldUserID: "u1", models.FieldClientName: "Acme",
	})
	require.NoError(t, err)
	_, err = records.Create(ctx, models.CollectionCases, map[string]any{
		models.FieldUserID: "u2", models.FieldClientName: "Not mine",
	})
	require.NoError(t, err)

	job.Start(ctx, s)

	require.Eventually(t, func() bool {
		c, ok := book.Find(caseID)
		return ok && len(book.Cases()) == 1 && c.ClientName == "Acme"
	}, waitFor, tick)

	_, err = records.Create(ctx, models.CollectionHearings, map[string]any{
		models.FieldUserID: "u1", models.FieldCaseID: caseID, models.FieldDate: "2026-03-12",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		c, _ := book.Find(caseID)
		return len(c.HearingDates) == 1
	}, waitFor, tick)

	job.Stop()

	_, err = records.Create(ctx, models.CollectionCases, map[string]any{
		models.FieldUserID: "u1", models.FieldClientName: "After stop",
	})
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, book.Cases(), 1, "no updates after Stop")
}
