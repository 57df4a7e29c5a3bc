// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/utils"
	"github.com/MKhiriev/go-case-keeper/models"
)

// WriteInterceptor inspects every write before the memory store applies it.
// Returning an error rejects the write; inside a batch it rejects the whole
// batch.
type WriteInterceptor func(op models.WriteOp) error

// MemoryOption configures [NewMemoryRecordStore].
type MemoryOption func(*memoryRecordStore)

// WithWriteInterceptor installs fn in front of every write.
func WithWriteInterceptor(fn WriteInterceptor) MemoryOption {
	return func(s *memoryRecordStore) {
		s.intercept = fn
	}
}

// WithSnapshotBuffer sets the capacity of subscription channels.
func WithSnapshotBuffer(n int) MemoryOption {
	return func(s *memoryRecordStore) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// WithClock overrides the time source used for server timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *memoryRecordStore) {
		s.now = now
	}
}

type memorySubscription struct {
	query models.Query
	ch    chan models.Snapshot
}

type memoryRecordStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
	subs        map[*memorySubscription]struct{}

	ids       *utils.UUIDGenerator
	intercept WriteInterceptor
	buffer    int
	now       func() time.Time

	logger *logger.Logger
}

// NewMemoryRecordStore constructs an in-process [RecordStore]. Subscriptions
// always hold the latest snapshot: when a consumer lags, older undelivered
// snapshots are replaced.
func NewMemoryRecordStore(log *logger.Logger, opts ...MemoryOption) RecordStore {
	s := &memoryRecordStore{
		collections: make(map[string]map[string]map[string]any),
		subs:        make(map[*memorySubscription]struct{}),
		ids:         utils.NewUUIDGenerator(),
		buffer:      1,
		now:         time.Now,
		logger:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *memoryRecordStore) NewID(string) string {
	return s.ids.Generate()
}

func (s *memoryRecordStore) Get(ctx context.Context, collection, id string) (models.Record, error) {
	if err := ctx.Err(); err != nil {
		return models.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.collections[collection][id]
	if !ok {
		return models.Record{}, fmt.Errorf("%w: %s/%s", ErrRecordNotFound, collection, id)
	}
	return models.Record{ID: id, Fields: cloneFields(fields)}, nil
}

func (s *memoryRecordStore) Query(ctx context.Context, q models.Query) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.queryLocked(q), nil
}

func (s *memoryRecordStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := s.NewID(collection)
	batch := &models.Batch{}
	batch.Set(collection, id, fields)
	if err := s.commit(ctx, batch); err != nil {
		return "", err
	}
	return id, nil
}

func (s *memoryRecordStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	batch := &models.Batch{}
	batch.Update(collection, id, fields)
	return s.commit(ctx, batch)
}

func (s *memoryRecordStore) Delete(ctx context.Context, collection, id string) error {
	batch := &models.Batch{}
	batch.Delete(collection, id)
	return s.commit(ctx, batch)
}

func (s *memoryRecordStore) Commit(ctx context.Context, batch *models.Batch) error {
	if err := s.commit(ctx, batch); err != nil {
		return fmt.Errorf("%w: %w", ErrBatchFailed, err)
	}
	return nil
}

func (s *memoryRecordStore) commit(ctx context.Context, batch *models.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if batch == nil || batch.Len() == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// validate everything before the first write is applied
	pending := make(map[string]bool)
	for _, op := range batch.Ops {
		key := op.Collection + "/" + op.ID
		switch op.Kind {
		case models.WriteSet:
			pending[key] = true
		case models.WriteUpdate:
			_, stored := s.collections[op.Collection][op.ID]
			if exists, seen := pending[key]; (seen && !exists) || (!seen && !stored) {
				return fmt.Errorf("%w: %s", ErrRecordNotFound, key)
			}
		case models.WriteDelete:
			pending[key] = false
		default:
			return fmt.Errorf("unknown write kind %d", op.Kind)
		}

		if s.intercept != nil {
			if err := s.intercept(op); err != nil {
				s.logger.Err(err).Str("func", "memoryRecordStore.commit").Str("record", key).Msg("write rejected")
				return err
			}
		}
	}

	ts := serverTimestampAt(s.now())
	touched := make(map[string]struct{})
	for _, op := range batch.Ops {
		touched[op.Collection] = struct{}{}
		coll := s.collections[op.Collection]
		if coll == nil {
			coll = make(map[string]map[string]any)
			s.collections[op.Collection] = coll
		}

		switch op.Kind {
		case models.WriteSet:
			coll[op.ID] = resolveServerTimestamps(op.Fields, ts)
		case models.WriteUpdate:
			for k, v := range resolveServerTimestamps(op.Fields, ts) {
				coll[op.ID][k] = v
			}
		case models.WriteDelete:
			delete(coll, op.ID)
		}
	}

	for sub := range s.subs {
		if _, ok := touched[sub.query.Collection]; ok {
			s.deliverLocked(sub)
		}
	}

	return nil
}

func (s *memoryRecordStore) Subscribe(ctx context.Context, q models.Query) <-chan models.Snapshot {
	sub := &memorySubscription{query: q, ch: make(chan models.Snapshot, s.buffer)}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.deliverLocked(sub)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, sub)
		close(sub.ch)
		s.mu.Unlock()
	}()

	return sub.ch
}

func (s *memoryRecordStore) Close() error {
	return nil
}

// deliverLocked pushes the current result set of sub, replacing a stale
// undelivered snapshot if the consumer lags behind.
func (s *memoryRecordStore) deliverLocked(sub *memorySubscription) {
	snap := models.Snapshot{Records: s.queryLocked(sub.query)}
	for {
		select {
		case sub.ch <- snap:
			return
		default:
		}
		select {
		case <-sub.ch:
		default:
		}
	}
}

func (s *memoryRecordStore) queryLocked(q models.Query) []models.Record {
	coll := s.collections[q.Collection]
	records := make([]models.Record, 0, len(coll))
	for id, fields := range coll {
		rec := models.Record{ID: id, Fields: fields}
		if q.Matches(rec) {
			records = append(records, models.Record{ID: id, Fields: cloneFields(fields)})
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
	return records
}
