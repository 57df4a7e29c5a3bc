// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-case-keeper/internal/adapter"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/workers"
	"github.com/MKhiriev/go-case-keeper/models"
)

const (
	msgLoadCases    = "Failed to load cases"
	msgLoadHearings = "Failed to load hearing dates"
)

type clientSyncJob struct {
	records adapter.RecordStore
	book    *CaseBook
	logger  *logger.Logger

	// mu serializes Start and Stop and guards the running job.
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewClientSyncJob creates a clientSyncJob feeding book from records. The job
// is idle until Start is called.
func NewClientSyncJob(records adapter.RecordStore, book *CaseBook, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{records: records, book: book, logger: logger}
}

// Start implements ClientSyncJob. It stops any previously running job, paints
// the cached snapshots of the session user and then launches one feed worker
// per live subscription. The feeds exit when ctx is cancelled or Stop is
// called.
func (j *clientSyncJob) Start(ctx context.Context, s *Session) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopLocked()

	userID := s.UserID()
	if userID == "" {
		j.book.reset()
		return
	}
	log := j.logger.WithUser(userID)

	j.paintFromCache(ctx, s, userID, log)

	jobCtx, cancel := context.WithCancel(ctx)
	cases := j.records.Subscribe(jobCtx, models.Query{Collection: models.CollectionCases}.Where(models.FieldUserID, userID))
	hearings := j.records.Subscribe(jobCtx, models.Query{Collection: models.CollectionHearings}.Where(models.FieldUserID, userID))

	group := workers.NewGroup(
		workers.NewSnapshotFeed(models.CollectionCases, cases, func(snap models.Snapshot) {
			j.onCases(jobCtx, s, userID, snap, log)
		}, log),
		workers.NewSnapshotFeed(models.CollectionHearings, hearings, func(snap models.Snapshot) {
			j.onHearings(jobCtx, s, userID, snap, log)
		}, log),
	)

	done := make(chan struct{})
	j.cancel = cancel
	j.done = done

	go func() {
		defer close(done)
		if err := group.Run(jobCtx); err != nil {
			log.Err(err).Str("func", "clientSyncJob.Start").Msg("sync feeds stopped with error")
		}
	}()

	log.Info().Str("func", "clientSyncJob.Start").Msg("live sync started")
}

// Stop implements ClientSyncJob. It cancels both subscriptions and blocks
// until both feeds have fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopLocked()
}

func (j *clientSyncJob) stopLocked() {
	if j.cancel == nil {
		return
	}
	j.cancel()
	<-j.done
	j.cancel, j.done = nil, nil
}

// paintFromCache shows the cached snapshots when both are present; otherwise
// the book is emptied and marked loading.
func (j *clientSyncJob) paintFromCache(ctx context.Context, s *Session, userID string, log *logger.Logger) {
	cases, okCases, err := s.loadSnapshot(ctx, CasesCacheKey(userID))
	if err != nil {
		log.Err(err).Str("func", "clientSyncJob.paintFromCache").Msg("error reading cached cases")
	}
	hearings, okHearings, err := s.loadSnapshot(ctx, HearingsCacheKey(userID))
	if err != nil {
		log.Err(err).Str("func", "clientSyncJob.paintFromCache").Msg("error reading cached hearings")
	}

	if okCases && okHearings {
		j.book.paint(cases, hearings)
		log.Debug().Str("func", "clientSyncJob.paintFromCache").
			Int("cases", len(cases)).
			Int("hearings", len(hearings)).
			Msg("painted from cache")
		return
	}
	j.book.begin()
}

func (j *clientSyncJob) onCases(ctx context.Context, s *Session, userID string, snap models.Snapshot, log *logger.Logger) {
	if snap.Err != nil {
		log.Err(snap.Err).Str("func", "clientSyncJob.onCases").Msg("case subscription failed")
		s.SetError(msgLoadCases + ": " + userMessage(snap.Err))
		j.book.failed()
		return
	}

	j.book.setCases(snap.Records)
	if err := s.saveSnapshot(ctx, CasesCacheKey(userID), snap.Records); err != nil {
		log.Err(err).Str("func", "clientSyncJob.onCases").Msg("error caching cases")
	}
}

func (j *clientSyncJob) onHearings(ctx context.Context, s *Session, userID string, snap models.Snapshot, log *logger.Logger) {
	if snap.Err != nil {
		log.Err(snap.Err).Str("func", "clientSyncJob.onHearings").Msg("hearing subscription failed")
		s.SetError(msgLoadHearings + ": " + userMessage(snap.Err))
		return
	}

	j.book.setHearings(snap.Records)
	if err := s.saveSnapshot(ctx, HearingsCacheKey(userID), snap.Records); err != nil {
		log.Err(err).Str("func", "clientSyncJob.onHearings").Msg("error caching hearings")
	}
}
