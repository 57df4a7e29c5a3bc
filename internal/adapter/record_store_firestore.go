// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-case-keeper/internal/config"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/models"
)

type firestoreRecordStore struct {
	client *firestore.Client
	buffer int

	logger *logger.Logger
}

// NewFirestoreRecordStore connects to the Firestore database of the
// configured Firebase project. buffer is the capacity of subscription
// channels.
func NewFirestoreRecordStore(ctx context.Context, cfg config.ClientAdapter, buffer int, log *logger.Logger) (RecordStore, error) {
	app, err := newFirebaseApp(ctx, cfg.Firebase)
	if err != nil {
		log.Err(err).Str("func", "NewFirestoreRecordStore").Msg("error creating firebase app")
		return nil, err
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewFirestoreRecordStore").Msg("error getting firestore client")
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}

	if buffer < 1 {
		buffer = 1
	}

	log.Debug().Str("func", "NewFirestoreRecordStore").Str("project", cfg.Firebase.ProjectID).Msg("connected to firestore")
	return &firestoreRecordStore{client: client, buffer: buffer, logger: log}, nil
}

func (s *firestoreRecordStore) NewID(collection string) string {
	return s.client.Collection(collection).NewDoc().ID
}

func (s *firestoreRecordStore) Get(ctx context.Context, collection, id string) (models.Record, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			s.logger.Err(err).Str("func", "firestoreRecordStore.Get").Str("record", collection+"/"+id).Msg("get failed")
		}
		return models.Record{}, mapStoreError(err)
	}
	return models.Record{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *firestoreRecordStore) Query(ctx context.Context, q models.Query) ([]models.Record, error) {
	docs, err := s.query(q).Documents(ctx).GetAll()
	if err != nil {
		s.logger.Err(err).Str("func", "firestoreRecordStore.Query").Str("collection", q.Collection).Msg("query failed")
		return nil, mapStoreError(err)
	}
	return toRecords(docs), nil
}

func (s *firestoreRecordStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref := s.client.Collection(collection).NewDoc()
	if _, err := ref.Set(ctx, toFirestoreFields(fields)); err != nil {
		s.logger.Err(err).Str("func", "firestoreRecordStore.Create").Str("collection", collection).Msg("create failed")
		return "", mapStoreError(err)
	}
	return ref.ID, nil
}

func (s *firestoreRecordStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, toFirestoreUpdates(fields)); err != nil {
		s.logger.Err(err).Str("func", "firestoreRecordStore.Update").Str("record", collection+"/"+id).Msg("update failed")
		return mapStoreError(err)
	}
	return nil
}

func (s *firestoreRecordStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		s.logger.Err(err).Str("func", "firestoreRecordStore.Delete").Str("record", collection+"/"+id).Msg("delete failed")
		return mapStoreError(err)
	}
	return nil
}

func (s *firestoreRecordStore) Commit(ctx context.Context, batch *models.Batch) error {
	if batch == nil || batch.Len() == 0 {
		return nil
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, op := range batch.Ops {
			ref := s.client.Collection(op.Collection).Doc(op.ID)

			var err error
			switch op.Kind {
			case models.WriteSet:
				err = tx.Set(ref, toFirestoreFields(op.Fields))
			case models.WriteUpdate:
				err = tx.Update(ref, toFirestoreUpdates(op.Fields))
			case models.WriteDelete:
				err = tx.Delete(ref)
			default:
				err = fmt.Errorf("unknown write kind %d", op.Kind)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Err(err).Str("func", "firestoreRecordStore.Commit").Int("ops", batch.Len()).Msg("transaction failed")
		return fmt.Errorf("%w: %w", ErrBatchFailed, mapStoreError(err))
	}

	return nil
}

func (s *firestoreRecordStore) Subscribe(ctx context.Context, q models.Query) <-chan models.Snapshot {
	ch := make(chan models.Snapshot, s.buffer)

	go func() {
		defer close(ch)

		it := s.query(q).Snapshots(ctx)
		defer it.Stop()

		for {
			qs, err := it.Next()
			if err == nil {
				var docs []*firestore.DocumentSnapshot
				docs, err = qs.Documents.GetAll()
				if err == nil {
					if !sendSnapshot(ctx, ch, models.Snapshot{Records: toRecords(docs)}) {
						return
					}
					continue
				}
			}

			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return
			}
			s.logger.Err(err).Str("func", "firestoreRecordStore.Subscribe").Str("collection", q.Collection).Msg("subscription failed")
			sendSnapshot(ctx, ch, models.Snapshot{Err: fmt.Errorf("%w: %w", ErrSubscriptionFailed, mapStoreError(err))})
			return
		}
	}()

	return ch
}

func (s *firestoreRecordStore) Close() error {
	return s.client.Close()
}

func (s *firestoreRecordStore) query(q models.Query) firestore.Query {
	query := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, "==", f.Value)
	}
	return query
}

func toRecords(docs []*firestore.DocumentSnapshot) []models.Record {
	records := make([]models.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, models.Record{ID: doc.Ref.ID, Fields: doc.Data()})
	}
	return records
}

func toFirestoreValue(v any) any {
	if models.IsServerTimestamp(v) {
		return firestore.ServerTimestamp
	}
	return v
}

func toFirestoreFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = toFirestoreValue(v)
	}
	return out
}

func toFirestoreUpdates(fields map[string]any) []firestore.Update {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: toFirestoreValue(fields[k])})
	}
	return updates
}
