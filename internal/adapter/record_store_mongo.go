// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MKhiriev/go-case-keeper/internal/config"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/models"
)

const mongoIDField = "_id"

type mongoRecordStore struct {
	client *mongo.Client
	db     *mongo.Database
	buffer int

	logger *logger.Logger
}

// NewMongoRecordStore connects to MongoDB. Live subscriptions use change
// streams, which require a replica set deployment.
func NewMongoRecordStore(ctx context.Context, cfg config.ClientAdapter, buffer int, log *logger.Logger) (RecordStore, error) {
	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(cfg.RequestTimeout).
		SetServerSelectionTimeout(cfg.RequestTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Err(err).Str("func", "NewMongoRecordStore").Msg("error connecting mongo")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		log.Err(err).Str("func", "NewMongoRecordStore").Msg("error connecting mongo (ping)")
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if buffer < 1 {
		buffer = 1
	}

	log.Debug().Str("func", "NewMongoRecordStore").Str("database", cfg.Mongo.Database).Msg("connected to mongo")
	return &mongoRecordStore{
		client: client,
		db:     client.Database(cfg.Mongo.Database),
		buffer: buffer,
		logger: log,
	}, nil
}

func (s *mongoRecordStore) NewID(string) string {
	return primitive.NewObjectID().Hex()
}

func (s *mongoRecordStore) Get(ctx context.Context, collection, id string) (models.Record, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{mongoIDField: id}).Decode(&doc)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			s.logger.Err(err).Str("func", "mongoRecordStore.Get").Str("record", collection+"/"+id).Msg("get failed")
		}
		return models.Record{}, mapStoreError(err)
	}
	return fromMongoDocument(doc), nil
}

func (s *mongoRecordStore) Query(ctx context.Context, q models.Query) ([]models.Record, error) {
	records, err := s.find(ctx, q)
	if err != nil {
		s.logger.Err(err).Str("func", "mongoRecordStore.Query").Str("collection", q.Collection).Msg("query failed")
		return nil, mapStoreError(err)
	}
	return records, nil
}

func (s *mongoRecordStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := s.NewID(collection)
	if err := s.apply(ctx, models.WriteOp{Kind: models.WriteSet, Collection: collection, ID: id, Fields: fields}); err != nil {
		s.logger.Err(err).Str("func", "mongoRecordStore.Create").Str("collection", collection).Msg("create failed")
		return "", mapStoreError(err)
	}
	return id, nil
}

func (s *mongoRecordStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := s.apply(ctx, models.WriteOp{Kind: models.WriteUpdate, Collection: collection, ID: id, Fields: fields}); err != nil {
		s.logger.Err(err).Str("func", "mongoRecordStore.Update").Str("record", collection+"/"+id).Msg("update failed")
		return mapStoreError(err)
	}
	return nil
}

func (s *mongoRecordStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.apply(ctx, models.WriteOp{Kind: models.WriteDelete, Collection: collection, ID: id}); err != nil {
		s.logger.Err(err).Str("func", "mongoRecordStore.Delete").Str("record", collection+"/"+id).Msg("delete failed")
		return mapStoreError(err)
	}
	return nil
}

func (s *mongoRecordStore) Commit(ctx context.Context, batch *models.Batch) error {
	if batch == nil || batch.Len() == 0 {
		return nil
	}

	session, err := s.client.StartSession()
	if err != nil {
		s.logger.Err(err).Str("func", "mongoRecordStore.Commit").Msg("error starting session")
		return fmt.Errorf("%w: %w", ErrBatchFailed, mapStoreError(err))
	}
	defer session.EndSession(context.Background())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range batch.Ops {
			if err := s.apply(sc, op); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		s.logger.Err(err).Str("func", "mongoRecordStore.Commit").Int("ops", batch.Len()).Msg("transaction failed")
		return fmt.Errorf("%w: %w", ErrBatchFailed, mapStoreError(err))
	}

	return nil
}

// Subscribe delivers the current result set, then re-runs the query after
// every change event on the collection.
func (s *mongoRecordStore) Subscribe(ctx context.Context, q models.Query) <-chan models.Snapshot {
	ch := make(chan models.Snapshot, s.buffer)

	go func() {
		defer close(ch)

		fail := func(err error) {
			if ctx.Err() != nil {
				return
			}
			s.logger.Err(err).Str("func", "mongoRecordStore.Subscribe").Str("collection", q.Collection).Msg("subscription failed")
			sendSnapshot(ctx, ch, models.Snapshot{Err: fmt.Errorf("%w: %w", ErrSubscriptionFailed, mapStoreError(err))})
		}

		stream, err := s.db.Collection(q.Collection).Watch(ctx, mongo.Pipeline{})
		if err != nil {
			fail(err)
			return
		}
		defer stream.Close(context.Background())

		for {
			records, err := s.find(ctx, q)
			if err != nil {
				fail(err)
				return
			}
			if !sendSnapshot(ctx, ch, models.Snapshot{Records: records}) {
				return
			}

			if !stream.Next(ctx) {
				if err = stream.Err(); err != nil {
					fail(err)
				}
				return
			}
		}
	}()

	return ch
}

func (s *mongoRecordStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func (s *mongoRecordStore) find(ctx context.Context, q models.Query) ([]models.Record, error) {
	filter := bson.D{}
	for _, f := range q.Filters {
		filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
	}

	cursor, err := s.db.Collection(q.Collection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: mongoIDField, Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []bson.M
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromMongoDocument(doc))
	}
	return records, nil
}

// apply performs a single write. Server timestamps are filled with
// $currentDate so the database clock is authoritative.
func (s *mongoRecordStore) apply(ctx context.Context, op models.WriteOp) error {
	coll := s.db.Collection(op.Collection)
	byID := bson.M{mongoIDField: op.ID}
	set, currentDate := splitServerTimestamps(op.Fields)

	switch op.Kind {
	case models.WriteSet:
		if _, err := coll.ReplaceOne(ctx, byID, set, options.Replace().SetUpsert(true)); err != nil {
			return err
		}
		if len(currentDate) == 0 {
			return nil
		}
		_, err := coll.UpdateOne(ctx, byID, bson.M{"$currentDate": currentDate})
		return err

	case models.WriteUpdate:
		update := bson.M{}
		if len(set) > 0 {
			update["$set"] = set
		}
		if len(currentDate) > 0 {
			update["$currentDate"] = currentDate
		}
		if len(update) == 0 {
			return nil
		}
		res, err := coll.UpdateOne(ctx, byID, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("%w: %s/%s", ErrRecordNotFound, op.Collection, op.ID)
		}
		return nil

	case models.WriteDelete:
		_, err := coll.DeleteOne(ctx, byID)
		return err

	default:
		return fmt.Errorf("unknown write kind %d", op.Kind)
	}
}

func splitServerTimestamps(fields map[string]any) (bson.M, bson.M) {
	set := bson.M{}
	currentDate := bson.M{}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if models.IsServerTimestamp(fields[k]) {
			currentDate[k] = true
			continue
		}
		set[k] = fields[k]
	}
	return set, currentDate
}

func fromMongoDocument(doc bson.M) models.Record {
	id := fmt.Sprint(doc[mongoIDField])
	if oid, ok := doc[mongoIDField].(primitive.ObjectID); ok {
		id = oid.Hex()
	}

	fields := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == mongoIDField {
			continue
		}
		fields[k] = fromMongoValue(v)
	}
	return models.Record{ID: id, Fields: fields}
}

func fromMongoValue(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.Timestamp:
		return models.ServerTimestamp{Seconds: int64(val.T)}
	case primitive.ObjectID:
		return val.Hex()
	case int32:
		return int64(val)
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromMongoValue(item)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = fromMongoValue(item)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = fromMongoValue(e.Value)
		}
		return out
	case time.Time:
		return val.UTC()
	default:
		return v
	}
}
