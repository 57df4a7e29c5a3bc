// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the boundary to the external collaborators of
// go-case-keeper: the hosted record store and the identity provider.
//
// [RecordStore] decouples the service layer from the document database. The
// package ships a Firestore implementation ([NewFirestoreRecordStore]), a
// MongoDB implementation ([NewMongoRecordStore]) and an in-process
// implementation ([NewMemoryRecordStore]) used for local development and
// tests.
//
// [IdentityProvider] wraps the Firebase Identity Toolkit REST API
// ([NewFirebaseIdentityProvider]) or an in-process account table
// ([NewMemoryIdentityProvider]).
//
// Error values defined in errors.go are mapped from backend-specific codes so
// that callers can use [errors.Is] without knowing which backend is active
// (e.g. [ErrRecordNotFound], [ErrInvalidCredentials]).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-case-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RecordStore is a document database queryable by equality filters.
//
// Records are schemaless field maps keyed by a store-assigned id. Field
// values use the Go types produced by JSON decoding plus time.Time; a value
// equal to [models.ServerTimestampValue] is replaced by the backend's commit
// time.
type RecordStore interface {
	// NewID reserves a fresh record id in collection without writing
	// anything. Used to pre-assign ids for batched creates.
	NewID(collection string) string

	// Get returns the record stored under id. Returns [ErrRecordNotFound]
	// (wrapped) when no such record exists.
	Get(ctx context.Context, collection, id string) (models.Record, error)

	// Query returns every record in q.Collection matching all q.Filters.
	Query(ctx context.Context, q models.Query) ([]models.Record, error)

	// Create stores fields under a new store-assigned id and returns it.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Update overwrites only the supplied fields of an existing record.
	// Returns [ErrRecordNotFound] (wrapped) when the record does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Commit applies every operation of batch atomically: either all writes
	// become visible or none do.
	Commit(ctx context.Context, batch *models.Batch) error

	// Subscribe opens a live subscription on q. The returned channel first
	// receives the current result set and then a full snapshot after every
	// change. A failed subscription delivers one snapshot with Err set. The
	// channel is closed once ctx is cancelled or the subscription fails.
	Subscribe(ctx context.Context, q models.Query) <-chan models.Snapshot

	// Close releases the underlying client.
	Close() error
}

// IdentityProvider issues a stable user identifier and email on sign-in.
type IdentityProvider interface {
	// SignUp registers a new email/password account and signs it in.
	SignUp(ctx context.Context, email, password string) (models.Identity, error)

	// SignIn authenticates an existing email/password account.
	SignIn(ctx context.Context, email, password string) (models.Identity, error)

	// SignInWithProvider exchanges an ID token issued by a federated provider
	// (e.g. "google.com") for an identity.
	SignInWithProvider(ctx context.Context, providerID, idToken string) (models.Identity, error)

	// SignOut forgets the current identity.
	SignOut(ctx context.Context) error
}
