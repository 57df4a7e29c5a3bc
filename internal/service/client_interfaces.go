// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-case-keeper/models"
)

// ClientCaseService defines the mutations of cases, hearings and case files.
// Every method takes the explicit [Session]; when the session has no signed-in
// user the call is a no-op returning zero values and a nil error. Failures are
// recorded in the session error slot and returned.
type ClientCaseService interface {
	// CreateCase validates data, assigns a case id and writes the case record
	// together with every initial hearing in one atomic batch. Returns the
	// new case id.
	CreateCase(ctx context.Context, s *Session, data models.NewCase) (string, error)

	// UpdateCase writes only the supplied fields of the case plus updated_at.
	// An empty update only bumps updated_at.
	UpdateCase(ctx context.Context, s *Session, caseID string, update models.CaseUpdate) error

	// DeleteCase deletes every hearing of the user referencing the case and
	// then the case itself, as one atomic commit.
	DeleteCase(ctx context.Context, s *Session, caseID string) error

	// AddHearing creates a hearing record referencing caseID and returns its id.
	AddHearing(ctx context.Context, s *Session, caseID string, hearing models.NewHearing) (string, error)

	// UpdateHearing writes only the supplied fields of the hearing plus
	// updated_at.
	UpdateHearing(ctx context.Context, s *Session, caseID, hearingID string, update models.HearingUpdate) error

	// DeleteHearing deletes a single hearing record of caseID.
	DeleteHearing(ctx context.Context, s *Session, caseID, hearingID string) error

	// AddFile appends file to the case's embedded files and writes the whole
	// sequence back. Concurrent file mutations of the same case are last
	// write wins.
	AddFile(ctx context.Context, s *Session, caseID string, file models.CaseFile) error

	// DeleteFile removes the file with fileID from the case's embedded files
	// and writes the whole sequence back.
	DeleteFile(ctx context.Context, s *Session, caseID, fileID string) error

	// AttachFiles encodes every upload into a [models.CaseFile]. Uploads that
	// fail the size limit are rejected individually; the accepted ones are
	// appended to the case in a single write.
	AttachFiles(ctx context.Context, s *Session, caseID string, uploads []models.FileUpload) (models.AttachResult, error)
}

// ClientAuthService wraps the identity provider. Every operation reports its
// outcome as a [models.AuthResult] and broadcasts identity changes to
// watchers.
type ClientAuthService interface {
	// SignUp registers an email/password account and signs it in.
	SignUp(ctx context.Context, s *Session, creds models.Credentials) models.AuthResult

	// SignIn authenticates an email/password account.
	SignIn(ctx context.Context, s *Session, creds models.Credentials) models.AuthResult

	// SignInWithProvider signs in with an ID token of a federated provider.
	SignInWithProvider(ctx context.Context, s *Session, providerID, idToken string) models.AuthResult

	// SignOut stops live sync, signs out of the provider and clears the
	// session identity.
	SignOut(ctx context.Context, s *Session) models.AuthResult

	// Watch calls fn once with the current identity (ok=false when signed
	// out) and again after every change. fn must not call back into the
	// service. The returned func unregisters it.
	Watch(fn func(identity models.Identity, ok bool)) (unwatch func())
}

// ClientSyncJob keeps the [CaseBook] in sync with the record store for the
// session user: it paints the cached snapshots first and then follows the
// live case and hearing subscriptions.
type ClientSyncJob interface {
	// Start stops any running job and starts following the session user.
	// With no signed-in user the book is reset and nothing is started.
	Start(ctx context.Context, s *Session)

	// Stop releases both subscriptions and blocks until both feeds have
	// exited. Safe to call when the job is not running.
	Stop()
}
