// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-case-keeper/internal/adapter"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/validators"
	"github.com/MKhiriev/go-case-keeper/models"
)

type clientAuthService struct {
	identity  adapter.IdentityProvider
	syncJob   ClientSyncJob
	validator validators.Validator
	logger    *logger.Logger

	// deliver orders watcher callbacks; mu guards the fields below it.
	deliver  sync.Mutex
	mu       sync.Mutex
	current  models.Identity
	authed   bool
	watchers map[int]func(models.Identity, bool)
	nextID   int
}

// NewClientAuthService creates a ClientAuthService over identity. A
// successful sign-in starts syncJob for the new user; sign-out stops it
// before the identity is cleared.
func NewClientAuthService(identity adapter.IdentityProvider, syncJob ClientSyncJob, validator validators.Validator, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		identity:  identity,
		syncJob:   syncJob,
		validator: validator,
		logger:    logger,
		watchers:  make(map[int]func(models.Identity, bool)),
	}
}

func (a *clientAuthService) SignUp(ctx context.Context, s *Session, creds models.Credentials) models.AuthResult {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := a.validator.Validate(ctx, creds); err != nil {
		return a.failure("SignUp", err)
	}

	identity, err := a.identity.SignUp(ctx, creds.Email, creds.Password)
	if err != nil {
		return a.failure("SignUp", err)
	}

	a.signedIn(ctx, s, identity)
	return models.AuthResult{Success: true}
}

func (a *clientAuthService) SignIn(ctx context.Context, s *Session, creds models.Credentials) models.AuthResult {
	creds.Email = strings.TrimSpace(creds.Email)
	// password rules are the provider's business on sign-in
	if err := a.validator.Validate(ctx, creds, validators.FieldEmail); err != nil {
		return a.failure("SignIn", err)
	}
	if creds.Password == "" {
		return a.failure("SignIn", adapter.ErrInvalidCredentials)
	}

	identity, err := a.identity.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		return a.failure("SignIn", err)
	}

	a.signedIn(ctx, s, identity)
	return models.AuthResult{Success: true}
}

func (a *clientAuthService) SignInWithProvider(ctx context.Context, s *Session, providerID, idToken string) models.AuthResult {
	if providerID == "" || idToken == "" {
		return a.failure("SignInWithProvider", adapter.ErrInvalidToken)
	}

	identity, err := a.identity.SignInWithProvider(ctx, providerID, idToken)
	if err != nil {
		return a.failure("SignInWithProvider", err)
	}

	a.signedIn(ctx, s, identity)
	return models.AuthResult{Success: true}
}

func (a *clientAuthService) SignOut(ctx context.Context, s *Session) models.AuthResult {
	a.syncJob.Stop()

	if err := a.identity.SignOut(ctx); err != nil {
		// still signed in: resume following the current user
		a.syncJob.Start(context.WithoutCancel(ctx), s)
		return a.failure("SignOut", err)
	}

	userID := s.UserID()
	s.clearIdentity()
	a.syncJob.Start(context.WithoutCancel(ctx), s)
	a.notify(models.Identity{}, false)

	a.logger.Info().Str("func", "clientAuthService.SignOut").Str("user_id", userID).Msg("signed out")
	return models.AuthResult{Success: true}
}

func (a *clientAuthService) Watch(fn func(identity models.Identity, ok bool)) func() {
	a.deliver.Lock()
	defer a.deliver.Unlock()

	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.watchers[id] = fn
	identity, ok := a.current, a.authed
	a.mu.Unlock()

	fn(identity, ok)

	return func() {
		a.mu.Lock()
		delete(a.watchers, id)
		a.mu.Unlock()
	}
}

// signedIn installs identity on the session, notifies watchers and starts
// following the new user. The job outlives the request context.
func (a *clientAuthService) signedIn(ctx context.Context, s *Session, identity models.Identity) {
	s.setIdentity(identity)
	a.notify(identity, true)
	a.syncJob.Start(context.WithoutCancel(ctx), s)

	a.logger.Info().Str("func", "clientAuthService.signedIn").Str("user_id", identity.ID).Msg("signed in")
}

func (a *clientAuthService) notify(identity models.Identity, ok bool) {
	a.deliver.Lock()
	defer a.deliver.Unlock()

	a.mu.Lock()
	a.current, a.authed = identity, ok
	fns := make([]func(models.Identity, bool), 0, len(a.watchers))
	for _, fn := range a.watchers {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(identity, ok)
	}
}

func (a *clientAuthService) failure(fn string, err error) models.AuthResult {
	a.logger.Err(fmt.Errorf("%w: %w", ErrAuthFailed, err)).Str("func", "clientAuthService."+fn).Msg("authentication failed")
	return models.AuthResult{Success: false, Error: userMessage(err)}
}
