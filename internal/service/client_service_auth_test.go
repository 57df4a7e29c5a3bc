// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-case-keeper/internal/adapter"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/mock"
	"github.com/MKhiriev/go-case-keeper/internal/validators"
	"github.com/MKhiriev/go-case-keeper/models"
)

// callLog records sync job and provider calls in order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type spySyncJob struct {
	log *callLog
}

func (j *spySyncJob) Start(_ context.Context, s *Session) {
	j.log.add("start:" + s.UserID())
}

func (j *spySyncJob) Stop() {
	j.log.add("stop")
}

type authFixture struct {
	svc      ClientAuthService
	identity *mock.MockIdentityProvider
	calls    *callLog
	session  *Session
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	calls := &callLog{}
	identity := mock.NewMockIdentityProvider(gomock.NewController(t))
	return &authFixture{
		svc:      NewClientAuthService(identity, &spySyncJob{log: calls}, validators.NewCaseValidator(), logger.Nop()),
		identity: identity,
		calls:    calls,
		session:  NewSession(nil),
	}
}

var alice = models.Identity{ID: "u1", Email: "alice@example.com", IDToken: "tok"}

// ── SignUp ──

func TestSignUp_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	var seen []models.Identity
	f.svc.Watch(func(id models.Identity, ok bool) {
		if ok {
			seen = append(seen, id)
		}
	})

	f.identity.EXPECT().SignUp(ctx, "alice@example.com", "secret1").Return(alice, nil)

	res := f.svc.SignUp(ctx, f.session, models.Credentials{Email: " alice@example.com ", Password: "secret1"})

	assert.Equal(t, models.AuthResult{Success: true}, res)
	assert.Equal(t, "u1", f.session.UserID())
	assert.Equal(t, []string{"start:u1"}, f.calls.get())
	assert.Equal(t, []models.Identity{alice}, seen)
}

func TestSignUp_Failures(t *testing.T) {
	tests := []struct {
		name    string
		creds   models.Credentials
		prepare func(f *authFixture)
		wantErr string
	}{
		{
			name:    "invalid email",
			creds:   models.Credentials{Email: "alice", Password: "secret1"},
			wantErr: "Please enter a valid email address",
		},
		{
			name:    "short password",
			creds:   models.Credentials{Email: "alice@example.com", Password: "abc"},
			wantErr: "Password should be at least 6 characters",
		},
		{
			name:  "email taken",
			creds: models.Credentials{Email: "alice@example.com", Password: "secret1"},
			prepare: func(f *authFixture) {
				f.identity.EXPECT().SignUp(gomock.Any(), "alice@example.com", "secret1").Return(models.Identity{}, adapter.ErrEmailExists)
			},
			wantErr: "An account with this email already exists",
		},
		{
			name:  "provider down",
			creds: models.Credentials{Email: "alice@example.com", Password: "secret1"},
			prepare: func(f *authFixture) {
				f.identity.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.Identity{}, adapter.ErrIdentityUnavailable)
			},
			wantErr: "Authentication service is unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			if tt.prepare != nil {
				tt.prepare(f)
			}

			res := f.svc.SignUp(context.Background(), f.session, tt.creds)

			assert.Equal(t, models.AuthResult{Success: false, Error: tt.wantErr}, res)
			assert.Empty(t, f.session.UserID())
			assert.Empty(t, f.calls.get())
		})
	}
}

// ── SignIn ──

func TestSignIn_Success(t *testing.T) {
	f := newAuthFixture(t)

	// sign-in leaves password rules to the provider
	f.identity.EXPECT().SignIn(gomock.Any(), "alice@example.com", "abc").Return(alice, nil)

	res := f.svc.SignIn(context.Background(), f.session, models.Credentials{Email: "alice@example.com", Password: "abc"})

	assert.True(t, res.Success)
	id, ok := f.session.Identity()
	require.True(t, ok)
	assert.Equal(t, alice, id)
	assert.Equal(t, []string{"start:u1"}, f.calls.get())
}

func TestSignIn_EmptyPassword(t *testing.T) {
	f := newAuthFixture(t)

	res := f.svc.SignIn(context.Background(), f.session, models.Credentials{Email: "alice@example.com"})

	assert.Equal(t, models.AuthResult{Error: "Invalid email or password"}, res)
}

func TestSignIn_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.identity.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.Identity{}, adapter.ErrInvalidCredentials)

	res := f.svc.SignIn(context.Background(), f.session, models.Credentials{Email: "alice@example.com", Password: "wrong!"})

	assert.Equal(t, "Invalid email or password", res.Error)
	assert.Empty(t, f.session.UserID())
}

func TestSignIn_ClearsStaleError(t *testing.T) {
	f := newAuthFixture(t)
	f.session.SetError("Failed to load cases: boom")
	f.identity.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(alice, nil)

	f.svc.SignIn(context.Background(), f.session, models.Credentials{Email: "alice@example.com", Password: "secret1"})

	assert.Empty(t, f.session.Err())
}

// ── SignInWithProvider ──

func TestSignInWithProvider(t *testing.T) {
	f := newAuthFixture(t)
	f.identity.EXPECT().SignInWithProvider(gomock.Any(), "google.com", "google-token").Return(alice, nil)

	res := f.svc.SignInWithProvider(context.Background(), f.session, "google.com", "google-token")

	assert.True(t, res.Success)
	assert.Equal(t, "u1", f.session.UserID())
}

func TestSignInWithProvider_MissingToken(t *testing.T) {
	f := newAuthFixture(t)

	res := f.svc.SignInWithProvider(context.Background(), f.session, "google.com", "")

	assert.Equal(t, models.AuthResult{Error: "Provider sign-in was rejected"}, res)
	assert.Empty(t, f.calls.get())
}

// ── SignOut ──

func TestSignOut_StopsSyncBeforeClearingIdentity(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.identity.EXPECT().SignIn(ctx, "alice@example.com", "secret1").Return(alice, nil)
	require.True(t, f.svc.SignIn(ctx, f.session, models.Credentials{Email: "alice@example.com", Password: "secret1"}).Success)

	var notified []bool
	unwatch := f.svc.Watch(func(_ models.Identity, ok bool) { notified = append(notified, ok) })
	defer unwatch()

	f.identity.EXPECT().SignOut(gomock.Any()).DoAndReturn(func(context.Context) error {
		f.calls.add("provider:" + f.session.UserID())
		return nil
	})

	res := f.svc.SignOut(ctx, f.session)

	assert.True(t, res.Success)
	assert.Equal(t, []string{"start:u1", "stop", "provider:u1", "start:"}, f.calls.get())
	assert.Empty(t, f.session.UserID())
	assert.Equal(t, []bool{true, false}, notified)
}

func TestSignOut_ProviderFailureResumesSync(t *testing.T) {
	f := newAuthFixture(t)
	f.session.setIdentity(alice)
	f.identity.EXPECT().SignOut(gomock.Any()).Return(adapter.ErrIdentityUnavailable)

	res := f.svc.SignOut(context.Background(), f.session)

	assert.Equal(t, models.AuthResult{Error: "Authentication service is unavailable"}, res)
	assert.Equal(t, "u1", f.session.UserID())
	assert.Equal(t, []string{"stop", "start:u1"}, f.calls.get())
}

// ── Watch ──

func TestWatch_DeliversCurrentIdentity(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	type event struct {
		identity models.Identity
		ok       bool
	}
	var early []event
	unwatch := f.svc.Watch(func(id models.Identity, ok bool) { early = append(early, event{id, ok}) })
	defer unwatch()
	assert.Equal(t, []event{{models.Identity{}, false}}, early)

	f.identity.EXPECT().SignIn(ctx, "alice@example.com", "secret1").Return(alice, nil)
	require.True(t, f.svc.SignIn(ctx, f.session, models.Credentials{Email: "alice@example.com", Password: "secret1"}).Success)

	var late []event
	unwatchLate := f.svc.Watch(func(id models.Identity, ok bool) { late = append(late, event{id, ok}) })
	defer unwatchLate()

	assert.Equal(t, []event{{alice, true}}, late)
	assert.Equal(t, []event{{models.Identity{}, false}, {alice, true}}, early)
}

func TestWatch_Unsubscribe(t *testing.T) {
	f := newAuthFixture(t)
	f.identity.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(alice, nil).Times(2)

	calls := 0
	unwatch := f.svc.Watch(func(models.Identity, bool) { calls++ })
	require.Equal(t, 1, calls)

	f.svc.SignIn(context.Background(), f.session, models.Credentials{Email: "alice@example.com", Password: "secret1"})
	unwatch()
	f.svc.SignIn(context.Background(), f.session, models.Credentials{Email: "alice@example.com", Password: "secret1"})

	assert.Equal(t, 2, calls)
}
