// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-case-keeper/internal/adapter"
	"github.com/MKhiriev/go-case-keeper/internal/config"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/service"
	"github.com/MKhiriev/go-case-keeper/internal/tui"
	"github.com/MKhiriev/go-case-keeper/models"
)

// scriptedScreens signs the session in on LoginFlow and replays mainLoops.
type scriptedScreens struct {
	services  *service.ClientServices
	session   *service.Session
	loginErr  error
	mainLoops []bool
	mainErr   error

	logins int
	mains  int
}

func (s *scriptedScreens) LoginFlow(ctx context.Context) error {
	s.logins++
	if s.loginErr != nil {
		return s.loginErr
	}
	res := s.services.AuthService.SignIn(ctx, s.session, models.Credentials{Email: "lawyer@example.com", Password: "secret1"})
	if !res.Success {
		return errors.New(res.Error)
	}
	return nil
}

func (s *scriptedScreens) MainLoop(ctx context.Context) (bool, error) {
	s.mains++
	if s.mainErr != nil {
		return false, s.mainErr
	}
	logout := s.mainLoops[0]
	s.mainLoops = s.mainLoops[1:]
	if logout {
		s.services.AuthService.SignOut(ctx, s.session)
	}
	return logout, nil
}

func newTestApp(t *testing.T, screens *scriptedScreens) *App {
	t.Helper()
	ctx := context.Background()

	adapters, err := adapter.NewClientAdapters(ctx, config.ClientAdapter{Backend: config.BackendMemory}, config.ClientWorkers{SnapshotBuffer: 1}, logger.Nop())
	require.NoError(t, err)
	services := service.NewClientServices(adapters, config.ClientApp{MaxFileSizeBytes: 1 << 20}, logger.Nop())

	signUp := service.NewSession(nil)
	res := services.AuthService.SignUp(ctx, signUp, models.Credentials{Email: "lawyer@example.com", Password: "secret1"})
	require.True(t, res.Success, res.Error)
	services.AuthService.SignOut(ctx, signUp)

	screens.services = services
	screens.session = service.NewSession(nil)

	app, err := NewApp(services, screens.session, screens, logger.Nop(), adapters.Close)
	require.NoError(t, err)
	return app
}

// ── Run ──

func TestApp_Run(t *testing.T) {
	tests := []struct {
		name       string
		screens    *scriptedScreens
		wantErr    bool
		wantLogins int
		wantMains  int
	}{
		{
			name:       "quit from dashboard",
			screens:    &scriptedScreens{mainLoops: []bool{false}},
			wantLogins: 1,
			wantMains:  1,
		},
		{
			name:       "sign out returns to login",
			screens:    &scriptedScreens{mainLoops: []bool{true, false}},
			wantLogins: 2,
			wantMains:  2,
		},
		{
			name:       "quit from login",
			screens:    &scriptedScreens{loginErr: tui.ErrUserQuit},
			wantLogins: 1,
		},
		{
			name:       "login failure",
			screens:    &scriptedScreens{loginErr: errors.New("terminal gone")},
			wantErr:    true,
			wantLogins: 1,
		},
		{
			name:       "dashboard failure",
			screens:    &scriptedScreens{mainErr: errors.New("terminal gone")},
			wantErr:    true,
			wantLogins: 1,
			wantMains:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.screens)

			err := app.Run(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantLogins, tt.screens.logins)
			assert.Equal(t, tt.wantMains, tt.screens.mains)
			assert.NoError(t, app.Close())
		})
	}
}

func TestApp_Run_AlreadySignedInSkipsLogin(t *testing.T) {
	screens := &scriptedScreens{mainLoops: []bool{true, false}}
	app := newTestApp(t, screens)
	ctx := context.Background()

	res := screens.services.AuthService.SignIn(ctx, screens.session, models.Credentials{Email: "lawyer@example.com", Password: "secret1"})
	require.True(t, res.Success, res.Error)

	require.NoError(t, app.Run(ctx))

	assert.Equal(t, 1, screens.logins)
	assert.Equal(t, 2, screens.mains)
	assert.NoError(t, app.Close())
}

// ── NewApp / Close ──

func TestNewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, nil, nil, logger.Nop())
	assert.Error(t, err)
}

func TestApp_CloseJoinsErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	calls := 0
	app := &App{closers: []func() error{
		func() error { calls++; return first },
		func() error { calls++; return nil },
		func() error { calls++; return second },
	}}

	err := app.Close()

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}
