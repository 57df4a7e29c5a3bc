// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/service"
	"github.com/MKhiriev/go-case-keeper/internal/tui"
	"github.com/MKhiriev/go-case-keeper/models"
)

// Screens is the view layer driven by [App].
type Screens interface {
	// LoginFlow blocks until the session is signed in or the user quits.
	LoginFlow(ctx context.Context) error
	// MainLoop blocks until the user quits or signs out.
	MainLoop(ctx context.Context) (logout bool, err error)
}

// App runs the sign-in flow and the dashboard until the user quits.
type App struct {
	services *service.ClientServices
	session  *service.Session
	ui       Screens
	closers  []func() error
	logger   *logger.Logger
}

// NewApp builds an [App]. closers are called in order by [App.Close].
func NewApp(services *service.ClientServices, session *service.Session, ui Screens, log *logger.Logger, closers ...func() error) (*App, error) {
	if services == nil || session == nil || ui == nil {
		return nil, errors.New("client: services, session and ui are required")
	}
	return &App{
		services: services,
		session:  session,
		ui:       ui,
		closers:  closers,
		logger:   log,
	}, nil
}

// Run alternates between the sign-in flow and the dashboard. Signing out
// returns to the sign-in flow; quitting from any screen ends Run with nil.
func (a *App) Run(ctx context.Context) error {
	defer a.services.SyncJob.Stop()

	var signedIn atomic.Bool
	unwatch := a.services.AuthService.Watch(func(identity models.Identity, ok bool) {
		signedIn.Store(ok)
		a.logger.Debug().Str("func", "App.Run").Str("user_id", identity.ID).Bool("signed_in", ok).Msg("auth state changed")
	})
	defer unwatch()

	for {
		if !signedIn.Load() {
			err := a.ui.LoginFlow(ctx)
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("login flow: %w", err)
			}
		}

		logout, err := a.ui.MainLoop(ctx)
		if err != nil {
			return fmt.Errorf("main loop: %w", err)
		}
		if !logout {
			return nil
		}
		a.logger.Info().Str("func", "App.Run").Msg("signed out, back to sign-in")
	}
}

// Close releases the resources handed to [NewApp].
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
