// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal view layer: a sign-in flow and the case
// dashboard, both built on Bubble Tea.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/service"
	"github.com/MKhiriev/go-case-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrUserQuit is returned when the user leaves the program from any screen.
var ErrUserQuit = errors.New("user quit")

// TUI runs the interactive screens against the client services and the
// session of the running process.
type TUI struct {
	services  *service.ClientServices
	session   *service.Session
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, session *service.Session, buildInfo models.AppBuildInfo, log *logger.Logger) (*TUI, error) {
	if services == nil || session == nil {
		return nil, errors.New("tui: services and session are required")
	}
	return &TUI{services: services, session: session, buildInfo: buildInfo, logger: log}, nil
}

// LoginFlow shows the auth menu until the session is signed in.
func (t *TUI) LoginFlow(ctx context.Context) error {
	pages := map[string]tea.Model{
		pageMenu:     NewMenuModel(),
		pageLogin:    NewLoginModel(ctx, t.services.AuthService, t.session),
		pageRegister: NewRegisterModel(ctx, t.services.AuthService, t.session),
		pageProvider: NewProviderModel(ctx, t.services.AuthService, t.session),
	}

	root := NewRootModel(pages, pageMenu, t.buildInfo)
	finalModel, runErr := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if runErr != nil {
		return runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser || !result.signedIn {
		return ErrUserQuit
	}

	t.logger.Info().Str("func", "TUI.LoginFlow").Str("user_id", t.session.UserID()).Str("email", result.lastUser).Msg("login flow finished")
	return nil
}

// MainLoop shows the dashboard of the signed-in user. logout reports whether
// the user signed out rather than quit.
func (t *TUI) MainLoop(ctx context.Context) (logout bool, err error) {
	changes, unwatch := t.services.Book.Watch()
	defer unwatch()
	done := make(chan struct{})
	defer close(done)

	model := newMainLoopModel(ctx, t.services, t.session, changes, done)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	if result.logoutErr != "" {
		t.logger.Error().Str("func", "TUI.MainLoop").Msg(result.logoutErr)
	}
	return result.logout, nil
}
