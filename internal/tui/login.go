// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-case-keeper/internal/service"
	"github.com/MKhiriev/go-case-keeper/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LoginModel is the Bubble Tea model for the email/password sign-in screen.
// On submit it calls [service.ClientAuthService.SignIn] asynchronously and
// produces an [AuthDone] message; [RootModel] ends the flow on success.
type LoginModel struct {
	ctx     context.Context
	auth    service.ClientAuthService
	session *service.Session

	form       form
	submitting bool
	errMsg     string
}

// NewLoginModel creates a [LoginModel] with email and masked password inputs.
func NewLoginModel(ctx context.Context, auth service.ClientAuthService, session *service.Session) *LoginModel {
	return &LoginModel{
		ctx:     ctx,
		auth:    auth,
		session: session,
		form: newForm(
			formField{label: "Email", placeholder: "you@example.com", charLimit: 254},
			formField{label: "Password", placeholder: "password", secret: true, charLimit: 256},
		),
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation for the active input.
func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [AuthDone] clears submitting state; on failure, shows the error.
//   - esc navigates back to the menu.
//   - tab / shift+tab move focus between inputs.
//   - enter checks that both fields are set and dispatches the sign-in.
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(AuthDone); ok {
		m.submitting = false
		m.errMsg = done.Result.Error
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case matches(keyMsg, keys.esc):
			m.submitting = false
			m.errMsg = ""
			return m, func() tea.Msg { return NavigateTo{Page: pageMenu} }
		case matches(keyMsg, keys.enter):
			if m.submitting {
				return m, nil
			}

			email := m.form.value(0)
			pass := m.form.value(1)
			if email == "" || pass == "" {
				m.errMsg = "Email and password are required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdSignIn(email, pass)
		}
	}

	cmd := m.form.update(msg)
	return m, cmd
}

// View implements [tea.Model].
func (m *LoginModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.view())

	if m.submitting {
		b.WriteString("\n[Signing in...]\n")
	} else {
		b.WriteString("\n[Sign in]\n")
	}
	writeError(&b, m.errMsg)

	return renderPage("SIGN IN", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *LoginModel) cmdSignIn(email, pass string) tea.Cmd {
	ctx, auth, session := m.ctx, m.auth, m.session

	return func() tea.Msg {
		res := auth.SignIn(ctx, session, models.Credentials{Email: email, Password: pass})
		return AuthDone{Result: res, Email: email}
	}
}
