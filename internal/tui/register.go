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

// RegisterModel is the Bubble Tea model for the account creation screen.
// A successful sign-up signs the new user in, so success ends the auth flow
// exactly like a sign-in.
type RegisterModel struct {
	ctx     context.Context
	auth    service.ClientAuthService
	session *service.Session

	form       form
	submitting bool
	errMsg     string
}

// NewRegisterModel creates a [RegisterModel] with email, password and
// password confirmation inputs.
func NewRegisterModel(ctx context.Context, auth service.ClientAuthService, session *service.Session) *RegisterModel {
	return &RegisterModel{
		ctx:     ctx,
		auth:    auth,
		session: session,
		form: newForm(
			formField{label: "Email", placeholder: "you@example.com", charLimit: 254},
			formField{label: "Password", placeholder: "at least 6 characters", secret: true, charLimit: 256},
			formField{label: "Repeat password", placeholder: "repeat password", secret: true, charLimit: 256},
		),
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation for the active input.
func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. enter requires every field and matching
// passwords before the sign-up is dispatched; the remaining rules are
// enforced by the auth service.
func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(AuthDone); ok {
		m.submitting = false
		m.errMsg = done.Result.Error
		if done.Result.Success {
			m.form.reset()
		}
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
			repeat := m.form.value(2)

			if email == "" || pass == "" || repeat == "" {
				m.errMsg = "All fields are required"
				return m, nil
			}
			if pass != repeat {
				m.errMsg = "Passwords do not match"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdSignUp(email, pass)
		}
	}

	cmd := m.form.update(msg)
	return m, cmd
}

// View implements [tea.Model].
func (m *RegisterModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.view())

	if m.submitting {
		b.WriteString("\n[Creating account...]\n")
	} else {
		b.WriteString("\n[Create account]\n")
	}
	writeError(&b, m.errMsg)

	return renderPage("CREATE ACCOUNT", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *RegisterModel) cmdSignUp(email, pass string) tea.Cmd {
	ctx, auth, session := m.ctx, m.auth, m.session

	return func() tea.Msg {
		res := auth.SignUp(ctx, session, models.Credentials{Email: email, Password: pass})
		return AuthDone{Result: res, Email: email}
	}
}
