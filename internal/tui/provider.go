// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-case-keeper/internal/service"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultProviderID = "google.com"

// ProviderModel signs in with an ID token issued by a federated provider.
// The token is obtained outside the terminal and pasted into the form.
type ProviderModel struct {
	ctx     context.Context
	auth    service.ClientAuthService
	session *service.Session

	form       form
	submitting bool
	errMsg     string
}

func NewProviderModel(ctx context.Context, auth service.ClientAuthService, session *service.Session) *ProviderModel {
	return &ProviderModel{
		ctx:     ctx,
		auth:    auth,
		session: session,
		form: newForm(
			formField{label: "Provider", placeholder: defaultProviderID, value: defaultProviderID},
			formField{label: "ID token", placeholder: "paste the provider ID token", secret: true},
		),
	}
}

func (m *ProviderModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ProviderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

			providerID := m.form.value(0)
			token := strings.TrimSpace(m.form.value(1))
			if providerID == "" || token == "" {
				m.errMsg = "Provider and ID token are required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdSignIn(providerID, token)
		}
	}

	cmd := m.form.update(msg)
	return m, cmd
}

func (m *ProviderModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.view())

	if m.submitting {
		b.WriteString("\n[Signing in...]\n")
	} else {
		b.WriteString("\n[Sign in]\n")
	}
	writeError(&b, m.errMsg)

	return renderPage("PROVIDER SIGN IN", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *ProviderModel) cmdSignIn(providerID, token string) tea.Cmd {
	ctx, auth, session := m.ctx, m.auth, m.session

	return func() tea.Msg {
		return AuthDone{Result: auth.SignInWithProvider(ctx, session, providerID, token)}
	}
}
