// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-case-keeper/models"
)

func newTestRoot() RootModel {
	pages := map[string]tea.Model{
		pageMenu:  NewMenuModel(),
		pageLogin: NewLoginModel(context.Background(), nil, nil),
	}
	return NewRootModel(pages, pageMenu, models.NewAppBuildInfo("1.0.0", "2026-01-01", "abc123"))
}

func rootUpdate(t *testing.T, r RootModel, msg tea.Msg) (RootModel, tea.Cmd) {
	t.Helper()
	next, cmd := r.Update(msg)
	out, ok := next.(RootModel)
	require.True(t, ok)
	return out, cmd
}

// ── routing ──

func TestRoot_MenuNavigates(t *testing.T) {
	r := newTestRoot()

	_, cmd := rootUpdate(t, r, keyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateTo{Page: pageLogin}, cmd())

	r, _ = rootUpdate(t, r, NavigateTo{Page: pageLogin})
	_, ok := r.current.(*LoginModel)
	assert.True(t, ok)

	r, _ = rootUpdate(t, r, NavigateTo{Page: "nowhere"})
	_, ok = r.current.(*LoginModel)
	assert.True(t, ok, "unknown pages are ignored")
}

func TestRoot_AuthDone(t *testing.T) {
	r := newTestRoot()
	r, _ = rootUpdate(t, r, NavigateTo{Page: pageLogin})

	r, cmd := rootUpdate(t, r, AuthDone{Result: models.AuthResult{Error: "Invalid email or password"}})
	assert.False(t, r.signedIn)
	assert.Nil(t, cmd)
	assert.Contains(t, r.View(), "Invalid email or password")

	r, cmd = rootUpdate(t, r, AuthDone{Result: models.AuthResult{Success: true}})
	assert.True(t, r.signedIn)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRoot_CtrlCQuits(t *testing.T) {
	r, cmd := rootUpdate(t, newTestRoot(), tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, r.quitByUser)
	require.NotNil(t, cmd)
}

func TestRoot_BuildInfo(t *testing.T) {
	r, _ := rootUpdate(t, newTestRoot(), keyRunes("v"))
	view := r.View()
	assert.Contains(t, view, "1.0.0")
	assert.Contains(t, view, "abc123")

	r, _ = rootUpdate(t, r, keyEsc)
	assert.False(t, r.showBuildInfo)
}

// ── forms ──

func TestLogin_RequiresBothFields(t *testing.T) {
	m := NewLoginModel(context.Background(), nil, nil)

	_, cmd := m.Update(keyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, "Email and password are required", m.errMsg)
}

func TestRegister_PasswordsMustMatch(t *testing.T) {
	m := NewRegisterModel(context.Background(), nil, nil)
	m.form.inputs[0].SetValue("a@b.co")
	m.form.inputs[1].SetValue("secret1")
	m.form.inputs[2].SetValue("secret2")

	_, cmd := m.Update(keyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, "Passwords do not match", m.errMsg)
}

func TestForm_FocusAndValues(t *testing.T) {
	f := newForm(
		formField{label: "Email", value: "  a@b.co "},
		formField{label: "Password", value: " pass ", secret: true},
	)

	assert.Equal(t, "a@b.co", f.value(0))
	assert.Equal(t, " pass ", f.value(1), "secrets are not trimmed")

	f.update(keyTab)
	assert.Equal(t, 1, f.focus)
	f.update(keyTab)
	assert.Equal(t, 0, f.focus)
	f.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, f.focus)

	assert.True(t, strings.Contains(f.view(), "Password"))
}

func TestFitText(t *testing.T) {
	assert.Equal(t, "short", fitText("short", 10))
	assert.Equal(t, "Acme Di...", fitText("Acme District Court", 10))
	assert.Equal(t, "Züri...", fitText("Zürich District Court", 7))
	assert.Equal(t, "ab", fitText("abcdef", 2))
}
