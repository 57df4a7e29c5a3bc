// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/MKhiriev/go-case-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// Page names routed by [RootModel].
const (
	pageMenu     = "menu"
	pageLogin    = "login"
	pageRegister = "register"
	pageProvider = "provider"
)

// NavigateTo switches the active page of [RootModel]. When Payload is set it
// is delivered to the new page instead of its Init command.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// AuthDone is produced by the auth pages once the provider answered.
type AuthDone struct {
	Result models.AuthResult
	Email  string
}

// bookChangedMsg reports that the case book has new data.
type bookChangedMsg struct{}

// opDoneMsg reports the end of a case mutation. The failure text, if any, is
// in the session error slot.
type opDoneMsg struct {
	status string
	err    error
}

// attachDoneMsg reports the outcome of attaching files to a case.
type attachDoneMsg struct {
	result models.AttachResult
	err    error
}

// clearStatusMsg hides the transient status line.
type clearStatusMsg struct{}
