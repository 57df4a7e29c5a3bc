// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/MKhiriev/go-case-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// RootModel routes the sign-in flow between its pages. It quits the program
// once an [AuthDone] reports success or the user presses ctrl+c; everything
// else goes to the active page.
type RootModel struct {
	pages    map[string]tea.Model
	page     string
	current  tea.Model
	lastUser string

	quitByUser bool
	signedIn   bool

	buildInfo     models.AppBuildInfo
	showBuildInfo bool
}

// NewRootModel registers pages and opens startPage.
func NewRootModel(pages map[string]tea.Model, startPage string, buildInfo models.AppBuildInfo) RootModel {
	return RootModel{
		pages:     pages,
		page:      startPage,
		current:   pages[startPage],
		buildInfo: buildInfo,
	}
}

func (r RootModel) Init() tea.Cmd {
	if r.current == nil {
		return nil
	}
	return r.current.Init()
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := r.handleGlobalKey(msg); handled {
			return r, cmd
		}
	case NavigateTo:
		return r.navigate(msg)
	case AuthDone:
		if msg.Result.Success {
			r.signedIn = true
			r.lastUser = msg.Email
			return r, tea.Quit
		}
	}

	if r.current == nil {
		return r, nil
	}
	updated, cmd := r.current.Update(msg)
	r.current = updated
	return r, cmd
}

// handleGlobalKey deals with ctrl+c and the about window of the menu page.
func (r *RootModel) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		r.quitByUser = true
		return true, tea.Quit
	case r.showBuildInfo:
		if matches(msg, keys.esc) || matches(msg, keys.version) {
			r.showBuildInfo = false
		}
		return true, nil
	case r.page == pageMenu && matches(msg, keys.version):
		r.showBuildInfo = true
		return true, nil
	}
	return false, nil
}

func (r RootModel) navigate(nav NavigateTo) (tea.Model, tea.Cmd) {
	next, ok := r.pages[nav.Page]
	if !ok {
		return r, nil
	}

	r.page = nav.Page
	r.current = next
	r.showBuildInfo = false

	if nav.Payload != nil {
		return r, func() tea.Msg { return nav.Payload }
	}
	return r, r.current.Init()
}

func (r RootModel) View() string {
	switch {
	case r.showBuildInfo:
		return renderBuildInfoWindow(r.buildInfo)
	case r.current == nil:
		return renderPage("CASE KEEPER", "", "")
	}
	return r.current.View()
}
