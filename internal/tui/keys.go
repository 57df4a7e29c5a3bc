// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	esc      key.Binding
	tab      key.Binding
	backtab  key.Binding
	quit     key.Binding
	logout   key.Binding
	newItem  key.Binding
	edit     key.Binding
	delete   key.Binding
	remove   key.Binding
	copy     key.Binding
	search   key.Binding
	filter   key.Binding
	view     key.Binding
	status   key.Binding
	hearing  key.Binding
	attach   key.Binding
	export   key.Binding
	calendar key.Binding
	yes      key.Binding
	no       key.Binding
	version  key.Binding
}

var keys = keyMap{
	up:       key.NewBinding(key.WithKeys("up", "k")),
	down:     key.NewBinding(key.WithKeys("down", "j")),
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	tab:      key.NewBinding(key.WithKeys("tab")),
	backtab:  key.NewBinding(key.WithKeys("shift+tab")),
	quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	logout:   key.NewBinding(key.WithKeys("ctrl+l")),
	newItem:  key.NewBinding(key.WithKeys("a")),
	edit:     key.NewBinding(key.WithKeys("e")),
	delete:   key.NewBinding(key.WithKeys("ctrl+d")),
	remove:   key.NewBinding(key.WithKeys("x")),
	copy:     key.NewBinding(key.WithKeys("c")),
	search:   key.NewBinding(key.WithKeys("/")),
	filter:   key.NewBinding(key.WithKeys("f")),
	view:     key.NewBinding(key.WithKeys("t")),
	status:   key.NewBinding(key.WithKeys("s")),
	hearing:  key.NewBinding(key.WithKeys("n")),
	attach:   key.NewBinding(key.WithKeys("u")),
	export:   key.NewBinding(key.WithKeys("o")),
	calendar: key.NewBinding(key.WithKeys("g")),
	yes:      key.NewBinding(key.WithKeys("y")),
	no:       key.NewBinding(key.WithKeys("n", "esc")),
	version:  key.NewBinding(key.WithKeys("v")),
}

func matches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}
