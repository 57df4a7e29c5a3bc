// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-case-keeper/internal/service"
	"github.com/MKhiriev/go-case-keeper/models"
)

const (
	listHotKeys   = "a: add │ enter: open │ e: edit │ ctrl+d: delete │ /: search │ f: status │ t: view │ g: calendar │ ctrl+l: sign out │ q: quit"
	detailHotKeys = "e: edit │ n: hearing │ enter: edit hearing │ x: remove │ s: status │ u: attach │ o: save file │ c: copy no. │ ctrl+d: delete │ esc: back"
	formHotKeys   = "tab: next field │ shift+tab: prev field │ enter: save │ esc: cancel"
)

func (m mainLoopModel) View() string {
	switch m.mode {
	case modeDetail:
		return m.viewDetail()
	case modeCaseForm:
		title := "NEW CASE"
		if m.formEditID != "" {
			title = "EDIT CASE"
		}
		return m.viewForm(title)
	case modeHearingForm:
		title := "NEW HEARING"
		if m.formHearingID != "" {
			title = "EDIT HEARING"
		}
		return m.viewForm(title)
	case modeAttach:
		return m.viewAttach()
	case modeConfirm:
		return m.viewConfirm()
	case modeCalendar:
		return m.viewCalendar()
	}
	return m.viewList()
}

func (m mainLoopModel) writeMessages(b *strings.Builder) {
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	msg := m.errMsg
	if slot := m.session.Err(); slot != "" {
		msg = strings.TrimPrefix(strings.Join([]string{msg, slot}, "; "), "; ")
	}
	writeError(b, msg)
}

func (m mainLoopModel) viewList() string {
	var b strings.Builder
	now := m.now()

	identity, _ := m.session.Identity()
	stats := service.CaseStats(m.all, now)
	b.WriteString(fmt.Sprintf("%s │ Total: %d │ Active: %d │ Today: %d │ This week: %d\n",
		valueOrDash(identity.Email), stats.Total, stats.Active, stats.TodaysHearings, stats.UpcomingThisWeek))

	b.WriteString(fmt.Sprintf("View: %s", m.view))
	if m.view == listAll {
		b.WriteString(fmt.Sprintf(" │ Status: %s", m.filter))
		if m.mode == modeSearch || m.search.Value() != "" {
			b.WriteString(" │ Search: [" + m.search.View() + "]")
		}
	}
	b.WriteString("\n")
	m.writeMessages(&b)
	b.WriteString("\n")

	if m.services.Book.IsLoading() {
		b.WriteString("Loading cases...\n")
		return renderPage("CASES", strings.TrimRight(b.String(), "\n"), listHotKeys)
	}
	if len(m.rows) == 0 {
		b.WriteString("No cases\n")
		return renderPage("CASES", strings.TrimRight(b.String(), "\n"), listHotKeys)
	}

	if m.view == listWeek {
		b.WriteString("   #  │ Date       │ Time  │ Client               │ Case no.     │ Court\n")
		b.WriteString("──────┼────────────┼───────┼──────────────────────┼──────────────┼──────────────────\n")
		for i, row := range m.rows {
			h := row.hearing
			b.WriteString(fmt.Sprintf("%s %-3d │ %-10s │ %-5s │ %-20s │ %-12s │ %s\n",
				cursor(i == m.idx), i+1, h.Date, fitText(valueOrDash(h.Time), 5),
				fitText(h.ClientName, 20), fitText(h.CaseNumber, 12), fitText(h.CourtName, 18)))
		}
		return renderPage("CASES", strings.TrimRight(b.String(), "\n"), listHotKeys)
	}

	b.WriteString("   #  │ Client               │ Case no.     │ Court              │ Next hearing │ Status\n")
	b.WriteString("──────┼──────────────────────┼──────────────┼────────────────────┼──────────────┼───────\n")
	for i, row := range m.rows {
		c, ok := m.caseByID(row.caseID)
		if !ok {
			continue
		}
		next := "-"
		if h, ok := service.NextHearing(c, now); ok {
			next = h.Date
		}
		line := fmt.Sprintf("%s %-3d │ %-20s │ %-12s │ %-18s │ %-12s │ %s",
			cursor(i == m.idx), i+1, fitText(c.ClientName, 20), fitText(c.CaseNumber, 12),
			fitText(c.CourtName, 18), next, c.Status)
		if c.Status == models.CaseStatusClosed {
			line = closedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return renderPage("CASES", strings.TrimRight(b.String(), "\n"), listHotKeys)
}

func (m mainLoopModel) viewDetail() string {
	c, ok := m.caseByID(m.detailID)
	if !ok {
		return renderPage("CASE", "Case not found", "esc: back")
	}

	var b strings.Builder
	m.writeMessages(&b)

	b.WriteString("[ CASE ]\n")
	b.WriteString("Client    : " + c.ClientName + "\n")
	b.WriteString("Phone     : " + valueOrDash(c.ClientPhone) + "\n")
	b.WriteString("Case no.  : " + c.CaseNumber + "\n")
	b.WriteString("Court     : " + c.CourtName + "\n")
	b.WriteString("Status    : " + string(c.Status) + "\n")
	b.WriteString("Created   : " + c.CreatedAt + "\n")

	hearings, files := detailItems(c)
	pos := 0

	b.WriteString("\n[ HEARINGS ]\n")
	if len(hearings) == 0 {
		b.WriteString("(none)\n")
	}
	for _, h := range hearings {
		line := fmt.Sprintf("%s %s %s", cursor(pos == m.sel), h.Date, valueOrDash(h.Time))
		if h.Notes != "" {
			line += "  " + h.Notes
		}
		b.WriteString(line + "\n")
		pos++
	}

	b.WriteString("\n[ FILES ]\n")
	if len(files) == 0 {
		b.WriteString("(none)\n")
	}
	for _, f := range files {
		size := int64(0)
		if content, err := service.DecodeFileData(f); err == nil {
			size = int64(len(content))
		}
		b.WriteString(fmt.Sprintf("%s %s (%s, %s)\n", cursor(pos == m.sel), f.FileName, valueOrDash(f.FileType), formatSize(size)))
		pos++
	}

	b.WriteString("\n[ NOTES ]\n")
	if strings.TrimSpace(c.Notes) != "" {
		b.WriteString(c.Notes + "\n")
	} else {
		b.WriteString("(empty)\n")
	}

	return renderPage("CASE: "+c.CaseNumber, strings.TrimRight(b.String(), "\n"), detailHotKeys)
}

func (m mainLoopModel) viewForm(title string) string {
	var b strings.Builder
	b.WriteString(m.form.view())
	if m.busy {
		b.WriteString("\n[Saving...]\n")
	}
	writeError(&b, m.errMsg)
	return renderPage(title, strings.TrimRight(b.String(), "\n"), formHotKeys)
}

func (m mainLoopModel) viewAttach() string {
	var b strings.Builder
	b.WriteString("Paths : [ " + m.attachInput.View() + " ]\n")
	b.WriteString("\nSeparate several files with commas.\n")
	writeError(&b, m.errMsg)
	return renderPage("ATTACH FILES", strings.TrimRight(b.String(), "\n"), "enter: attach │ esc: cancel")
}

func (m mainLoopModel) viewConfirm() string {
	body := "Delete " + m.confirm.label + "?"
	if m.confirm.kind == confirmDeleteCase {
		body += "\nAll hearings of the case are deleted too."
	}
	return renderPage("CONFIRM", body, "y: delete │ n/esc: cancel")
}

func (m mainLoopModel) viewCalendar() string {
	var b strings.Builder
	b.WriteString("Date : [ " + m.calendarInput.View() + " ]\n\n")

	hearings := service.HearingsOn(m.all, m.calendarDate)
	if len(hearings) == 0 {
		b.WriteString("No hearings on " + valueOrDash(m.calendarDate) + "\n")
	}
	for _, h := range hearings {
		b.WriteString(fmt.Sprintf("%-5s │ %-20s │ %-12s │ %s\n",
			fitText(valueOrDash(h.Time), 5), fitText(h.ClientName, 20), fitText(h.CaseNumber, 12), h.CourtName))
	}

	return renderPage("CALENDAR", strings.TrimRight(b.String(), "\n"), "enter: show date │ esc: back")
}

func cursor(active bool) string {
	if active {
		return ">"
	}
	return " "
}
