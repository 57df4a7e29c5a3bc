// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/go-case-keeper/internal/service"
	"github.com/MKhiriev/go-case-keeper/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeDetail
	modeCaseForm
	modeHearingForm
	modeAttach
	modeConfirm
	modeCalendar
)

// listView selects what the dashboard list shows.
type listView int

const (
	listAll listView = iota
	listToday
	listWeek
)

func (v listView) String() string {
	switch v {
	case listToday:
		return "Today"
	case listWeek:
		return "This week"
	default:
		return "All cases"
	}
}

// listRow is one selectable line of the dashboard list.
type listRow struct {
	caseID  string
	hearing *models.UpcomingHearing
}

type confirmKind int

const (
	confirmDeleteCase confirmKind = iota + 1
	confirmDeleteHearing
	confirmDeleteFile
)

type confirmAction struct {
	kind     confirmKind
	caseID   string
	targetID string
	label    string
}

type mainLoopModel struct {
	ctx      context.Context
	services *service.ClientServices
	session  *service.Session
	now      func() time.Time

	changes <-chan struct{}
	done    <-chan struct{}

	mode   mode
	all    []models.Case
	rows   []listRow
	idx    int
	view   listView
	filter models.StatusFilter
	search textinput.Model

	detailID string
	sel      int

	form          form
	formReturn    mode
	formEditID    string
	formHearingID string

	attachInput textinput.Model
	confirm     confirmAction

	calendarInput textinput.Model
	calendarDate  string

	busy   bool
	status string
	errMsg string

	logout    bool
	logoutErr string
}

func newMainLoopModel(ctx context.Context, services *service.ClientServices, session *service.Session, changes, done <-chan struct{}) mainLoopModel {
	search := textinput.New()
	search.Placeholder = "client, case number or court"
	search.Width = 40

	m := mainLoopModel{
		ctx:      ctx,
		services: services,
		session:  session,
		now:      time.Now,
		changes:  changes,
		done:     done,
		filter:   models.StatusFilterAll,
		search:   search,
	}
	m.reload()
	return m
}

func (m mainLoopModel) Init() tea.Cmd {
	return m.waitForChange()
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case bookChangedMsg:
		m.reload()
		return m, m.waitForChange()
	case opDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = ""
			return m, nil
		}
		m.status = msg.status
		return m, cmdClearStatus()
	case attachDoneMsg:
		m.busy = false
		m.applyAttachResult(msg)
		return m, cmdClearStatus()
	case signOutDoneMsg:
		m.busy = false
		if !msg.result.Success {
			m.logoutErr = msg.result.Error
			m.errMsg = msg.result.Error
			return m, nil
		}
		m.logout = true
		return m, tea.Quit
	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forward(msg)
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeSearch:
		return m.updateSearch(keyMsg)
	case modeDetail:
		return m.updateDetail(keyMsg)
	case modeCaseForm:
		return m.updateCaseForm(keyMsg)
	case modeHearingForm:
		return m.updateHearingForm(keyMsg)
	case modeAttach:
		return m.updateAttach(keyMsg)
	case modeConfirm:
		return m.updateConfirm(keyMsg)
	case modeCalendar:
		return m.updateCalendar(keyMsg)
	}
	return m.updateList(keyMsg)
}

// forward passes non-key messages such as cursor blinks to the active input.
func (m mainLoopModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeCaseForm, modeHearingForm:
		cmd = m.form.update(msg)
	case modeAttach:
		m.attachInput, cmd = m.attachInput.Update(msg)
	case modeCalendar:
		m.calendarInput, cmd = m.calendarInput.Update(msg)
	}
	return m, cmd
}

// ── list ──

func (m mainLoopModel) updateList(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matches(keyMsg, keys.quit):
		return m, tea.Quit
	case matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case matches(keyMsg, keys.down):
		if m.idx < len(m.rows)-1 {
			m.idx++
		}
	case matches(keyMsg, keys.enter):
		row, ok := m.currentRow()
		if !ok {
			m.status = "No cases"
			return m, nil
		}
		m.openDetail(row.caseID)
	case matches(keyMsg, keys.newItem):
		m.startCaseForm(nil)
		return m, textinput.Blink
	case matches(keyMsg, keys.edit):
		c, ok := m.currentCase()
		if !ok {
			m.status = "No cases"
			return m, nil
		}
		m.startCaseForm(&c)
		return m, textinput.Blink
	case matches(keyMsg, keys.delete):
		c, ok := m.currentCase()
		if !ok {
			m.status = "No cases"
			return m, nil
		}
		m.askDeleteCase(c)
	case matches(keyMsg, keys.search):
		m.mode = modeSearch
		m.search.Focus()
		return m, textinput.Blink
	case matches(keyMsg, keys.filter):
		m.filter = nextStatusFilter(m.filter)
		m.idx = 0
		m.reload()
	case matches(keyMsg, keys.view):
		m.view = (m.view + 1) % 3
		m.idx = 0
		m.reload()
	case matches(keyMsg, keys.calendar):
		m.startCalendar()
		return m, textinput.Blink
	case matches(keyMsg, keys.logout):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.status = "Signing out..."
		return m, m.cmdSignOut()
	}
	return m, nil
}

func (m mainLoopModel) updateSearch(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matches(keyMsg, keys.enter):
		m.search.Blur()
		m.mode = modeList
		return m, nil
	case matches(keyMsg, keys.esc):
		m.search.SetValue("")
		m.search.Blur()
		m.mode = modeList
		m.idx = 0
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(keyMsg)
	m.idx = 0
	m.reload()
	return m, cmd
}

// reload re-reads the book and rebuilds the visible rows.
func (m *mainLoopModel) reload() {
	m.all = m.services.Book.Cases()
	now := m.now()

	m.rows = nil
	switch m.view {
	case listToday:
		for _, c := range service.SortByNextHearing(service.TodaysHearings(m.all, now), now) {
			m.rows = append(m.rows, listRow{caseID: c.ID})
		}
	case listWeek:
		for _, h := range service.UpcomingWeek(m.all, now) {
			m.rows = append(m.rows, listRow{caseID: h.CaseID, hearing: &h})
		}
	default:
		for _, c := range service.FilterCases(m.all, m.search.Value(), m.filter, now) {
			m.rows = append(m.rows, listRow{caseID: c.ID})
		}
	}

	if m.idx >= len(m.rows) {
		m.idx = len(m.rows) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}

	// the open case may have been deleted remotely
	if m.mode == modeDetail {
		if _, ok := m.caseByID(m.detailID); !ok {
			m.mode = modeList
			m.status = "The case is no longer available"
		} else {
			m.clampSelection()
		}
	}
}

func (m mainLoopModel) currentRow() (listRow, bool) {
	if len(m.rows) == 0 || m.idx < 0 || m.idx >= len(m.rows) {
		return listRow{}, false
	}
	return m.rows[m.idx], true
}

func (m mainLoopModel) currentCase() (models.Case, bool) {
	row, ok := m.currentRow()
	if !ok {
		return models.Case{}, false
	}
	return m.caseByID(row.caseID)
}

func (m mainLoopModel) caseByID(id string) (models.Case, bool) {
	for _, c := range m.all {
		if c.ID == id {
			return c, true
		}
	}
	return models.Case{}, false
}

func nextStatusFilter(f models.StatusFilter) models.StatusFilter {
	switch f {
	case models.StatusFilterAll:
		return models.StatusFilterActive
	case models.StatusFilterActive:
		return models.StatusFilterClosed
	default:
		return models.StatusFilterAll
	}
}

// ── detail ──

func (m *mainLoopModel) openDetail(caseID string) {
	m.detailID = caseID
	m.sel = 0
	m.mode = modeDetail
	m.errMsg = ""
}

// detailItems returns the hearings, sorted by date, followed by the files
// of c. The detail cursor moves over this sequence.
func detailItems(c models.Case) ([]models.HearingDate, []models.CaseFile) {
	hearings := slices.Clone(c.HearingDates)
	slices.SortStableFunc(hearings, func(a, b models.HearingDate) int {
		if a.Date != b.Date {
			return strings.Compare(a.Date, b.Date)
		}
		return strings.Compare(a.Time, b.Time)
	})
	return hearings, c.Files
}

func (m *mainLoopModel) clampSelection() {
	c, _ := m.caseByID(m.detailID)
	hearings, files := detailItems(c)
	total := len(hearings) + len(files)
	if m.sel >= total {
		m.sel = total - 1
	}
	if m.sel < 0 {
		m.sel = 0
	}
}

// selected returns the hearing or the file under the detail cursor.
func (m mainLoopModel) selected(c models.Case) (*models.HearingDate, *models.CaseFile) {
	hearings, files := detailItems(c)
	switch {
	case m.sel < len(hearings):
		return &hearings[m.sel], nil
	case m.sel-len(hearings) < len(files):
		return nil, &files[m.sel-len(hearings)]
	}
	return nil, nil
}

func (m mainLoopModel) updateDetail(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c, ok := m.caseByID(m.detailID)
	if !ok {
		m.mode = modeList
		return m, nil
	}
	hearing, file := m.selected(c)

	switch {
	case matches(keyMsg, keys.esc):
		m.mode = modeList
		m.errMsg = ""
	case matches(keyMsg, keys.up):
		if m.sel > 0 {
			m.sel--
		}
	case matches(keyMsg, keys.down):
		m.sel++
		m.clampSelection()
	case matches(keyMsg, keys.edit):
		m.startCaseForm(&c)
		return m, textinput.Blink
	case matches(keyMsg, keys.hearing):
		m.startHearingForm(nil)
		return m, textinput.Blink
	case matches(keyMsg, keys.enter):
		if hearing != nil {
			m.startHearingForm(hearing)
			return m, textinput.Blink
		}
	case matches(keyMsg, keys.status):
		return m, m.cmdToggleStatus(c)
	case matches(keyMsg, keys.attach):
		m.startAttach()
		return m, textinput.Blink
	case matches(keyMsg, keys.export):
		if file == nil {
			m.status = "Select a file first"
			return m, nil
		}
		m.exportFile(*file)
	case matches(keyMsg, keys.copy):
		if err := clipboard.WriteAll(c.CaseNumber); err != nil {
			m.errMsg = fmt.Sprintf("Copy failed: %v", err)
			return m, nil
		}
		m.status = "Case number copied"
		return m, cmdClearStatus()
	case matches(keyMsg, keys.remove):
		switch {
		case hearing != nil:
			m.confirm = confirmAction{kind: confirmDeleteHearing, caseID: c.ID, targetID: hearing.ID, label: "hearing on " + hearing.Date}
			m.mode = modeConfirm
		case file != nil:
			m.confirm = confirmAction{kind: confirmDeleteFile, caseID: c.ID, targetID: file.ID, label: "file " + file.FileName}
			m.mode = modeConfirm
		}
	case matches(keyMsg, keys.delete):
		m.askDeleteCase(c)
	}
	return m, nil
}

// ── forms ──

const (
	caseFieldClient = iota
	caseFieldPhone
	caseFieldNumber
	caseFieldCourt
	caseFieldNotes
	caseFieldHearings
)

// startCaseForm opens the create form, or the edit form of c.
func (m *mainLoopModel) startCaseForm(c *models.Case) {
	fields := []formField{
		{label: "Client name", placeholder: "required"},
		{label: "Client phone", placeholder: "optional"},
		{label: "Case number", placeholder: "required"},
		{label: "Court", placeholder: "required"},
		{label: "Notes", placeholder: "optional"},
	}

	m.formReturn = m.mode
	m.formEditID = ""
	if c != nil {
		m.formEditID = c.ID
		fields[caseFieldClient].value = c.ClientName
		fields[caseFieldPhone].value = c.ClientPhone
		fields[caseFieldNumber].value = c.CaseNumber
		fields[caseFieldCourt].value = c.CourtName
		fields[caseFieldNotes].value = c.Notes
	} else {
		fields = append(fields, formField{label: "Hearing dates", placeholder: "YYYY-MM-DD, YYYY-MM-DD"})
	}

	m.form = newForm(fields...)
	m.mode = modeCaseForm
	m.errMsg = ""
}

func (m mainLoopModel) updateCaseForm(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matches(keyMsg, keys.esc):
		m.closeForm()
		return m, nil
	case matches(keyMsg, keys.enter):
		if m.busy {
			return m, nil
		}
		if m.formEditID == "" {
			data, err := m.newCaseFromForm()
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.busy = true
			m.closeForm()
			return m, m.cmdCreateCase(data)
		}

		c, ok := m.caseByID(m.formEditID)
		if !ok {
			m.closeForm()
			return m, nil
		}
		update := m.caseUpdateFromForm(c)
		if update.IsEmpty() {
			m.closeForm()
			m.status = "No changes"
			return m, cmdClearStatus()
		}
		m.busy = true
		m.closeForm()
		return m, m.cmdUpdateCase(c.ID, update)
	}

	cmd := m.form.update(keyMsg)
	return m, cmd
}

func (m mainLoopModel) newCaseFromForm() (models.NewCase, error) {
	hearings, err := parseHearingDates(m.form.value(caseFieldHearings))
	if err != nil {
		return models.NewCase{}, err
	}
	return models.NewCase{
		ClientName:   m.form.value(caseFieldClient),
		ClientPhone:  m.form.value(caseFieldPhone),
		CaseNumber:   m.form.value(caseFieldNumber),
		CourtName:    m.form.value(caseFieldCourt),
		Status:       models.CaseStatusActive,
		Notes:        m.form.value(caseFieldNotes),
		HearingDates: hearings,
	}, nil
}

// caseUpdateFromForm carries only the fields that differ from c.
func (m mainLoopModel) caseUpdateFromForm(c models.Case) models.CaseUpdate {
	var u models.CaseUpdate
	u.ClientName = changed(c.ClientName, m.form.value(caseFieldClient))
	u.ClientPhone = changed(c.ClientPhone, m.form.value(caseFieldPhone))
	u.CaseNumber = changed(c.CaseNumber, m.form.value(caseFieldNumber))
	u.CourtName = changed(c.CourtName, m.form.value(caseFieldCourt))
	u.Notes = changed(c.Notes, m.form.value(caseFieldNotes))
	return u
}

func changed(old, value string) *string {
	if old == value {
		return nil
	}
	return &value
}

// parseHearingDates splits a comma separated list of dates. Format checks
// are left to the case service.
func parseHearingDates(raw string) ([]models.NewHearing, error) {
	hearings := []models.NewHearing{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.ContainsAny(part, " \t") {
			return nil, fmt.Errorf("%q: separate hearing dates with commas", part)
		}
		hearings = append(hearings, models.NewHearing{Date: part})
	}
	return hearings, nil
}

const (
	hearingFieldDate = iota
	hearingFieldTime
	hearingFieldNotes
)

// startHearingForm opens the add form, or the edit form of h.
func (m *mainLoopModel) startHearingForm(h *models.HearingDate) {
	fields := []formField{
		{label: "Date", placeholder: models.DateLayout, value: service.LocalDate(m.now())},
		{label: "Time", placeholder: "10:30"},
		{label: "Notes", placeholder: "optional"},
	}

	m.formHearingID = ""
	if h != nil {
		m.formHearingID = h.ID
		fields[hearingFieldDate].value = h.Date
		fields[hearingFieldTime].value = h.Time
		fields[hearingFieldNotes].value = h.Notes
	}

	m.form = newForm(fields...)
	m.mode = modeHearingForm
	m.errMsg = ""
}

func (m mainLoopModel) updateHearingForm(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matches(keyMsg, keys.esc):
		m.mode = modeDetail
		return m, nil
	case matches(keyMsg, keys.enter):
		if m.busy {
			return m, nil
		}

		date := m.form.value(hearingFieldDate)
		at := m.form.value(hearingFieldTime)
		notes := m.form.value(hearingFieldNotes)

		if m.formHearingID == "" {
			m.busy = true
			m.mode = modeDetail
			return m, m.cmdAddHearing(m.detailID, models.NewHearing{Date: date, Time: at, Notes: notes})
		}

		c, _ := m.caseByID(m.detailID)
		var old models.HearingDate
		for _, h := range c.HearingDates {
			if h.ID == m.formHearingID {
				old = h
			}
		}
		update := models.HearingUpdate{
			Date:  changed(old.Date, date),
			Time:  changed(old.Time, at),
			Notes: changed(old.Notes, notes),
		}
		m.mode = modeDetail
		if update.IsEmpty() {
			m.status = "No changes"
			return m, cmdClearStatus()
		}
		m.busy = true
		return m, m.cmdUpdateHearing(m.detailID, m.formHearingID, update)
	}

	cmd := m.form.update(keyMsg)
	return m, cmd
}

func (m *mainLoopModel) closeForm() {
	m.mode = m.formReturn
	m.formEditID = ""
}

// ── files ──

func (m *mainLoopModel) startAttach() {
	in := textinput.New()
	in.Placeholder = "/path/to/file.pdf, /path/to/scan.png"
	in.Width = 54
	in.Focus()

	m.attachInput = in
	m.mode = modeAttach
	m.errMsg = ""
}

func (m mainLoopModel) updateAttach(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matches(keyMsg, keys.esc):
		m.mode = modeDetail
		return m, nil
	case matches(keyMsg, keys.enter):
		if m.busy {
			return m, nil
		}
		paths := splitPaths(m.attachInput.Value())
		if len(paths) == 0 {
			m.errMsg = "Enter at least one file path"
			return m, nil
		}
		m.busy = true
		m.mode = modeDetail
		return m, m.cmdAttachFiles(m.detailID, paths)
	}

	var cmd tea.Cmd
	m.attachInput, cmd = m.attachInput.Update(keyMsg)
	return m, cmd
}

func (m *mainLoopModel) applyAttachResult(msg attachDoneMsg) {
	if msg.err != nil {
		m.errMsg = msg.err.Error()
		return
	}

	reasons := make([]string, 0, len(msg.result.Rejected))
	for _, r := range msg.result.Rejected {
		reasons = append(reasons, r.Reason)
	}
	m.errMsg = strings.Join(reasons, "; ")
	if n := len(msg.result.Attached); n > 0 {
		m.status = fmt.Sprintf("Attached %d file(s)", n)
	}
}

func splitPaths(raw string) []string {
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// ── confirm ──

func (m *mainLoopModel) askDeleteCase(c models.Case) {
	m.confirm = confirmAction{kind: confirmDeleteCase, caseID: c.ID, targetID: c.ID, label: "case " + c.CaseNumber + " of " + c.ClientName}
	m.mode = modeConfirm
}

func (m mainLoopModel) updateConfirm(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.confirm

	back := modeDetail
	if action.kind == confirmDeleteCase && m.detailID != action.caseID {
		back = modeList
	}

	switch {
	case matches(keyMsg, keys.yes):
		m.busy = true
		m.confirm = confirmAction{}
		switch action.kind {
		case confirmDeleteCase:
			m.mode = modeList
			return m, m.cmdDeleteCase(action.caseID)
		case confirmDeleteHearing:
			m.mode = back
			return m, m.cmdDeleteHearing(action.caseID, action.targetID)
		case confirmDeleteFile:
			m.mode = back
			return m, m.cmdDeleteFile(action.caseID, action.targetID)
		}
		m.busy = false
	case matches(keyMsg, keys.no):
		m.confirm = confirmAction{}
		m.mode = back
	}
	return m, nil
}

// ── calendar ──

func (m *mainLoopModel) startCalendar() {
	in := textinput.New()
	in.Placeholder = models.DateLayout
	in.Width = 12
	in.CharLimit = len(models.DateLayout)
	in.SetValue(service.LocalDate(m.now()))
	in.Focus()

	m.calendarInput = in
	m.calendarDate = in.Value()
	m.mode = modeCalendar
}

func (m mainLoopModel) updateCalendar(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matches(keyMsg, keys.esc):
		m.calendarInput.Blur()
		m.mode = modeList
		return m, nil
	case matches(keyMsg, keys.enter):
		m.calendarDate = strings.TrimSpace(m.calendarInput.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.calendarInput, cmd = m.calendarInput.Update(keyMsg)
	return m, cmd
}
