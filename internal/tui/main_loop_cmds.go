// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-case-keeper/internal/service"
	"github.com/MKhiriev/go-case-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

const statusTTL = 3 * time.Second

type signOutDoneMsg struct {
	result models.AuthResult
}

// waitForChange blocks until the case book changes or the dashboard closes.
func (m mainLoopModel) waitForChange() tea.Cmd {
	changes, done := m.changes, m.done
	if changes == nil {
		return nil
	}

	return func() tea.Msg {
		select {
		case <-changes:
			return bookChangedMsg{}
		case <-done:
			return nil
		}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m mainLoopModel) cmdSignOut() tea.Cmd {
	ctx, auth, session := m.ctx, m.services.AuthService, m.session

	return func() tea.Msg {
		return signOutDoneMsg{result: auth.SignOut(ctx, session)}
	}
}

func (m mainLoopModel) cmdCreateCase(data models.NewCase) tea.Cmd {
	ctx, svc, session := m.ctx, m.services.CaseService, m.session

	return func() tea.Msg {
		_, err := svc.CreateCase(ctx, session, data)
		return opDoneMsg{status: "Case added", err: err}
	}
}

func (m mainLoopModel) cmdUpdateCase(caseID string, update models.CaseUpdate) tea.Cmd {
	ctx, svc, session := m.ctx, m.services.CaseService, m.session

	return func() tea.Msg {
		err := svc.UpdateCase(ctx, session, caseID, update)
		return opDoneMsg{status: "Case updated", err: err}
	}
}

func (m mainLoopModel) cmdToggleStatus(c models.Case) tea.Cmd {
	next := models.CaseStatusClosed
	if c.Status == models.CaseStatusClosed {
		next = models.CaseStatusActive
	}
	ctx, svc, session := m.ctx, m.services.CaseService, m.session

	return func() tea.Msg {
		err := svc.UpdateCase(ctx, session, c.ID, models.CaseUpdate{Status: &next})
		return opDoneMsg{status: "Case marked " + string(next), err: err}
	}
}

func (m mainLoopModel) cmdDeleteCase(caseID string) tea.Cmd {
	ctx, svc, session := m.ctx, m.services.CaseService, m.session

	return func() tea.Msg {
		err := svc.DeleteCase(ctx, session, caseID)
		return opDoneMsg{status: "Case deleted", err: err}
	}
}

func (m mainLoopModel) cmdAddHearing(caseID string, hearing models.NewHearing) tea.Cmd {
	ctx, svc, session := m.ctx, m.services.CaseService, m.session

	return func() tea.Msg {
		_, err := svc.AddHearing(ctx, session, caseID, hearing)
		return opDoneMsg{status: "Hearing added", err: err}
	}
}

func (m mainLoopModel) cmdUpdateHearing(caseID, hearingID string, update models.HearingUpdate) tea.Cmd {
	ctx, svc, session := m.ctx, m.services.CaseService, m.session

	return func() tea.Msg {
		err := svc.UpdateHearing(ctx, session, caseID, hearingID, update)
		return opDoneMsg{status: "Hearing updated", err: err}
	}
}

func (m mainLoopModel) cmdDeleteHearing(caseID, hearingID string) tea.Cmd {
	ctx, svc, session := m.ctx, m.services.CaseService, m.session

	return func() tea.Msg {
		err := svc.DeleteHearing(ctx, session, caseID, hearingID)
		return opDoneMsg{status: "Hearing deleted", err: err}
	}
}

func (m mainLoopModel) cmdDeleteFile(caseID, fileID string) tea.Cmd {
	ctx, svc, session := m.ctx, m.services.CaseService, m.session

	return func() tea.Msg {
		err := svc.DeleteFile(ctx, session, caseID, fileID)
		return opDoneMsg{status: "File removed", err: err}
	}
}

// cmdAttachFiles reads paths from disk and attaches them in one write.
// Unreadable paths are reported next to the size rejections of the service.
func (m mainLoopModel) cmdAttachFiles(caseID string, paths []string) tea.Cmd {
	ctx, svc, session := m.ctx, m.services.CaseService, m.session

	return func() tea.Msg {
		uploads, unreadable := readUploads(paths)
		if len(uploads) == 0 {
			return attachDoneMsg{result: models.AttachResult{Rejected: unreadable}}
		}

		res, err := svc.AttachFiles(ctx, session, caseID, uploads)
		res.Rejected = append(unreadable, res.Rejected...)
		return attachDoneMsg{result: res, err: err}
	}
}

func readUploads(paths []string) ([]models.FileUpload, []models.FileRejection) {
	var (
		uploads  []models.FileUpload
		rejected []models.FileRejection
	)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			err = errors.New("is a directory")
		}
		var content []byte
		if err == nil {
			content, err = os.ReadFile(p)
		}
		if err != nil {
			rejected = append(rejected, models.FileRejection{FileName: filepath.Base(p), Reason: humanizeFileError(p, err)})
			continue
		}
		uploads = append(uploads, models.FileUpload{FileName: filepath.Base(p), Content: content})
	}
	return uploads, rejected
}

// exportFile writes the content of f into the working directory.
func (m *mainLoopModel) exportFile(f models.CaseFile) {
	content, err := service.DecodeFileData(f)
	if err != nil {
		m.errMsg = err.Error()
		return
	}

	name := filepath.Base(f.FileName)
	if name == "." || name == string(filepath.Separator) {
		name = f.ID
	}
	if err = os.WriteFile(name, content, 0o600); err != nil {
		m.errMsg = humanizeFileError(name, err)
		return
	}
	m.errMsg = ""
	m.status = "Saved " + name + " (" + formatSize(int64(len(content))) + ")"
}
