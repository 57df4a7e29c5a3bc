// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-case-keeper/internal/adapter"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/validators"
	"github.com/MKhiriev/go-case-keeper/models"
)

// Actions reported in the session error slot.
const (
	actionAddCase       = "Failed to add case"
	actionUpdateCase    = "Failed to update case"
	actionDeleteCase    = "Failed to delete case"
	actionAddHearing    = "Failed to add hearing date"
	actionUpdateHearing = "Failed to update hearing date"
	actionDeleteHearing = "Failed to delete hearing date"
	actionAddFile       = "Failed to add file"
	actionDeleteFile    = "Failed to delete file"
)

type clientCaseService struct {
	records     adapter.RecordStore
	validator   validators.Validator
	maxFileSize int64
	logger      *logger.Logger
}

// NewClientCaseService creates a ClientCaseService writing to records.
// Attached files larger than maxFileSize bytes are rejected.
func NewClientCaseService(records adapter.RecordStore, validator validators.Validator, maxFileSize int64, logger *logger.Logger) ClientCaseService {
	return &clientCaseService{
		records:     records,
		validator:   validator,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (c *clientCaseService) CreateCase(ctx context.Context, s *Session, data models.NewCase) (string, error) {
	userID := s.UserID()
	if userID == "" {
		return "", nil
	}
	s.ClearError()

	if err := c.validator.Validate(ctx, data); err != nil {
		return "", c.fail(s, userID, "CreateCase", actionAddCase, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}

	status := data.Status
	if status == "" {
		status = models.CaseStatusActive
	}

	caseID := c.records.NewID(models.CollectionCases)
	batch := &models.Batch{}
	batch.Set(models.CollectionCases, caseID, map[string]any{
		models.FieldUserID:      userID,
		models.FieldClientName:  data.ClientName,
		models.FieldClientPhone: nullable(data.ClientPhone),
		models.FieldCaseNumber:  data.CaseNumber,
		models.FieldCourtName:   data.CourtName,
		models.FieldStatus:      string(status),
		models.FieldNotes:       nullable(data.Notes),
		models.FieldFiles:       encodeFiles(data.Files),
		models.FieldCreatedAt:   models.ServerTimestampValue,
		models.FieldUpdatedAt:   models.ServerTimestampValue,
	})
	for _, h := range data.HearingDates {
		batch.Set(models.CollectionHearings, c.records.NewID(models.CollectionHearings), hearingFields(userID, caseID, h))
	}

	if err := c.records.Commit(ctx, batch); err != nil {
		return "", c.fail(s, userID, "CreateCase", actionAddCase, fmt.Errorf("%w: %w", ErrStoreWrite, err))
	}

	c.logger.WithUser(userID).Debug().
		Str("func", "clientCaseService.CreateCase").
		Str("case_id", caseID).
		Int("hearings", len(data.HearingDates)).
		Msg("case created")
	return caseID, nil
}

func (c *clientCaseService) UpdateCase(ctx context.Context, s *Session, caseID string, update models.CaseUpdate) error {
	userID := s.UserID()
	if userID == "" {
		return nil
	}
	s.ClearError()

	if err := c.validator.Validate(ctx, update); err != nil {
		return c.fail(s, userID, "UpdateCase", actionUpdateCase, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	if _, err := c.ownedRecord(ctx, models.CollectionCases, caseID, userID, ErrCaseNotFound); err != nil {
		return c.fail(s, userID, "UpdateCase", actionUpdateCase, err)
	}

	// an empty update still bumps updated_at
	fields := map[string]any{models.FieldUpdatedAt: models.ServerTimestampValue}
	if update.ClientName != nil {
		fields[models.FieldClientName] = *update.ClientName
	}
	if update.ClientPhone != nil {
		fields[models.FieldClientPhone] = nullable(*update.ClientPhone)
	}
	if update.CaseNumber != nil {
		fields[models.FieldCaseNumber] = *update.CaseNumber
	}
	if update.CourtName != nil {
		fields[models.FieldCourtName] = *update.CourtName
	}
	if update.Status != nil {
		fields[models.FieldStatus] = string(*update.Status)
	}
	if update.Notes != nil {
		fields[models.FieldNotes] = nullable(*update.Notes)
	}

	if err := c.records.Update(ctx, models.CollectionCases, caseID, fields); err != nil {
		return c.fail(s, userID, "UpdateCase", actionUpdateCase, fmt.Errorf("%w: %w", ErrStoreWrite, err))
	}
	return nil
}

func (c *clientCaseService) DeleteCase(ctx context.Context, s *Session, caseID string) error {
	userID := s.UserID()
	if userID == "" {
		return nil
	}
	s.ClearError()

	if _, err := c.ownedRecord(ctx, models.CollectionCases, caseID, userID, ErrCaseNotFound); err != nil {
		return c.fail(s, userID, "DeleteCase", actionDeleteCase, err)
	}

	hearings, err := c.records.Query(ctx, models.Query{Collection: models.CollectionHearings}.
		Where(models.FieldUserID, userID).
		Where(models.FieldCaseID, caseID))
	if err != nil {
		return c.fail(s, userID, "DeleteCase", actionDeleteCase, fmt.Errorf("%w: %w", ErrStoreRead, err))
	}

	batch := &models.Batch{}
	for _, h := range hearings {
		batch.Delete(models.CollectionHearings, h.ID)
	}
	batch.Delete(models.CollectionCases, caseID)

	if err = c.records.Commit(ctx, batch); err != nil {
		return c.fail(s, userID, "DeleteCase", actionDeleteCase, fmt.Errorf("%w: %w", ErrStoreWrite, err))
	}
	return nil
}

func (c *clientCaseService) AddHearing(ctx context.Context, s *Session, caseID string, hearing models.NewHearing) (string, error) {
	userID := s.UserID()
	if userID == "" {
		return "", nil
	}
	s.ClearError()

	if err := c.validator.Validate(ctx, hearing); err != nil {
		return "", c.fail(s, userID, "AddHearing", actionAddHearing, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}

	id, err := c.records.Create(ctx, models.CollectionHearings, hearingFields(userID, caseID, hearing))
	if err != nil {
		return "", c.fail(s, userID, "AddHearing", actionAddHearing, fmt.Errorf("%w: %w", ErrStoreWrite, err))
	}
	return id, nil
}

func (c *clientCaseService) UpdateHearing(ctx context.Context, s *Session, caseID, hearingID string, update models.HearingUpdate) error {
	userID := s.UserID()
	if userID == "" {
		return nil
	}
	s.ClearError()

	if err := c.validator.Validate(ctx, update); err != nil {
		return c.fail(s, userID, "UpdateHearing", actionUpdateHearing, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	if err := c.checkHearing(ctx, userID, caseID, hearingID); err != nil {
		return c.fail(s, userID, "UpdateHearing", actionUpdateHearing, err)
	}

	fields := map[string]any{models.FieldUpdatedAt: models.ServerTimestampValue}
	if update.Date != nil {
		fields[models.FieldDate] = *update.Date
	}
	if update.Time != nil {
		fields[models.FieldTime] = nullable(*update.Time)
	}
	if update.Notes != nil {
		fields[models.FieldNotes] = nullable(*update.Notes)
	}

	if err := c.records.Update(ctx, models.CollectionHearings, hearingID, fields); err != nil {
		return c.fail(s, userID, "UpdateHearing", actionUpdateHearing, fmt.Errorf("%w: %w", ErrStoreWrite, err))
	}

	c.logger.WithUser(userID).Debug().
		Str("func", "clientCaseService.UpdateHearing").
		Str("case_id", caseID).
		Str("hearing_id", hearingID).
		Msg("hearing updated")
	return nil
}

func (c *clientCaseService) DeleteHearing(ctx context.Context, s *Session, caseID, hearingID string) error {
	userID := s.UserID()
	if userID == "" {
		return nil
	}
	s.ClearError()

	if err := c.checkHearing(ctx, userID, caseID, hearingID); err != nil {
		return c.fail(s, userID, "DeleteHearing", actionDeleteHearing, err)
	}
	if err := c.records.Delete(ctx, models.CollectionHearings, hearingID); err != nil {
		return c.fail(s, userID, "DeleteHearing", actionDeleteHearing, fmt.Errorf("%w: %w", ErrStoreWrite, err))
	}

	c.logger.WithUser(userID).Debug().
		Str("func", "clientCaseService.DeleteHearing").
		Str("case_id", caseID).
		Str("hearing_id", hearingID).
		Msg("hearing deleted")
	return nil
}

func (c *clientCaseService) AddFile(ctx context.Context, s *Session, caseID string, file models.CaseFile) error {
	userID := s.UserID()
	if userID == "" {
		return nil
	}
	s.ClearError()

	if err := c.validator.Validate(ctx, file); err != nil {
		return c.fail(s, userID, "AddFile", actionAddFile, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}

	if err := c.rewriteFiles(ctx, userID, caseID, func(files []models.CaseFile) []models.CaseFile {
		return append(files, file)
	}); err != nil {
		return c.fail(s, userID, "AddFile", actionAddFile, err)
	}
	return nil
}

func (c *clientCaseService) DeleteFile(ctx context.Context, s *Session, caseID, fileID string) error {
	userID := s.UserID()
	if userID == "" {
		return nil
	}
	s.ClearError()

	if err := c.rewriteFiles(ctx, userID, caseID, func(files []models.CaseFile) []models.CaseFile {
		return slices.DeleteFunc(files, func(f models.CaseFile) bool { return f.ID == fileID })
	}); err != nil {
		return c.fail(s, userID, "DeleteFile", actionDeleteFile, err)
	}
	return nil
}

func (c *clientCaseService) AttachFiles(ctx context.Context, s *Session, caseID string, uploads []models.FileUpload) (models.AttachResult, error) {
	result := models.AttachResult{
		Attached: []models.CaseFile{},
		Rejected: []models.FileRejection{},
	}

	userID := s.UserID()
	if userID == "" {
		return result, nil
	}
	s.ClearError()

	for _, upload := range uploads {
		file, err := NewCaseFile(upload, c.maxFileSize)
		if err != nil {
			result.Rejected = append(result.Rejected, models.FileRejection{FileName: upload.FileName, Reason: err.Error()})
			continue
		}
		result.Attached = append(result.Attached, file)
	}
	if len(result.Attached) == 0 {
		return result, nil
	}

	if err := c.rewriteFiles(ctx, userID, caseID, func(files []models.CaseFile) []models.CaseFile {
		return append(files, result.Attached...)
	}); err != nil {
		attached := result.Attached
		result.Attached = []models.CaseFile{}
		for _, f := range attached {
			result.Rejected = append(result.Rejected, models.FileRejection{FileName: f.FileName, Reason: userMessage(err)})
		}
		return result, c.fail(s, userID, "AttachFiles", actionAddFile, err)
	}
	return result, nil
}

// rewriteFiles reads the embedded files of the case, applies mutate and
// writes the whole sequence back. There is no compare-and-swap: a concurrent
// rewrite of the same case is lost.
func (c *clientCaseService) rewriteFiles(ctx context.Context, userID, caseID string, mutate func([]models.CaseFile) []models.CaseFile) error {
	rec, err := c.ownedRecord(ctx, models.CollectionCases, caseID, userID, ErrCaseNotFound)
	if err != nil {
		return err
	}

	files, _ := rec.Get(models.FieldFiles)
	err = c.records.Update(ctx, models.CollectionCases, caseID, map[string]any{
		models.FieldFiles:     encodeFiles(mutate(decodeFiles(files))),
		models.FieldUpdatedAt: models.ServerTimestampValue,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return nil
}

// ownedRecord reads collection/id and returns notFound when the record is
// missing or belongs to another user.
func (c *clientCaseService) ownedRecord(ctx context.Context, collection, id, userID string, notFound error) (models.Record, error) {
	rec, err := c.records.Get(ctx, collection, id)
	if errors.Is(err, adapter.ErrRecordNotFound) {
		return models.Record{}, notFound
	}
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}
	if owner, _ := rec.Get(models.FieldUserID); owner != userID {
		return models.Record{}, notFound
	}
	return rec, nil
}

// checkHearing verifies that hearingID belongs to userID and to caseID.
func (c *clientCaseService) checkHearing(ctx context.Context, userID, caseID, hearingID string) error {
	rec, err := c.ownedRecord(ctx, models.CollectionHearings, hearingID, userID, ErrHearingNotFound)
	if err != nil {
		return err
	}
	if owner, _ := rec.Get(models.FieldCaseID); owner != caseID {
		return ErrHearingNotFound
	}
	return nil
}

// fail logs err, records it in the session error slot and returns it.
func (c *clientCaseService) fail(s *Session, userID, fn, action string, err error) error {
	c.logger.Err(err).
		Str("func", "clientCaseService."+fn).
		Str("user_id", userID).
		Msg(action)
	s.SetError(action + ": " + userMessage(err))
	return err
}

func hearingFields(userID, caseID string, h models.NewHearing) map[string]any {
	return map[string]any{
		models.FieldCaseID:    caseID,
		models.FieldUserID:    userID,
		models.FieldDate:      h.Date,
		models.FieldTime:      nullable(h.Time),
		models.FieldNotes:     nullable(h.Notes),
		models.FieldCreatedAt: models.ServerTimestampValue,
		models.FieldUpdatedAt: models.ServerTimestampValue,
	}
}

// nullable stores empty optional strings as null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
