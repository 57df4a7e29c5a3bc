// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-case-keeper/internal/adapter"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/mock"
	"github.com/MKhiriev/go-case-keeper/internal/validators"
	"github.com/MKhiriev/go-case-keeper/models"
)

const testMaxFileSize = 1 << 10

// newTestCaseSvc returns a case service over an in-memory store and a
// session signed in as "u1".
func newTestCaseSvc(t *testing.T, opts ...adapter.MemoryOption) (ClientCaseService, adapter.RecordStore, *Session) {
	t.Helper()

	records := adapter.NewMemoryRecordStore(logger.Nop(), opts...)
	svc := NewClientCaseService(records, validators.NewCaseValidator(), testMaxFileSize, logger.Nop())

	s := NewSession(nil)
	s.setIdentity(models.Identity{ID: "u1", Email: "u1@example.com"})
	return svc, records, s
}

func validCase(hearingDates ...string) models.NewCase {
	hearings := make([]models.NewHearing, 0, len(hearingDates))
	for _, d := range hearingDates {
		hearings = append(hearings, models.NewHearing{Date: d})
	}
	return models.NewCase{
		ClientName:   "Acme Corp",
		CaseNumber:   "ACME-001",
		CourtName:    "Acme District Court",
		HearingDates: hearings,
	}
}

func userQuery(collection, userID string) models.Query {
	return models.Query{Collection: collection}.Where(models.FieldUserID, userID)
}

// ── CreateCase ──

func TestCreateCase_WritesCaseAndHearings(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()

	id, err := svc.CreateCase(ctx, s, validCase("2026-03-11", "2026-03-12", "2026-03-13"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := records.Get(ctx, models.CollectionCases, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.Fields[models.FieldUserID])
	assert.Equal(t, "Active", rec.Fields[models.FieldStatus])
	assert.IsType(t, models.ServerTimestamp{}, rec.Fields[models.FieldCreatedAt])
	assert.Nil(t, rec.Fields[models.FieldClientPhone])

	hearings, err := records.Query(ctx, userQuery(models.CollectionHearings, "u1"))
	require.NoError(t, err)
	require.Len(t, hearings, 3)
	for _, h := range hearings {
		assert.Equal(t, id, h.Fields[models.FieldCaseID])
	}
	assert.Empty(t, s.Err())
}

func TestCreateCase_AllOrNothing(t *testing.T) {
	writes := 0
	svc, records, s := newTestCaseSvc(t, adapter.WithWriteInterceptor(func(op models.WriteOp) error {
		writes++
		// fail on the third hearing
		if writes == 4 {
			return adapter.ErrPermissionDenied
		}
		return nil
	}))
	ctx := context.Background()

	id, err := svc.CreateCase(ctx, s, validCase("2026-03-11", "2026-03-12", "2026-03-13"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreWrite)
	assert.Empty(t, id)

	cases, _ := records.Query(ctx, userQuery(models.CollectionCases, "u1"))
	hearings, _ := records.Query(ctx, userQuery(models.CollectionHearings, "u1"))
	assert.Empty(t, cases)
	assert.Empty(t, hearings)
	assert.Equal(t, "Failed to add case: Missing or insufficient permissions", s.Err())
}

func TestCreateCase_ValidationFailure(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()

	data := validCase()
	data.ClientName = " "
	_, err := svc.CreateCase(ctx, s, data)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, validators.ErrInvalidClientName)
	assert.Equal(t, "Failed to add case: Client name is required", s.Err())

	cases, _ := records.Query(ctx, userQuery(models.CollectionCases, "u1"))
	assert.Empty(t, cases)
}

func TestCreateCase_NoUserIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	svc := NewClientCaseService(records, validators.NewCaseValidator(), testMaxFileSize, logger.Nop())

	// no calls expected on the store
	id, err := svc.CreateCase(context.Background(), NewSession(nil), validCase())

	assert.NoError(t, err)
	assert.Empty(t, id)
}

func TestCreateCase_ClearsPreviousError(t *testing.T) {
	svc, _, s := newTestCaseSvc(t)
	s.SetError("old failure")

	_, err := svc.CreateCase(context.Background(), s, validCase())

	require.NoError(t, err)
	assert.Empty(t, s.Err())
}

// ── UpdateCase ──

func TestUpdateCase_OnlySuppliedFields(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()

	id, err := svc.CreateCase(ctx, s, validCase())
	require.NoError(t, err)

	closed := models.CaseStatusClosed
	notes := "settled"
	require.NoError(t, svc.UpdateCase(ctx, s, id, models.CaseUpdate{Status: &closed, Notes: &notes}))

	rec, err := records.Get(ctx, models.CollectionCases, id)
	require.NoError(t, err)
	assert.Equal(t, "Closed", rec.Fields[models.FieldStatus])
	assert.Equal(t, "settled", rec.Fields[models.FieldNotes])
	assert.Equal(t, "Acme Corp", rec.Fields[models.FieldClientName])
	assert.IsType(t, models.ServerTimestamp{}, rec.Fields[models.FieldUpdatedAt])
}

func TestUpdateCase_EmptyUpdateBumpsUpdatedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	svc, records, s := newTestCaseSvc(t, adapter.WithClock(clock))
	ctx := context.Background()

	id, err := svc.CreateCase(ctx, s, validCase())
	require.NoError(t, err)
	before, err := records.Get(ctx, models.CollectionCases, id)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateCase(ctx, s, id, models.CaseUpdate{}))

	after, err := records.Get(ctx, models.CollectionCases, id)
	require.NoError(t, err)
	assert.Empty(t, s.Err())
	assert.IsType(t, models.ServerTimestamp{}, after.Fields[models.FieldUpdatedAt])
	assert.NotEqual(t, before.Fields[models.FieldUpdatedAt], after.Fields[models.FieldUpdatedAt])
	assert.Equal(t, before.Fields[models.FieldClientName], after.Fields[models.FieldClientName])
}

func TestUpdateCase_MissingCase(t *testing.T) {
	svc, _, s := newTestCaseSvc(t)
	notes := "x"

	err := svc.UpdateCase(context.Background(), s, "missing", models.CaseUpdate{Notes: &notes})

	assert.ErrorIs(t, err, ErrCaseNotFound)
	assert.Equal(t, "Failed to update case: Case not found", s.Err())
}

// foreignCase writes a case and one hearing owned by "u2" directly to the store.
func foreignCase(t *testing.T, records adapter.RecordStore) (caseID, hearingID string) {
	t.Helper()
	ctx := context.Background()

	caseID, err := records.Create(ctx, models.CollectionCases, map[string]any{
		models.FieldUserID:     "u2",
		models.FieldClientName: "Globex",
		models.FieldCaseNumber: "GLX-9",
		models.FieldCourtName:  "Globex Court",
		models.FieldStatus:     "Active",
	})
	require.NoError(t, err)
	hearingID, err = records.Create(ctx, models.CollectionHearings, map[string]any{
		models.FieldUserID: "u2",
		models.FieldCaseID: caseID,
		models.FieldDate:   "2026-05-01",
	})
	require.NoError(t, err)
	return caseID, hearingID
}

func TestMutations_OtherUsersRecordsRejected(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()
	caseID, hearingID := foreignCase(t, records)
	notes := "hijacked"
	date := "2026-06-01"

	err := svc.UpdateCase(ctx, s, caseID, models.CaseUpdate{Notes: &notes})
	assert.ErrorIs(t, err, ErrCaseNotFound)
	assert.Equal(t, "Failed to update case: Case not found", s.Err())

	err = svc.DeleteCase(ctx, s, caseID)
	assert.ErrorIs(t, err, ErrCaseNotFound)
	assert.Equal(t, "Failed to delete case: Case not found", s.Err())

	err = svc.UpdateHearing(ctx, s, caseID, hearingID, models.HearingUpdate{Date: &date})
	assert.ErrorIs(t, err, ErrHearingNotFound)
	assert.Equal(t, "Failed to update hearing date: Hearing date not found", s.Err())

	err = svc.DeleteHearing(ctx, s, caseID, hearingID)
	assert.ErrorIs(t, err, ErrHearingNotFound)
	assert.Equal(t, "Failed to delete hearing date: Hearing date not found", s.Err())

	rec, err := records.Get(ctx, models.CollectionCases, caseID)
	require.NoError(t, err)
	assert.NotContains(t, rec.Fields, models.FieldNotes)
	hearing, err := records.Get(ctx, models.CollectionHearings, hearingID)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", hearing.Fields[models.FieldDate])
}

// ── DeleteCase ──

func TestDeleteCase_CascadesToHearings(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()

	keep, err := svc.CreateCase(ctx, s, validCase("2026-03-11"))
	require.NoError(t, err)
	drop, err := svc.CreateCase(ctx, s, validCase("2026-03-12", "2026-03-13"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCase(ctx, s, drop))

	_, err = records.Get(ctx, models.CollectionCases, drop)
	assert.ErrorIs(t, err, adapter.ErrRecordNotFound)

	hearings, err := records.Query(ctx, userQuery(models.CollectionHearings, "u1"))
	require.NoError(t, err)
	require.Len(t, hearings, 1)
	assert.Equal(t, keep, hearings[0].Fields[models.FieldCaseID])
}

func TestDeleteCase_OtherUsersHearingsUntouched(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()

	id, err := svc.CreateCase(ctx, s, validCase())
	require.NoError(t, err)
	foreign, err := records.Create(ctx, models.CollectionHearings, map[string]any{
		models.FieldCaseID: id,
		models.FieldUserID: "u2",
		models.FieldDate:   "2026-03-11",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCase(ctx, s, id))

	_, err = records.Get(ctx, models.CollectionHearings, foreign)
	assert.NoError(t, err)
}

func TestDeleteCase_CommitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	svc := NewClientCaseService(records, validators.NewCaseValidator(), testMaxFileSize, logger.Nop())
	s := NewSession(nil)
	s.setIdentity(models.Identity{ID: "u1"})
	ctx := context.Background()

	gomock.InOrder(
		records.EXPECT().Get(ctx, models.CollectionCases, "c1").
			Return(models.Record{ID: "c1", Fields: map[string]any{models.FieldUserID: "u1"}}, nil),
		records.EXPECT().
			Query(ctx, models.Query{Collection: models.CollectionHearings}.
				Where(models.FieldUserID, "u1").
				Where(models.FieldCaseID, "c1")).
			Return([]models.Record{{ID: "h1"}, {ID: "h2"}}, nil),
		records.EXPECT().Commit(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, b *models.Batch) error {
			require.Equal(t, 3, b.Len())
			assert.Equal(t, models.WriteOp{Kind: models.WriteDelete, Collection: models.CollectionHearings, ID: "h1"}, b.Ops[0])
			assert.Equal(t, models.WriteOp{Kind: models.WriteDelete, Collection: models.CollectionCases, ID: "c1"}, b.Ops[2])
			return adapter.ErrStoreUnavailable
		}),
	)

	err := svc.DeleteCase(ctx, s, "c1")

	assert.ErrorIs(t, err, ErrStoreWrite)
	assert.Equal(t, "Failed to delete case: The database is unreachable, check your connection", s.Err())
}

func TestDeleteCase_QueryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	svc := NewClientCaseService(records, validators.NewCaseValidator(), testMaxFileSize, logger.Nop())
	s := NewSession(nil)
	s.setIdentity(models.Identity{ID: "u1"})

	records.EXPECT().Get(gomock.Any(), models.CollectionCases, "c1").
		Return(models.Record{ID: "c1", Fields: map[string]any{models.FieldUserID: "u1"}}, nil)
	records.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	err := svc.DeleteCase(context.Background(), s, "c1")

	assert.ErrorIs(t, err, ErrStoreRead)
	assert.Equal(t, "Failed to delete case: store read failed: boom", s.Err())
}

// ── hearings ──

func TestHearingLifecycle(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()

	caseID, err := svc.CreateCase(ctx, s, validCase())
	require.NoError(t, err)

	hearingID, err := svc.AddHearing(ctx, s, caseID, models.NewHearing{Date: "2026-03-20", Time: "10:30"})
	require.NoError(t, err)

	rec, err := records.Get(ctx, models.CollectionHearings, hearingID)
	require.NoError(t, err)
	assert.Equal(t, caseID, rec.Fields[models.FieldCaseID])
	assert.Equal(t, "u1", rec.Fields[models.FieldUserID])
	assert.Equal(t, "10:30", rec.Fields[models.FieldTime])
	assert.Nil(t, rec.Fields[models.FieldNotes])

	date := "2026-03-21"
	require.NoError(t, svc.UpdateHearing(ctx, s, caseID, hearingID, models.HearingUpdate{Date: &date}))
	rec, err = records.Get(ctx, models.CollectionHearings, hearingID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-21", rec.Fields[models.FieldDate])
	assert.Equal(t, "10:30", rec.Fields[models.FieldTime])

	require.NoError(t, svc.DeleteHearing(ctx, s, caseID, hearingID))
	_, err = records.Get(ctx, models.CollectionHearings, hearingID)
	assert.ErrorIs(t, err, adapter.ErrRecordNotFound)
}

func TestHearing_WrongCaseRejected(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()

	first, err := svc.CreateCase(ctx, s, validCase("2026-03-11"))
	require.NoError(t, err)
	second, err := svc.CreateCase(ctx, s, validCase())
	require.NoError(t, err)
	hearings, err := records.Query(ctx, userQuery(models.CollectionHearings, "u1"))
	require.NoError(t, err)
	require.Len(t, hearings, 1)
	hearingID := hearings[0].ID
	date := "2026-04-01"

	err = svc.UpdateHearing(ctx, s, second, hearingID, models.HearingUpdate{Date: &date})
	assert.ErrorIs(t, err, ErrHearingNotFound)

	err = svc.DeleteHearing(ctx, s, second, hearingID)
	assert.ErrorIs(t, err, ErrHearingNotFound)
	assert.Equal(t, "Failed to delete hearing date: Hearing date not found", s.Err())

	rec, err := records.Get(ctx, models.CollectionHearings, hearingID)
	require.NoError(t, err)
	assert.Equal(t, first, rec.Fields[models.FieldCaseID])
	assert.Equal(t, "2026-03-11", rec.Fields[models.FieldDate])

	err = svc.DeleteHearing(ctx, s, first, "missing")
	assert.ErrorIs(t, err, ErrHearingNotFound)
}

func TestAddHearing_InvalidDate(t *testing.T) {
	svc, _, s := newTestCaseSvc(t)

	_, err := svc.AddHearing(context.Background(), s, "c1", models.NewHearing{Date: "next week"})

	assert.ErrorIs(t, err, validators.ErrInvalidHearing)
	assert.Equal(t, "Failed to add hearing date: Hearing date must be in YYYY-MM-DD format", s.Err())
}

// ── files ──

func TestAddFileThenDeleteFile_RestoresFiles(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()

	data := validCase()
	data.Files = []models.CaseFile{{ID: "f0", FileName: "brief.pdf", FileType: "application/pdf", FileData: "data:application/pdf;base64,AA==", UploadedAt: "2026-01-01T00:00:00.000Z"}}
	id, err := svc.CreateCase(ctx, s, data)
	require.NoError(t, err)

	before := filesOf(t, records, id)

	file := models.CaseFile{ID: "f1", FileName: "photo.png", FileType: "image/png", FileData: "data:image/png;base64,iVBORw==", UploadedAt: "2026-03-10T12:00:00.000Z"}
	require.NoError(t, svc.AddFile(ctx, s, id, file))
	assert.Len(t, filesOf(t, records, id), 2)

	require.NoError(t, svc.DeleteFile(ctx, s, id, "f1"))
	assert.Equal(t, before, filesOf(t, records, id))
}

func TestAddFile_OtherUsersCase(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()

	foreign, err := records.Create(ctx, models.CollectionCases, map[string]any{models.FieldUserID: "u2"})
	require.NoError(t, err)

	err = svc.AddFile(ctx, s, foreign, models.CaseFile{ID: "f1", FileName: "a.txt"})

	assert.ErrorIs(t, err, ErrCaseNotFound)
	assert.Equal(t, "Failed to add file: Case not found", s.Err())
}

func TestDeleteFile_MissingCase(t *testing.T) {
	svc, _, s := newTestCaseSvc(t)

	err := svc.DeleteFile(context.Background(), s, "missing", "f1")

	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestAttachFiles_PerFileRejection(t *testing.T) {
	svc, records, s := newTestCaseSvc(t)
	ctx := context.Background()

	id, err := svc.CreateCase(ctx, s, validCase())
	require.NoError(t, err)

	result, err := svc.AttachFiles(ctx, s, id, []models.FileUpload{
		{FileName: "small.txt", Content: []byte("hello")},
		{FileName: "huge.bin", Content: make([]byte, testMaxFileSize+1)},
		{FileName: "note.pdf", FileType: "application/pdf", Content: []byte("%PDF-1.4")},
	})
	require.NoError(t, err)

	require.Len(t, result.Attached, 2)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "huge.bin", result.Rejected[0].FileName)
	assert.Contains(t, result.Rejected[0].Reason, ErrFileTooLarge.Error())

	files := filesOf(t, records, id)
	require.Len(t, files, 2)
	assert.Equal(t, "small.txt", files[0].FileName)
	assert.Equal(t, "text/plain", files[0].FileType)
	assert.Equal(t, "application/pdf", files[1].FileType)
}

func TestAttachFiles_AllRejectedWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mock.NewMockRecordStore(ctrl)
	svc := NewClientCaseService(records, validators.NewCaseValidator(), 4, logger.Nop())
	s := NewSession(nil)
	s.setIdentity(models.Identity{ID: "u1"})

	result, err := svc.AttachFiles(context.Background(), s, "c1", []models.FileUpload{
		{FileName: "big.txt", Content: []byte("too big")},
	})

	require.NoError(t, err)
	assert.Empty(t, result.Attached)
	assert.Len(t, result.Rejected, 1)
}

func filesOf(t *testing.T, records adapter.RecordStore, caseID string) []models.CaseFile {
	t.Helper()

	rec, err := records.Get(context.Background(), models.CollectionCases, caseID)
	require.NoError(t, err)
	return decodeFiles(rec.Fields[models.FieldFiles])
}
