// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-case-keeper/models"
)

// fixedNow is 2026-03-10.

func viewCase(id string, status models.CaseStatus, dates ...string) models.Case {
	hearings := make([]models.HearingDate, 0, len(dates))
	for i, d := range dates {
		hearings = append(hearings, models.HearingDate{ID: id + "-h" + string(rune('0'+i)), Date: d})
	}
	return models.Case{
		ID:           id,
		ClientName:   "Client " + id,
		CaseNumber:   "N-" + id,
		CourtName:    "Court " + id,
		Status:       status,
		HearingDates: hearings,
		Files:        []models.CaseFile{},
	}
}

func caseIDs(cases []models.Case) []string {
	ids := make([]string, 0, len(cases))
	for _, c := range cases {
		ids = append(ids, c.ID)
	}
	return ids
}

// ── TodaysHearings ──

func TestTodaysHearings(t *testing.T) {
	cases := []models.Case{
		viewCase("active-today", models.CaseStatusActive, "2026-03-09", "2026-03-10"),
		viewCase("closed-today", models.CaseStatusClosed, "2026-03-10"),
		viewCase("active-tomorrow", models.CaseStatusActive, "2026-03-11"),
		viewCase("no-hearings", models.CaseStatusActive),
	}

	got := TodaysHearings(cases, fixedNow)

	assert.Equal(t, []string{"active-today"}, caseIDs(got))
}

func TestTodaysHearings_UsesLocalDate(t *testing.T) {
	// 2026-03-10 23:30 UTC is already 2026-03-11 in UTC+3
	now := fixedNow.Add(11*time.Hour + 30*time.Minute).In(fixedZone(3))
	cases := []models.Case{viewCase("c", models.CaseStatusActive, "2026-03-11")}

	assert.Len(t, TodaysHearings(cases, now), 1)
}

// ── UpcomingWeek ──

func TestUpcomingWeek_WindowAndOrder(t *testing.T) {
	cases := []models.Case{
		viewCase("a", models.CaseStatusActive, "2026-03-17", "2026-03-09", "2026-03-12"),
		viewCase("b", models.CaseStatusActive, "2026-03-10", "2026-03-18"),
		viewCase("closed", models.CaseStatusClosed, "2026-03-11"),
	}

	got := UpcomingWeek(cases, fixedNow)

	require.Len(t, got, 3)
	assert.Equal(t, "2026-03-10", got[0].Date)
	assert.Equal(t, "b", got[0].CaseID)
	assert.Equal(t, "2026-03-12", got[1].Date)
	assert.Equal(t, "a", got[1].CaseID)
	assert.Equal(t, "2026-03-17", got[2].Date)
	assert.Equal(t, "Client a", got[2].ClientName)
	assert.Equal(t, "N-a", got[2].CaseNumber)
}

func TestUpcomingWeek_Empty(t *testing.T) {
	got := UpcomingWeek(nil, fixedNow)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ── HearingsOn ──

func TestHearingsOn_AllStatusesOrderedByTime(t *testing.T) {
	a := viewCase("a", models.CaseStatusActive)
	a.HearingDates = []models.HearingDate{{ID: "a1", Date: "2026-03-20", Time: "14:00"}}
	b := viewCase("b", models.CaseStatusClosed)
	b.HearingDates = []models.HearingDate{{ID: "b1", Date: "2026-03-20", Time: "09:00"}, {ID: "b2", Date: "2026-03-21"}}

	got := HearingsOn([]models.Case{a, b}, "2026-03-20")

	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "a1", got[1].ID)
}

// ── SearchCases ──

func TestSearchCases_CaseInsensitive(t *testing.T) {
	cases := []models.Case{
		{ID: "court", ClientName: "John", CaseNumber: "X-1", CourtName: "Acme District Court"},
		{ID: "number", ClientName: "Jane", CaseNumber: "ACME-001", CourtName: "High Court"},
		{ID: "client", ClientName: "acme corp", CaseNumber: "Y-2", CourtName: "Low Court"},
		{ID: "none", ClientName: "Bob", CaseNumber: "Z-3", CourtName: "Other"},
	}

	got := SearchCases(cases, "acme")

	assert.Equal(t, []string{"court", "number", "client"}, caseIDs(got))
}

func TestSearchCases_EmptyQueryKeepsAll(t *testing.T) {
	cases := []models.Case{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, []string{"a", "b"}, caseIDs(SearchCases(cases, "  ")))
}

// ── NextHearing / SortByNextHearing ──

func TestNextHearing(t *testing.T) {
	c := viewCase("c", models.CaseStatusActive, "2026-03-01", "2026-03-15", "2026-03-10", "2026-03-12")

	h, ok := NextHearing(c, fixedNow)
	require.True(t, ok)
	assert.Equal(t, "2026-03-10", h.Date)

	_, ok = NextHearing(viewCase("past", models.CaseStatusActive, "2026-01-01"), fixedNow)
	assert.False(t, ok)
}

func TestSortByNextHearing(t *testing.T) {
	input := []models.Case{
		viewCase("A", models.CaseStatusActive, "2026-03-13"),
		viewCase("B", models.CaseStatusActive),
		viewCase("C", models.CaseStatusActive, "2026-03-11"),
	}

	got := SortByNextHearing(input, fixedNow)

	assert.Equal(t, []string{"C", "A", "B"}, caseIDs(got))
	assert.Equal(t, []string{"A", "B", "C"}, caseIDs(input), "input must not be mutated")
}

func TestSortByNextHearing_StableForMissing(t *testing.T) {
	input := []models.Case{
		viewCase("none-1", models.CaseStatusActive),
		viewCase("past", models.CaseStatusActive, "2025-01-01"),
		viewCase("soon", models.CaseStatusActive, "2026-03-10"),
		viewCase("none-2", models.CaseStatusActive),
	}

	got := SortByNextHearing(input, fixedNow)

	assert.Equal(t, []string{"soon", "none-1", "past", "none-2"}, caseIDs(got))
}

// ── FilterByStatus / FilterCases ──

func TestFilterByStatus(t *testing.T) {
	cases := []models.Case{
		viewCase("a", models.CaseStatusActive),
		viewCase("c", models.CaseStatusClosed),
	}

	assert.Equal(t, []string{"a", "c"}, caseIDs(FilterByStatus(cases, models.StatusFilterAll)))
	assert.Equal(t, []string{"a", "c"}, caseIDs(FilterByStatus(cases, "")))
	assert.Equal(t, []string{"a"}, caseIDs(FilterByStatus(cases, models.StatusFilterActive)))
	assert.Equal(t, []string{"c"}, caseIDs(FilterByStatus(cases, models.StatusFilterClosed)))
}

func TestFilterCases_Pipeline(t *testing.T) {
	cases := []models.Case{
		viewCase("x1", models.CaseStatusActive, "2026-03-20"),
		viewCase("x2", models.CaseStatusClosed, "2026-03-11"),
		viewCase("x3", models.CaseStatusActive, "2026-03-12"),
		viewCase("y", models.CaseStatusActive, "2026-03-10"),
	}

	got := FilterCases(cases, "N-X", models.StatusFilterActive, fixedNow)

	assert.Equal(t, []string{"x3", "x1"}, caseIDs(got))
}

// ── CaseStats ──

func TestCaseStats(t *testing.T) {
	cases := []models.Case{
		viewCase("a", models.CaseStatusActive, "2026-03-10", "2026-03-14"),
		viewCase("b", models.CaseStatusActive, "2026-04-01"),
		viewCase("c", models.CaseStatusClosed, "2026-03-10"),
	}

	assert.Equal(t, models.CaseStats{
		Total:            3,
		Active:           2,
		TodaysHearings:   1,
		UpcomingThisWeek: 2,
	}, CaseStats(cases, fixedNow))
}
