// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/MKhiriev/go-case-keeper/models"
)

// The functions below are pure views over a case set. None of them mutates
// its input; "today" is the calendar date of now in now's location.

// LocalDate returns the calendar date of t in t's location.
func LocalDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// TodaysHearings returns the Active cases with a hearing dated today.
func TodaysHearings(cases []models.Case, now time.Time) []models.Case {
	today := LocalDate(now)

	out := make([]models.Case, 0)
	for _, c := range cases {
		if c.Status != models.CaseStatusActive {
			continue
		}
		if slices.ContainsFunc(c.HearingDates, func(h models.HearingDate) bool { return h.Date == today }) {
			out = append(out, c)
		}
	}
	return out
}

// UpcomingWeek returns every hearing of an Active case dated between today
// and today+7 days inclusive, paired with its case summary and sorted by date.
func UpcomingWeek(cases []models.Case, now time.Time) []models.UpcomingHearing {
	from := LocalDate(now)
	to := LocalDate(now.AddDate(0, 0, 7))

	out := make([]models.UpcomingHearing, 0)
	for _, c := range cases {
		if c.Status != models.CaseStatusActive {
			continue
		}
		for _, h := range c.HearingDates {
			if h.Date >= from && h.Date <= to {
				out = append(out, models.UpcomingHearing{HearingDate: h, CaseSummary: c.Summary()})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// HearingsOn returns every hearing dated date regardless of case status,
// ordered by time.
func HearingsOn(cases []models.Case, date string) []models.UpcomingHearing {
	out := make([]models.UpcomingHearing, 0)
	for _, c := range cases {
		for _, h := range c.HearingDates {
			if h.Date == date {
				out = append(out, models.UpcomingHearing{HearingDate: h, CaseSummary: c.Summary()})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// SearchCases matches text case-insensitively against the client name, case
// number and court name. An empty text matches every case.
func SearchCases(cases []models.Case, text string) []models.Case {
	needle := strings.ToLower(strings.TrimSpace(text))

	out := make([]models.Case, 0, len(cases))
	for _, c := range cases {
		if needle == "" ||
			strings.Contains(strings.ToLower(c.ClientName), needle) ||
			strings.Contains(strings.ToLower(c.CaseNumber), needle) ||
			strings.Contains(strings.ToLower(c.CourtName), needle) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByStatus keeps the cases matching status. [models.StatusFilterAll]
// and an empty filter keep everything.
func FilterByStatus(cases []models.Case, status models.StatusFilter) []models.Case {
	out := make([]models.Case, 0, len(cases))
	for _, c := range cases {
		if status == "" || status == models.StatusFilterAll || string(c.Status) == string(status) {
			out = append(out, c)
		}
	}
	return out
}

// NextHearing returns the earliest hearing of c dated today or later.
func NextHearing(c models.Case, now time.Time) (models.HearingDate, bool) {
	today := LocalDate(now)

	var (
		next  models.HearingDate
		found bool
	)
	for _, h := range c.HearingDates {
		if h.Date < today {
			continue
		}
		if !found || h.Date < next.Date {
			next, found = h, true
		}
	}
	return next, found
}

// SortByNextHearing returns a copy of cases ordered by their next hearing.
// Cases without an upcoming hearing come last; ties keep the input order.
func SortByNextHearing(cases []models.Case, now time.Time) []models.Case {
	type keyed struct {
		c    models.Case
		next string
		has  bool
	}

	tmp := make([]keyed, len(cases))
	for i, c := range cases {
		h, ok := NextHearing(c, now)
		tmp[i] = keyed{c: c, next: h.Date, has: ok}
	}

	sort.SliceStable(tmp, func(i, j int) bool {
		a, b := tmp[i], tmp[j]
		switch {
		case a.has && b.has:
			return a.next < b.next
		case a.has:
			return true
		default:
			return false
		}
	})

	out := make([]models.Case, len(tmp))
	for i, k := range tmp {
		out[i] = k.c
	}
	return out
}

// FilterCases is the dashboard pipeline: search, then status filter, then
// sort by next hearing.
func FilterCases(cases []models.Case, query string, status models.StatusFilter, now time.Time) []models.Case {
	return SortByNextHearing(FilterByStatus(SearchCases(cases, query), status), now)
}

// CaseStats counts the dashboard totals.
func CaseStats(cases []models.Case, now time.Time) models.CaseStats {
	stats := models.CaseStats{
		Total:            len(cases),
		TodaysHearings:   len(TodaysHearings(cases, now)),
		UpcomingThisWeek: len(UpcomingWeek(cases, now)),
	}
	for _, c := range cases {
		if c.Status == models.CaseStatusActive {
			stats.Active++
		}
	}
	return stats
}
