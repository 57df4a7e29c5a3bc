// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CaseStatus is the lifecycle state of a court case.
type CaseStatus string

const (
	// CaseStatusActive marks a case that is still being worked on. It is also
	// the value every unknown stored status normalizes to.
	CaseStatusActive CaseStatus = "Active"

	// CaseStatusClosed marks a finished case. Closed cases are excluded from
	// the today and upcoming-week hearing views.
	CaseStatusClosed CaseStatus = "Closed"
)

// ParseCaseStatus maps a stored status value onto [CaseStatus].
// Only the exact string "Closed" yields [CaseStatusClosed].
func ParseCaseStatus(v any) CaseStatus {
	if s, ok := v.(string); ok && s == string(CaseStatusClosed) {
		return CaseStatusClosed
	}
	if s, ok := v.(CaseStatus); ok && s == CaseStatusClosed {
		return CaseStatusClosed
	}
	return CaseStatusActive
}

// StatusFilter selects cases by status in list views.
type StatusFilter string

const (
	StatusFilterAll    StatusFilter = "All"
	StatusFilterActive StatusFilter = "Active"
	StatusFilterClosed StatusFilter = "Closed"
)

// Case is the denormalized view of a court case: the case record joined with
// every hearing record that references it.
type Case struct {
	// ID is the store-assigned record identifier.
	ID string `json:"id"`

	// ClientName is the display name of the represented client.
	ClientName string `json:"clientName"`

	// ClientPhone is an optional contact number.
	ClientPhone string `json:"clientPhone,omitempty"`

	// CaseNumber is the court-issued number. It is not guaranteed to be unique.
	CaseNumber string `json:"caseNumber"`

	// CourtName is the court the case is heard in.
	CourtName string `json:"courtName"`

	Status CaseStatus `json:"status"`
	Notes  string     `json:"notes,omitempty"`

	// Files are documents embedded directly in the case record.
	Files []CaseFile `json:"files"`

	// HearingDates are reconstructed at read time from the hearing records'
	// case_id back-reference.
	HearingDates []HearingDate `json:"hearingDates"`

	// CreatedAt is the canonical ISO-8601 creation instant.
	CreatedAt string `json:"createdAt"`
}

// NewCase is the input of a case creation. Hearings listed here are written
// in the same atomic batch as the case itself.
type NewCase struct {
	ClientName   string       `json:"clientName" validate:"required,notblank"`
	ClientPhone  string       `json:"clientPhone,omitempty"`
	CaseNumber   string       `json:"caseNumber" validate:"required,notblank"`
	CourtName    string       `json:"courtName" validate:"required,notblank"`
	Status       CaseStatus   `json:"status" validate:"omitempty,oneof=Active Closed"`
	Notes        string       `json:"notes,omitempty"`
	Files        []CaseFile   `json:"files,omitempty" validate:"dive"`
	HearingDates []NewHearing `json:"hearingDates,omitempty" validate:"dive"`
}

// CaseUpdate is a partial case update. Nil fields are left untouched.
type CaseUpdate struct {
	ClientName  *string     `json:"clientName,omitempty" validate:"omitnil,notblank"`
	ClientPhone *string     `json:"clientPhone,omitempty"`
	CaseNumber  *string     `json:"caseNumber,omitempty" validate:"omitnil,notblank"`
	CourtName   *string     `json:"courtName,omitempty" validate:"omitnil,notblank"`
	Status      *CaseStatus `json:"status,omitempty" validate:"omitnil,oneof=Active Closed"`
	Notes       *string     `json:"notes,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (u CaseUpdate) IsEmpty() bool {
	return u.ClientName == nil && u.ClientPhone == nil && u.CaseNumber == nil &&
		u.CourtName == nil && u.Status == nil && u.Notes == nil
}

// CaseSummary is the slice of case identity shown next to a hearing in
// calendar-style views.
type CaseSummary struct {
	CaseID     string `json:"caseId"`
	ClientName string `json:"clientName"`
	CaseNumber string `json:"caseNumber"`
	CourtName  string `json:"courtName"`
}

// Summary returns the [CaseSummary] of c.
func (c Case) Summary() CaseSummary {
	return CaseSummary{
		CaseID:     c.ID,
		ClientName: c.ClientName,
		CaseNumber: c.CaseNumber,
		CourtName:  c.CourtName,
	}
}

// CaseStats are the dashboard counters.
type CaseStats struct {
	Total            int `json:"total"`
	Active           int `json:"active"`
	TodaysHearings   int `json:"todaysHearings"`
	UpcomingThisWeek int `json:"upcomingThisWeek"`
}
