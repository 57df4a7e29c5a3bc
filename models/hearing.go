// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// DateLayout is the calendar-date encoding of hearing dates. Hearing dates
// are compared as strings in this layout and never converted to instants.
const DateLayout = "2006-01-02"

// HearingDate is a scheduled court appearance of a case.
type HearingDate struct {
	ID string `json:"id"`

	// Date is a calendar date in [DateLayout], without a time zone.
	Date string `json:"date"`

	// Time is a free-form local time ("10:30", "after lunch"). It is never
	// combined with Date into an instant.
	Time  string `json:"time,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// NewHearing is the input of a hearing creation.
type NewHearing struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// HearingUpdate is a partial hearing update. Nil fields are left untouched.
type HearingUpdate struct {
	Date  *string `json:"date,omitempty" validate:"omitnil,datetime=2006-01-02"`
	Time  *string `json:"time,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (u HearingUpdate) IsEmpty() bool {
	return u.Date == nil && u.Time == nil && u.Notes == nil
}

// UpcomingHearing is a hearing flattened together with the summary of the
// case it belongs to.
type UpcomingHearing struct {
	HearingDate
	CaseSummary
}
