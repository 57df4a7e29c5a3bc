// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-case-keeper/models"
)

// TimestampLayout is the canonical encoding of every normalized timestamp:
// UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

const (
	defaultClientName = "Unnamed Client"
	defaultCaseNumber = "No Number"
	defaultCourtName  = "No Court"
)

// Field names accepted for each view attribute, in order of preference.
var (
	caseIDFields      = []string{models.FieldCaseID, "case_Id", "caseId"}
	clientNameFields  = []string{models.FieldClientName, "clientName"}
	clientPhoneFields = []string{models.FieldClientPhone, "clientPhone"}
	caseNumberFields  = []string{models.FieldCaseNumber, "caseNumber"}
	courtNameFields   = []string{models.FieldCourtName, "courtName"}
	createdAtFields   = []string{models.FieldCreatedAt, "createdAt"}
)

// isoLayouts are tried in order when an [models.IsoString] is parsed. Values
// without a zone are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	models.DateLayout,
	time.RFC1123,
	time.RFC1123Z,
}

// JoinCases builds the denormalized case views. Hearings are grouped once by
// their normalized case reference; hearings referencing no case in cases
// are dropped. now stands in for missing or unparseable creation times.
func JoinCases(cases, hearings []models.Record, now time.Time) []models.Case {
	grouped := make(map[string][]models.HearingDate, len(cases))
	for _, h := range hearings {
		caseID := strings.TrimSpace(firstString(h, caseIDFields))
		grouped[caseID] = append(grouped[caseID], toHearingDate(h))
	}

	views := make([]models.Case, 0, len(cases))
	for _, c := range cases {
		id := strings.TrimSpace(c.ID)
		views = append(views, toCase(c, id, grouped[id], now))
	}
	return views
}

func toCase(rec models.Record, id string, hearings []models.HearingDate, now time.Time) models.Case {
	if hearings == nil {
		hearings = []models.HearingDate{}
	}
	status, _ := rec.Get(models.FieldStatus)
	files, _ := rec.Get(models.FieldFiles)

	return models.Case{
		ID:           id,
		ClientName:   stringOr(rec, clientNameFields, defaultClientName),
		ClientPhone:  stringOr(rec, clientPhoneFields, ""),
		CaseNumber:   stringOr(rec, caseNumberFields, defaultCaseNumber),
		CourtName:    stringOr(rec, courtNameFields, defaultCourtName),
		Status:       models.ParseCaseStatus(status),
		Notes:        stringOr(rec, []string{models.FieldNotes}, ""),
		Files:        decodeFiles(files),
		HearingDates: hearings,
		CreatedAt:    NormalizeTimestamp(ParseRawTimestamp(firstValue(rec, createdAtFields)), now),
	}
}

func toHearingDate(rec models.Record) models.HearingDate {
	date, _ := rec.Get(models.FieldDate)

	return models.HearingDate{
		ID:    strings.TrimSpace(rec.ID),
		Date:  normalizeHearingDate(date),
		Time:  stringOr(rec, []string{models.FieldTime}, ""),
		Notes: stringOr(rec, []string{models.FieldNotes}, ""),
	}
}

// ParseRawTimestamp classifies a stored timestamp value. Unknown shapes and
// empty strings yield nil.
func ParseRawTimestamp(v any) models.RawTimestamp {
	switch x := v.(type) {
	case nil:
		return nil
	case *models.ServerTimestamp:
		if x == nil {
			return nil
		}
		return *x
	case models.RawTimestamp:
		return x
	case time.Time:
		return models.NativeDate{Time: x}
	case *time.Time:
		if x == nil {
			return nil
		}
		return models.NativeDate{Time: *x}
	case string:
		if strings.TrimSpace(x) == "" {
			return nil
		}
		return models.IsoString{Value: x}
	case map[string]any:
		// a server timestamp that went through JSON
		seconds, ok := toInt64(x["seconds"])
		if !ok {
			return nil
		}
		nanos, _ := toInt64(x["nanoseconds"])
		return models.ServerTimestamp{Seconds: seconds, Nanoseconds: int32(nanos)}
	default:
		return nil
	}
}

// NormalizeTimestamp renders raw in [TimestampLayout]. A nil or unparseable
// value renders now.
func NormalizeTimestamp(raw models.RawTimestamp, now time.Time) string {
	t, ok := timestampTime(raw)
	if !ok {
		t = now
	}
	return t.UTC().Format(TimestampLayout)
}

func timestampTime(raw models.RawTimestamp) (time.Time, bool) {
	switch ts := raw.(type) {
	case nil:
		return time.Time{}, false
	case models.ServerTimestamp:
		return ts.ToTime(), true
	case models.NativeDate:
		if ts.Time.IsZero() {
			return time.Time{}, false
		}
		return ts.Time, true
	case models.IsoString:
		return parseISO(ts.Value)
	default:
		return time.Time{}, false
	}
}

func parseISO(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeHearingDate keeps date strings as stored and reduces timestamp
// values to their UTC calendar date.
func normalizeHearingDate(v any) string {
	switch raw := ParseRawTimestamp(v).(type) {
	case models.IsoString:
		return raw.Value
	case models.ServerTimestamp:
		return raw.ToTime().Format(models.DateLayout)
	case models.NativeDate:
		return raw.Time.UTC().Format(models.DateLayout)
	}
	return coerceString(v)
}

// firstValue returns the first present value among fields that does not
// coerce to an empty string.
func firstValue(rec models.Record, fields []string) any {
	for _, f := range fields {
		v, ok := rec.Get(f)
		if !ok {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func firstString(rec models.Record, fields []string) string {
	for _, f := range fields {
		v, ok := rec.Get(f)
		if !ok {
			continue
		}
		if s := coerceString(v); s != "" {
			return s
		}
	}
	return ""
}

func stringOr(rec models.Record, fields []string, fallback string) string {
	if s := firstString(rec, fields); s != "" {
		return s
	}
	return fallback
}

func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case models.CaseStatus:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int:
		return int64(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int64(x), true
	default:
		return 0, false
	}
}
