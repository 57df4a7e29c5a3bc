// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Collection names of the hosted record store.
const (
	CollectionCases    = "cases"
	CollectionHearings = "hearing_dates"
)

// Stored field names. Case records historically also carry camelCase
// variants; readers must accept both.
const (
	FieldUserID      = "user_id"
	FieldCaseID      = "case_id"
	FieldClientName  = "client_name"
	FieldClientPhone = "client_phone"
	FieldCaseNumber  = "case_number"
	FieldCourtName   = "court_name"
	FieldStatus      = "status"
	FieldNotes       = "notes"
	FieldFiles       = "files"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// Record is a raw document as delivered by the record store: its id plus an
// untyped field map. Field values are plain Go values (string, int64,
// float64, bool, time.Time, [ServerTimestamp], []any, map[string]any, nil).
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Get returns the value of a field and whether it is present and non-nil.
func (r Record) Get(field string) (any, bool) {
	if r.Fields == nil {
		return nil, false
	}
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Filter is an equality condition of a store query.
type Filter struct {
	Field string
	Value any
}

// Query addresses a filtered collection of the record store.
type Query struct {
	Collection string
	Filters    []Filter
}

// Where returns a copy of q with an additional equality filter.
func (q Query) Where(field string, value any) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	filters = append(filters, Filter{Field: field, Value: value})
	return Query{Collection: q.Collection, Filters: filters}
}

// Matches reports whether rec satisfies every filter of q.
func (q Query) Matches(rec Record) bool {
	for _, f := range q.Filters {
		v, ok := rec.Get(f.Field)
		if !ok || v != f.Value {
			return false
		}
	}
	return true
}

// Snapshot is one full result set pushed by a live subscription. When Err is
// set the subscription failed and Records must be ignored.
type Snapshot struct {
	Records []Record
	Err     error
}

// serverTimestampSentinel is the type of [ServerTimestampValue].
type serverTimestampSentinel struct{}

// ServerTimestampValue asks the record store to fill a field with its own
// commit time.
var ServerTimestampValue = serverTimestampSentinel{}

// IsServerTimestamp reports whether v is [ServerTimestampValue].
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestampSentinel)
	return ok
}

// WriteKind is the kind of a batched write.
type WriteKind int

const (
	WriteSet WriteKind = iota + 1
	WriteUpdate
	WriteDelete
)

// WriteOp is a single write of an atomic batch.
type WriteOp struct {
	Kind       WriteKind
	Collection string
	ID         string
	Fields     map[string]any
}

// Batch is an ordered list of writes committed all-or-nothing.
type Batch struct {
	Ops []WriteOp
}

// Set appends a create-or-replace write.
func (b *Batch) Set(collection, id string, fields map[string]any) {
	b.Ops = append(b.Ops, WriteOp{Kind: WriteSet, Collection: collection, ID: id, Fields: fields})
}

// Update appends a partial write to an existing record.
func (b *Batch) Update(collection, id string, fields map[string]any) {
	b.Ops = append(b.Ops, WriteOp{Kind: WriteUpdate, Collection: collection, ID: id, Fields: fields})
}

// Delete appends a delete.
func (b *Batch) Delete(collection, id string) {
	b.Ops = append(b.Ops, WriteOp{Kind: WriteDelete, Collection: collection, ID: id})
}

// Len returns the number of queued writes.
func (b *Batch) Len() int {
	return len(b.Ops)
}
