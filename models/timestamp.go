// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RawTimestamp is a timestamp value exactly as some producer stored it.
// It is a closed union: [ServerTimestamp], [NativeDate] or [IsoString].
// A missing value is represented by a nil RawTimestamp.
type RawTimestamp interface {
	isRawTimestamp()
}

// ServerTimestamp is a store-native timestamp object: seconds and nanoseconds
// since the Unix epoch, convertible to a date.
type ServerTimestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int32 `json:"nanoseconds"`
}

// ToTime converts the timestamp to a [time.Time] in UTC.
func (t ServerTimestamp) ToTime() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanoseconds)).UTC()
}

// NativeDate is a timestamp that already arrived as a [time.Time].
type NativeDate struct {
	Time time.Time
}

// IsoString is a pre-formatted timestamp string, usually ISO-8601.
type IsoString struct {
	Value string
}

func (ServerTimestamp) isRawTimestamp() {}
func (NativeDate) isRawTimestamp()      {}
func (IsoString) isRawTimestamp()       {}
