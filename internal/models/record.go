// Package models defines data structures and domain types.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Well-known record fields shared by every category.
const (
	FieldDate     = "Date_Today"
	FieldCategory = "Consumption_Category"
	FieldPlant    = "Plant_Location"
)

// DateLayout is the wire format of Date_Today values.
const DateLayout = "2006-01-02"

// Record is one reporting unit: one calendar day for one plant and
// category. Field values are numeric-or-blank text; a blank or missing
// field means "no data for that day", which is distinct from zero.
type Record struct {
	Date     time.Time
	Category string
	Plant    string
	Fields   map[string]string
}

// FieldValue is the record store's wire shape for a single field.
type FieldValue struct {
	Value string `json:"value"`
}

// RawRecord is the record store's wire shape for a full record.
type RawRecord map[string]FieldValue

// ParseRecord converts a wire record into a Record. The date field is
// required; everything else is carried as-is.
func ParseRecord(raw RawRecord) (Record, error) {
	dateStr := strings.TrimSpace(raw[FieldDate].Value)
	if dateStr == "" {
		return Record{}, fmt.Errorf("record has no %s field", FieldDate)
	}
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return Record{}, fmt.Errorf("parse %s %q: %w", FieldDate, dateStr, err)
	}

	fields := make(map[string]string, len(raw))
	for name, fv := range raw {
		fields[name] = fv.Value
	}

	return Record{
		Date:     date,
		Category: strings.TrimSpace(raw[FieldCategory].Value),
		Plant:    strings.TrimSpace(raw[FieldPlant].Value),
		Fields:   fields,
	}, nil
}

// ParseRecords converts a slice of wire records, skipping malformed ones.
func ParseRecords(raw []RawRecord) []Record {
	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		rec, err := ParseRecord(r)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Field returns the raw text value of a field, "" when absent.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// HasField reports whether the field is present and non-blank.
func (r Record) HasField(name string) bool {
	return strings.TrimSpace(r.Fields[name]) != ""
}

// Num returns the numeric value of a field. Blank, missing or
// non-numeric values yield 0.
func (r Record) Num(name string) float64 {
	return ParseNum(r.Fields[name])
}

// Day returns the day-of-month of the record's date.
func (r Record) Day() int {
	return r.Date.Day()
}

// ParseNum converts numeric-or-blank text to a float64, 0 on anything
// unparseable. Thousands separators are tolerated.
func ParseNum(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// MarshalFields serializes the field map for cache storage.
func (r Record) MarshalFields() (string, error) {
	b, err := json.Marshal(r.Fields)
	if err != nil {
		return "", fmt.Errorf("marshal record fields: %w", err)
	}
	return string(b), nil
}

// UnmarshalFields restores a field map produced by MarshalFields.
func UnmarshalFields(data string) (map[string]string, error) {
	var fields map[string]string
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("unmarshal record fields: %w", err)
	}
	return fields, nil
}
