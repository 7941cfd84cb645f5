package seniority

import (
	"cmp"
	"errors"
	"slices"
)

// Record is one input item: an arbitrary JSON object. It is augmented in place.
type Record map[string]any

// Level is a seniority level as returned by the model. Unknown levels are
// represented by absence, never by a sentinel value.
type Level int32

// CorrelationID ties a request entry to its response entry within one
// inference call. It is never persisted.
type CorrelationID int32

// LookupKey is the (organization, title) identity used for caching,
// correlation and augmentation.
type LookupKey struct {
	Organization string
	Title        string
}

func (k LookupKey) String() string { return k.Organization + "/" + k.Title }

func compareKeys(a, b LookupKey) int {
	if c := cmp.Compare(a.Organization, b.Organization); c != 0 {
		return c
	}
	return cmp.Compare(a.Title, b.Title)
}

// RecordFields names the record fields the pipeline reads and writes.
type RecordFields struct {
	Organization string // default "organization"
	Title        string // default "title"
	Seniority    string // default "seniority"
}

// DefaultRecordFields is used wherever a zero RecordFields is given.
var DefaultRecordFields = RecordFields{
	Organization: "organization",
	Title:        "title",
	Seniority:    "seniority",
}

func (f RecordFields) withDefaults() RecordFields {
	f.Organization = coalesce(f.Organization, DefaultRecordFields.Organization)
	f.Title = coalesce(f.Title, DefaultRecordFields.Title)
	f.Seniority = coalesce(f.Seniority, DefaultRecordFields.Seniority)
	return f
}

// KeyOf extracts the lookup key of rec. Both fields must be present and be
// strings; the empty string is a valid value.
func KeyOf(rec Record, f RecordFields) (LookupKey, error) {
	f = f.withDefaults()
	org, err := stringField(rec, f.Organization)
	if err != nil {
		return LookupKey{}, err
	}
	title, err := stringField(rec, f.Title)
	if err != nil {
		return LookupKey{}, err
	}
	return LookupKey{Organization: org, Title: title}, nil
}

func stringField(rec Record, name string) (string, error) {
	v, ok := rec[name]
	if !ok || v == nil {
		return "", &RecordError{Index: -1, Field: name, Reason: "missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &RecordError{Index: -1, Field: name, Reason: "not a string"}
	}
	return s, nil
}

// Dedupe returns the distinct lookup keys of records, sorted by organization
// then title. The first malformed record aborts with a *RecordError carrying
// its index.
func Dedupe(records []Record, f RecordFields) ([]LookupKey, error) {
	seen := make(map[LookupKey]struct{}, len(records))
	keys := make([]LookupKey, 0, len(records))
	for i, rec := range records {
		k, err := KeyOf(rec, f)
		if err != nil {
			var re *RecordError
			if errors.As(err, &re) {
				re.Index = i
			}
			return nil, err
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys, nil
}

// Augment sets the seniority field of every record to its resolved level, or
// to nil (JSON null) when the key is unresolved or the record is malformed.
func Augment(records []Record, resolved map[LookupKey]Level, f RecordFields) {
	f = f.withDefaults()
	for _, rec := range records {
		k, err := KeyOf(rec, f)
		if err != nil {
			rec[f.Seniority] = nil
			continue
		}
		if v, ok := resolved[k]; ok {
			rec[f.Seniority] = v
		} else {
			rec[f.Seniority] = nil
		}
	}
}
