package seniority

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rec(org, title string) Record {
	return Record{"organization": org, "title": title}
}

func TestDedupeCollapsesDuplicatesAndSorts(t *testing.T) {
	records := []Record{
		rec("B", "Mgr"),
		rec("A", "Eng"),
		rec("A", "Eng"),
		{"organization": "A", "title": "Dev", "extra": 1},
		rec("B", "Mgr"),
	}
	got, err := Dedupe(records, RecordFields{})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	want := []LookupKey{{"A", "Dev"}, {"A", "Eng"}, {"B", "Mgr"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestDedupeEmptyStringsAreValid(t *testing.T) {
	got, err := Dedupe([]Record{rec("", ""), rec("", "")}, RecordFields{})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(got) != 1 || got[0] != (LookupKey{}) {
		t.Fatalf("got %v", got)
	}
}

func TestDedupeRejectsMalformedRecords(t *testing.T) {
	cases := []struct {
		name   string
		rec    Record
		field  string
		reason string
	}{
		{"missing_org", Record{"title": "Eng"}, "organization", "missing"},
		{"null_title", Record{"organization": "A", "title": nil}, "title", "missing"},
		{"numeric_title", Record{"organization": "A", "title": 3.0}, "title", "not a string"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Dedupe([]Record{rec("A", "Eng"), tc.rec}, RecordFields{})
			if !errors.Is(err, ErrInvalidRecord) {
				t.Fatalf("expected ErrInvalidRecord, got %v", err)
			}
			var re *RecordError
			if !errors.As(err, &re) {
				t.Fatalf("expected *RecordError, got %T", err)
			}
			if re.Index != 1 || re.Field != tc.field || re.Reason != tc.reason {
				t.Fatalf("got index=%d field=%q reason=%q", re.Index, re.Field, re.Reason)
			}
		})
	}
}

func TestDedupeCustomFields(t *testing.T) {
	f := RecordFields{Organization: "company", Title: "role"}
	got, err := Dedupe([]Record{{"company": "A", "role": "Eng"}}, f)
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if diff := cmp.Diff([]LookupKey{{"A", "Eng"}}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestAugmentMarksUnknownExplicitly(t *testing.T) {
	records := []Record{rec("A", "Eng"), rec("B", "Mgr"), rec("A", "Eng")}
	Augment(records, map[LookupKey]Level{{"A", "Eng"}: 3}, RecordFields{})

	want := []Record{
		{"organization": "A", "title": "Eng", "seniority": Level(3)},
		{"organization": "B", "title": "Mgr", "seniority": nil},
		{"organization": "A", "title": "Eng", "seniority": Level(3)},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestAugmentOverwritesStaleSeniority(t *testing.T) {
	records := []Record{{"organization": "A", "title": "Eng", "seniority": 1.0}}
	Augment(records, nil, RecordFields{})
	if v, ok := records[0]["seniority"]; !ok || v != nil {
		t.Fatalf("expected explicit nil, got %v (present=%v)", v, ok)
	}
}
