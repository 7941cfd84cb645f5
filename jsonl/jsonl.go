// Package jsonl reads and writes newline-delimited JSON record batches.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/unkn0wn-root/seniority"
)

// MaxLineSize bounds a single input line.
const MaxLineSize = 16 << 20

// Read parses one JSON object per line. Blank lines are skipped. Numbers are
// kept as json.Number so they round-trip unchanged. A line that is not a JSON
// object fails the whole read with a *seniority.RecordError whose Index is the
// zero-based line number.
func Read(r io.Reader) ([]seniority.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), MaxLineSize)

	var out []seniority.Record
	for line := 0; sc.Scan(); line++ {
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		rec, err := decode(b)
		if err != nil {
			return nil, &seniority.RecordError{Index: line, Reason: "malformed json", Err: err}
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading jsonl")
	}
	return out, nil
}

// Parse is Read over an in-memory body.
func Parse(b []byte) ([]seniority.Record, error) { return Read(bytes.NewReader(b)) }

func decode(b []byte) (seniority.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var rec seniority.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("not an object")
	}
	if dec.More() {
		return nil, errors.New("trailing data after object")
	}
	return rec, nil
}

// Write encodes records one per line, joined by "\n" with no trailing
// newline. Object keys are written in sorted order.
func Write(w io.Writer, records []seniority.Record) error {
	bw := bufio.NewWriter(w)
	for i, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrapf(err, "encoding record %d", i)
		}
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return errors.Wrap(err, "writing jsonl")
			}
		}
		if _, err := bw.Write(b); err != nil {
			return errors.Wrap(err, "writing jsonl")
		}
	}
	return errors.Wrap(bw.Flush(), "writing jsonl")
}

// Marshal is Write into a new buffer.
func Marshal(records []seniority.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
