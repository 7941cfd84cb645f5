package codec

import (
	"strings"
	"testing"
)

type level int32

func TestTextIsPlainDecimal(t *testing.T) {
	b, err := Text[level]{}.Encode(7)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "7" {
		t.Fatalf("encode: got %q want %q", b, "7")
	}
	v, err := Text[level]{}.Decode([]byte(" 12\n"))
	if err != nil || v != 12 {
		t.Fatalf("decode: got %d err=%v", v, err)
	}
}

func TestTextRejectsGarbageAndOverflow(t *testing.T) {
	for _, in := range []string{"", "abc", "3.5", "99999999999"} {
		if _, err := (Text[level]{}).Decode([]byte(in)); err == nil {
			t.Fatalf("decode %q: expected error", in)
		}
	}
}

func TestByNameRoundTrip(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			c, err := ByName[level](name, 0)
			if err != nil {
				t.Fatalf("ByName: %v", err)
			}
			b, err := c.Encode(5)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			v, err := c.Decode(b)
			if err != nil || v != 5 {
				t.Fatalf("decode: got %d err=%v", v, err)
			}
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName[level]("gob", 0); err == nil {
		t.Fatalf("expected error for unknown codec")
	}
}

func TestLimitRejectsOversized(t *testing.T) {
	c, err := ByName[level]("text", 4)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Decode([]byte(strings.Repeat("1", 5)))
	if err == nil || !strings.Contains(err.Error(), "payload too large") {
		t.Fatalf("expected payload too large, got %v", err)
	}
	if v, err := c.Decode([]byte("12")); err != nil || v != 12 {
		t.Fatalf("small payload: got %d err=%v", v, err)
	}
}
