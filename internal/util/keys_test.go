package util

import "testing"

func TestStorageKeyLayout(t *testing.T) {
	if got, want := StorageKey("seniority", "A", "Eng"), "seniority:1:A:Eng"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestStorageKeyNoDelimiterCollisions(t *testing.T) {
	pairs := [][2]string{
		{"a:b", "c"},
		{"a", "b:c"},
		{"a:", "b"},
		{"a", ":b"},
		{"", "a:b"},
		{"1:a", "b"},
		{"", ""},
	}
	seen := make(map[string][2]string)
	for _, p := range pairs {
		k := StorageKey("ns", p[0], p[1])
		if prev, dup := seen[k]; dup {
			t.Fatalf("collision: %q and %q both map to %q", prev, p, k)
		}
		seen[k] = p
	}
}
