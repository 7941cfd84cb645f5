package util

import (
	"strconv"
	"strings"
)

// StorageKey composes the store key for an (organization, title) pair:
//
//	<prefix>:<len(org)>:<org>:<title>
//
// The byte length of org is spelled out, so the boundary between the two
// fields is unambiguous whatever characters they contain ("a:b"/"c" and
// "a"/"b:c" map to different keys).
func StorageKey(prefix, org, title string) string {
	n := strconv.Itoa(len(org))
	var b strings.Builder
	b.Grow(len(prefix) + 1 + len(n) + 1 + len(org) + 1 + len(title))
	b.WriteString(prefix)
	b.WriteByte(':')
	b.WriteString(n)
	b.WriteByte(':')
	b.WriteString(org)
	b.WriteByte(':')
	b.WriteString(title)
	return b.String()
}
