// Package colname decides which raw columns of a summary statistics file carry
// which canonical fields.
package colname

import "strings"

var canonicalReplacer = strings.NewReplacer("-", "_", ".", "_", "\n", "")

// Canonicalize cleans a file header for comparison:
//   - convert to uppercase
//   - trim surrounding whitespace
//   - replace dashes and dots (as in R) with underscores
//   - remove embedded newlines
func Canonicalize(header string) string {
	return canonicalReplacer.Replace(strings.TrimSpace(strings.ToUpper(header)))
}

func canonicalizeAll(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		out = append(out, Canonicalize(h))
	}

	return out
}
