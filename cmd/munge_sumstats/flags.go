package main

import (
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// nullFloat is a numeric flag that remembers whether it was set at all, so
// that --N 0 is distinguishable from no --N.
type nullFloat struct {
	null.Float
}

func (n *nullFloat) String() string {
	if n == nil || !n.Valid {
		return ""
	}

	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}

func (n *nullFloat) Set(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	n.Float = null.FloatFrom(v)

	return nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	out := make([]string, 0)
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
