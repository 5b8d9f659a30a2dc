package compileinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	c := CompileInfo{
		Package:   "github.com/carbocation/ldscmunge/cmd/munge_sumstats",
		Version:   "(devel)",
		GoVersion: "go1.18",
		Commit:    "abc123",
		Modified:  true,
		Deps: map[string]string{
			"github.com/montanaflynn/stats": "v0.6.6",
			"gonum.org/v1/gonum":            "v0.9.3",
		},
	}

	s := c.String()
	for _, expected := range []string{"abc123", "modified", "gonum.org/v1/gonum@v0.9.3, github.com/montanaflynn/stats@v0.6.6"} {
		if !strings.Contains(s, expected) {
			t.Errorf("Expected %q in %q", expected, s)
		}
	}

	if s := (CompileInfo{}).String(); strings.Contains(s, "Linked against") {
		t.Errorf("Expected no dependency list without deps, got %q", s)
	}
}
