// Package compileinfo reports how a binary was built, so that a munged file's
// log records exactly which code and which numerical libraries produced it.
package compileinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// NumericalDeps are the modules whose versions can change munged output.
var NumericalDeps = []string{
	"gonum.org/v1/gonum",
	"github.com/montanaflynn/stats",
}

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool

	// Deps maps module path to version for NumericalDeps that were linked in.
	Deps map[string]string
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	out := fmt.Sprintf("This %s %s binary was built with %s at commit %v at time %v.%s", c.Package, c.Version, c.GoVersion, c.Commit, c.CommitTime, mod)

	deps := make([]string, 0, len(c.Deps))
	for _, path := range NumericalDeps {
		if v, ok := c.Deps[path]; ok {
			deps = append(deps, path+"@"+v)
		}
	}
	if len(deps) > 0 {
		out += " Linked against " + strings.Join(deps, ", ") + "."
	}

	return out
}

func Get() CompileInfo {
	out := CompileInfo{Deps: make(map[string]string)}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	out.Version = z.Main.Version
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	for _, dep := range z.Deps {
		for _, path := range NumericalDeps {
			if dep.Path == path {
				out.Deps[path] = dep.Version
			}
		}
	}

	return out
}
