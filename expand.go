package ldscmunge

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands ~ to its proper path, where appropriate. If the home
// directory cannot be determined, the path is returned untouched.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		path = filepath.Join(home, path[2:])
	}

	return path
}
