package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Env carries the process state that path resolution depends on.
type Env struct {
	WorkDir string
	HomeDir string
}

// ResolveToolPath turns the configured tool into the path handed to the
// runner. "~" and "~/..." are joined to HomeDir. Other relative paths that
// contain a separator are joined to WorkDir. A bare name is returned as is
// and later looked up in PATH.
func ResolveToolPath(tool string, env Env) (string, error) {
	switch {
	case tool == "":
		return "", errors.New("tool path is empty")
	case tool == "~" || strings.HasPrefix(tool, "~/"):
		if env.HomeDir == "" {
			return "", errors.Newf("cannot resolve %q: home directory unknown", tool)
		}
		return filepath.Join(env.HomeDir, strings.TrimPrefix(tool, "~")), nil
	case filepath.IsAbs(tool):
		return tool, nil
	case strings.ContainsRune(tool, '/') || strings.ContainsRune(tool, filepath.Separator):
		return filepath.Join(env.WorkDir, tool), nil
	}
	return tool, nil
}
