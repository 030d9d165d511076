package repl

import (
	"os"
	"path/filepath"
)

func osUserHomeDir() (string, error) {
	return os.UserHomeDir()
}

// resolveLocalPath joins rel against the REPL's local working directory
// unless it is already absolute.
func resolveLocalPath(r *REPL, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(r.LocalDir, rel)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
