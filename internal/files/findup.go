package files

import (
	"os"
	"path/filepath"
)

// FindUpDir walks from dir towards the filesystem root looking for a
// directory with the given name, and returns its full path, or "" if none
// is found. The host shell uses this to locate the sibling backend
// directory relative to wherever the host binary runs from. Unreadable
// directories along the way are skipped.
func FindUpDir(name, dir string) string {
	curDir := dir
	for {
		entries, err := os.ReadDir(curDir)
		if err == nil {
			for _, e := range entries {
				if name == e.Name() && e.IsDir() {
					return filepath.Join(curDir, name)
				}
			}
		}
		newDir := filepath.Dir(curDir)
		if newDir == curDir {
			return ""
		}
		curDir = newDir
	}
}
