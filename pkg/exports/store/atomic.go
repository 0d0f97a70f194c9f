package store

import (
	"os"
	"path/filepath"
)

// tempPattern names in-flight files. It never matches the export grammar, so
// readers and the pruner ignore leftovers from a crash.
const tempPattern = ".tmp-*"

// writeFileAtomic writes data to a temp file next to path, syncs it and
// renames it into place. Readers see either no file or the complete file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	success = true
	return nil
}
