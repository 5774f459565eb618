package substitutor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/errgo.v1"
)

const defaultFileMode fs.FileMode = 0o600

// ReadFile reads the whole template at path.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errgo.NoteMask(err, "cannot read template", errgo.Any)
	}
	return string(data), nil
}

// WriteFile replaces the file at path with buf. The content goes to a
// temporary sibling first and is renamed over path, so readers never see
// a partial file. An existing file keeps its mode; new files get 0600.
// A symlink is written through: its target is replaced, not the link.
func WriteFile(path string, buf string) error {
	target, err := filepath.EvalSymlinks(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		target = path
	case err != nil:
		return errgo.NoteMask(err, "cannot write "+path, errgo.Any)
	}

	mode := defaultFileMode
	info, err := os.Stat(target)
	switch {
	case err == nil:
		mode = info.Mode().Perm()
		// The rename below would replace a read-only file anyway.
		if mode&0o200 == 0 {
			return errgo.NoteMask(&fs.PathError{Op: "write", Path: path, Err: fs.ErrPermission}, "cannot write "+path, errgo.Any)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return errgo.NoteMask(err, "cannot write "+path, errgo.Any)
	}

	tmp := filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+"."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, []byte(buf), mode); err != nil {
		return errgo.NoteMask(err, "cannot write "+path, errgo.Any)
	}
	// WriteFile only applies mode to files it creates and is subject to
	// the umask.
	if err := os.Chmod(tmp, mode); err != nil {
		os.Remove(tmp)
		return errgo.NoteMask(err, "cannot write "+path, errgo.Any)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return errgo.NoteMask(err, "cannot write "+path, errgo.Any)
	}
	return nil
}
