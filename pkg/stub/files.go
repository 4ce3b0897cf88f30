package stub

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileSource locates body files for stub responses.
// Path is the root that body file names are relative to; ReadFile takes
// a path that already includes that root.
type FileSource interface {
	Path() string
	ReadFile(name string) ([]byte, error)
}

// DirSource is a FileSource backed by a directory on the local disk.
type DirSource struct {
	root string
}

// NewDirSource returns a FileSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: filepath.ToSlash(filepath.Clean(dir))}
}

// Path returns the root directory in slash form.
func (d *DirSource) Path() string { return d.root }

// ReadFile reads name from the local disk.
func (d *DirSource) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.FromSlash(name))
}

// FSSource is a FileSource backed by an fs.FS, such as an embed.FS or
// fstest.MapFS. Names handed to ReadFile are cleaned and made relative
// before they reach the file system.
type FSSource struct {
	root string
	fsys fs.FS
}

// NewFSSource returns a FileSource whose root is the directory root inside fsys.
func NewFSSource(root string, fsys fs.FS) *FSSource {
	return &FSSource{root: root, fsys: fsys}
}

// Path returns the configured root.
func (s *FSSource) Path() string { return s.root }

// ReadFile reads name from the underlying file system.
func (s *FSSource) ReadFile(name string) ([]byte, error) {
	clean := strings.TrimPrefix(path.Clean(name), "/")
	return fs.ReadFile(s.fsys, clean)
}
