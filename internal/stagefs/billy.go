package stagefs

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"

	"github.com/usdscene/usdscene/usd"
)

// errReadOnly is returned by every billy.Filesystem write-path method.
// StageFS has no write-back path at all (§12 is explicitly read-only),
// unlike the teacher's GraphFS, where the same sentinel only applies
// conditionally (writable == false).
var errReadOnly = errors.New("stagefs: read-only filesystem")

// BillyFS adapts a Stage to billy.Filesystem for serving over NFS via
// willscott/go-nfs, the same role the teacher's GraphFS plays for
// go-nfs over a code graph.
type BillyFS struct {
	view      *StageView
	mountTime time.Time
}

// NewBillyFS wraps stage as a billy.Filesystem.
func NewBillyFS(stage *usd.Stage) *BillyFS {
	return &BillyFS{view: NewStageView(stage), mountTime: time.Now()}
}

// --- billy.Basic ---

func (fs *BillyFS) Create(filename string) (billy.File, error) {
	return nil, errReadOnly
}

func (fs *BillyFS) Open(filename string) (billy.File, error) {
	return fs.OpenFile(filename, os.O_RDONLY, 0)
}

func (fs *BillyFS) OpenFile(filename string, flag int, _ os.FileMode) (billy.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, errReadOnly
	}
	r, err := fs.view.resolve(filename)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: filename, Err: os.ErrNotExist}
	}
	if r.kind == kindDir {
		return nil, &os.PathError{Op: "open", Path: filename, Err: errors.New("is a directory")}
	}
	return &bytesFile{name: filepath.Base(filename), data: r.content}, nil
}

func (fs *BillyFS) Stat(filename string) (os.FileInfo, error) {
	return fs.Lstat(filename)
}

func (fs *BillyFS) Rename(oldpath, newpath string) error { return errReadOnly }

func (fs *BillyFS) Remove(filename string) error { return errReadOnly }

func (fs *BillyFS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// --- billy.TempFile ---

func (fs *BillyFS) TempFile(dir, prefix string) (billy.File, error) {
	return nil, billy.ErrNotSupported
}

// --- billy.Dir ---

func (fs *BillyFS) ReadDir(path string) ([]os.FileInfo, error) {
	r, err := fs.view.resolve(path)
	if err != nil {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: os.ErrNotExist}
	}
	if r.kind != kindDir {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: errors.New("not a directory")}
	}

	infos := make([]os.FileInfo, 0)
	for _, name := range fs.view.dirNames(r.prim) {
		infos = append(infos, &staticFileInfo{
			name:    name,
			mode:    os.ModeDir | 0o555,
			modTime: fs.mountTime,
		})
	}
	for _, name := range fs.view.fileNames(r.prim) {
		content, _ := fs.view.fileContent(r.prim, name)
		infos = append(infos, &staticFileInfo{
			name:    name,
			size:    int64(len(content)),
			mode:    0o444,
			modTime: fs.mountTime,
		})
	}
	return infos, nil
}

func (fs *BillyFS) MkdirAll(filename string, perm os.FileMode) error { return errReadOnly }

// --- billy.Symlink ---

func (fs *BillyFS) Lstat(filename string) (os.FileInfo, error) {
	clean := filepath.Clean("/" + filename)
	if clean == "/" {
		return &staticFileInfo{name: "/", mode: os.ModeDir | 0o555, modTime: fs.mountTime}, nil
	}

	r, err := fs.view.resolve(filename)
	if err != nil {
		return nil, &os.PathError{Op: "lstat", Path: filename, Err: os.ErrNotExist}
	}

	name := filepath.Base(clean)
	if r.kind == kindDir {
		return &staticFileInfo{name: name, mode: os.ModeDir | 0o555, modTime: fs.mountTime}, nil
	}
	return &staticFileInfo{name: name, size: int64(len(r.content)), mode: 0o444, modTime: fs.mountTime}, nil
}

func (fs *BillyFS) Symlink(target, link string) error { return billy.ErrNotSupported }

func (fs *BillyFS) Readlink(link string) (string, error) { return "", billy.ErrNotSupported }

// --- billy.Chroot ---

func (fs *BillyFS) Chroot(path string) (billy.Filesystem, error) {
	return chroot.New(fs, path), nil
}

func (fs *BillyFS) Root() string { return "/" }

// --- billy.Capable ---

func (fs *BillyFS) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.SeekCapability
}

// staticFileInfo implements os.FileInfo with static values, identical in
// shape to the teacher's nfsmount.staticFileInfo.
type staticFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
}

func (fi *staticFileInfo) Name() string       { return fi.name }
func (fi *staticFileInfo) Size() int64        { return fi.size }
func (fi *staticFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *staticFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *staticFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *staticFileInfo) Sys() interface{}   { return nil }

var (
	_ billy.Filesystem = (*BillyFS)(nil)
	_ billy.Capable    = (*BillyFS)(nil)
)
