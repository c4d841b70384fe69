package stagefs

import (
	"time"

	"github.com/winfsp/cgofuse/fuse"

	"github.com/usdscene/usdscene/usd"
)

// StageFS implements the read-only subset of cgofuse's FileSystemBase
// needed to browse a reconstructed Stage: Getattr, Open, Readdir, Read.
// Adapted from the teacher's MacheFS, with graph.Graph.GetNode/ListChildren
// replaced by StageView.resolve/dirNames/fileNames.
type StageFS struct {
	fuse.FileSystemBase
	view      *StageView
	mountTime fuse.Timespec
}

// NewStageFS wraps stage as a FUSE filesystem.
func NewStageFS(stage *usd.Stage) *StageFS {
	return &StageFS{
		view:      NewStageView(stage),
		mountTime: fuse.NewTimespec(time.Now()),
	}
}

// Open permits opening any resolvable virtual file read-only; directories
// are rejected with EISDIR, matching MacheFS's shape.
func (fs *StageFS) Open(path string, flags int) (int, uint64) {
	r, err := fs.view.resolve(path)
	if err != nil {
		return -fuse.ENOENT, 0
	}
	if r.kind == kindDir {
		return -fuse.EISDIR, 0
	}
	return 0, 0
}

// Getattr (Stat).
func (fs *StageFS) Getattr(path string, stat *fuse.Stat_t, fh uint64) int {
	stat.Atim = fs.mountTime
	stat.Mtim = fs.mountTime
	stat.Ctim = fs.mountTime
	stat.Birthtim = fs.mountTime

	r, err := fs.view.resolve(path)
	if err != nil {
		return -fuse.ENOENT
	}
	if r.kind == kindDir {
		stat.Mode = fuse.S_IFDIR | 0o555
		stat.Nlink = 2
		return 0
	}
	stat.Mode = fuse.S_IFREG | 0o444
	stat.Nlink = 1
	stat.Size = int64(len(r.content))
	return 0
}

// Readdir lists a Prim directory's child Prims and virtual files.
func (fs *StageFS) Readdir(path string, fill func(name string, stat *fuse.Stat_t, ofst int64) bool, ofst int64, fh uint64) int {
	r, err := fs.view.resolve(path)
	if err != nil {
		return -fuse.ENOENT
	}
	if r.kind != kindDir {
		return -fuse.ENOTDIR
	}

	fill(".", nil, 0)
	fill("..", nil, 0)
	for _, name := range fs.view.dirNames(r.prim) {
		fill(name, nil, 0)
	}
	for _, name := range fs.view.fileNames(r.prim) {
		fill(name, nil, 0)
	}
	return 0
}

// Read serves the rendered bytes of a virtual file.
func (fs *StageFS) Read(path string, buff []byte, ofst int64, fh uint64) int {
	r, err := fs.view.resolve(path)
	if err != nil {
		return -fuse.ENOENT
	}
	if r.kind != kindFile {
		return -fuse.EISDIR
	}
	if ofst >= int64(len(r.content)) {
		return 0
	}
	end := ofst + int64(len(buff))
	if end > int64(len(r.content)) {
		end = int64(len(r.content))
	}
	return copy(buff, r.content[ofst:end])
}
