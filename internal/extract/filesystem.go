package extract

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"time"
)

// FileSystem abstracts the directory operations the extractor needs,
// so tests can run against an in-memory tree.
type FileSystem interface {
	// Stat returns file information for the given path
	Stat(path string) (fs.FileInfo, error)

	// ReadDir reads the directory entries at the given path
	ReadDir(path string) ([]fs.DirEntry, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)
}

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

// MemoryFileSystem implements FileSystem for in-memory testing.
// Paths use forward slashes regardless of platform.
type MemoryFileSystem struct {
	files map[string][]byte // absolute path -> content
	dirs  map[string]bool   // absolute path -> exists
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddDir registers a directory (and its parents).
func (mfs *MemoryFileSystem) AddDir(dirPath string) {
	dirPath = path.Clean(filepath.ToSlash(dirPath))
	for dirPath != "/" && dirPath != "." {
		mfs.dirs[dirPath] = true
		dirPath = path.Dir(dirPath)
	}
}

// AddFile adds a file, creating parent directories implicitly.
func (mfs *MemoryFileSystem) AddFile(filePath, content string) {
	filePath = path.Clean(filepath.ToSlash(filePath))
	mfs.files[filePath] = []byte(content)
	mfs.AddDir(path.Dir(filePath))
}

func (mfs *MemoryFileSystem) Stat(p string) (fs.FileInfo, error) {
	p = path.Clean(filepath.ToSlash(p))

	if content, ok := mfs.files[p]; ok {
		return &memoryFileInfo{
			name:    path.Base(p),
			size:    int64(len(content)),
			mode:    0o644,
			modTime: time.Now(),
		}, nil
	}
	if mfs.dirs[p] {
		return &memoryFileInfo{
			name:    path.Base(p),
			mode:    0o755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		}, nil
	}

	return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
}

func (mfs *MemoryFileSystem) ReadDir(dirPath string) ([]fs.DirEntry, error) {
	dirPath = path.Clean(filepath.ToSlash(dirPath))
	if !mfs.dirs[dirPath] {
		return nil, &fs.PathError{Op: "readdir", Path: dirPath, Err: fs.ErrNotExist}
	}

	var entries []fs.DirEntry
	for filePath, content := range mfs.files {
		if path.Dir(filePath) != dirPath {
			continue
		}
		entries = append(entries, fs.FileInfoToDirEntry(&memoryFileInfo{
			name:    path.Base(filePath),
			size:    int64(len(content)),
			mode:    0o644,
			modTime: time.Now(),
		}))
	}
	for dir := range mfs.dirs {
		if dir != dirPath && path.Dir(dir) == dirPath {
			entries = append(entries, fs.FileInfoToDirEntry(&memoryFileInfo{
				name:  path.Base(dir),
				mode:  0o755 | fs.ModeDir,
				isDir: true,
			}))
		}
	}

	// os.ReadDir returns sorted entries; match that
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	filePath = path.Clean(filepath.ToSlash(filePath))
	content, ok := mfs.files[filePath]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: fs.ErrNotExist}
	}
	return content, nil
}

var _ FileSystem = (*MemoryFileSystem)(nil)
