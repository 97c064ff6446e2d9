package testutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/homelink/pkg/filesystem"
)

// MemoryFS implements filesystem.FS with in-memory storage, including
// symlink support. It is the test double for all link and patch logic.
type MemoryFS struct {
	mu    sync.RWMutex
	nodes map[string]*node
}

// node represents a file, directory or symlink in memory
type node struct {
	mode     fs.FileMode
	modTime  time.Time
	content  []byte
	linkDest string
}

func (n *node) isDir() bool  { return n.mode.IsDir() }
func (n *node) isLink() bool { return n.mode&fs.ModeSymlink != 0 }

// NewMemoryFS creates an in-memory filesystem with a root directory.
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		nodes: map[string]*node{
			"/": {mode: fs.ModeDir | 0755, modTime: time.Now()},
		},
	}
}

var _ filesystem.FS = (*MemoryFS)(nil)

func normalize(path string) string {
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path)
}

// resolve follows symlinks in the final path component, up to a fixed
// depth. Intermediate components are assumed to be real directories,
// which is all the tests need.
func (m *MemoryFS) resolve(path string) (*node, string, error) {
	path = normalize(path)
	for i := 0; i < 16; i++ {
		n, ok := m.nodes[path]
		if !ok {
			return nil, path, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
		}
		if !n.isLink() {
			return n, path, nil
		}
		dest := n.linkDest
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(path), dest)
		}
		path = normalize(dest)
	}
	return nil, path, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrInvalid}
}

// Stat follows symlinks
func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, resolved, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	return &fileInfo{name: filepath.Base(resolved), node: n}, nil
}

// Lstat does not follow symlinks
func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = normalize(name)
	n, ok := m.nodes[name]
	if !ok {
		return nil, &fs.PathError{Op: "lstat", Path: name, Err: fs.ErrNotExist}
	}
	return &fileInfo{name: filepath.Base(name), node: n}, nil
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, resolved, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	if n.isDir() {
		return nil, &fs.PathError{Op: "read", Path: resolved, Err: fs.ErrInvalid}
	}
	out := make([]byte, len(n.content))
	copy(out, n.content)
	return out, nil
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = normalize(name)
	parent, ok := m.nodes[filepath.Dir(name)]
	if !ok || !parent.isDir() {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrNotExist}
	}
	if existing, ok := m.nodes[name]; ok && existing.isDir() {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}
	content := make([]byte, len(data))
	copy(content, data)
	m.nodes[name] = &node{mode: perm, modTime: time.Now(), content: content}
	return nil
}

func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = normalize(path)
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	cur := "/"
	for _, part := range parts {
		if part == "" {
			continue
		}
		cur = filepath.Join(cur, part)
		if n, ok := m.nodes[cur]; ok {
			if !n.isDir() {
				return &fs.PathError{Op: "mkdir", Path: cur, Err: fs.ErrExist}
			}
			continue
		}
		m.nodes[cur] = &node{mode: fs.ModeDir | perm, modTime: time.Now()}
	}
	return nil
}

func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, resolved, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	if !n.isDir() {
		return nil, &fs.PathError{Op: "readdir", Path: resolved, Err: fs.ErrInvalid}
	}

	var entries []fs.DirEntry
	for path, child := range m.nodes {
		if path != resolved && filepath.Dir(path) == resolved {
			entries = append(entries, &dirEntry{name: filepath.Base(path), node: child})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MemoryFS) Symlink(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	newname = normalize(newname)
	if _, ok := m.nodes[newname]; ok {
		return &fs.PathError{Op: "symlink", Path: newname, Err: fs.ErrExist}
	}
	parent, ok := m.nodes[filepath.Dir(newname)]
	if !ok || !parent.isDir() {
		return &fs.PathError{Op: "symlink", Path: newname, Err: fs.ErrNotExist}
	}
	m.nodes[newname] = &node{mode: fs.ModeSymlink | 0777, modTime: time.Now(), linkDest: oldname}
	return nil
}

func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = normalize(name)
	n, ok := m.nodes[name]
	if !ok {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrNotExist}
	}
	if !n.isLink() {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
	}
	return n.linkDest, nil
}

// Rename moves a node and, for directories, everything beneath it.
func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldpath = normalize(oldpath)
	newpath = normalize(newpath)
	if _, ok := m.nodes[oldpath]; !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	parent, ok := m.nodes[filepath.Dir(newpath)]
	if !ok || !parent.isDir() {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrNotExist}
	}

	prefix := oldpath + "/"
	moved := map[string]*node{}
	for path, n := range m.nodes {
		if path == oldpath {
			moved[newpath] = n
			delete(m.nodes, path)
		} else if strings.HasPrefix(path, prefix) {
			moved[newpath+"/"+strings.TrimPrefix(path, prefix)] = n
			delete(m.nodes, path)
		}
	}
	for path, n := range moved {
		m.nodes[normalize(path)] = n
	}
	return nil
}

// Remove removes a file, symlink, or empty directory. Symlinks are not
// followed, matching os.Remove.
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = normalize(name)
	n, ok := m.nodes[name]
	if !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	if n.isDir() {
		prefix := name + "/"
		for path := range m.nodes {
			if strings.HasPrefix(path, prefix) {
				return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrInvalid}
			}
		}
	}
	delete(m.nodes, name)
	return nil
}

// Exists reports whether a path exists without following symlinks.
func (m *MemoryFS) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[normalize(name)]
	return ok
}

// fileInfo implements fs.FileInfo for memory nodes
type fileInfo struct {
	name string
	node *node
}

func (f *fileInfo) Name() string       { return f.name }
func (f *fileInfo) Size() int64        { return int64(len(f.node.content)) }
func (f *fileInfo) Mode() fs.FileMode  { return f.node.mode }
func (f *fileInfo) ModTime() time.Time { return f.node.modTime }
func (f *fileInfo) IsDir() bool        { return f.node.isDir() }
func (f *fileInfo) Sys() interface{}   { return nil }

// dirEntry implements fs.DirEntry for memory nodes
type dirEntry struct {
	name string
	node *node
}

func (d *dirEntry) Name() string               { return d.name }
func (d *dirEntry) IsDir() bool                { return d.node.isDir() }
func (d *dirEntry) Type() fs.FileMode          { return d.node.mode.Type() }
func (d *dirEntry) Info() (fs.FileInfo, error) { return &fileInfo{name: d.name, node: d.node}, nil }
