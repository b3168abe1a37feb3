package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirectoryHandle is a read-only view of a filesystem entry used when
// searching package folders for their descriptor.
type DirectoryHandle interface {
	Name() string
	Path() string
	IsDir() bool
	Children() ([]DirectoryHandle, error)
}

type fsHandle struct {
	path  string
	isDir bool
}

// OpenDir returns a handle for path on the real filesystem.
// Symbolic links are followed.
func OpenDir(path string) (DirectoryHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}
	return &fsHandle{path: path, isDir: true}, nil
}

func (h *fsHandle) Name() string { return filepath.Base(h.path) }
func (h *fsHandle) Path() string { return h.path }
func (h *fsHandle) IsDir() bool  { return h.isDir }

// Children lists the entries of the directory sorted by name.
func (h *fsHandle) Children() ([]DirectoryHandle, error) {
	entries, err := os.ReadDir(h.path)
	if err != nil {
		return nil, err
	}

	children := make([]DirectoryHandle, 0, len(entries))
	for _, entry := range entries {
		childPath := filepath.Join(h.path, entry.Name())
		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(childPath); err == nil {
				isDir = info.IsDir()
			}
		}
		children = append(children, &fsHandle{path: childPath, isDir: isDir})
	}
	return children, nil
}
