// Package manifest implements the directory-tree model stored at the
// head of an asar archive
package manifest

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/xerrors"
)

var (
	// ErrInvalidHeader is an error thrown when a serialized manifest
	// doesn't have the expected shape
	ErrInvalidHeader = errors.New("invalid header")
	// ErrFileNotFound is an error thrown when a path cannot be
	// resolved to a file entry
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidPath is an error thrown when a path cannot be
	// inserted in the tree
	ErrInvalidPath = errors.New("invalid path")
)

// WalkStop is a fake error to return from a Walk callback to stop
// the walk without failing
var WalkStop = errors.New("stop the walk") //nolint:errname // not an actual error

// Entry represents a node of the manifest tree.
// An entry is either a file or a directory, never both
type Entry struct {
	// Children contains the entries of a directory indexed by their
	// name. Children is nil for file entries
	Children map[string]*Entry
	// Size contains the size in bytes of a file entry
	Size int64
	// Offset contains the position of a file entry's content in the
	// packed body. The offset is relative to the start of the body,
	// not to the start of the archive
	Offset uint64
}

// NewDir returns a new empty directory entry
func NewDir() *Entry {
	return &Entry{
		Children: map[string]*Entry{},
	}
}

// NewFile returns a new file entry
func NewFile(size int64, offset uint64) *Entry {
	return &Entry{
		Size:   size,
		Offset: offset,
	}
}

// IsDir returns whether the entry is a directory
func (e *Entry) IsDir() bool {
	return e.Children != nil
}

// Manifest represents the directory tree of an archive.
// The root entry owns every descendant; entries are never shared
// between manifests
type Manifest struct {
	Root *Entry
}

// New returns a new empty manifest
func New() *Manifest {
	return &Manifest{
		Root: NewDir(),
	}
}

// Insert adds a file entry at the given slash-separated path,
// creating the intermediate directories.
// ErrInvalidPath is returned if a segment of the path is already
// taken by a file
func (m *Manifest) Insert(path string, size int64, offset uint64) error {
	segments := strings.Split(path, "/")
	current := m.Root
	for _, name := range segments[:len(segments)-1] {
		child, ok := current.Children[name]
		if !ok {
			child = NewDir()
			current.Children[name] = child
		}
		if !child.IsDir() {
			return xerrors.Errorf("%s in %s is a file: %w", name, path, ErrInvalidPath)
		}
		current = child
	}

	name := segments[len(segments)-1]
	if _, ok := current.Children[name]; ok {
		return xerrors.Errorf("%s already exists: %w", path, ErrInvalidPath)
	}
	current.Children[name] = NewFile(size, offset)
	return nil
}

// Resolve returns the file entry stored at the given slash-separated
// path.
// ErrFileNotFound is returned if a segment is missing, if a
// non-final segment resolves to a file, or if the final segment
// resolves to a directory
func (m *Manifest) Resolve(path string) (*Entry, error) {
	current := m.Root
	for _, name := range strings.Split(path, "/") {
		if !current.IsDir() {
			return nil, xerrors.Errorf("%s is not a directory: %w", path, ErrFileNotFound)
		}
		child, ok := current.Children[name]
		if !ok {
			return nil, xerrors.Errorf("no entry %s in %s: %w", name, path, ErrFileNotFound)
		}
		current = child
	}
	if current.IsDir() {
		return nil, xerrors.Errorf("%s is a directory: %w", path, ErrFileNotFound)
	}
	return current, nil
}

// Walk runs the provided method on every file entry of the manifest,
// depth first, with the directories of a same level visited in
// lexical order.
// The walk can be stopped by returning WalkStop from the callback
func (m *Manifest) Walk(cb func(path string, e *Entry) error) error {
	err := walk("", m.Root, cb)
	if errors.Is(err, WalkStop) {
		return nil
	}
	return err
}

func walk(prefix string, dir *Entry, cb func(path string, e *Entry) error) error {
	names := make([]string, 0, len(dir.Children))
	for name := range dir.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		child := dir.Children[name]
		path := name
		if prefix != "" {
			path = prefix + "/" + name
		}
		if child.IsDir() {
			if err := walk(path, child, cb); err != nil {
				return err
			}
			continue
		}
		if err := cb(path, child); err != nil {
			return err
		}
	}
	return nil
}
