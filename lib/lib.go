// Package lib exposes the archive operations behind a flat,
// handle-based boundary meant for foreign callers.
// Every operation reports failure through a sentinel return value
// (0, nil, or false) instead of an error, and the open archives are
// tracked by an explicit Registry rather than process-global state:
// a host creates one registry at startup and tears it down once
package lib

import (
	"sync"

	asar "github.com/Nivl/asar-go"
)

// Registry keeps track of the archives opened on behalf of foreign
// callers.
// Handles are positive and never reused
type Registry struct {
	mu       sync.Mutex
	nextID   int64
	archives map[int64]*asar.Archive
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		nextID:   1,
		archives: map[int64]*asar.Archive{},
	}
}

// Open opens the archive at the given path and returns its handle.
// 0 is returned on failure
func (r *Registry) Open(path string) int64 {
	a, err := asar.Open(path)
	if err != nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.archives[id] = a
	return id
}

// ReadFile returns the content of the file stored at the given
// slash-separated path in the archive identified by handle.
// Nil is returned on failure. The caller owns the buffer
func (r *Registry) ReadFile(handle int64, path string) []byte {
	r.mu.Lock()
	a, ok := r.archives[handle]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	data, err := a.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

// Close closes the archive identified by handle and invalidates the
// handle. It returns whether the operation succeeded
func (r *Registry) Close(handle int64) bool {
	r.mu.Lock()
	a, ok := r.archives[handle]
	delete(r.archives, handle)
	r.mu.Unlock()

	if !ok {
		return false
	}
	return a.Close() == nil
}

// Pack packs the content of sourceDir into a single archive at
// outputPath and returns whether the operation succeeded
func (r *Registry) Pack(sourceDir, outputPath string, patterns []string) bool {
	return asar.Pack(sourceDir, outputPath, patterns) == nil
}

// Len returns the number of archives currently open
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.archives)
}
