// Package archive contains the reader and the writer for the asar
// container format
package archive

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/Nivl/asar-go/ainternals/manifest"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

const (
	// sizeFieldLen is the size of the fixed field at the start of an
	// archive that contains the size of the manifest
	sizeFieldLen = 8
	// MaxManifestSize is the biggest manifest size the reader
	// accepts. Anything above it is treated as hostile or corrupt
	// input; the ceiling bounds how much memory an untrusted archive
	// can make us allocate
	MaxManifestSize = 100 * 1024 * 1024
)

var (
	// ErrInvalidArchive is an error thrown when a file is too short
	// to contain the archive framing
	ErrInvalidArchive = errors.New("invalid archive")
	// ErrHeaderTooLarge is an error thrown when the declared
	// manifest size exceeds MaxManifestSize
	ErrHeaderTooLarge = errors.New("header too large")
	// ErrUnexpectedEOF is an error thrown when a file's declared
	// size overruns the end of the archive
	ErrUnexpectedEOF = errors.New("unexpected end of archive")
)

// Reader extracts files from an archive without ever loading the
// whole body in memory.
// An archive has the following format:
//
// Header: 8 bytes
//         The size of the manifest, as a little-endian uint64
// Manifest: Variable size
//           A UTF-8 JSON description of the directory tree. See the
//           manifest package for the exact shape
// Padding: 0 to 3 zero bytes, so the header and the manifest
//          together end on a 4 byte boundary
// Body: Variable size
//       The concatenated raw bytes of every packed file, in the
//       order their offsets were assigned by the writer
//
// The reader will need to be closed using Close()
type Reader struct {
	f afero.File
	m *manifest.Manifest

	// base is the position of the packed body in the archive.
	// Manifest offsets are relative to it
	base int64

	// Mutex used to protect the exported methods from being called
	// concurrently, since they all move the same file cursor
	mu sync.Mutex
}

// NewFromFile returns a reader for the archive at the given path
func NewFromFile(fs afero.Fs, path string) (r *Reader, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("could not open %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close() //nolint:errcheck // it already failed
		}
	}()

	sizeField := make([]byte, sizeFieldLen)
	if _, err = io.ReadFull(f, sizeField); err != nil {
		return nil, xerrors.Errorf("could not read the manifest size: %w", ErrInvalidArchive)
	}
	manifestSize := binary.LittleEndian.Uint64(sizeField)
	// The check must happen before the allocation below
	if manifestSize > MaxManifestSize {
		return nil, xerrors.Errorf("manifest is declared as %d bytes: %w", manifestSize, ErrHeaderTooLarge)
	}

	raw := make([]byte, manifestSize)
	if _, err = io.ReadFull(f, raw); err != nil {
		return nil, xerrors.Errorf("could not read the manifest: %w", ErrInvalidArchive)
	}
	m, err := manifest.Parse(raw)
	if err != nil {
		return nil, xerrors.Errorf("could not parse the manifest: %w", err)
	}

	return &Reader{
		f:    f,
		m:    m,
		base: bodyOffset(manifestSize),
	}, nil
}

// ReadFile returns the content of the file stored at the given
// slash-separated path.
// The returned buffer belongs to the caller
func (r *Reader) ReadFile(path string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.m.Resolve(path)
	if err != nil {
		return nil, err
	}

	if _, err = r.f.Seek(r.base+int64(e.Offset), io.SeekStart); err != nil {
		return nil, xerrors.Errorf("could not seek to the content of %s: %w", path, err)
	}
	buf := make([]byte, e.Size)
	if _, err = io.ReadFull(r.f, buf); err != nil {
		return nil, xerrors.Errorf("content of %s overruns the archive: %w", path, ErrUnexpectedEOF)
	}
	return buf, nil
}

// Manifest returns the manifest of the archive
func (r *Reader) Manifest() *manifest.Manifest {
	return r.m
}

// Close frees the resources.
// The reader cannot be used afterward
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.f.Close()
}

// bodyOffset returns the position of the packed body in an archive
// with a manifest of the given size
func bodyOffset(manifestSize uint64) int64 {
	return int64(align4(sizeFieldLen + manifestSize))
}

// align4 rounds n up to the next multiple of 4
func align4(n uint64) uint64 {
	return (n + 3) &^ 3
}
