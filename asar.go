// Package asar provides reading and writing of asar archives: a
// single-file container made of a JSON directory manifest followed
// by the raw concatenated content of the packed files.
// Files are read back on demand; opening an archive only loads the
// manifest
package asar

import (
	"github.com/Nivl/asar-go/ainternals/archive"
	"github.com/Nivl/asar-go/ainternals/manifest"
	"github.com/spf13/afero"
)

// Archive represents an open archive.
// An archive is not safe for concurrent use: the underlying file
// cursor is shared between reads. Open one archive per goroutine
// instead, it's cheap
type Archive struct {
	r *archive.Reader
}

// OpenOptions contains all the optional data used to open an
// archive
type OpenOptions struct {
	// FS represents the filesystem the archive lives on.
	// By default the OS filesystem will be used
	FS afero.Fs
}

// Open opens the archive at the given path.
// The archive will need to be closed using Close()
func Open(path string) (*Archive, error) {
	return OpenWithOptions(path, OpenOptions{})
}

// OpenWithOptions opens the archive at the given path using the
// provided options.
// The archive will need to be closed using Close()
func OpenWithOptions(path string, opts OpenOptions) (*Archive, error) {
	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	r, err := archive.NewFromFile(fs, path)
	if err != nil {
		return nil, err
	}
	return &Archive{r: r}, nil
}

// ReadFile returns the content of the file stored at the given
// slash-separated path.
// The returned buffer belongs to the caller
func (a *Archive) ReadFile(path string) ([]byte, error) {
	return a.r.ReadFile(path)
}

// Manifest returns the manifest of the archive
func (a *Archive) Manifest() *manifest.Manifest {
	return a.r.Manifest()
}

// Close frees the resources.
// The archive cannot be used afterward
func (a *Archive) Close() error {
	return a.r.Close()
}

// PackOptions contains all the optional data used to pack a
// directory
type PackOptions struct {
	// FS represents the filesystem holding the source directory and
	// receiving the archive.
	// By default the OS filesystem will be used
	FS afero.Fs
	// Patterns contains the glob patterns of the files to keep out
	// of the packed body. See pattern.Match for the supported
	// syntax. Matched files are copied under the output path +
	// ".unpacked" instead
	Patterns []string
}

// Pack packs the content of sourceDir into a single archive at
// outputPath
func Pack(sourceDir, outputPath string, patterns []string) error {
	return PackWithOptions(sourceDir, outputPath, PackOptions{
		Patterns: patterns,
	})
}

// PackWithOptions packs the content of sourceDir into a single
// archive at outputPath using the provided options
func PackWithOptions(sourceDir, outputPath string, opts PackOptions) error {
	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return archive.Pack(fs, sourceDir, outputPath, opts.Patterns)
}
