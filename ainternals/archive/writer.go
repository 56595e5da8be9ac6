package archive

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/Nivl/asar-go/ainternals/manifest"
	"github.com/Nivl/asar-go/ainternals/pattern"
	"github.com/Nivl/asar-go/internal/errutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// UnpackedSuffix is appended to the archive path to name the side
// directory receiving the unpacked files
const UnpackedSuffix = ".unpacked"

// fileMeta describes one regular file found under the source
// directory
type fileMeta struct {
	// rel is the slash-separated path relative to the source dir
	rel    string
	abs    string
	size   int64
	unpack bool
	offset uint64
}

// Pack walks sourceDir and writes an archive of its content at
// outputPath. Files matching one of the given patterns are left out
// of the packed body and copied under outputPath + UnpackedSuffix
// instead, mirroring the source layout.
//
// The files are enumerated in filesystem order, which is
// deterministic for a given filesystem state but not guaranteed to
// be stable across platforms.
//
// There is no cleanup and no atomic commit between the archive and
// the side directory: a failure partway through leaves a truncated
// output file behind
func Pack(fs afero.Fs, sourceDir, outputPath string, patterns []string) (err error) {
	files, err := collectFiles(fs, sourceDir, patterns)
	if err != nil {
		return err
	}

	// A file's offset is the cumulative size of every packed file
	// that came before it. Unpacked files don't move the cursor and
	// never get an offset, or a manifest entry at all
	m := manifest.New()
	var cursor uint64
	for i := range files {
		if files[i].unpack {
			continue
		}
		files[i].offset = cursor
		cursor += uint64(files[i].size)
		if err = m.Insert(files[i].rel, files[i].size, files[i].offset); err != nil {
			return xerrors.Errorf("could not add %s to the manifest: %w", files[i].rel, err)
		}
	}

	raw, err := m.MarshalWire()
	if err != nil {
		return xerrors.Errorf("could not serialize the manifest: %w", err)
	}

	out, err := fs.Create(outputPath)
	if err != nil {
		return xerrors.Errorf("could not create %s: %w", outputPath, err)
	}
	defer errutil.Close(out, &err)

	if err = writeFraming(out, raw); err != nil {
		return err
	}
	for _, f := range files {
		if f.unpack {
			continue
		}
		if err = appendFile(fs, out, f); err != nil {
			return err
		}
	}

	for _, f := range files {
		if !f.unpack {
			continue
		}
		if err = copyUnpacked(fs, outputPath+UnpackedSuffix, f); err != nil {
			return err
		}
	}
	return nil
}

// collectFiles enumerates the regular files under sourceDir and
// flags the ones matching an unpack pattern
func collectFiles(fs afero.Fs, sourceDir string, patterns []string) ([]fileMeta, error) {
	var files []fileMeta
	err := afero.Walk(fs, sourceDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		files = append(files, fileMeta{
			rel:    rel,
			abs:    p,
			size:   info.Size(),
			unpack: pattern.ShouldUnpack(rel, patterns),
		})
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("could not walk %s: %w", sourceDir, err)
	}
	return files, nil
}

// writeFraming emits the size field, the manifest, and the zero
// padding that brings the framing to a 4 byte boundary
func writeFraming(out io.Writer, rawManifest []byte) error {
	sizeField := make([]byte, sizeFieldLen)
	binary.LittleEndian.PutUint64(sizeField, uint64(len(rawManifest)))
	if _, err := out.Write(sizeField); err != nil {
		return xerrors.Errorf("could not write the manifest size: %w", err)
	}
	if _, err := out.Write(rawManifest); err != nil {
		return xerrors.Errorf("could not write the manifest: %w", err)
	}

	framing := sizeFieldLen + uint64(len(rawManifest))
	if pad := align4(framing) - framing; pad > 0 {
		if _, err := out.Write(make([]byte, pad)); err != nil {
			return xerrors.Errorf("could not write the padding: %w", err)
		}
	}
	return nil
}

// appendFile copies the content of a packed file at the end of the
// archive
func appendFile(fs afero.Fs, out io.Writer, meta fileMeta) (err error) {
	f, err := fs.Open(meta.abs)
	if err != nil {
		return xerrors.Errorf("could not open %s: %w", meta.rel, err)
	}
	defer errutil.Close(f, &err)

	if _, err = io.Copy(out, f); err != nil {
		return xerrors.Errorf("could not pack %s: %w", meta.rel, err)
	}
	return nil
}

// copyUnpacked copies an unpacked file under the side directory,
// keeping its relative path
func copyUnpacked(fs afero.Fs, sideDir string, meta fileMeta) (err error) {
	dst := filepath.Join(sideDir, filepath.FromSlash(meta.rel))
	if err = fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return xerrors.Errorf("could not create the side directory for %s: %w", meta.rel, err)
	}

	src, err := fs.Open(meta.abs)
	if err != nil {
		return xerrors.Errorf("could not open %s: %w", meta.rel, err)
	}
	defer errutil.Close(src, &err)

	out, err := fs.Create(dst)
	if err != nil {
		return xerrors.Errorf("could not create %s: %w", dst, err)
	}
	defer errutil.Close(out, &err)

	if _, err = io.Copy(out, src); err != nil {
		return xerrors.Errorf("could not copy %s: %w", meta.rel, err)
	}
	return nil
}
