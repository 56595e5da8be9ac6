package asar_test

import (
	"os"
	"path/filepath"
	"testing"

	asar "github.com/Nivl/asar-go"
	"github.com/Nivl/asar-go/ainternals/manifest"
	"github.com/Nivl/asar-go/internal/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("should read back what was packed", func(t *testing.T) {
		t.Parallel()

		src, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)
		out, cleanupOut := testhelper.TempDir(t)
		t.Cleanup(cleanupOut)

		files := map[string]string{
			"test.txt":          "Hello ASAR!",
			"subdir/nested.txt": "Nested content",
		}
		testhelper.WriteTree(t, src, files)

		archivePath := filepath.Join(out, "app.asar")
		require.NoError(t, asar.Pack(src, archivePath, nil))

		a, err := asar.Open(archivePath)
		require.NoError(t, err)
		t.Cleanup(func() {
			require.NoError(t, a.Close())
		})

		for p, content := range files {
			data, err := a.ReadFile(p)
			require.NoError(t, err)
			assert.Equal(t, content, string(data))
		}
	})

	t.Run("unpacked files should live next to the archive", func(t *testing.T) {
		t.Parallel()

		src, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)
		out, cleanupOut := testhelper.TempDir(t)
		t.Cleanup(cleanupOut)

		testhelper.WriteTree(t, src, map[string]string{
			"regular.txt": "in the body",
			"native.node": "binary bits",
		})

		archivePath := filepath.Join(out, "app.asar")
		require.NoError(t, asar.Pack(src, archivePath, []string{"*.node"}))

		a, err := asar.Open(archivePath)
		require.NoError(t, err)
		t.Cleanup(func() {
			require.NoError(t, a.Close())
		})

		data, err := a.ReadFile("regular.txt")
		require.NoError(t, err)
		assert.Equal(t, "in the body", string(data))

		_, err = a.ReadFile("native.node")
		require.Error(t, err)
		assert.ErrorIs(t, err, manifest.ErrFileNotFound)

		unpacked, err := os.ReadFile(filepath.Join(out, "app.asar.unpacked", "native.node"))
		require.NoError(t, err)
		assert.Equal(t, "binary bits", string(unpacked))
	})
}

func TestManifestWalk(t *testing.T) {
	t.Parallel()

	src, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)
	out, cleanupOut := testhelper.TempDir(t)
	t.Cleanup(cleanupOut)

	testhelper.WriteTree(t, src, map[string]string{
		"test.txt":          "Hello ASAR!",
		"subdir/nested.txt": "Nested content",
	})

	archivePath := filepath.Join(out, "app.asar")
	require.NoError(t, asar.Pack(src, archivePath, nil))

	a, err := asar.Open(archivePath)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})

	sizes := map[string]int64{}
	require.NoError(t, a.Manifest().Walk(func(path string, e *manifest.Entry) error {
		sizes[path] = e.Size
		return nil
	}))
	assert.Equal(t, map[string]int64{
		"test.txt":          11,
		"subdir/nested.txt": 14,
	}, sizes)
}
