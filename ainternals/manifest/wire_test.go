package manifest_test

import (
	"fmt"
	"testing"

	"github.com/Nivl/asar-go/ainternals/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalWire(t *testing.T) {
	t.Parallel()

	t.Run("empty manifest should serialize to an empty files map", func(t *testing.T) {
		t.Parallel()

		raw, err := manifest.New().MarshalWire()
		require.NoError(t, err)
		assert.Equal(t, `{"files":{}}`, string(raw))
	})

	t.Run("should serialize sizes as numbers and offsets as strings", func(t *testing.T) {
		t.Parallel()

		m := manifest.New()
		require.NoError(t, m.Insert("test.txt", 12, 0))
		require.NoError(t, m.Insert("subdir/nested.txt", 14, 12))

		raw, err := m.MarshalWire()
		require.NoError(t, err)

		expected := `{"files":{"subdir":{"files":{"nested.txt":{"size":14,"offset":"12"}}},"test.txt":{"size":12,"offset":"0"}}}`
		assert.Equal(t, expected, string(raw))
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("should rebuild the tree", func(t *testing.T) {
		t.Parallel()

		raw := `{"files":{"subdir":{"files":{"nested.txt":{"size":14,"offset":"12"}}},"test.txt":{"size":12,"offset":"0"}}}`
		m, err := manifest.Parse([]byte(raw))
		require.NoError(t, err)

		e, err := m.Resolve("test.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(12), e.Size)
		assert.Equal(t, uint64(0), e.Offset)

		e, err = m.Resolve("subdir/nested.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(14), e.Size)
		assert.Equal(t, uint64(12), e.Offset)
	})

	t.Run("should default a missing offset to 0", func(t *testing.T) {
		t.Parallel()

		m, err := manifest.Parse([]byte(`{"files":{"a.txt":{"size":3}}}`))
		require.NoError(t, err)

		e, err := m.Resolve("a.txt")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), e.Offset)
	})

	t.Run("should survive a round trip", func(t *testing.T) {
		t.Parallel()

		m := manifest.New()
		require.NoError(t, m.Insert("a/b/c.txt", 1, 0))
		require.NoError(t, m.Insert("a/d.txt", 2, 1))

		raw, err := m.MarshalWire()
		require.NoError(t, err)
		parsed, err := manifest.Parse(raw)
		require.NoError(t, err)

		reRaw, err := parsed.MarshalWire()
		require.NoError(t, err)
		assert.Equal(t, string(raw), string(reRaw))
	})

	t.Run("invalid data should fail", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			desc string
			raw  string
		}{
			{
				desc: "not JSON",
				raw:  `not json at all`,
			},
			{
				desc: "no top-level files key",
				raw:  `{}`,
			},
			{
				desc: "null top-level files key",
				raw:  `{"files":null}`,
			},
			{
				desc: "node with neither a size nor a files key",
				raw:  `{"files":{"a":{}}}`,
			},
			{
				desc: "offset that is not a base-10 integer string",
				raw:  `{"files":{"a":{"size":1,"offset":"0x10"}}}`,
			},
			{
				desc: "negative size",
				raw:  `{"files":{"a":{"size":-1,"offset":"0"}}}`,
			},
		}
		for i, tc := range testCases {
			tc := tc
			t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
				t.Parallel()

				_, err := manifest.Parse([]byte(tc.raw))
				require.Error(t, err)
				assert.ErrorIs(t, err, manifest.ErrInvalidHeader)
			})
		}
	})
}
