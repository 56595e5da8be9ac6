package env_test

import (
	"testing"

	"github.com/Nivl/asar-go/internal/env"
	"github.com/stretchr/testify/assert"
)

func TestNewFromKVList(t *testing.T) {
	t.Parallel()

	t.Run("should index the provided pairs", func(t *testing.T) {
		t.Parallel()

		e := env.NewFromKVList([]string{"A=1", "B=2"})
		assert.True(t, e.Has("A"))
		assert.Equal(t, "1", e.Get("A"))
		assert.Equal(t, "2", e.Get("B"))
	})

	t.Run("should keep the = signs inside a value", func(t *testing.T) {
		t.Parallel()

		e := env.NewFromKVList([]string{"A=1=2=3"})
		assert.Equal(t, "1=2=3", e.Get("A"))
	})

	t.Run("should skip malformed entries", func(t *testing.T) {
		t.Parallel()

		e := env.NewFromKVList([]string{"not-a-pair"})
		assert.False(t, e.Has("not-a-pair"))
		assert.Equal(t, "", e.Get("not-a-pair"))
	})
}
