// Package test holds the tests every storage backend must pass.
package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-procgraph/pkg/storage"
)

// RunAllTests runs the backend tests on s, then closes it.
func RunAllTests(t *testing.T, s storage.Storage) {
	t.Run("TestWriteAndRead", func(t *testing.T) { WriteAndReadTest(t, s) })
	t.Run("TestKeys", func(t *testing.T) { KeysTest(t, s) })
	t.Run("TestDelete", func(t *testing.T) { DeleteTest(t, s) })
	t.Run("TestCodecs", func(t *testing.T) { CodecsTest(t, s) })
	t.Run("TestClose", func(t *testing.T) { CloseTest(t, s) })
}

func WriteAndReadTest(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	_, err := s.Read(ctx, "rw/missing")
	require.ErrorIs(t, err, storage.ErrKeyNotFound)

	ok, err := s.Exists(ctx, "rw/a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Write(ctx, "rw/a", []byte("first")))
	require.NoError(t, s.Write(ctx, "rw/a", []byte("second")))

	got, err := s.Read(ctx, "rw/a")
	require.NoError(t, err)
	require.Equal(t, []byte("second"), got)

	ok, err = s.Exists(ctx, "rw/a")
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, s.Write(ctx, "", []byte("x")), storage.ErrInvalidKey)
	_, err = s.Read(ctx, "")
	require.ErrorIs(t, err, storage.ErrInvalidKey)
}

func KeysTest(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	for _, key := range []string{"keys/b", "keys/a", "keys_c", "keys/%"} {
		require.NoError(t, s.Write(ctx, key, []byte(key)))
	}

	keys, err := s.Keys(ctx, "keys/")
	require.NoError(t, err)
	require.Equal(t, []string{"keys/%", "keys/a", "keys/b"}, keys)

	keys, err = s.Keys(ctx, "keys/%")
	require.NoError(t, err)
	require.Equal(t, []string{"keys/%"}, keys)

	keys, err = s.Keys(ctx, "nothing/")
	require.NoError(t, err)
	require.Empty(t, keys)

	keys, err = s.Keys(ctx, "")
	require.NoError(t, err)
	require.Subset(t, keys, []string{"keys/%", "keys/a", "keys/b", "keys_c"})
}

func DeleteTest(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "delete/a", []byte("a")))
	require.NoError(t, s.Delete(ctx, "delete/a"))
	require.ErrorIs(t, s.Delete(ctx, "delete/a"), storage.ErrKeyNotFound)

	ok, err := s.Exists(ctx, "delete/a")
	require.NoError(t, err)
	require.False(t, ok)
}

func CodecsTest(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, storage.WriteDense(ctx, s, "codec/matrix", m))
	gotM, err := storage.ReadDense(ctx, s, "codec/matrix")
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, gotM))

	require.NoError(t, storage.WriteLabels(ctx, s, "codec/labels", []int{0, 1, 1, 0, 2}))
	labels, err := storage.ReadLabels(ctx, s, "codec/labels")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 0, 2}, labels)

	require.NoError(t, storage.WriteLabels(ctx, s, "codec/empty", nil))
	labels, err = storage.ReadLabels(ctx, s, "codec/empty")
	require.NoError(t, err)
	assert.Empty(t, labels)

	require.NoError(t, s.Write(ctx, "codec/garbage", []byte("garbage")))
	_, err = storage.ReadDense(ctx, s, "codec/garbage")
	assert.Error(t, err)

	_, err = storage.ReadLabels(ctx, s, "codec/missing")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func CloseTest(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Read(ctx, "closed")
	require.ErrorIs(t, err, storage.ErrClosed)
	require.ErrorIs(t, s.Write(ctx, "closed", nil), storage.ErrClosed)
	_, err = s.Exists(ctx, "closed")
	require.ErrorIs(t, err, storage.ErrClosed)
	require.ErrorIs(t, s.Delete(ctx, "closed"), storage.ErrClosed)
	_, err = s.Keys(ctx, "")
	require.ErrorIs(t, err, storage.ErrClosed)
}
