package flashcard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKV(t *testing.T, kv KV) {
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", []byte(`"v1"`)))
	require.NoError(t, kv.Set(ctx, "k", []byte(`"v2"`)))

	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"v2"`, string(v))

	require.NoError(t, kv.Delete(ctx, "k"))
	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "gone", []byte(`1`)))
	require.NoError(t, kv.Apply(ctx, []Op{
		{Key: "a", Value: []byte(`"a"`)},
		{Key: "b", Value: []byte(`"b"`)},
		{Key: "gone"},
	}))
	for key, want := range map[string]string{"a": `"a"`, "b": `"b"`} {
		v, ok, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, want, string(v))
	}
	_, ok, err = kv.Get(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryKV(t *testing.T) {
	testKV(t, NewMemoryKV())
}

func TestSQLiteKV(t *testing.T) {
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer kv.Close()

	testKV(t, kv)
}

func TestSQLiteKV_ApplyAllOrNothing(t *testing.T) {
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "keep", []byte(`"old"`)))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = kv.Apply(cancelled, []Op{
		{Key: "keep", Value: []byte(`"new"`)},
		{Key: "other", Value: []byte(`"x"`)},
	})
	require.Error(t, err)

	v, ok, err := kv.Get(ctx, "keep")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"old"`, string(v))
	_, ok, err = kv.Get(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok)
}
