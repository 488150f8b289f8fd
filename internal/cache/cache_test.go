package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielreuter/reagency/internal/codec"
)

func argsMap(t *testing.T, pairs ...any) codec.Value {
	t.Helper()
	require.Zero(t, len(pairs)%2)
	m := codec.NewMap()
	for i := 0; i < len(pairs); i += 2 {
		v, err := codec.Encode(pairs[i+1])
		require.NoError(t, err)
		m.Set(pairs[i].(string), v)
	}
	return codec.FromMap(m)
}

func TestFingerprintDeterministic(t *testing.T) {
	t.Parallel()

	first, err := Fingerprint("tasks.square", argsMap(t, "x", 5))
	require.NoError(t, err)
	second, err := Fingerprint("tasks.square", argsMap(t, "x", 5))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, string(first), 64) // 256-bit hex digest
}

func TestFingerprintSensitivity(t *testing.T) {
	t.Parallel()

	base, err := Fingerprint("tasks.square", argsMap(t, "x", 5))
	require.NoError(t, err)

	differentArg, err := Fingerprint("tasks.square", argsMap(t, "x", 6))
	require.NoError(t, err)
	differentTask, err := Fingerprint("tasks.cube", argsMap(t, "x", 5))
	require.NoError(t, err)

	assert.NotEqual(t, base, differentArg)
	assert.NotEqual(t, base, differentTask)
}

func TestFingerprintNestedArgs(t *testing.T) {
	t.Parallel()

	type order struct {
		ID    string         `json:"id"`
		Items []string       `json:"items"`
		Meta  map[string]int `json:"meta"`
	}

	a, err := Fingerprint("t", argsMap(t, "order", order{ID: "1", Items: []string{"a"}, Meta: map[string]int{"p": 1}}))
	require.NoError(t, err)
	b, err := Fingerprint("t", argsMap(t, "order", order{ID: "1", Items: []string{"a"}, Meta: map[string]int{"p": 1}}))
	require.NoError(t, err)
	c, err := Fingerprint("t", argsMap(t, "order", order{ID: "1", Items: []string{"b"}, Meta: map[string]int{"p": 1}}))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())
	key := Key("aabbccdd")

	ok, err := store.Has(key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(key, []byte(`{"result":25}`)))

	ok, err = store.Has(key)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, `{"result":25}`, string(data))
}

func TestFileStoreShardsByPrefix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Put(Key("aabbccdd"), []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "aa", "aabbccdd"))
	assert.NoError(t, err)
}

func TestPutWriteOnce(t *testing.T) {
	t.Parallel()

	stores := map[string]Store{
		"file":   NewFileStore(t.TempDir()),
		"memory": NewMemoryStore(),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			key := Key("deadbeef")
			require.NoError(t, store.Put(key, []byte("same")))

			// Identical re-store is a no-op.
			assert.NoError(t, store.Put(key, []byte("same")))

			// Differing payload for the same key is a defect signal.
			err := store.Put(key, []byte("different"))
			assert.ErrorIs(t, err, ErrKeyConflict)

			// Original entry is untouched.
			data, err := store.Get(key)
			require.NoError(t, err)
			assert.Equal(t, "same", string(data))
		})
	}
}

func TestContextScoping(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, active := FromContext(ctx)
	assert.False(t, active, "no scope by default")

	outer := NewMemoryStore()
	outerCtx := With(ctx, outer)
	got, active := FromContext(outerCtx)
	require.True(t, active)
	assert.Same(t, outer, got.(*MemoryStore))

	// Inner scope shadows the outer one.
	inner := NewMemoryStore()
	innerCtx := With(outerCtx, inner)
	got, active = FromContext(innerCtx)
	require.True(t, active)
	assert.Same(t, inner, got.(*MemoryStore))

	// The outer context is untouched once the inner scope is abandoned.
	got, active = FromContext(outerCtx)
	require.True(t, active)
	assert.Same(t, outer, got.(*MemoryStore))

	// Disable shadows any outer scope.
	_, active = FromContext(Disable(innerCtx))
	assert.False(t, active)
}

func TestEnableUsesFileStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := Enable(context.Background(), dir)
	store, active := FromContext(ctx)
	require.True(t, active)

	fs, ok := store.(*FileStore)
	require.True(t, ok)
	assert.Equal(t, dir, fs.Root())
}
