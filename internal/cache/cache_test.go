package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestKeyDependsOnOrderAndFingerprint(t *testing.T) {
	a, b := []byte("kind: module\nname: A\n"), []byte("kind: module\nname: B\n")

	assert.Equal(t, Key("rbi", a, b), Key("rbi", a, b))
	assert.NotEqual(t, Key("rbi", a, b), Key("rbi", b, a))
	assert.NotEqual(t, Key("rbi", a, b), Key("rbs", a, b))
	assert.False(t, Key("rbi").IsZero())
	assert.Len(t, Key("rbi", a).String(), 64)
}

func TestPutGet(t *testing.T) {
	c, err := Open("declgen", t.TempDir())
	require.NoError(t, err)

	key := Key("rbi", []byte("doc"))
	var got Payload
	ok, err := c.Get(key, &got)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache misses")

	require.NoError(t, c.Put(key, &Payload{Dialect: "rbi", Text: "# typed: strong\n", Declarations: 3}))

	ok, err = c.Get(key, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "rbi", got.Dialect)
	assert.Equal(t, "# typed: strong\n", got.Text)
	assert.Equal(t, 3, got.Declarations)
	assert.Equal(t, Schema, got.Schema)
	assert.False(t, got.Created.IsZero())

	entries, err := filepath.Glob(filepath.Join(c.Dir(), "renders", "*", "tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files are cleaned up")
}

func TestStaleSchemaIsMiss(t *testing.T) {
	c, err := Open("declgen", t.TempDir())
	require.NoError(t, err)

	key := Key("rbs")
	p := c.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	data, err := msgpack.Marshal(&Payload{Schema: Schema + 1, Text: "old"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, data, 0o644))

	var got Payload
	ok, err := c.Get(key, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptEntry(t *testing.T) {
	c, err := Open("declgen", t.TempDir())
	require.NoError(t, err)

	key := Key("rbi")
	p := c.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte{0xc1}, 0o644))

	var got Payload
	_, err = c.Get(key, &got)
	assert.Error(t, err)
}

func TestDropAll(t *testing.T) {
	c, err := Open("declgen", t.TempDir())
	require.NoError(t, err)

	key := Key("rbi", []byte("x"))
	require.NoError(t, c.Put(key, &Payload{Text: "x"}))
	require.NoError(t, c.DropAll())

	var got Payload
	ok, err := c.Get(key, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(key, &Payload{Text: "y"}), "cache stays usable")
}

func TestNilCache(t *testing.T) {
	var c *DiskCache
	require.NoError(t, c.Put(Key("x"), &Payload{}))
	ok, err := c.Get(Key("x"), &Payload{})
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.DropAll())
}

func TestConcurrentPut(t *testing.T) {
	c, err := Open("declgen", t.TempDir())
	require.NoError(t, err)

	key := Key("rbi", []byte("same"))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Put(key, &Payload{Text: "same"}))
		}()
	}
	wg.Wait()

	var got Payload
	ok, err := c.Get(key, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "same", got.Text)
}
