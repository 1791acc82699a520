package mdbx

import (
	"context"
	"testing"

	"github.com/favilcomputing/mdbxgraph/kv"
	"github.com/stretchr/testify/require"
)

func openTestEnv(t *testing.T) *Env {
	t.Helper()
	env, err := Open(t.TempDir(), WithMaxDBs(16), WithMapSize(1<<26))
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestPutGetRoundTrip(t *testing.T) {
	env := openTestEnv(t)
	ctx := context.Background()

	rw, err := env.BeginRw(ctx)
	require.NoError(t, err)
	require.NoError(t, rw.Put(kv.Vertices, []byte("k1"), []byte("v1")))
	require.NoError(t, rw.Commit())

	ro, err := env.BeginRo(ctx)
	require.NoError(t, err)
	defer ro.Rollback()

	v, ok, err := ro.Get(kv.Vertices, []byte("k1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", string(v))
}

func TestGetMissingKey(t *testing.T) {
	env := openTestEnv(t)
	ctx := context.Background()

	ro, err := env.BeginRo(ctx)
	require.NoError(t, err)
	defer ro.Rollback()

	_, ok, err := ro.Get(kv.Vertices, []byte("missing"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCursorScansInOrder(t *testing.T) {
	env := openTestEnv(t)
	ctx := context.Background()

	rw, err := env.BeginRw(ctx)
	require.NoError(t, err)
	require.NoError(t, rw.Put(kv.Vertices, []byte("a"), []byte("1")))
	require.NoError(t, rw.Put(kv.Vertices, []byte("b"), []byte("2")))
	require.NoError(t, rw.Put(kv.Vertices, []byte("c"), []byte("3")))
	require.NoError(t, rw.Commit())

	ro, err := env.BeginRo(ctx)
	require.NoError(t, err)
	defer ro.Rollback()

	cur, err := ro.Cursor(kv.Vertices)
	require.NoError(t, err)
	defer cur.Close()

	var got []string
	for k, _, ok, err := cur.First(); ok; k, _, ok, err = cur.Next() {
		require.NoError(t, err)
		got = append(got, string(k))
	}
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSecondWriterBusyOrTimesOut(t *testing.T) {
	env := openTestEnv(t)
	ctx := context.Background()

	w1, err := env.BeginRw(ctx)
	require.NoError(t, err)
	defer w1.Rollback()

	envFast, err := Open(t.TempDir(), WithWriteTimeout(0))
	require.NoError(t, err)
	defer envFast.Close()
	wf1, err := envFast.BeginRw(ctx)
	require.NoError(t, err)
	defer wf1.Rollback()

	_, err = envFast.BeginRw(ctx)
	require.Error(t, err)
}

func TestBeginRwWaitOverridesEnvDefault(t *testing.T) {
	env := openTestEnv(t)
	ctx := context.Background()

	held, err := env.BeginRw(ctx)
	require.NoError(t, err)
	defer held.Rollback()

	_, err = env.BeginRwWait(ctx, 0)
	require.Error(t, err)
}

func TestClearEmptiesTable(t *testing.T) {
	env := openTestEnv(t)
	ctx := context.Background()

	rw, err := env.BeginRw(ctx)
	require.NoError(t, err)
	require.NoError(t, rw.Put(kv.Vertices, []byte("k"), []byte("v")))
	require.NoError(t, rw.Clear(kv.Vertices))
	require.NoError(t, rw.Commit())

	ro, err := env.BeginRo(ctx)
	require.NoError(t, err)
	defer ro.Rollback()
	_, ok, err := ro.Get(kv.Vertices, []byte("k"))
	require.NoError(t, err)
	require.False(t, ok)
}
