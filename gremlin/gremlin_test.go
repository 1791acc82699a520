package gremlin

import (
	"context"
	"testing"

	"github.com/favilcomputing/mdbxgraph/graph"
	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/favilcomputing/mdbxgraph/kv/mdbx"
	"github.com/favilcomputing/mdbxgraph/pvalue"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T) (*graph.Graph[string, string, string], *GraphTraversalSource[string, string, string]) {
	t.Helper()
	g, err := graph.New[string, string, string](t.TempDir(), mdbx.WithMapSize(1<<26))
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g, NewGraphTraversalSource(g)
}

func TestAddVThenVToList(t *testing.T) {
	g, src := newTestSource(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	results, err := src.AddV("person").ToList(tx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, tx.Commit())

	vtx, err := g.ReadTx(ctx)
	require.NoError(t, err)
	defer vtx.Rollback()

	all, err := src.V().ToList(vtx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, pvalue.KindVertex, all[0].Kind)
}

func TestAddEWiresFromTo(t *testing.T) {
	g, src := newTestSource(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	av, err := src.AddV("person").ToList(tx)
	require.NoError(t, err)
	a, err := graph.VertexFromPValue(av[0])
	require.NoError(t, err)

	bv, err := src.AddV("person").ToList(tx)
	require.NoError(t, err)
	b, err := graph.VertexFromPValue(bv[0])
	require.NoError(t, err)

	edges, err := src.AddE("knows", *a.ID, *b.ID).ToList(tx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.NoError(t, tx.Commit())
}

func TestAddEMissingEndpointFailsBadRequest(t *testing.T) {
	g, _ := newTestSource(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	bc := &Bytecode[string, string, string]{}
	bc.AddStep(AddE[string, string, string]("knows"))
	bc.AddStep(To[string, string, string](id.Nil(id.Vertex)))
	// From deliberately omitted.

	term := NewTerminator(g)
	_, err = term.ToList(tx, bc)
	require.Error(t, err)
}

func TestUnsupportedStepFailsBadRequest(t *testing.T) {
	g, _ := newTestSource(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	bc := &Bytecode[string, string, string]{}
	bc.AddStep(Property[string, string, string]("name", pvalue.FromString[string, string, string]("x")))

	term := NewTerminator(g)
	_, err = term.ToList(tx, bc)
	require.Error(t, err)
}

func TestEmptyBytecodeReturnsNoResults(t *testing.T) {
	g, _ := newTestSource(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	term := NewTerminator(g)
	out, err := term.ToList(tx, &Bytecode[string, string, string]{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestNextOnEmptyTraversalFails(t *testing.T) {
	g, src := newTestSource(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = src.V(id.Nil(id.Vertex)).Next(tx)
	require.Error(t, err)
}

func TestVByIDReturnsSingleton(t *testing.T) {
	g, src := newTestSource(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	created, err := src.AddV("person").ToList(tx)
	require.NoError(t, err)
	v, err := graph.VertexFromPValue(created[0])
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	roTx, err := g.ReadTx(ctx)
	require.NoError(t, err)
	defer roTx.Rollback()

	got, err := src.V(*v.ID).ToList(roTx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// The nil sentinel has no record; selecting it yields nothing.
	empty, err := src.V(id.Nil(id.Vertex)).ToList(roTx)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestHasNextAndIter(t *testing.T) {
	g, src := newTestSource(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	_, err = src.AddV("person").ToList(tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	roTx, err := g.ReadTx(ctx)
	require.NoError(t, err)
	defer roTx.Rollback()

	ok, err := src.V().HasNext(roTx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = src.E().HasNext(roTx)
	require.NoError(t, err)
	require.False(t, ok)

	s, err := src.V().Iter(roTx)
	require.NoError(t, err)
	defer s.Close()
	require.True(t, s.HasNext())
	pv, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, pvalue.KindVertex, pv.Kind)
	require.False(t, s.HasNext())
}

func TestTraversalEntryPoint(t *testing.T) {
	g, _ := newTestSource(t)
	src := Traversal(g)
	require.NotNil(t, src)

	ctx := context.Background()
	tx, err := g.ReadTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	out, err := src.V().ToList(tx)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestToTypedListProjectsVertices(t *testing.T) {
	g, src := newTestSource(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	_, err = src.AddV("person").ToList(tx)
	require.NoError(t, err)

	term := NewTerminator(g)
	typed, err := ToTypedList(term, tx, src.V().Bytecode(), graph.VertexFromPValue[string, string, string])
	require.NoError(t, err)
	require.Len(t, typed, 1)
	require.Equal(t, "person", typed[0].Label)
}
