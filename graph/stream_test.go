package graph

import (
	"context"
	"testing"

	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/favilcomputing/mdbxgraph/pvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceStreamProtocol(t *testing.T) {
	items := []pvalue.PValue[string, string, string]{
		pvalue.FromString[string, string, string]("a"),
		pvalue.FromString[string, string, string]("b"),
	}
	s := NewSliceStream(items)
	defer s.Close()

	require.True(t, s.HasNext())
	// HasNext must not consume.
	require.True(t, s.HasNext())
	first, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", first.StringVal)

	require.True(t, s.HasNext())
	second, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", second.StringVal)

	require.False(t, s.HasNext())
	_, err = s.Next()
	require.Error(t, err)
}

func TestIterVerticesIsBoundToTx(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	_, err = g.PutVertex(tx, NewVertex[string, string, string]("person"))
	require.NoError(t, err)
	_, err = g.PutVertex(tx, NewVertex[string, string, string]("person"))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	roTx, err := g.ReadTx(ctx)
	require.NoError(t, err)
	defer roTx.Rollback()

	s, err := g.IterVertices(roTx)
	require.NoError(t, err)
	defer s.Close()

	n := 0
	for s.HasNext() {
		pv, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, pvalue.KindVertex, pv.Kind)
		n++
	}
	assert.Equal(t, 2, n)
}

func TestIterVerticesByLabelYieldsInIDOrder(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	a, err := g.PutVertex(tx, NewVertex[string, string, string]("person"))
	require.NoError(t, err)
	b, err := g.PutVertex(tx, NewVertex[string, string, string]("person"))
	require.NoError(t, err)
	_, err = g.PutVertex(tx, NewVertex[string, string, string]("company"))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	roTx, err := g.ReadTx(ctx)
	require.NoError(t, err)
	defer roTx.Rollback()

	s, err := g.IterVerticesByLabel(roTx, "person")
	require.NoError(t, err)
	got, err := Collect(s)
	require.NoError(t, err)
	require.Len(t, got, 2)

	firstV, err := VertexFromPValue(got[0])
	require.NoError(t, err)
	secondV, err := VertexFromPValue(got[1])
	require.NoError(t, err)
	assert.Equal(t, *a.ID, *firstV.ID)
	assert.Equal(t, *b.ID, *secondV.ID)
}

func TestIterVerticesByIdsSkipsMissing(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	tx, err := g.WriteTx(ctx)
	require.NoError(t, err)
	v, err := g.PutVertex(tx, NewVertex[string, string, string]("person"))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	roTx, err := g.ReadTx(ctx)
	require.NoError(t, err)
	defer roTx.Rollback()

	got, err := Collect(g.IterVerticesByIds(roTx, []id.ID{
		id.Nil(id.Vertex), *v.ID, id.Max(id.Vertex),
	}))
	require.NoError(t, err)
	require.Len(t, got, 1)
}
