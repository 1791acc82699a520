package pvalue

import (
	"testing"
	"time"

	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pv = PValue[string, string, string]

func TestNoneIsZeroValue(t *testing.T) {
	var zero pv
	assert.Equal(t, None[string, string, string](), zero)
	assert.Equal(t, KindNone, zero.Kind)
}

func TestScalarRoundTrip(t *testing.T) {
	s := FromString[string, string, string]("hello")
	got, err := ToString(s)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	i := FromI64[string, string, string](42)
	gotI, err := ToI64(i)
	require.NoError(t, err)
	assert.Equal(t, int64(42), gotI)

	b := FromBool[string, string, string](true)
	gotB, err := ToBool(b)
	require.NoError(t, err)
	assert.True(t, gotB)
}

func TestToStringWrongKindFails(t *testing.T) {
	i := FromI64[string, string, string](1)
	_, err := ToString(i)
	require.Error(t, err)
}

func TestIDAndCompositeProjections(t *testing.T) {
	g := id.NewGenerator()
	vid, err := g.New(id.Vertex)
	require.NoError(t, err)

	gotID, err := ToID(FromID[string, string, string](vid))
	require.NoError(t, err)
	assert.Equal(t, vid, gotID)
	_, err = ToID(FromBool[string, string, string](true))
	require.Error(t, err)

	lst := FromList([]pv{FromI32[string, string, string](7)})
	elems, err := ToList(lst)
	require.NoError(t, err)
	require.Len(t, elems, 1)
	n, err := ToI32(elems[0])
	require.NoError(t, err)
	assert.Equal(t, int32(7), n)

	m := FromMap(map[string]pv{"k": FromToken[string, string, string]("t")})
	gotM, err := ToMap(m)
	require.NoError(t, err)
	tok, err := ToToken(gotM["k"])
	require.NoError(t, err)
	assert.Equal(t, "t", tok)
}

func TestDateTruncatesToUTC(t *testing.T) {
	loc := time.FixedZone("test", 3600)
	in := time.Date(2024, 1, 2, 3, 4, 5, 6, loc)
	d := FromDate[string, string, string](in)
	assert.Equal(t, time.UTC, d.DateVal.Location())
	assert.True(t, in.Equal(d.DateVal))
}

func TestFromSetDeduplicatesScalars(t *testing.T) {
	in := []pv{
		FromString[string, string, string]("a"),
		FromString[string, string, string]("a"),
		FromString[string, string, string]("b"),
		FromI64[string, string, string](1),
		FromI64[string, string, string](1),
	}
	out := FromSet(in)
	assert.Len(t, out.SetVal, 3)
}

func TestFromSetKeepsDistinctComposites(t *testing.T) {
	in := []pv{
		FromList[string, string, string](nil),
		FromList[string, string, string](nil),
	}
	out := FromSet(in)
	assert.Len(t, out.SetVal, 2)
}

func TestVertexAndEdgeRoundTrip(t *testing.T) {
	g := id.NewGenerator()
	vid, err := g.New(id.Vertex)
	require.NoError(t, err)

	vl := VertexLike[string, string, string]{
		ID:    &vid,
		Label: "person",
		Params: map[string]pv{
			"name": FromString[string, string, string]("alice"),
		},
	}
	wrapped := FromVertex(vl)
	got, err := ToVertex(wrapped)
	require.NoError(t, err)
	assert.Equal(t, vid, *got.ID)
	assert.Equal(t, "person", got.Label)

	_, err = ToEdge(wrapped)
	require.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "String", KindString.String())
	assert.Equal(t, "None", KindNone.String())
	assert.Equal(t, "Unknown", Kind(250).String())
}
