package graph

import (
	"github.com/favilcomputing/mdbxgraph/codec"
	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/favilcomputing/mdbxgraph/kv"
	"github.com/favilcomputing/mdbxgraph/pvalue"
)

// PutVertex inserts v, or — if v.ID is already set — replaces the vertex
// committed under that Id, rewriting its label-index entry. Parameter
// bindings are merged: an update never clears bindings the new value
// omits (spec's decided Open Question #5), matching the original source's
// behavior exactly.
func (g *Graph[V, E, P]) PutVertex(tx kv.RwTx, v *Vertex[V, E, P]) (*Vertex[V, E, P], error) {
	out := *v
	if v.ID != nil {
		existing, err := g.GetVertexByID(tx, *v.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			oldKey, err := codec.EncodeLabelID(existing.Label, *existing.ID)
			if err != nil {
				return nil, err
			}
			if err := tx.Delete(kv.VerticesIdx, oldKey); err != nil {
				return nil, err
			}
		}
	} else {
		newID, err := g.gen.New(id.Vertex)
		if err != nil {
			return nil, err
		}
		out.ID = &newID
	}
	if out.Params == nil {
		out.Params = make(map[P]pvalue.PValue[V, E, P])
	}

	payload, err := codec.EncodeValue(out)
	if err != nil {
		return nil, err
	}
	if err := tx.Put(kv.Vertices, codec.EncodeID(*out.ID), payload); err != nil {
		return nil, err
	}

	idxKey, err := codec.EncodeLabelID(out.Label, *out.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Put(kv.VerticesIdx, idxKey, codec.EncodeID(*out.ID)); err != nil {
		return nil, err
	}

	for k, val := range out.Params {
		if err := g.putParameter(tx, *out.ID, k, val); err != nil {
			return nil, err
		}
	}

	g.log.Debug("put vertex", "id", out.ID.String())
	return &out, nil
}

// GetVertexByID returns the vertex committed under vid, or (nil, nil) if
// none exists.
func (g *Graph[V, E, P]) GetVertexByID(tx kv.Tx, vid id.ID) (*Vertex[V, E, P], error) {
	raw, ok, err := tx.Get(kv.Vertices, codec.EncodeID(vid))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var v Vertex[V, E, P]
	if err := codec.DecodeValue(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// IterVerticesByIds returns a lazy stream performing point lookups in input
// order; missing ids are silently skipped, matching the original's
// flatten-over-Option/Result chain.
func (g *Graph[V, E, P]) IterVerticesByIds(tx kv.Tx, ids []id.ID) Stream[V, E, P] {
	pos := 0
	return newStream(func() (pvalue.PValue[V, E, P], bool, error) {
		for pos < len(ids) {
			v, err := g.GetVertexByID(tx, ids[pos])
			pos++
			if err != nil {
				return pvalue.None[V, E, P](), false, err
			}
			if v == nil {
				continue
			}
			return v.ToPValue(), true, nil
		}
		return pvalue.None[V, E, P](), false, nil
	}, nil)
}

// GetVerticesByIds is the eager form of IterVerticesByIds.
func (g *Graph[V, E, P]) GetVerticesByIds(tx kv.Tx, ids []id.ID) ([]pvalue.PValue[V, E, P], error) {
	return Collect(g.IterVerticesByIds(tx, ids))
}

// IterVerticesByLabel returns a lazy stream over every vertex carrying
// label, in Id order: a range scan of the label index bounded by the
// label's encoded prefix, rehydrating each id from the primary table. The
// stream is bound to tx; Close it before ending the transaction.
func (g *Graph[V, E, P]) IterVerticesByLabel(tx kv.Tx, label V) (Stream[V, E, P], error) {
	prefix, err := codec.LabelIDPrefix(label)
	if err != nil {
		return nil, err
	}
	return newScanStream(tx, kv.VerticesIdx, prefix, func(k, _ []byte) (pvalue.PValue[V, E, P], bool, error) {
		_, vid, err := codec.DecodeLabelID[V](k)
		if err != nil {
			return pvalue.None[V, E, P](), false, err
		}
		v, err := g.GetVertexByID(tx, vid)
		if err != nil {
			return pvalue.None[V, E, P](), false, err
		}
		if v == nil {
			return pvalue.None[V, E, P](), false, nil
		}
		return v.ToPValue(), true, nil
	})
}

// GetVerticesByLabel returns every vertex carrying label, in Id order.
func (g *Graph[V, E, P]) GetVerticesByLabel(tx kv.Tx, label V) ([]*Vertex[V, E, P], error) {
	s, err := g.IterVerticesByLabel(tx, label)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var out []*Vertex[V, E, P]
	for s.HasNext() {
		pv, err := s.Next()
		if err != nil {
			return nil, err
		}
		v, err := VertexFromPValue(pv)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GetVertexByLabel returns the first vertex carrying label, or nil if none.
func (g *Graph[V, E, P]) GetVertexByLabel(tx kv.Tx, label V) (*Vertex[V, E, P], error) {
	vs, err := g.GetVerticesByLabel(tx, label)
	if err != nil || len(vs) == 0 {
		return nil, err
	}
	return vs[0], nil
}

// VertexCount returns the number of committed vertices. It asserts the
// primary table and its label index agree on cardinality, the way the
// original's vertex_count debug_asserts vertex_db.len == vertex_idx_db.len.
func (g *Graph[V, E, P]) VertexCount(tx kv.Tx) (int, error) {
	n, err := countTable(tx, kv.Vertices)
	if err != nil {
		return 0, err
	}
	idxN, err := countTable(tx, kv.VerticesIdx)
	if err != nil {
		return 0, err
	}
	if err := assertEqualCounts(n, idxN, "vertices"); err != nil {
		return 0, err
	}
	return n, nil
}

// IterVertices returns a lazy stream over every committed vertex, in Id
// order. The stream is bound to tx; Close it before ending the transaction.
func (g *Graph[V, E, P]) IterVertices(tx kv.Tx) (Stream[V, E, P], error) {
	return newScanStream(tx, kv.Vertices, nil, func(_, raw []byte) (pvalue.PValue[V, E, P], bool, error) {
		var v Vertex[V, E, P]
		if err := codec.DecodeValue(raw, &v); err != nil {
			return pvalue.None[V, E, P](), false, err
		}
		return v.ToPValue(), true, nil
	})
}

// Vertices returns every committed vertex, PValue-wrapped, in Id order.
func (g *Graph[V, E, P]) Vertices(tx kv.Tx) ([]pvalue.PValue[V, E, P], error) {
	s, err := g.IterVertices(tx)
	if err != nil {
		return nil, err
	}
	return Collect(s)
}
