package graph

import (
	"github.com/favilcomputing/mdbxgraph/codec"
	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/favilcomputing/mdbxgraph/kv"
	"github.com/favilcomputing/mdbxgraph/pvalue"
)

// PutEdge inserts e, or replaces the edge already committed under e.ID,
// rewriting its label index and all six hexastore permutations. As with
// PutVertex, parameter bindings merge rather than reset on update.
func (g *Graph[V, E, P]) PutEdge(tx kv.RwTx, e *Edge[V, E, P]) (*Edge[V, E, P], error) {
	out := *e
	if e.ID != nil {
		existing, err := g.GetEdgeByID(tx, *e.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			oldKey, err := codec.EncodeLabelID(existing.Label, *existing.ID)
			if err != nil {
				return nil, err
			}
			if err := tx.Delete(kv.EdgesIdx, oldKey); err != nil {
				return nil, err
			}
		}
	} else {
		newID, err := g.gen.New(id.Edge)
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
	if err := tx.Put(kv.Edges, codec.EncodeID(*out.ID), payload); err != nil {
		return nil, err
	}

	idxKey, err := codec.EncodeLabelID(out.Label, *out.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Put(kv.EdgesIdx, idxKey, codec.EncodeID(*out.ID)); err != nil {
		return nil, err
	}

	for k, val := range out.Params {
		if err := g.putParameter(tx, *out.ID, k, val); err != nil {
			return nil, err
		}
	}

	if err := g.putHexastore(tx, *out.ID, out.To, out.From); err != nil {
		return nil, err
	}

	g.log.Debug("put edge", "id", out.ID.String())
	return &out, nil
}

// GetEdgeByID returns the edge committed under eid, or (nil, nil) if none.
func (g *Graph[V, E, P]) GetEdgeByID(tx kv.Tx, eid id.ID) (*Edge[V, E, P], error) {
	raw, ok, err := tx.Get(kv.Edges, codec.EncodeID(eid))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var e Edge[V, E, P]
	if err := codec.DecodeValue(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// IterEdgesByIds returns a lazy stream performing point lookups in input
// order; missing ids are silently skipped.
func (g *Graph[V, E, P]) IterEdgesByIds(tx kv.Tx, ids []id.ID) Stream[V, E, P] {
	pos := 0
	return newStream(func() (pvalue.PValue[V, E, P], bool, error) {
		for pos < len(ids) {
			e, err := g.GetEdgeByID(tx, ids[pos])
			pos++
			if err != nil {
				return pvalue.None[V, E, P](), false, err
			}
			if e == nil {
				continue
			}
			return e.ToPValue(), true, nil
		}
		return pvalue.None[V, E, P](), false, nil
	}, nil)
}

// GetEdgesByIds is the eager form of IterEdgesByIds.
func (g *Graph[V, E, P]) GetEdgesByIds(tx kv.Tx, ids []id.ID) ([]pvalue.PValue[V, E, P], error) {
	return Collect(g.IterEdgesByIds(tx, ids))
}

// IterEdgesByLabel returns a lazy stream over every edge carrying label, in
// Id order, rehydrating each id from the primary table. The stream is bound
// to tx; Close it before ending the transaction.
func (g *Graph[V, E, P]) IterEdgesByLabel(tx kv.Tx, label E) (Stream[V, E, P], error) {
	prefix, err := codec.LabelIDPrefix(label)
	if err != nil {
		return nil, err
	}
	return newScanStream(tx, kv.EdgesIdx, prefix, func(k, _ []byte) (pvalue.PValue[V, E, P], bool, error) {
		_, eid, err := codec.DecodeLabelID[E](k)
		if err != nil {
			return pvalue.None[V, E, P](), false, err
		}
		e, err := g.GetEdgeByID(tx, eid)
		if err != nil {
			return pvalue.None[V, E, P](), false, err
		}
		if e == nil {
			return pvalue.None[V, E, P](), false, nil
		}
		return e.ToPValue(), true, nil
	})
}

// GetEdgesByLabel returns every edge carrying label, in Id order.
func (g *Graph[V, E, P]) GetEdgesByLabel(tx kv.Tx, label E) ([]*Edge[V, E, P], error) {
	s, err := g.IterEdgesByLabel(tx, label)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var out []*Edge[V, E, P]
	for s.HasNext() {
		pv, err := s.Next()
		if err != nil {
			return nil, err
		}
		e, err := EdgeFromPValue(pv)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// GetEdgeByLabel returns the first edge carrying label, or nil if none.
func (g *Graph[V, E, P]) GetEdgeByLabel(tx kv.Tx, label E) (*Edge[V, E, P], error) {
	es, err := g.GetEdgesByLabel(tx, label)
	if err != nil || len(es) == 0 {
		return nil, err
	}
	return es[0], nil
}

// EdgeCount returns the number of committed edges, asserting the primary
// table and its label index agree on cardinality.
func (g *Graph[V, E, P]) EdgeCount(tx kv.Tx) (int, error) {
	n, err := countTable(tx, kv.Edges)
	if err != nil {
		return 0, err
	}
	idxN, err := countTable(tx, kv.EdgesIdx)
	if err != nil {
		return 0, err
	}
	if err := assertEqualCounts(n, idxN, "edges"); err != nil {
		return 0, err
	}
	return n, nil
}

// IterEdges returns a lazy stream over every committed edge, in Id order.
// The stream is bound to tx; Close it before ending the transaction.
func (g *Graph[V, E, P]) IterEdges(tx kv.Tx) (Stream[V, E, P], error) {
	return newScanStream(tx, kv.Edges, nil, func(_, raw []byte) (pvalue.PValue[V, E, P], bool, error) {
		var e Edge[V, E, P]
		if err := codec.DecodeValue(raw, &e); err != nil {
			return pvalue.None[V, E, P](), false, err
		}
		return e.ToPValue(), true, nil
	})
}

// Edges returns every committed edge, PValue-wrapped, in Id order.
func (g *Graph[V, E, P]) Edges(tx kv.Tx) ([]pvalue.PValue[V, E, P], error) {
	s, err := g.IterEdges(tx)
	if err != nil {
		return nil, err
	}
	return Collect(s)
}
