// Package graph implements the typed storage layer: Vertex/Edge payloads,
// their label indexes, the parameter store, the hexastore, and the Graph
// façade that ties them to a kv.Env. It mirrors gremlite's graph/heed split
// in the original Rust source, generalized from that crate's fixed (V, E,
// P) instantiation to mdbxgraph's Go generics.
package graph

import (
	"github.com/favilcomputing/mdbxgraph/apperr"
	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/favilcomputing/mdbxgraph/pvalue"
)

// Vertex is a labeled node carrying an arbitrary set of typed parameters.
// A freshly constructed Vertex has a nil ID until it is committed by
// Graph.PutVertex.
type Vertex[V, E, P comparable] struct {
	ID     *id.ID
	Label  V
	Params map[P]pvalue.PValue[V, E, P]
}

// NewVertex builds an uncommitted Vertex with the given label.
func NewVertex[V, E, P comparable](label V) *Vertex[V, E, P] {
	return &Vertex[V, E, P]{Label: label, Params: make(map[P]pvalue.PValue[V, E, P])}
}

// SetParam binds key to val and returns the receiver, so calls chain the
// way the original's builder-style set_param does.
func (v *Vertex[V, E, P]) SetParam(key P, val pvalue.PValue[V, E, P]) *Vertex[V, E, P] {
	if v.Params == nil {
		v.Params = make(map[P]pvalue.PValue[V, E, P])
	}
	v.Params[key] = val
	return v
}

// ToPValue wraps the Vertex as a PValue.
func (v *Vertex[V, E, P]) ToPValue() pvalue.PValue[V, E, P] {
	return pvalue.FromVertex(pvalue.VertexLike[V, E, P]{ID: v.ID, Label: v.Label, Params: v.Params})
}

// VertexFromPValue projects a PValue back to a *Vertex, failing with
// InvalidPValue on a tag mismatch. A free function, not a method, since Go
// cannot add the (V, E, P) type parameters a generic method would need
// beyond what the receiver already carries.
func VertexFromPValue[V, E, P comparable](pv pvalue.PValue[V, E, P]) (*Vertex[V, E, P], error) {
	vl, err := pvalue.ToVertex(pv)
	if err != nil {
		return nil, err
	}
	return &Vertex[V, E, P]{ID: vl.ID, Label: vl.Label, Params: vl.Params}, nil
}

// Edge is a directed, labeled relation between two committed vertices.
type Edge[V, E, P comparable] struct {
	ID     *id.ID
	To     id.ID
	From   id.ID
	Label  E
	Params map[P]pvalue.PValue[V, E, P]
}

// NewEdge builds an uncommitted Edge between to and from, failing with
// apperr.VertexInvalid if either endpoint has not yet been committed (has
// a nil ID). Endpoint existence in the store itself is NOT checked here:
// referential integrity is a caller responsibility (spec's decided Open
// Question #1).
func NewEdge[V, E, P comparable](to, from *Vertex[V, E, P], label E) (*Edge[V, E, P], error) {
	if to.ID == nil || from.ID == nil {
		return nil, apperr.VertexInvalid()
	}
	return &Edge[V, E, P]{
		To:     *to.ID,
		From:   *from.ID,
		Label:  label,
		Params: make(map[P]pvalue.PValue[V, E, P]),
	}, nil
}

// SetParam binds key to val and returns the receiver.
func (e *Edge[V, E, P]) SetParam(key P, val pvalue.PValue[V, E, P]) *Edge[V, E, P] {
	if e.Params == nil {
		e.Params = make(map[P]pvalue.PValue[V, E, P])
	}
	e.Params[key] = val
	return e
}

// ToPValue wraps the Edge as a PValue.
func (e *Edge[V, E, P]) ToPValue() pvalue.PValue[V, E, P] {
	return pvalue.FromEdge(pvalue.EdgeLike[V, E, P]{ID: e.ID, To: e.To, From: e.From, Label: e.Label, Params: e.Params})
}

// EdgeFromPValue projects a PValue back to an *Edge.
func EdgeFromPValue[V, E, P comparable](pv pvalue.PValue[V, E, P]) (*Edge[V, E, P], error) {
	el, err := pvalue.ToEdge(pv)
	if err != nil {
		return nil, err
	}
	return &Edge[V, E, P]{ID: el.ID, To: el.To, From: el.From, Label: el.Label, Params: el.Params}, nil
}
