package gremlin

import (
	"github.com/favilcomputing/mdbxgraph/graph"
	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/favilcomputing/mdbxgraph/kv"
	"github.com/favilcomputing/mdbxgraph/pvalue"
)

// GraphTraversalSource is the entry point into the traversal DSL, bound to
// one graph.Graph. V/E starts a traversal over vertices/edges (by id, or
// the full scan if no ids are given); AddV starts one that inserts a
// vertex.
type GraphTraversalSource[V, E, P comparable] struct {
	g *graph.Graph[V, E, P]
	t *Terminator[V, E, P]
}

// NewGraphTraversalSource builds a GraphTraversalSource bound to g.
func NewGraphTraversalSource[V, E, P comparable](g *graph.Graph[V, E, P]) *GraphTraversalSource[V, E, P] {
	return &GraphTraversalSource[V, E, P]{g: g, t: NewTerminator(g)}
}

// Traversal returns the traversal source for g. A Graph method would be the
// natural spelling, but graph cannot import gremlin without a cycle, so the
// entry point lives here.
func Traversal[V, E, P comparable](g *graph.Graph[V, E, P]) *GraphTraversalSource[V, E, P] {
	return NewGraphTraversalSource(g)
}

// V starts a traversal selecting the given vertices, or every vertex if
// ids is empty.
func (s *GraphTraversalSource[V, E, P]) V(ids ...id.ID) *GraphTraversal[V, E, P] {
	bc := &Bytecode[V, E, P]{}
	bc.AddStep(Vert[V, E, P](ids...))
	return newTraversal(bc, s.t)
}

// E starts a traversal selecting the given edges, or every edge if ids is
// empty.
func (s *GraphTraversalSource[V, E, P]) E(ids ...id.ID) *GraphTraversal[V, E, P] {
	bc := &Bytecode[V, E, P]{}
	bc.AddStep(EdgeStep[V, E, P](ids...))
	return newTraversal(bc, s.t)
}

// AddV starts a traversal that inserts a new vertex with label when
// executed.
func (s *GraphTraversalSource[V, E, P]) AddV(label V) *GraphTraversal[V, E, P] {
	bc := &Bytecode[V, E, P]{}
	bc.AddStep(AddV[V, E, P](label))
	return newTraversal(bc, s.t)
}

// AddE starts a traversal that inserts a new edge between to and from when
// executed. Both must already have committed ids.
func (s *GraphTraversalSource[V, E, P]) AddE(label E, to, from id.ID) *GraphTraversal[V, E, P] {
	bc := &Bytecode[V, E, P]{}
	bc.AddStep(AddE[V, E, P](label))
	bc.AddStep(To[V, E, P](to))
	bc.AddStep(From[V, E, P](from))
	return newTraversal(bc, s.t)
}

// TraversalBuilder wraps the Bytecode under construction, mirroring
// gremlite's TraversalBuilder.
type TraversalBuilder[V, E, P comparable] struct {
	bytecode *Bytecode[V, E, P]
}

// NewTraversalBuilder wraps an existing Bytecode.
func NewTraversalBuilder[V, E, P comparable](bc *Bytecode[V, E, P]) *TraversalBuilder[V, E, P] {
	return &TraversalBuilder[V, E, P]{bytecode: bc}
}

// Bytecode returns the wrapped program.
func (b *TraversalBuilder[V, E, P]) Bytecode() *Bytecode[V, E, P] { return b.bytecode }

// GraphTraversal pairs a TraversalBuilder with the Terminator that
// executes it.
type GraphTraversal[V, E, P comparable] struct {
	builder    *TraversalBuilder[V, E, P]
	terminator *Terminator[V, E, P]
}

func newTraversal[V, E, P comparable](bc *Bytecode[V, E, P], t *Terminator[V, E, P]) *GraphTraversal[V, E, P] {
	return &GraphTraversal[V, E, P]{builder: NewTraversalBuilder(bc), terminator: t}
}

// Bytecode returns the traversal's underlying program.
func (gt *GraphTraversal[V, E, P]) Bytecode() *Bytecode[V, E, P] { return gt.builder.Bytecode() }

// ToList executes the traversal and returns every result as a raw PValue. tx
// may be a plain read transaction unless the traversal starts with AddV/AddE.
func (gt *GraphTraversal[V, E, P]) ToList(tx kv.Tx) ([]pvalue.PValue[V, E, P], error) {
	return gt.terminator.ToList(tx, gt.Bytecode())
}

// Next executes the traversal and returns its first result.
func (gt *GraphTraversal[V, E, P]) Next(tx kv.Tx) (pvalue.PValue[V, E, P], error) {
	return gt.terminator.Next(tx, gt.Bytecode())
}

// HasNext executes the traversal and reports whether it produced at least
// one result.
func (gt *GraphTraversal[V, E, P]) HasNext(tx kv.Tx) (bool, error) {
	return gt.terminator.HasNext(tx, gt.Bytecode())
}

// Iter executes the traversal and returns its results as a lazy stream
// bound to tx. The caller owns Close.
func (gt *GraphTraversal[V, E, P]) Iter(tx kv.Tx) (graph.Stream[V, E, P], error) {
	return gt.terminator.Iter(tx, gt.Bytecode())
}
