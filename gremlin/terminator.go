package gremlin

import (
	"github.com/favilcomputing/mdbxgraph/apperr"
	"github.com/favilcomputing/mdbxgraph/graph"
	"github.com/favilcomputing/mdbxgraph/kv"
	"github.com/favilcomputing/mdbxgraph/pvalue"
)

// Terminator executes a Bytecode program and materializes its results.
// Go cannot express gremlite's generic FromPValue-bounded End type
// parameter as a method type parameter (a receiver's type parameters are
// fixed at the type's declaration), so typed materialization is exposed as
// the free functions ToTypedList/ToTypedNext below rather than methods on
// Terminator.
type Terminator[V, E, P comparable] struct {
	g *graph.Graph[V, E, P]
}

// NewTerminator builds a Terminator bound to g.
func NewTerminator[V, E, P comparable](g *graph.Graph[V, E, P]) *Terminator[V, E, P] {
	return &Terminator[V, E, P]{g: g}
}

// Iter executes bc and returns the resulting lazy stream without
// materializing it. The stream is bound to tx; the caller owns Close. tx
// may be a plain read transaction unless bc's head step is AddV/AddE, which
// require a write transaction (kv.RwTx) and fail BadRequest otherwise.
func (t *Terminator[V, E, P]) Iter(tx kv.Tx, bc *Bytecode[V, E, P]) (graph.Stream[V, E, P], error) {
	return newExecutor(t.g).execute(tx, bc)
}

// ToList executes bc and eagerly collects every result as a raw PValue.
func (t *Terminator[V, E, P]) ToList(tx kv.Tx, bc *Bytecode[V, E, P]) ([]pvalue.PValue[V, E, P], error) {
	s, err := t.Iter(tx, bc)
	if err != nil {
		return nil, err
	}
	return graph.Collect(s)
}

// Next executes bc and returns its first result, failing with
// apperr.EmptyTraversal if it produced none. The rest of the stream is
// never pulled.
func (t *Terminator[V, E, P]) Next(tx kv.Tx, bc *Bytecode[V, E, P]) (pvalue.PValue[V, E, P], error) {
	s, err := t.Iter(tx, bc)
	if err != nil {
		return pvalue.None[V, E, P](), err
	}
	defer s.Close()
	if !s.HasNext() {
		return pvalue.None[V, E, P](), apperr.ErrEmptyTraversal
	}
	return s.Next()
}

// HasNext executes bc and reports whether it produced at least one result,
// pulling at most the first element.
func (t *Terminator[V, E, P]) HasNext(tx kv.Tx, bc *Bytecode[V, E, P]) (bool, error) {
	s, err := t.Iter(tx, bc)
	if err != nil {
		return false, err
	}
	defer s.Close()
	if !s.HasNext() {
		return false, nil
	}
	if _, err := s.Next(); err != nil {
		return false, err
	}
	return true, nil
}

// ToTypedList executes bc and projects every result through project,
// stopping at the first projection failure (e.g. a tag mismatch).
// Standing in for gremlite's End: FromPValue<V,E,P> generic method bound,
// expressed here as a free function since Go cannot add a type parameter
// to a method beyond what its receiver already carries.
func ToTypedList[V, E, P comparable, Out any](
	t *Terminator[V, E, P],
	tx kv.Tx,
	bc *Bytecode[V, E, P],
	project func(pvalue.PValue[V, E, P]) (Out, error),
) ([]Out, error) {
	raw, err := t.ToList(tx, bc)
	if err != nil {
		return nil, err
	}
	out := make([]Out, 0, len(raw))
	for _, pv := range raw {
		v, err := project(pv)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ToTypedNext executes bc and projects its first result through project,
// failing with apperr.EmptyTraversal if it produced none.
func ToTypedNext[V, E, P comparable, Out any](
	t *Terminator[V, E, P],
	tx kv.Tx,
	bc *Bytecode[V, E, P],
	project func(pvalue.PValue[V, E, P]) (Out, error),
) (Out, error) {
	pv, err := t.Next(tx, bc)
	if err != nil {
		var zero Out
		return zero, err
	}
	return project(pv)
}
