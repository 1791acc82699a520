package gremlin

import (
	"github.com/favilcomputing/mdbxgraph/apperr"
	"github.com/favilcomputing/mdbxgraph/graph"
	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/favilcomputing/mdbxgraph/kv"
	"github.com/favilcomputing/mdbxgraph/pvalue"
)

// executor drains a Bytecode's step queue against g within tx. It only
// ever dispatches the head instruction (plus the From/To sideband AddE
// consumes); any other non-head instruction reaching the front of the
// queue after that fails BadRequest, per spec's decided Open Question #4.
type executor[V, E, P comparable] struct {
	g *graph.Graph[V, E, P]
}

func newExecutor[V, E, P comparable](g *graph.Graph[V, E, P]) *executor[V, E, P] {
	return &executor[V, E, P]{g: g}
}

// execute dispatches bytecode's head step and returns the resulting lazy
// stream, whose lifetime is bound to tx. tx need only be a read transaction
// for StepVert/StepEdge; StepAddV/StepAddE mutate and require tx to
// additionally satisfy kv.RwTx (asserted at dispatch time, the
// runtime-check substitute for the compile-time RoTxn/RwTxn split the
// original Rust source gets from its generic Transaction trait — see DESIGN
// NOTES, "Polymorphism over label and parameter types").
func (ex *executor[V, E, P]) execute(tx kv.Tx, bc *Bytecode[V, E, P]) (graph.Stream[V, E, P], error) {
	steps := append([]Instruction[V, E, P](nil), bc.Steps()...)
	if len(steps) == 0 {
		return graph.NewSliceStream[V, E, P](nil), nil
	}
	head := steps[0]
	steps = steps[1:]

	// AddE consumes its From/To sideband; any step still queued after that
	// is a chained step, which fails rather than being silently dropped.
	var to, from id.ID
	if head.Kind == StepAddE {
		var err error
		if to, from, err = popToFrom[V, E, P](&steps); err != nil {
			return nil, err
		}
	}
	if len(steps) > 0 {
		return nil, apperr.BadRequest("unsupported step")
	}

	switch head.Kind {
	case StepVert:
		if len(head.Ids) == 0 {
			return ex.g.IterVertices(tx)
		}
		return ex.g.IterVerticesByIds(tx, head.Ids), nil

	case StepEdge:
		if len(head.Ids) == 0 {
			return ex.g.IterEdges(tx)
		}
		return ex.g.IterEdgesByIds(tx, head.Ids), nil

	case StepAddV:
		rw, err := requireRwTx(tx)
		if err != nil {
			return nil, err
		}
		v, err := ex.g.PutVertex(rw, graph.NewVertex[V, E, P](head.VLabel))
		if err != nil {
			return nil, err
		}
		return graph.NewSliceStream([]pvalue.PValue[V, E, P]{v.ToPValue()}), nil

	case StepAddE:
		rw, err := requireRwTx(tx)
		if err != nil {
			return nil, err
		}
		toV, err := ex.g.GetVertexByID(tx, to)
		if err != nil {
			return nil, err
		}
		if toV == nil {
			return nil, apperr.VertexInvalid()
		}
		fromV, err := ex.g.GetVertexByID(tx, from)
		if err != nil {
			return nil, err
		}
		if fromV == nil {
			return nil, apperr.VertexInvalid()
		}
		e, err := graph.NewEdge(toV, fromV, head.ELabel)
		if err != nil {
			return nil, err
		}
		e, err = ex.g.PutEdge(rw, e)
		if err != nil {
			return nil, err
		}
		return graph.NewSliceStream([]pvalue.PValue[V, E, P]{e.ToPValue()}), nil

	default:
		return nil, apperr.BadRequest("unsupported step")
	}
}

// requireRwTx narrows tx to kv.RwTx, failing BadRequest if the caller handed
// AddV/AddE a read-only transaction.
func requireRwTx(tx kv.Tx) (kv.RwTx, error) {
	rw, ok := tx.(kv.RwTx)
	if !ok {
		return nil, apperr.BadRequest("write transaction required for AddV/AddE")
	}
	return rw, nil
}

// popToFrom scans the remaining steps for a StepFrom/StepTo pair, splices
// both out of the queue, and fails if either is absent — ported verbatim
// from gremlite's executor.rs::pop_to_from.
func popToFrom[V, E, P comparable](steps *[]Instruction[V, E, P]) (to, from id.ID, err error) {
	var toSet, fromSet bool
	kept := (*steps)[:0:0]
	for _, s := range *steps {
		switch s.Kind {
		case StepTo:
			to = s.EndpointID
			toSet = true
		case StepFrom:
			from = s.EndpointID
			fromSet = true
		default:
			kept = append(kept, s)
		}
	}
	*steps = kept

	if !toSet {
		return to, from, apperr.BadRequest("Missing to")
	}
	if !fromSet {
		return to, from, apperr.BadRequest("Missing from")
	}
	return to, from, nil
}
