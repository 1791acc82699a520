// Package gremlin implements the traversal machine: the Bytecode IR, the
// executor that drains it against a graph.Graph, and the terminator that
// materializes results. It mirrors gremlite's gremlin/{bytecode,executor,
// terminator,mod}.rs, generalized from that crate's fixed instantiation to
// mdbxgraph's Go generics and adapted for Go's head-pop-only step model
// (spec's decided Open Question #4: traversal step chaining beyond a
// single source and single terminator is out of scope this release).
package gremlin

import (
	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/favilcomputing/mdbxgraph/pvalue"
)

// StepKind discriminates Instruction variants.
type StepKind uint8

const (
	// StepVert selects vertices, by id or (if Ids is empty) the full scan.
	StepVert StepKind = iota + 1
	// StepEdge selects edges, by id or (if Ids is empty) the full scan.
	StepEdge
	// StepAddV adds a vertex with the given label.
	StepAddV
	// StepAddE adds an edge with the given label; consumes a sideband
	// StepFrom/StepTo pair from the remaining steps.
	StepAddE
	// StepFrom carries AddE's source endpoint id. Never dispatched on its
	// own: AddE's execution scans for and removes it.
	StepFrom
	// StepTo carries AddE's destination endpoint id. Same caveat as StepFrom.
	StepTo
	// StepProperty sets a single parameter. The executor does not run it
	// in this release: as a head step or after any other step it fails
	// BadRequest.
	StepProperty
)

// Instruction is one opcode in a Bytecode program. It mirrors gremlite's
// Instruction<V,E,P> enum, ported as a tagged struct (see pvalue.PValue for
// the same pattern and its rationale).
type Instruction[V, E, P comparable] struct {
	Kind StepKind

	Ids        []id.ID // StepVert, StepEdge
	VLabel     V       // StepAddV
	ELabel     E       // StepAddE
	EndpointID id.ID   // StepFrom, StepTo
	PropKey    P       // StepProperty

	PropVal pvalue.PValue[V, E, P] // StepProperty
}

func Vert[V, E, P comparable](ids ...id.ID) Instruction[V, E, P] {
	return Instruction[V, E, P]{Kind: StepVert, Ids: ids}
}

func EdgeStep[V, E, P comparable](ids ...id.ID) Instruction[V, E, P] {
	return Instruction[V, E, P]{Kind: StepEdge, Ids: ids}
}

func AddV[V, E, P comparable](label V) Instruction[V, E, P] {
	return Instruction[V, E, P]{Kind: StepAddV, VLabel: label}
}

func AddE[V, E, P comparable](label E) Instruction[V, E, P] {
	return Instruction[V, E, P]{Kind: StepAddE, ELabel: label}
}

func From[V, E, P comparable](v id.ID) Instruction[V, E, P] {
	return Instruction[V, E, P]{Kind: StepFrom, EndpointID: v}
}

func To[V, E, P comparable](v id.ID) Instruction[V, E, P] {
	return Instruction[V, E, P]{Kind: StepTo, EndpointID: v}
}

func Property[V, E, P comparable](key P, val pvalue.PValue[V, E, P]) Instruction[V, E, P] {
	return Instruction[V, E, P]{Kind: StepProperty, PropKey: key, PropVal: val}
}

// Bytecode is a traversal program: a fixed list of source instructions
// (unused in this release, kept for parity with the original's sources
// field and a future step-chaining release) and a queue of steps drained
// head-first by the executor.
type Bytecode[V, E, P comparable] struct {
	sources []Instruction[V, E, P]
	steps   []Instruction[V, E, P]
}

// AddStep appends i to the step queue and returns the receiver.
func (b *Bytecode[V, E, P]) AddStep(i Instruction[V, E, P]) *Bytecode[V, E, P] {
	b.steps = append(b.steps, i)
	return b
}

// Steps returns the step queue. Callers must not mutate the returned
// slice; the executor takes its own copy before draining it.
func (b *Bytecode[V, E, P]) Steps() []Instruction[V, E, P] {
	return b.steps
}
