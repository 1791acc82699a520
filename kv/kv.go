// Package kv declares the storage engine contract mdbxgraph's graph and
// gremlin packages are built against. It owns only interfaces and the
// table-name constants of the schema (erigon-lib/kv/tables.go's
// const-name-with-doc-comment convention); kv/mdbx supplies the only
// concrete implementation this repository ships.
package kv

import (
	"context"
	"time"
)

// Schema version of the tables below. Bump whenever a key or value
// layout changes incompatibly.
const SchemaVersion = "v1"

const (
	// Vertices holds the primary vertex records.
	// key   - Id (codec.EncodeID)
	// value - Vertex[V,E,P] value-layout payload
	Vertices = "vertices:v1"

	// VerticesIdx is the label index over Vertices.
	// key   - (label V, Id) reverse layout (codec.EncodeLabelID)
	// value - Id (redundant with the key suffix; kept for parity with the
	//          original heed schema, which stores Database<LabelId<V>, Id>)
	VerticesIdx = "vertices_idx:v1"

	// Edges holds the primary edge records.
	// key   - Id
	// value - Edge[V,E,P] value-layout payload
	Edges = "edges:v1"

	// EdgesIdx is the label index over Edges.
	// key   - (label E, Id) reverse layout
	// value - Id
	EdgesIdx = "edges_idx:v1"

	// Parameters holds every parameter binding, keyed by owner.
	// key   - (owner Id, param key P) reverse layout (codec.EncodeIDParam)
	// value - PValue[V,E,P] value-layout payload
	Parameters = "parameters:v1"

	// ParametersIdx is the inverse parameter index: look up every owner
	// carrying a given parameter key.
	// key   - (param key P, owner Id) reverse layout (codec.EncodeParamID)
	// value - Id
	ParametersIdx = "parameters_idx:v1"

	// Hexastore is the six-way redundant edge permutation index
	// (graph's hexOrders/hexTriple). Write-maintained, not read by this release's
	// query surface; rebuildable from Edges.
	// key   - (tag, a, b, c) reverse layout (codec.EncodeHex)
	// value - empty
	Hexastore = "hexastore:v1"
)

// Tables lists every sub-database Env.Open must create.
var Tables = []string{Vertices, VerticesIdx, Edges, EdgesIdx, Parameters, ParametersIdx, Hexastore}

// Cursor iterates a table's keys in byte order.
type Cursor interface {
	// Seek positions the cursor at the first key >= seek and returns it. It
	// returns (nil, nil, false, nil) once the table is exhausted.
	Seek(seek []byte) (k, v []byte, ok bool, err error)
	// First positions the cursor at the table's first key.
	First() (k, v []byte, ok bool, err error)
	// Next advances the cursor and returns the following entry.
	Next() (k, v []byte, ok bool, err error)
	// Close releases the cursor. Safe to call more than once.
	Close()
}

// Tx is a read-only transaction.
type Tx interface {
	// Get returns the value stored at key in table, or ok=false if absent.
	Get(table string, key []byte) (v []byte, ok bool, err error)
	// Cursor opens a read cursor over table.
	Cursor(table string) (Cursor, error)
	// Rollback ends the transaction without committing. Always safe to
	// call, including after Commit on an RwTx.
	Rollback()
}

// RwTx is a writable transaction.
type RwTx interface {
	Tx

	Put(table string, key, value []byte) error
	Delete(table string, key []byte) error
	// Clear empties table entirely.
	Clear(table string) error
	// Commit finalizes the transaction. The transaction must not be used
	// afterward except via Rollback, which becomes a no-op.
	Commit() error
}

// Env is an open storage engine handle, analogous to heed's Env / mdbx-go's
// Env: one per on-disk database directory, safe for concurrent use by
// multiple readers and (serialized) writers.
type Env interface {
	// BeginRo starts a read-only transaction.
	BeginRo(ctx context.Context) (Tx, error)
	// BeginRw starts a read-write transaction, blocking up to the Env's
	// configured write timeout for the writer lock.
	BeginRw(ctx context.Context) (RwTx, error)
	// BeginRwWait starts a read-write transaction, blocking up to timeout
	// for the writer lock regardless of the Env's configured default —
	// the explicit per-call form spec §5/§6 calls write_txn_wait(d).
	BeginRwWait(ctx context.Context, timeout time.Duration) (RwTx, error)
	// Close releases the environment. No further transactions may be
	// started afterward.
	Close() error
}
