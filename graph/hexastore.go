package graph

import (
	"github.com/favilcomputing/mdbxgraph/codec"
	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/favilcomputing/mdbxgraph/kv"
)

// hexOrders enumerates the six redundant permutations a committed edge is
// indexed under, ported verbatim from gremlite's HexOrder::to_db so every
// query angle (by edge, by endpoint-first, by endpoint-second) has an
// index walkable in sorted order without a table scan.
var hexOrders = [6]codec.HexTag{
	codec.TFE, codec.FTE, codec.ETF, codec.EFT, codec.TEF, codec.FET,
}

// hexTriple reproduces HexOrder::to_db's per-tag component ordering: which
// of (edge, to, from) comes first, second, third.
func hexTriple(tag codec.HexTag, edgeID, to, from id.ID) (a, b, c id.ID) {
	switch tag {
	case codec.TFE:
		return to, from, edgeID
	case codec.FTE:
		return from, to, edgeID
	case codec.ETF:
		return edgeID, to, from
	case codec.EFT:
		return edgeID, from, to
	case codec.TEF:
		return to, edgeID, from
	case codec.FET:
		return from, edgeID, to
	default:
		return edgeID, to, from
	}
}

// putHexastore writes all six permutations for one committed edge. The
// value is empty: the hexastore is a pure index, keyed entirely by its
// sorted components (spec's decided Open Question #3 — write-maintained,
// not read by any query this release, but kept current on every write so
// RebuildHexastore never has to reconcile drift).
func (g *Graph[V, E, P]) putHexastore(tx kv.RwTx, edgeID, to, from id.ID) error {
	for _, tag := range hexOrders {
		a, b, c := hexTriple(tag, edgeID, to, from)
		if err := tx.Put(kv.Hexastore, codec.EncodeHex(tag, a, b, c), []byte{}); err != nil {
			return err
		}
	}
	return nil
}

// RebuildHexastore regenerates the hexastore table purely from the
// committed edges, discarding whatever it currently holds first. The spec
// requires the hexastore be rebuildable from the primary edge store; this
// is the repair path for a store that predates hexastore maintenance, or
// one that was corrupted.
func (g *Graph[V, E, P]) RebuildHexastore(tx kv.RwTx) error {
	if err := tx.Clear(kv.Hexastore); err != nil {
		return err
	}

	cur, err := tx.Cursor(kv.Edges)
	if err != nil {
		return err
	}
	defer cur.Close()

	_, raw, ok, err := cur.First()
	for ok {
		if err != nil {
			return err
		}
		var e Edge[V, E, P]
		if derr := codec.DecodeValue(raw, &e); derr != nil {
			return derr
		}
		if err := g.putHexastore(tx, *e.ID, e.To, e.From); err != nil {
			return err
		}
		_, raw, ok, err = cur.Next()
	}
	g.log.Debug("rebuilt hexastore")
	return nil
}
