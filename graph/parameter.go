package graph

import (
	"github.com/favilcomputing/mdbxgraph/codec"
	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/favilcomputing/mdbxgraph/kv"
	"github.com/favilcomputing/mdbxgraph/pvalue"
)

// putParameter writes both directions of the parameter index for a single
// (owner, key, value) binding: owner->key->value in Parameters, and
// key->owner in ParametersIdx for reverse lookups.
func (g *Graph[V, E, P]) putParameter(tx kv.RwTx, owner id.ID, key P, val pvalue.PValue[V, E, P]) error {
	idParamKey, err := codec.EncodeIDParam(owner, key)
	if err != nil {
		return err
	}
	payload, err := codec.EncodeValue(val)
	if err != nil {
		return err
	}
	if err := tx.Put(kv.Parameters, idParamKey, payload); err != nil {
		return err
	}

	paramIDKey, err := codec.EncodeParamID(key, owner)
	if err != nil {
		return err
	}
	return tx.Put(kv.ParametersIdx, paramIDKey, codec.EncodeID(owner))
}

// GetParameters returns every parameter bound to owner.
func (g *Graph[V, E, P]) GetParameters(tx kv.Tx, owner id.ID) (map[P]pvalue.PValue[V, E, P], error) {
	cur, err := tx.Cursor(kv.Parameters)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	prefix := codec.IDParamPrefix(owner)
	out := make(map[P]pvalue.PValue[V, E, P])
	k, raw, ok, err := cur.Seek(prefix)
	for ok {
		if err != nil {
			return nil, err
		}
		if len(k) < len(prefix) || string(k[:len(prefix)]) != string(prefix) {
			break
		}
		_, key, derr := codec.DecodeIDParam[P](k)
		if derr != nil {
			return nil, derr
		}
		var v pvalue.PValue[V, E, P]
		if derr := codec.DecodeValue(raw, &v); derr != nil {
			return nil, derr
		}
		out[key] = v
		k, raw, ok, err = cur.Next()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
