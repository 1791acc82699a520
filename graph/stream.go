package graph

import (
	"bytes"

	"github.com/favilcomputing/mdbxgraph/apperr"
	"github.com/favilcomputing/mdbxgraph/kv"
	"github.com/favilcomputing/mdbxgraph/pvalue"
)

// Stream is a lazy sequence of PValues. A stream borrows from the
// transaction it was opened under and is invalidated when that transaction
// ends; callers drain it with the HasNext/Next protocol and release it with
// Close.
type Stream[V, E, P comparable] interface {
	// HasNext reports whether Next will produce another element or surface
	// a pending error.
	HasNext() bool
	// Next returns the stream's next element. Calling it past exhaustion
	// returns ValueNotFound.
	Next() (pvalue.PValue[V, E, P], error)
	// Close releases any cursor the stream holds. Safe to call more than
	// once.
	Close()
}

// stream adapts a pull function to Stream, buffering one element ahead so
// HasNext can answer without discarding it.
type stream[V, E, P comparable] struct {
	pull    func() (pv pvalue.PValue[V, E, P], ok bool, err error)
	release func()

	pending  pvalue.PValue[V, E, P]
	buffered bool
	err      error
	done     bool
}

func newStream[V, E, P comparable](pull func() (pvalue.PValue[V, E, P], bool, error), release func()) *stream[V, E, P] {
	return &stream[V, E, P]{pull: pull, release: release}
}

func (s *stream[V, E, P]) prime() {
	if s.buffered || s.done || s.err != nil {
		return
	}
	pv, ok, err := s.pull()
	if err != nil {
		s.err = err
		return
	}
	if !ok {
		s.done = true
		return
	}
	s.pending = pv
	s.buffered = true
}

func (s *stream[V, E, P]) HasNext() bool {
	s.prime()
	return s.buffered || s.err != nil
}

func (s *stream[V, E, P]) Next() (pvalue.PValue[V, E, P], error) {
	s.prime()
	if s.err != nil {
		err := s.err
		s.err = nil
		s.done = true
		return pvalue.None[V, E, P](), err
	}
	if !s.buffered {
		return pvalue.None[V, E, P](), apperr.ValueNotFound()
	}
	pv := s.pending
	s.pending = pvalue.None[V, E, P]()
	s.buffered = false
	return pv, nil
}

func (s *stream[V, E, P]) Close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
	s.done = true
}

// NewSliceStream replays an already-materialized result list as a Stream.
// The executor uses it for AddV/AddE singletons; it needs no Close beyond
// the no-op.
func NewSliceStream[V, E, P comparable](items []pvalue.PValue[V, E, P]) Stream[V, E, P] {
	pos := 0
	return newStream(func() (pvalue.PValue[V, E, P], bool, error) {
		if pos >= len(items) {
			return pvalue.None[V, E, P](), false, nil
		}
		pv := items[pos]
		pos++
		return pv, true, nil
	}, nil)
}

// newScanStream walks table in key order, starting at prefix (or the first
// key when prefix is nil) and stopping once keys leave it. Each entry maps
// through decode; decode returning keep=false drops the entry and the scan
// continues, which is how missing rehydration targets are skipped silently.
func newScanStream[V, E, P comparable](
	tx kv.Tx,
	table string,
	prefix []byte,
	decode func(k, v []byte) (pv pvalue.PValue[V, E, P], keep bool, err error),
) (Stream[V, E, P], error) {
	cur, err := tx.Cursor(table)
	if err != nil {
		return nil, err
	}
	started := false
	pull := func() (pvalue.PValue[V, E, P], bool, error) {
		for {
			var k, v []byte
			var ok bool
			var err error
			if !started {
				started = true
				if prefix != nil {
					k, v, ok, err = cur.Seek(prefix)
				} else {
					k, v, ok, err = cur.First()
				}
			} else {
				k, v, ok, err = cur.Next()
			}
			if err != nil {
				return pvalue.None[V, E, P](), false, err
			}
			if !ok || (prefix != nil && !bytes.HasPrefix(k, prefix)) {
				return pvalue.None[V, E, P](), false, nil
			}
			pv, keep, err := decode(k, v)
			if err != nil {
				return pvalue.None[V, E, P](), false, err
			}
			if !keep {
				continue
			}
			return pv, true, nil
		}
	}
	return newStream(pull, cur.Close), nil
}

// Collect drains s into a slice and closes it.
func Collect[V, E, P comparable](s Stream[V, E, P]) ([]pvalue.PValue[V, E, P], error) {
	defer s.Close()
	var out []pvalue.PValue[V, E, P]
	for s.HasNext() {
		pv, err := s.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, pv)
	}
	return out, nil
}
