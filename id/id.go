// Package id implements the identifier service: kind-tagged, monotonically
// increasing 128-bit ULIDs for the three stored entity kinds.
package id

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/favilcomputing/mdbxgraph/apperr"
	"github.com/oklog/ulid/v2"
)

// Kind tags an Id with the entity kind it belongs to, so a stray id of the
// wrong kind is detectable without a database lookup.
type Kind uint8

const (
	// Vertex tags vertex identifiers.
	Vertex Kind = iota + 1
	// Edge tags edge identifiers.
	Edge
	// Parameter tags parameter-binding identifiers.
	Parameter
)

func (k Kind) String() string {
	switch k {
	case Vertex:
		return "Vertex"
	case Edge:
		return "Edge"
	case Parameter:
		return "Parameter"
	default:
		return "Unknown"
	}
}

// ID is (kind-tag, 128-bit monotonic ULID). The zero value is never a valid
// committed id: real ids are only minted by Generator.New.
type ID struct {
	Kind Kind
	ULID ulid.ULID
}

// Nil returns the sentinel id of kind k whose ULID component is all zero.
// Sentinels are reserved for use as exclusive range bounds and are never
// produced by Generator.New.
func Nil(k Kind) ID { return ID{Kind: k} }

// Max returns the sentinel id of kind k whose ULID component is all ones.
func Max(k Kind) ID { return ID{Kind: k, ULID: maxULID} }

var maxULID = func() ulid.ULID {
	var u ulid.ULID
	for i := range u {
		u[i] = 0xff
	}
	return u
}()

// IsSentinel reports whether id is the Nil or Max sentinel of its kind.
func (id ID) IsSentinel() bool {
	return id.ULID == (ulid.ULID{}) || id.ULID == maxULID
}

func (id ID) String() string {
	return fmt.Sprintf("%s:%s", id.Kind, id.ULID.String())
}

// Compare orders ids first by kind, then by ULID — matching the byte order
// the codec package produces for the fixed Id layout (kind-tag byte,
// followed by 16 big-endian ULID bytes).
func (id ID) Compare(other ID) int {
	if id.Kind != other.Kind {
		if id.Kind < other.Kind {
			return -1
		}
		return 1
	}
	return id.ULID.Compare(other.ULID)
}

// Generator is the process-global identifier service. It is the ONLY writer
// of real (non-sentinel) ids and is guarded by a single mutex: the critical
// section is always a writer, so there is no benefit to a reader/writer lock
// here (DESIGN NOTES, spec §9 "Id monotonicity").
type Generator struct {
	mu sync.Mutex
	ms io.Reader
}

// NewGenerator builds a Generator seeded from a cryptographically
// unimportant but well-distributed entropy source; ulid.Monotonic layers
// strictly-increasing low bits on top of it for identical-millisecond ids.
func NewGenerator() *Generator {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Generator{
		ms: ulid.Monotonic(entropy, 0),
	}
}

// New mints a fresh Id tagged with kind. The ULID component is strictly
// greater than any previous Id produced by this Generator, across kinds:
// the monotonic entropy source does not reset between calls regardless of
// the requested kind.
func (g *Generator) New(kind Kind) (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		u, err := ulid.New(ulid.Now(), g.ms)
		if err != nil {
			if err == ulid.ErrMonotonicOverflow {
				return ID{}, apperr.IDOverflow()
			}
			return ID{}, apperr.IDOverflow()
		}
		id := ID{Kind: kind, ULID: u}
		if id.IsSentinel() {
			// Vanishingly unlikely (would require a real ULID of exactly zero
			// or all-ones); reroll under the same lock rather than ever hand
			// out a sentinel.
			continue
		}
		return id, nil
	}
}
