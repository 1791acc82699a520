// Package pvalue implements the polymorphic property value algebra: the
// tagged sum every stored parameter binding, and vertex/edge payload, is
// ultimately expressed as.
package pvalue

import (
	"time"

	"github.com/favilcomputing/mdbxgraph/apperr"
	"github.com/favilcomputing/mdbxgraph/id"
)

// Kind discriminates the PValue variants.
type Kind uint8

const (
	KindNone Kind = iota
	KindVertex
	KindEdge
	KindID
	KindULID
	KindType
	KindI32
	KindI64
	KindI128
	KindFloat32
	KindFloat64
	KindDate
	KindToken
	KindString
	KindBool
	KindList
	KindSet
	KindMap
)

// VertexLike and EdgeLike are the minimal shapes PValue needs from the
// graph package's Vertex/Edge types, kept here to avoid an import cycle
// (graph imports pvalue, not the reverse). graph.Vertex/graph.Edge satisfy
// these via ToPValue/FromPValue-style free functions in that package.
type VertexLike[V, E, P comparable] struct {
	ID     *id.ID
	Label  V
	Params map[P]PValue[V, E, P]
}

type EdgeLike[V, E, P comparable] struct {
	ID     *id.ID
	To     id.ID
	From   id.ID
	Label  E
	Params map[P]PValue[V, E, P]
}

// I128 is a 128-bit signed integer, laid out as the original Rust i128:
// not representable by a Go primitive, so it is carried as a pair of
// 64-bit words (high, low), two's-complement.
type I128 struct {
	Hi int64
	Lo uint64
}

// PValue is the polymorphic property value: a tagged sum with one payload
// field per variant, mirroring gremlite's Rust enum PValue<V,E,P> (ported
// as a discriminated struct rather than an interface hierarchy, since Go
// cannot express a closed sum as cheaply as Rust's enum and the codec needs
// a single concrete type to encode/decode through reflection).
type PValue[V, E, P comparable] struct {
	Kind Kind

	VertexVal *VertexLike[V, E, P]
	EdgeVal   *EdgeLike[V, E, P]
	IDVal     id.ID
	ULIDVal   id.ID
	TypeVal   id.Kind
	I32Val    int32
	I64Val    int64
	I128Val   I128
	F32Val    float32
	F64Val    float64
	DateVal   time.Time
	TokenVal  string
	StringVal string
	BoolVal   bool
	ListVal   []PValue[V, E, P]
	SetVal    []PValue[V, E, P]
	MapVal    map[P]PValue[V, E, P]
}

// None constructs the None variant, also PValue's zero value.
func None[V, E, P comparable]() PValue[V, E, P] { return PValue[V, E, P]{Kind: KindNone} }

func FromVertex[V, E, P comparable](v VertexLike[V, E, P]) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindVertex, VertexVal: &v}
}

func FromEdge[V, E, P comparable](e EdgeLike[V, E, P]) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindEdge, EdgeVal: &e}
}

func FromID[V, E, P comparable](v id.ID) PValue[V, E, P] { return PValue[V, E, P]{Kind: KindID, IDVal: v} }

func FromULID[V, E, P comparable](v id.ID) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindULID, ULIDVal: v}
}

func FromType[V, E, P comparable](v id.Kind) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindType, TypeVal: v}
}

func FromI32[V, E, P comparable](v int32) PValue[V, E, P] { return PValue[V, E, P]{Kind: KindI32, I32Val: v} }

func FromI64[V, E, P comparable](v int64) PValue[V, E, P] { return PValue[V, E, P]{Kind: KindI64, I64Val: v} }

func FromI128[V, E, P comparable](v I128) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindI128, I128Val: v}
}

func FromFloat32[V, E, P comparable](v float32) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindFloat32, F32Val: v}
}

func FromFloat64[V, E, P comparable](v float64) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindFloat64, F64Val: v}
}

// FromDate truncates to nanosecond UTC, matching the original's
// ts_nanoseconds serde serialization of a chrono DateTime<Utc>.
func FromDate[V, E, P comparable](v time.Time) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindDate, DateVal: v.UTC()}
}

func FromToken[V, E, P comparable](v string) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindToken, TokenVal: v}
}

func FromString[V, E, P comparable](v string) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindString, StringVal: v}
}

func FromBool[V, E, P comparable](v bool) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindBool, BoolVal: v}
}

func FromList[V, E, P comparable](v []PValue[V, E, P]) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindList, ListVal: v}
}

// FromSet deduplicates v the way the original's Set variant is documented
// to behave (a Vec used as a set, membership not multiplicity).
func FromSet[V, E, P comparable](v []PValue[V, E, P]) PValue[V, E, P] {
	seen := make(map[any]struct{}, len(v))
	out := make([]PValue[V, E, P], 0, len(v))
	uniq := 0
	for _, pv := range v {
		k, dedupeable := dedupeKey(pv)
		if !dedupeable {
			// Composite variants (List/Set/Map/Vertex/Edge) are not
			// `comparable` in Go; each is kept rather than risk a panic
			// hashing a map-valued field.
			k = uniq
			uniq++
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, pv)
	}
	return PValue[V, E, P]{Kind: KindSet, SetVal: out}
}

// dedupeKey produces a comparable key for the scalar variants Set
// deduplication is meaningful for; ok is false for composite variants.
func dedupeKey[V, E, P comparable](pv PValue[V, E, P]) (key any, ok bool) {
	switch pv.Kind {
	case KindID:
		return pv.IDVal, true
	case KindULID:
		return pv.ULIDVal, true
	case KindType:
		return pv.TypeVal, true
	case KindI32:
		return pv.I32Val, true
	case KindI64:
		return pv.I64Val, true
	case KindI128:
		return pv.I128Val, true
	case KindFloat32:
		return pv.F32Val, true
	case KindFloat64:
		return pv.F64Val, true
	case KindDate:
		return pv.DateVal, true
	case KindToken:
		return [2]any{"token", pv.TokenVal}, true
	case KindString:
		return [2]any{"string", pv.StringVal}, true
	case KindBool:
		return pv.BoolVal, true
	case KindNone:
		return "none", true
	default:
		return nil, false
	}
}

func FromMap[V, E, P comparable](v map[P]PValue[V, E, P]) PValue[V, E, P] {
	return PValue[V, E, P]{Kind: KindMap, MapVal: v}
}

// ToVertex projects a PValue back to a VertexLike, failing with
// InvalidPValue if the tag does not match (gremlite's FromPValue contract).
func ToVertex[V, E, P comparable](pv PValue[V, E, P]) (VertexLike[V, E, P], error) {
	if pv.Kind != KindVertex || pv.VertexVal == nil {
		return VertexLike[V, E, P]{}, apperr.InvalidPValue(pv.Kind.String())
	}
	return *pv.VertexVal, nil
}

// ToEdge projects a PValue back to an EdgeLike.
func ToEdge[V, E, P comparable](pv PValue[V, E, P]) (EdgeLike[V, E, P], error) {
	if pv.Kind != KindEdge || pv.EdgeVal == nil {
		return EdgeLike[V, E, P]{}, apperr.InvalidPValue(pv.Kind.String())
	}
	return *pv.EdgeVal, nil
}

// ToID projects a PValue back to an id.ID.
func ToID[V, E, P comparable](pv PValue[V, E, P]) (id.ID, error) {
	if pv.Kind != KindID {
		return id.ID{}, apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.IDVal, nil
}

// ToI32 projects a PValue back to an int32.
func ToI32[V, E, P comparable](pv PValue[V, E, P]) (int32, error) {
	if pv.Kind != KindI32 {
		return 0, apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.I32Val, nil
}

// ToI128 projects a PValue back to an I128.
func ToI128[V, E, P comparable](pv PValue[V, E, P]) (I128, error) {
	if pv.Kind != KindI128 {
		return I128{}, apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.I128Val, nil
}

// ToFloat64 projects a PValue back to a float64.
func ToFloat64[V, E, P comparable](pv PValue[V, E, P]) (float64, error) {
	if pv.Kind != KindFloat64 {
		return 0, apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.F64Val, nil
}

// ToDate projects a PValue back to a UTC time.Time.
func ToDate[V, E, P comparable](pv PValue[V, E, P]) (time.Time, error) {
	if pv.Kind != KindDate {
		return time.Time{}, apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.DateVal, nil
}

// ToToken projects a PValue back to a token string.
func ToToken[V, E, P comparable](pv PValue[V, E, P]) (string, error) {
	if pv.Kind != KindToken {
		return "", apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.TokenVal, nil
}

// ToList projects a PValue back to its element slice.
func ToList[V, E, P comparable](pv PValue[V, E, P]) ([]PValue[V, E, P], error) {
	if pv.Kind != KindList {
		return nil, apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.ListVal, nil
}

// ToMap projects a PValue back to its P-keyed mapping.
func ToMap[V, E, P comparable](pv PValue[V, E, P]) (map[P]PValue[V, E, P], error) {
	if pv.Kind != KindMap {
		return nil, apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.MapVal, nil
}

// ToString projects a PValue back to a Go string.
func ToString[V, E, P comparable](pv PValue[V, E, P]) (string, error) {
	if pv.Kind != KindString {
		return "", apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.StringVal, nil
}

// ToI64 projects a PValue back to an int64.
func ToI64[V, E, P comparable](pv PValue[V, E, P]) (int64, error) {
	if pv.Kind != KindI64 {
		return 0, apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.I64Val, nil
}

// ToBool projects a PValue back to a bool.
func ToBool[V, E, P comparable](pv PValue[V, E, P]) (bool, error) {
	if pv.Kind != KindBool {
		return false, apperr.InvalidPValue(pv.Kind.String())
	}
	return pv.BoolVal, nil
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindVertex:
		return "Vertex"
	case KindEdge:
		return "Edge"
	case KindID:
		return "Id"
	case KindULID:
		return "Ulid"
	case KindType:
		return "Type"
	case KindI32:
		return "I32"
	case KindI64:
		return "I64"
	case KindI128:
		return "I128"
	case KindFloat32:
		return "Float"
	case KindFloat64:
		return "Double"
	case KindDate:
		return "Date"
	case KindToken:
		return "Token"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	default:
		return "Unknown"
	}
}
