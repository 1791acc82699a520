// Package codec implements the two encodings mdbxgraph needs: a generic,
// reflection-based "value layout" for arbitrary application V/E/P types and
// full entity payloads, and a hand-rolled, length-prefixed "reverse layout"
// for composite index keys, laid out so that every key sharing a leading
// field sits under one byte prefix that a range scan can be bounded by.
package codec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/favilcomputing/mdbxgraph/apperr"
	"github.com/favilcomputing/mdbxgraph/id"
	"github.com/ugorji/go/codec"
)

var mh = &codec.MsgpackHandle{}

func init() {
	mh.RawToString = true
}

// EncodeValue serializes v using the shared msgpack handle. It is used for
// full entity payloads (Vertex, Edge, PValue) and for application-supplied
// V/E/P label values embedded inside them.
func EncodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, mh)
	if err := enc.Encode(v); err != nil {
		return nil, apperr.SerializationFailed(err)
	}
	return buf.Bytes(), nil
}

// DecodeValue deserializes data produced by EncodeValue into out, which
// must be a pointer.
func DecodeValue(data []byte, out any) error {
	dec := codec.NewDecoderBytes(data, mh)
	if err := dec.Decode(out); err != nil {
		return apperr.SerializationFailed(err)
	}
	return nil
}

// idLayoutLen is the fixed wire size of an encoded Id: one kind-tag byte
// followed by the 16 big-endian bytes of the ULID.
const idLayoutLen = 1 + 16

// EncodeID writes the fixed reverse-layout encoding of an Id: it sorts
// byte-for-byte in the same order as Id.Compare.
func EncodeID(i id.ID) []byte {
	buf := make([]byte, idLayoutLen)
	buf[0] = byte(i.Kind)
	copy(buf[1:], i.ULID[:])
	return buf
}

// DecodeID parses the fixed reverse-layout encoding produced by EncodeID.
func DecodeID(buf []byte) (id.ID, error) {
	if len(buf) != idLayoutLen {
		return id.ID{}, apperr.IDDecodeFailed(io.ErrUnexpectedEOF)
	}
	var out id.ID
	out.Kind = id.Kind(buf[0])
	copy(out.ULID[:], buf[1:])
	return out, nil
}

// writeLenPrefixed appends a 4-byte big-endian length prefix followed by b,
// so that two differently-sized encoded labels never collide on a common
// byte prefix during a range scan bounded by (label, ...).
func writeLenPrefixed(w *bytes.Buffer, b []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	w.Write(lenBuf[:])
	w.Write(b)
}

func readLenPrefixed(buf []byte) (field, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, apperr.IDDecodeFailed(io.ErrUnexpectedEOF)
	}
	n := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]
	if uint32(len(buf)) < n {
		return nil, nil, apperr.IDDecodeFailed(io.ErrUnexpectedEOF)
	}
	return buf[:n], buf[n:], nil
}

// EncodeLabelID builds the reverse-layout key for the label index: a
// length-prefixed encoded label followed by the owning Id. Keys sharing a
// label share one byte prefix (LabelIDPrefix) and sort by Id after it,
// which is what the label range scan (spec §4.3,
// GetVerticesByLabel/GetEdgesByLabel) relies on. Keys of different labels
// are not in lexical label order: they sort by encoded label length first.
func EncodeLabelID[L any](label L, owner id.ID) ([]byte, error) {
	lb, err := EncodeValue(label)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writeLenPrefixed(&buf, lb)
	buf.Write(EncodeID(owner))
	return buf.Bytes(), nil
}

// DecodeLabelID parses a key produced by EncodeLabelID.
func DecodeLabelID[L any](buf []byte) (label L, owner id.ID, err error) {
	lb, rest, err := readLenPrefixed(buf)
	if err != nil {
		return label, owner, err
	}
	if err := DecodeValue(lb, &label); err != nil {
		return label, owner, err
	}
	owner, err = DecodeID(rest)
	return label, owner, err
}

// LabelIDPrefix returns the byte prefix that bounds a range scan over every
// key with the given label, regardless of owning Id.
func LabelIDPrefix[L any](label L) ([]byte, error) {
	lb, err := EncodeValue(label)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writeLenPrefixed(&buf, lb)
	return buf.Bytes(), nil
}

// EncodeIDParam builds the reverse-layout key for the per-entity parameter
// table: (owner Id, parameter key P), ordered so a range scan bounded by
// owner lists every parameter bound to that entity.
func EncodeIDParam[P any](owner id.ID, key P) ([]byte, error) {
	kb, err := EncodeValue(key)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(EncodeID(owner))
	writeLenPrefixed(&buf, kb)
	return buf.Bytes(), nil
}

// DecodeIDParam parses a key produced by EncodeIDParam.
func DecodeIDParam[P any](buf []byte) (owner id.ID, key P, err error) {
	if len(buf) < idLayoutLen {
		return owner, key, apperr.IDDecodeFailed(io.ErrUnexpectedEOF)
	}
	owner, err = DecodeID(buf[:idLayoutLen])
	if err != nil {
		return owner, key, err
	}
	kb, _, err := readLenPrefixed(buf[idLayoutLen:])
	if err != nil {
		return owner, key, err
	}
	err = DecodeValue(kb, &key)
	return owner, key, err
}

// IDParamPrefix returns the byte prefix bounding a range scan over every
// parameter bound to owner.
func IDParamPrefix(owner id.ID) []byte {
	return EncodeID(owner)
}

// EncodeParamID builds the reverse-layout key for the parameter-to-owner
// index: (parameter key P, owner Id), the inverse ordering of EncodeIDParam,
// used to look up every entity carrying a given parameter key.
func EncodeParamID[P any](key P, owner id.ID) ([]byte, error) {
	kb, err := EncodeValue(key)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writeLenPrefixed(&buf, kb)
	buf.Write(EncodeID(owner))
	return buf.Bytes(), nil
}

// DecodeParamID parses a key produced by EncodeParamID.
func DecodeParamID[P any](buf []byte) (key P, owner id.ID, err error) {
	kb, rest, err := readLenPrefixed(buf)
	if err != nil {
		return key, owner, err
	}
	if err := DecodeValue(kb, &key); err != nil {
		return key, owner, err
	}
	owner, err = DecodeID(rest)
	return key, owner, err
}

// HexTag is the first byte of a hexastore key, naming which of the six
// permutations of (to, from, edge) the remaining three Ids are ordered in.
type HexTag byte

const (
	// TFE orders (To, From, Edge); each tag's letters name its order the
	// same way. graph's hexTriple is what lays the Ids out per tag; codec
	// only needs the tag byte to prefix the key; it does not import graph
	// (would cycle).
	TFE HexTag = iota + 1
	FTE
	ETF
	EFT
	TEF
	FET
)

// EncodeHex builds a hexastore key: one tag byte followed by three Ids in
// the order the caller supplies them (graph's hexTriple chooses that order
// per tag; codec just lays the bytes out so the result sorts correctly).
func EncodeHex(tag HexTag, a, b, c id.ID) []byte {
	buf := make([]byte, 0, 1+3*idLayoutLen)
	buf = append(buf, byte(tag))
	buf = append(buf, EncodeID(a)...)
	buf = append(buf, EncodeID(b)...)
	buf = append(buf, EncodeID(c)...)
	return buf
}

// DecodeHex parses a key produced by EncodeHex.
func DecodeHex(buf []byte) (tag HexTag, a, b, c id.ID, err error) {
	if len(buf) != 1+3*idLayoutLen {
		return 0, a, b, c, apperr.IDDecodeFailed(io.ErrUnexpectedEOF)
	}
	tag = HexTag(buf[0])
	buf = buf[1:]
	if a, err = DecodeID(buf[:idLayoutLen]); err != nil {
		return tag, a, b, c, err
	}
	buf = buf[idLayoutLen:]
	if b, err = DecodeID(buf[:idLayoutLen]); err != nil {
		return tag, a, b, c, err
	}
	buf = buf[idLayoutLen:]
	c, err = DecodeID(buf[:idLayoutLen])
	return tag, a, b, c, err
}

// HexPrefix returns the byte prefix bounding a range scan over every
// hexastore entry under the given tag and leading component.
func HexPrefix(tag HexTag, a id.ID) []byte {
	buf := make([]byte, 0, 1+idLayoutLen)
	buf = append(buf, byte(tag))
	buf = append(buf, EncodeID(a)...)
	return buf
}
