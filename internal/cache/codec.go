package cache

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Payload mirrors deducer.Artifacts' nine text fields. It is defined
// here, independent of the deducer package, so the cache has no
// import-cycle dependency on the pipeline it memoizes for.
type Payload struct {
	Mutations         string
	Types             string
	TypeSummary       string
	TypeWarnings      string
	Guards            string
	Attributes        string
	AttributeSummary  string
	Tests             string
	AttributeWarnings string
}

// field numbers for the wire encoding below, one per Payload field, in
// declaration order.
const (
	fieldMutations = iota + 1
	fieldTypes
	fieldTypeSummary
	fieldTypeWarnings
	fieldGuards
	fieldAttributes
	fieldAttributeSummary
	fieldTests
	fieldAttributeWarnings
)

// EncodePayload serializes p as a sequence of length-delimited
// protowire fields, avoiding a dependency on a generated .pb.go file
// for what is, on disk, just nine blobs of text.
func EncodePayload(p Payload) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldMutations, protowire.BytesType)
	b = protowire.AppendString(b, p.Mutations)
	b = protowire.AppendTag(b, fieldTypes, protowire.BytesType)
	b = protowire.AppendString(b, p.Types)
	b = protowire.AppendTag(b, fieldTypeSummary, protowire.BytesType)
	b = protowire.AppendString(b, p.TypeSummary)
	b = protowire.AppendTag(b, fieldTypeWarnings, protowire.BytesType)
	b = protowire.AppendString(b, p.TypeWarnings)
	b = protowire.AppendTag(b, fieldGuards, protowire.BytesType)
	b = protowire.AppendString(b, p.Guards)
	b = protowire.AppendTag(b, fieldAttributes, protowire.BytesType)
	b = protowire.AppendString(b, p.Attributes)
	b = protowire.AppendTag(b, fieldAttributeSummary, protowire.BytesType)
	b = protowire.AppendString(b, p.AttributeSummary)
	b = protowire.AppendTag(b, fieldTests, protowire.BytesType)
	b = protowire.AppendString(b, p.Tests)
	b = protowire.AppendTag(b, fieldAttributeWarnings, protowire.BytesType)
	b = protowire.AppendString(b, p.AttributeWarnings)
	return b
}

// DecodePayload parses bytes produced by EncodePayload back into a
// Payload, tolerating fields in any order (as protowire permits) and
// ignoring unknown field numbers so future fields don't break old
// readers.
func DecodePayload(b []byte) (Payload, error) {
	var p Payload
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Payload{}, fmt.Errorf("cache: decoding payload: %w", protowire.ParseError(n))
		}
		b = b[n:]
		if typ != protowire.BytesType {
			return Payload{}, fmt.Errorf("cache: decoding payload: field %d has unexpected wire type %v", num, typ)
		}
		val, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return Payload{}, fmt.Errorf("cache: decoding payload: %w", protowire.ParseError(n))
		}
		b = b[n:]
		s := string(val)
		switch num {
		case fieldMutations:
			p.Mutations = s
		case fieldTypes:
			p.Types = s
		case fieldTypeSummary:
			p.TypeSummary = s
		case fieldTypeWarnings:
			p.TypeWarnings = s
		case fieldGuards:
			p.Guards = s
		case fieldAttributes:
			p.Attributes = s
		case fieldAttributeSummary:
			p.AttributeSummary = s
		case fieldTests:
			p.Tests = s
		case fieldAttributeWarnings:
			p.AttributeWarnings = s
		}
	}
	return p, nil
}
