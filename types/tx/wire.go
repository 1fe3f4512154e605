package tx

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Low-level protowire helpers shared by the tx codec and message codecs. The
// tx wire format is plain proto3; raw sub-byte-strings are carried verbatim
// so sign bytes stay bit-exact across implementations.

// AppendTagBytes appends a length-delimited field.
func AppendTagBytes(buf []byte, num protowire.Number, value []byte) []byte {
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	return protowire.AppendBytes(buf, value)
}

// AppendTagString appends a string field, omitting it when empty.
func AppendTagString(buf []byte, num protowire.Number, value string) []byte {
	if value == "" {
		return buf
	}
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	return protowire.AppendString(buf, value)
}

// AppendTagUvarint appends a varint field, omitting it when zero.
func AppendTagUvarint(buf []byte, num protowire.Number, value uint64) []byte {
	if value == 0 {
		return buf
	}
	buf = protowire.AppendTag(buf, num, protowire.VarintType)
	return protowire.AppendVarint(buf, value)
}

// field is one decoded wire field.
type field struct {
	num protowire.Number
	typ protowire.Type
	// exactly one of these is set, per typ
	bytes  []byte
	varint uint64
}

// walkFields decodes the top-level fields of a message, invoking fn per
// field. Unknown field numbers are passed through to fn; fn decides whether
// they are fatal.
func walkFields(bz []byte, fn func(f field) error) error {
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return errors.New("invalid field tag")
		}
		bz = bz[n:]

		f := field{num: num, typ: typ}

		switch typ {
		case protowire.BytesType:
			v, m := protowire.ConsumeBytes(bz)
			if m < 0 {
				return errors.Errorf("invalid bytes field %d", num)
			}
			f.bytes = v
			bz = bz[m:]
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(bz)
			if m < 0 {
				return errors.Errorf("invalid varint field %d", num)
			}
			f.varint = v
			bz = bz[m:]
		case protowire.Fixed32Type:
			_, m := protowire.ConsumeFixed32(bz)
			if m < 0 {
				return errors.Errorf("invalid fixed32 field %d", num)
			}
			bz = bz[m:]
		case protowire.Fixed64Type:
			_, m := protowire.ConsumeFixed64(bz)
			if m < 0 {
				return errors.Errorf("invalid fixed64 field %d", num)
			}
			bz = bz[m:]
		default:
			return errors.Errorf("unsupported wire type %d", typ)
		}

		if err := fn(f); err != nil {
			return err
		}
	}

	return nil
}

// WalkFields is the exported walker used by module message codecs: fn
// receives the field number and, depending on the wire type, the bytes or
// varint payload.
func WalkFields(bz []byte, fn func(num int32, bytes []byte, varint uint64) error) error {
	return walkFields(bz, func(f field) error {
		return fn(int32(f.num), f.bytes, f.varint)
	})
}

// decodeAny decodes a google.protobuf.Any.
func decodeAny(bz []byte) (Any, error) {
	var any Any

	err := walkFields(bz, func(f field) error {
		switch f.num {
		case 1:
			any.TypeURL = string(f.bytes)
		case 2:
			any.Value = f.bytes
		}
		return nil
	})

	return any, err
}

// encodeAny encodes a google.protobuf.Any.
func encodeAny(any Any) []byte {
	var buf []byte
	buf = AppendTagString(buf, 1, any.TypeURL)
	if len(any.Value) > 0 {
		buf = AppendTagBytes(buf, 2, any.Value)
	}
	return buf
}
