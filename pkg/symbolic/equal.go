package symbolic

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Equal reports structural equality: same public Kind and same semantically
// relevant payload data. Scalars compare bit-for-bit, so NaN floats with
// differing payload bits are unequal; aggregates and enum payloads compare
// recursively; addresses compare by object id and path. A literal node form
// compares equal to the arena-backed constant it resolves to.
func (v Value) Equal(o Value) bool {
	k := v.Kind()
	if k != o.Kind() {
		return false
	}
	switch k {
	case KindUninitMemory:
		return true
	case KindUnknown:
		vn, vr := v.UnknownValue()
		on, or := o.UnknownValue()
		return vn == on && vr == or
	case KindMetatype:
		return v.MetatypeValue() == o.MetatypeValue()
	case KindFunction:
		return v.FunctionValue() == o.FunctionValue()
	case KindInteger:
		vw, vp := v.integerBits()
		ow, op := o.integerBits()
		return vw == ow && bytes.Equal(vp, op)
	case KindFloat:
		vf, vl := v.FloatValue()
		of, ol := o.FloatValue()
		if vf != of {
			return false
		}
		for i := range vl {
			if vl[i] != ol[i] {
				return false
			}
		}
		return true
	case KindString:
		return v.StringValue() == o.StringValue()
	case KindAggregate:
		ve, oe := v.AggregateValue(), o.AggregateValue()
		if len(ve) != len(oe) {
			return false
		}
		for i := range ve {
			if !ve[i].Equal(oe[i]) {
				return false
			}
		}
		return true
	case KindEnum:
		return v.EnumValue() == o.EnumValue()
	case KindEnumWithPayload:
		return v.EnumValue() == o.EnumValue() &&
			v.EnumPayloadValue().Equal(o.EnumPayloadValue())
	case KindAddress:
		vid, vpath := v.AddressValue()
		oid, opath := o.AddressValue()
		if vid != oid || len(vpath) != len(opath) {
			return false
		}
		for i := range vpath {
			if vpath[i] != opath[i] {
				return false
			}
		}
		return true
	default:
		panic("symbolic: Equal over invalid kind")
	}
}

// Hash returns a 64-bit hash consistent with Equal, suitable for using
// Values as deduplication keys within one process.
func (v Value) Hash() uint64 {
	d := xxhash.New()
	v.writeHash(d)
	return d.Sum64()
}

func (v Value) writeHash(d *xxhash.Digest) {
	var scratch [8]byte
	writeUint64 := func(x uint64) {
		binary.LittleEndian.PutUint64(scratch[:], x)
		d.Write(scratch[:])
	}
	k := v.Kind()
	d.Write([]byte{byte(k)})
	switch k {
	case KindUninitMemory:
	case KindUnknown:
		node, reason := v.UnknownValue()
		writeUint64(uint64(uintptr(unsafe.Pointer(node))))
		writeUint64(uint64(reason))
	case KindMetatype:
		writeUint64(uint64(uintptr(unsafe.Pointer(v.MetatypeValue()))))
	case KindFunction:
		writeUint64(uint64(uintptr(unsafe.Pointer(v.FunctionValue()))))
	case KindInteger:
		width, pattern := v.integerBits()
		writeUint64(uint64(width))
		d.Write(pattern)
	case KindFloat:
		format, limbs := v.FloatValue()
		d.Write([]byte{byte(format)})
		for _, l := range limbs {
			writeUint64(l)
		}
	case KindString:
		s := v.StringValue()
		writeUint64(uint64(len(s)))
		d.WriteString(s)
	case KindAggregate:
		elems := v.AggregateValue()
		writeUint64(uint64(len(elems)))
		for _, e := range elems {
			e.writeHash(d)
		}
	case KindEnum:
		writeUint64(uint64(uintptr(unsafe.Pointer(v.EnumValue()))))
	case KindEnumWithPayload:
		writeUint64(uint64(uintptr(unsafe.Pointer(v.EnumValue()))))
		v.EnumPayloadValue().writeHash(d)
	case KindAddress:
		id, path := v.AddressValue()
		writeUint64(uint64(id))
		writeUint64(uint64(len(path)))
		for _, idx := range path {
			writeUint64(uint64(idx))
		}
	}
}
