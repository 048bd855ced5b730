package symbolic

import (
	"math"
	"math/big"
	"unsafe"

	"carbide/constexpr-go/pkg/arena"
	"carbide/constexpr-go/pkg/ir"
)

//-----------------------------------------------------------------------------
// Payload records
//-----------------------------------------------------------------------------

// integerPayload stores a two's-complement bit pattern of an exact width.
// The pattern is little-endian with bits above width cleared, so equality
// and hashing are bit-for-bit by construction.
type integerPayload struct {
	width   uint
	pattern []byte
}

// FloatFormat identifies the exponent/mantissa layout of a float value.
type FloatFormat uint8

const (
	FloatBFloat16 FloatFormat = iota
	FloatHalf
	FloatSingle
	FloatDouble
	FloatQuad
)

// BitWidth returns the total number of bits in the format.
func (f FloatFormat) BitWidth() uint {
	switch f {
	case FloatBFloat16, FloatHalf:
		return 16
	case FloatSingle:
		return 32
	case FloatDouble:
		return 64
	case FloatQuad:
		return 128
	default:
		panic("symbolic: invalid float format")
	}
}

func (f FloatFormat) String() string {
	switch f {
	case FloatBFloat16:
		return "bfloat16"
	case FloatHalf:
		return "float16"
	case FloatSingle:
		return "float32"
	case FloatDouble:
		return "float64"
	case FloatQuad:
		return "float128"
	default:
		return "invalid_float_format"
	}
}

// floatPayload stores the raw bit pattern of a float, little-endian limbs.
// No numeric conversion ever happens, so NaN payload bits and the sign of
// zero survive round-trips.
type floatPayload struct {
	format FloatFormat
	limbs  []uint64
}

type stringPayload struct {
	bytes []byte
}

type aggregatePayload struct {
	elems []Value
}

type enumPayload struct {
	caseRef *ir.EnumCase
	payload Value
}

// addressPayload stores the object id and the non-empty access path of a
// derived address in one arena allocation.
type addressPayload struct {
	objectID uint32
	path     []uint32
}

//-----------------------------------------------------------------------------
// Integers
//-----------------------------------------------------------------------------

// MakeInteger stores x as a two's-complement integer of the given bit width.
// x is truncated to width bits; IntegerValue reconstructs the same width and
// value exactly.
func MakeInteger(x *big.Int, width uint, a *arena.Arena) Value {
	if x == nil {
		panic("symbolic: MakeInteger requires a value")
	}
	if width == 0 {
		panic("symbolic: MakeInteger requires a non-zero bit width")
	}
	p := arena.Alloc[integerPayload](a)
	p.width = width
	p.pattern = arena.AllocSlice[byte](a, int(width+7)/8)
	copy(p.pattern, patternFromBig(x, width))
	return Value{rep: repInteger, ptr: unsafe.Pointer(p)}
}

// IntegerValue returns the stored integer, sign-extended from its bit width.
// Works for both the arena-backed form and an integer-literal node form.
func (v Value) IntegerValue() *big.Int {
	switch v.rep {
	case repInteger:
		p := (*integerPayload)(v.ptr)
		return bigFromPattern(p.pattern, p.width)
	case repInstNode:
		n := v.instNode()
		if n.Op == ir.OpIntegerLiteral {
			return truncSigned(n.IntVal, n.IntWidth)
		}
	}
	panic("symbolic: IntegerValue called on incompatible value form")
}

// IntegerBitWidth returns the bit width of an integer value.
func (v Value) IntegerBitWidth() uint {
	switch v.rep {
	case repInteger:
		return (*integerPayload)(v.ptr).width
	case repInstNode:
		n := v.instNode()
		if n.Op == ir.OpIntegerLiteral {
			return n.IntWidth
		}
	}
	panic("symbolic: IntegerBitWidth called on incompatible value form")
}

// patternFromBig truncates x to width bits of two's complement, little-endian.
func patternFromBig(x *big.Int, width uint) []byte {
	mask := new(big.Int).Lsh(big.NewInt(1), width)
	mask.Sub(mask, big.NewInt(1))
	// And on a negative big.Int uses its infinite two's-complement form.
	low := new(big.Int).And(x, mask)
	be := low.Bytes()
	pattern := make([]byte, int(width+7)/8)
	for i, b := range be {
		pattern[len(be)-1-i] = b
	}
	return pattern
}

// bigFromPattern interprets a little-endian two's-complement pattern.
func bigFromPattern(pattern []byte, width uint) *big.Int {
	be := make([]byte, len(pattern))
	for i, b := range pattern {
		be[len(pattern)-1-i] = b
	}
	x := new(big.Int).SetBytes(be)
	if x.Bit(int(width-1)) == 1 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), width))
	}
	return x
}

// integerBits returns the canonical (width, two's-complement pattern) pair
// for either integer form. Used by equality and hashing.
func (v Value) integerBits() (uint, []byte) {
	switch v.rep {
	case repInteger:
		p := (*integerPayload)(v.ptr)
		return p.width, p.pattern
	case repInstNode:
		n := v.instNode()
		if n.Op == ir.OpIntegerLiteral {
			return n.IntWidth, patternFromBig(n.IntVal, n.IntWidth)
		}
	}
	panic("symbolic: integerBits called on incompatible value form")
}

func truncSigned(x *big.Int, width uint) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), width)
	mask.Sub(mask, big.NewInt(1))
	low := new(big.Int).And(x, mask)
	if low.Bit(int(width-1)) == 1 {
		low.Sub(low, new(big.Int).Lsh(big.NewInt(1), width))
	}
	return low
}

//-----------------------------------------------------------------------------
// Floats
//-----------------------------------------------------------------------------

// MakeFloat stores a float bit pattern of the given format. limbs are
// little-endian 64-bit words; bits beyond the format width are cleared.
func MakeFloat(format FloatFormat, limbs []uint64, a *arena.Arena) Value {
	width := format.BitWidth()
	need := int(width+63) / 64
	if len(limbs) != need {
		panic("symbolic: MakeFloat limb count does not match format")
	}
	p := arena.Alloc[floatPayload](a)
	p.format = format
	p.limbs = arena.AllocSlice[uint64](a, need)
	copy(p.limbs, limbs)
	if rem := width % 64; rem != 0 {
		p.limbs[need-1] &= (uint64(1) << rem) - 1
	}
	return Value{rep: repFloat, ptr: unsafe.Pointer(p)}
}

// MakeFloat64 stores a double-precision value, preserving its exact bits.
func MakeFloat64(f float64, a *arena.Arena) Value {
	return MakeFloat(FloatDouble, []uint64{math.Float64bits(f)}, a)
}

// FloatValue returns the format and bit pattern of a float value. The limb
// slice is a read-only view for the arena-backed form.
func (v Value) FloatValue() (FloatFormat, []uint64) {
	switch v.rep {
	case repFloat:
		p := (*floatPayload)(v.ptr)
		return p.format, p.limbs
	case repInstNode:
		n := v.instNode()
		if n.Op == ir.OpFloatLiteral {
			return FloatDouble, []uint64{n.FloatBits}
		}
	}
	panic("symbolic: FloatValue called on incompatible value form")
}

// Float64Value returns the numeric value of a double-precision float.
func (v Value) Float64Value() float64 {
	format, limbs := v.FloatValue()
	if format != FloatDouble {
		panic("symbolic: Float64Value called on non-double float")
	}
	return math.Float64frombits(limbs[0])
}

//-----------------------------------------------------------------------------
// Strings
//-----------------------------------------------------------------------------

// MakeString stores a UTF-8 byte sequence of arbitrary length, including
// empty, without normalization.
func MakeString(s string, a *arena.Arena) Value {
	p := arena.Alloc[stringPayload](a)
	p.bytes = arena.AllocSlice[byte](a, len(s))
	copy(p.bytes, s)
	return Value{rep: repString, ptr: unsafe.Pointer(p)}
}

// StringValue returns the stored bytes, exactly as given at construction.
func (v Value) StringValue() string {
	switch v.rep {
	case repString:
		return string((*stringPayload)(v.ptr).bytes)
	case repInstNode:
		n := v.instNode()
		if n.Op == ir.OpStringLiteral {
			return n.StrVal
		}
	}
	panic("symbolic: StringValue called on incompatible value form")
}

//-----------------------------------------------------------------------------
// Aggregates
//-----------------------------------------------------------------------------

// MakeAggregate copies the elements into one arena allocation, preserving
// count and order. Elements may be any Value, including Unknown for a field
// that failed to evaluate; that does not make the aggregate itself Unknown.
func MakeAggregate(elems []Value, a *arena.Arena) Value {
	p := arena.Alloc[aggregatePayload](a)
	p.elems = arena.AllocSlice[Value](a, len(elems))
	copy(p.elems, elems)
	return Value{rep: repAggregate, ptr: unsafe.Pointer(p)}
}

// AggregateValue returns a read-only view over the aggregate's elements.
func (v Value) AggregateValue() []Value {
	v.require(repAggregate, "AggregateValue")
	return (*aggregatePayload)(v.ptr).elems
}

//-----------------------------------------------------------------------------
// Enums
//-----------------------------------------------------------------------------

// MakeEnum builds a payload-less enum case value. No allocation.
func MakeEnum(c *ir.EnumCase) Value {
	if c == nil {
		panic("symbolic: MakeEnum requires a case")
	}
	return Value{rep: repEnum, ptr: unsafe.Pointer(c)}
}

// MakeEnumWithPayload builds an enum case carrying one nested constant
// value. A non-constant payload is a contract violation.
func MakeEnumWithPayload(c *ir.EnumCase, payload Value, a *arena.Arena) Value {
	if c == nil {
		panic("symbolic: MakeEnumWithPayload requires a case")
	}
	if !payload.IsConstant() {
		panic("symbolic: MakeEnumWithPayload requires a constant payload")
	}
	p := arena.Alloc[enumPayload](a)
	p.caseRef = c
	p.payload = payload
	return Value{rep: repEnumWithPayload, ptr: unsafe.Pointer(p)}
}

// EnumValue returns the case selector of either enum form.
func (v Value) EnumValue() *ir.EnumCase {
	switch v.rep {
	case repEnum:
		return (*ir.EnumCase)(v.ptr)
	case repEnumWithPayload:
		return (*enumPayload)(v.ptr).caseRef
	}
	panic("symbolic: EnumValue called on incompatible value form")
}

// EnumPayloadValue returns the nested payload of an enum-with-payload value.
func (v Value) EnumPayloadValue() Value {
	v.require(repEnumWithPayload, "EnumPayloadValue")
	return (*enumPayload)(v.ptr).payload
}

//-----------------------------------------------------------------------------
// Addresses
//-----------------------------------------------------------------------------

// MakeAddress builds the address of a whole memory object. No allocation.
func MakeAddress(objectID uint32) Value {
	return Value{rep: repDirectAddress, aux: objectID}
}

// MakeAddressWithPath builds an address refined by an access path into a
// nested aggregate. An empty path yields the direct form, identical to
// MakeAddress; the derived allocation is only used for non-empty paths.
func MakeAddressWithPath(objectID uint32, path []uint32, a *arena.Arena) Value {
	if len(path) == 0 {
		return MakeAddress(objectID)
	}
	p := arena.Alloc[addressPayload](a)
	p.objectID = objectID
	p.path = arena.AllocSlice[uint32](a, len(path))
	copy(p.path, path)
	return Value{rep: repDerivedAddress, ptr: unsafe.Pointer(p)}
}

// AddressObjectID returns the object id of either address form.
func (v Value) AddressObjectID() uint32 {
	switch v.rep {
	case repDirectAddress:
		return v.aux
	case repDerivedAddress:
		return (*addressPayload)(v.ptr).objectID
	}
	panic("symbolic: AddressObjectID called on incompatible value form")
}

// AddressValue returns the object id and a copy of the access path, empty
// for a direct address.
func (v Value) AddressValue() (uint32, []uint32) {
	switch v.rep {
	case repDirectAddress:
		return v.aux, nil
	case repDerivedAddress:
		p := (*addressPayload)(v.ptr)
		path := make([]uint32, len(p.path))
		copy(path, p.path)
		return p.objectID, path
	}
	panic("symbolic: AddressValue called on incompatible value form")
}
