package symbolic

import (
	"math"
	"math/big"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"carbide/constexpr-go/pkg/arena"
	"carbide/constexpr-go/pkg/diag"
	"carbide/constexpr-go/pkg/ir"
)

func mkLoc(file string, line, col int) diag.SourceLocation {
	return diag.SourceLocation{File: file, Line: line, Column: col}
}

func TestValueIsTwoWords(t *testing.T) {
	if got, want := unsafe.Sizeof(Value{}), 2*unsafe.Sizeof(uintptr(0)); got != want {
		t.Fatalf("Value is %d bytes, want %d", got, want)
	}
}

func TestKindMappingTotality(t *testing.T) {
	a := arena.New()
	defer a.Release()

	node := ir.IntLit64(1)
	cases := []struct {
		value    Value
		kind     Kind
		constant bool
	}{
		{MakeUninitMemory(), KindUninitMemory, false},
		{MakeUnknown(node, ReasonDefault), KindUnknown, false},
		{MakeMetatype(&ir.TypeDesc{Name: "Int64"}), KindMetatype, true},
		{MakeFunction(&ir.Function{Name: "fold"}), KindFunction, true},
		{MakeInstNode(ir.IntLit64(7)), KindInteger, true},
		{MakeInstNode(ir.FloatLit(math.Float64bits(1.5))), KindFloat, true},
		{MakeInstNode(ir.StrLit("lit")), KindString, true},
		{MakeInteger(big.NewInt(42), 32, a), KindInteger, true},
		{MakeFloat64(2.5, a), KindFloat, true},
		{MakeString("hello", a), KindString, true},
		{MakeAggregate(nil, a), KindAggregate, true},
		{MakeEnum(&ir.EnumCase{Enum: "Ordering", Name: "less"}), KindEnum, true},
		{MakeEnumWithPayload(&ir.EnumCase{Enum: "Optional", Name: "some"}, MakeInteger(big.NewInt(1), 8, a), a), KindEnumWithPayload, true},
		{MakeAddress(3), KindAddress, true},
		{MakeAddressWithPath(3, []uint32{0, 1}, a), KindAddress, true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.kind, tc.value.Kind())
		require.Equal(t, tc.constant, tc.value.IsConstant(), "IsConstant for %s", tc.kind)
	}
}

func TestUnknownRoundTrip(t *testing.T) {
	node := ir.IntLit64(9)
	v := MakeUnknown(node, ReasonOverflow)
	gotNode, gotReason := v.UnknownValue()
	require.Same(t, node, gotNode)
	require.Equal(t, ReasonOverflow, gotReason)
	require.True(t, v.IsUnknown())

	require.Panics(t, func() { MakeUnknown(nil, ReasonDefault) })
	require.Panics(t, func() { MakeUninitMemory().UnknownValue() })
}

func TestReferenceForms(t *testing.T) {
	ty := &ir.TypeDesc{Name: "String"}
	fn := &ir.Function{Name: "concat"}

	require.Same(t, ty, MakeMetatype(ty).MetatypeValue())
	require.Same(t, fn, MakeFunction(fn).FunctionValue())

	require.Panics(t, func() { MakeMetatype(nil) })
	require.Panics(t, func() { MakeFunction(nil) })
	require.Panics(t, func() { MakeFunction(fn).MetatypeValue() })
}

func TestInstNodeRequiresLiteral(t *testing.T) {
	require.Panics(t, func() { MakeInstNode(nil) })
	require.Panics(t, func() { MakeInstNode(&ir.Node{Op: ir.OpCall, Name: "f"}) })

	lit := ir.StrLit("abc")
	v := MakeInstNode(lit)
	require.Same(t, lit, v.InstNode())
	require.Equal(t, "abc", v.StringValue())
	require.Nil(t, MakeUninitMemory().InstNode())
}

func TestIntegerRoundTrip(t *testing.T) {
	a := arena.New()
	defer a.Release()

	for _, tc := range []struct {
		value *big.Int
		width uint
	}{
		{big.NewInt(0), 1},
		{big.NewInt(1), 8},
		{big.NewInt(-1), 8},
		{big.NewInt(127), 8},
		{big.NewInt(-128), 8},
		{big.NewInt(1 << 30), 37},
		{new(big.Int).Lsh(big.NewInt(1), 100), 128},
		{new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 100)), 128},
		{big.NewInt(math.MaxInt64), 64},
		{big.NewInt(math.MinInt64), 64},
	} {
		v := MakeInteger(tc.value, tc.width, a)
		require.Equal(t, tc.width, v.IntegerBitWidth())
		require.Zero(t, tc.value.Cmp(v.IntegerValue()),
			"width %d value %s got %s", tc.width, tc.value, v.IntegerValue())
	}
}

func TestIntegerLiteralNodeResolves(t *testing.T) {
	v := MakeInstNode(ir.IntLit(big.NewInt(-5), 16))
	require.Equal(t, uint(16), v.IntegerBitWidth())
	require.Zero(t, big.NewInt(-5).Cmp(v.IntegerValue()))
}

func TestFloatRoundTrip(t *testing.T) {
	a := arena.New()
	defer a.Release()

	// Quiet NaN with a payload, signaling-style payload, signed zeros.
	patterns := []uint64{
		math.Float64bits(0.0),
		math.Float64bits(math.Copysign(0, -1)),
		math.Float64bits(math.Inf(1)),
		math.Float64bits(math.Inf(-1)),
		0x7ff8000000000001,
		0x7ff0000000000042,
		math.Float64bits(3.14159),
	}
	for _, bits := range patterns {
		v := MakeFloat(FloatDouble, []uint64{bits}, a)
		format, limbs := v.FloatValue()
		require.Equal(t, FloatDouble, format)
		require.Equal(t, []uint64{bits}, limbs)
	}

	quad := MakeFloat(FloatQuad, []uint64{0xdeadbeefcafebabe, 0x3fff000000000000}, a)
	format, limbs := quad.FloatValue()
	require.Equal(t, FloatQuad, format)
	require.Equal(t, []uint64{0xdeadbeefcafebabe, 0x3fff000000000000}, limbs)

	half := MakeFloat(FloatHalf, []uint64{0xffff_3c00}, a)
	_, limbs = half.FloatValue()
	require.Equal(t, []uint64{0x3c00}, limbs, "bits beyond the format width are cleared")

	require.Equal(t, 2.5, MakeFloat64(2.5, a).Float64Value())
	require.Panics(t, func() { MakeFloat(FloatDouble, []uint64{1, 2}, a) })
	require.Panics(t, func() { half.Float64Value() })
}

func TestStringRoundTrip(t *testing.T) {
	a := arena.New()
	defer a.Release()

	for _, s := range []string{"", "hello", "\x00\xff raw bytes", "héllo \U0001F600"} {
		require.Equal(t, s, MakeString(s, a).StringValue())
	}
	require.Panics(t, func() { MakeUninitMemory().StringValue() })
}

func TestAggregateOrderPreserved(t *testing.T) {
	a := arena.New()
	defer a.Release()

	empty := MakeAggregate(nil, a)
	require.Empty(t, empty.AggregateValue())

	elems := []Value{
		MakeInteger(big.NewInt(1), 8, a),
		MakeString("two", a),
		MakeFloat64(3.0, a),
	}
	agg := MakeAggregate(elems, a)
	got := agg.AggregateValue()
	require.Len(t, got, 3)
	for i := range elems {
		require.True(t, elems[i].Equal(got[i]), "element %d reordered", i)
	}

	// The payload is a copy; mutating the input after construction is inert.
	elems[0] = MakeString("mutated", a)
	require.Equal(t, KindInteger, agg.AggregateValue()[0].Kind())
}

func TestAggregateWithUnknownElement(t *testing.T) {
	a := arena.New()
	defer a.Release()

	node := ir.At(ir.IntLit64(1), mkLoc("fold.src", 4, 2))
	agg := MakeAggregate([]Value{
		MakeInteger(big.NewInt(5), 32, a),
		MakeUnknown(node, ReasonOverflow),
		MakeInteger(big.NewInt(7), 32, a),
	}, a)

	require.Equal(t, KindAggregate, agg.Kind())
	require.True(t, agg.IsConstant())

	elem := agg.AggregateValue()[1]
	require.Equal(t, KindUnknown, elem.Kind())
	_, reason := elem.UnknownValue()
	require.Equal(t, ReasonOverflow, reason)
}

func TestEnumForms(t *testing.T) {
	a := arena.New()
	defer a.Release()

	none := &ir.EnumCase{Enum: "Optional", Name: "none"}
	some := &ir.EnumCase{Enum: "Optional", Name: "some", Index: 1}

	bare := MakeEnum(none)
	require.Same(t, none, bare.EnumValue())
	require.Panics(t, func() { bare.EnumPayloadValue() })

	payload := MakeInteger(big.NewInt(3), 64, a)
	wrapped := MakeEnumWithPayload(some, payload, a)
	require.Same(t, some, wrapped.EnumValue())
	require.True(t, payload.Equal(wrapped.EnumPayloadValue()))

	require.Panics(t, func() { MakeEnum(nil) })
	require.Panics(t, func() {
		MakeEnumWithPayload(some, MakeUnknown(ir.IntLit64(0), ReasonDefault), a)
	})
	require.Panics(t, func() { MakeEnumWithPayload(some, MakeUninitMemory(), a) })
}

func TestAddressForms(t *testing.T) {
	a := arena.New()
	defer a.Release()

	direct := MakeAddress(11)
	id, path := direct.AddressValue()
	require.Equal(t, uint32(11), id)
	require.Empty(t, path)
	require.Equal(t, uint32(11), direct.AddressObjectID())

	// Empty explicit path is indistinguishable from the direct form.
	viaEmpty := MakeAddressWithPath(11, nil, a)
	require.Equal(t, direct, viaEmpty)

	derived := MakeAddressWithPath(11, []uint32{2, 0, 1}, a)
	id, path = derived.AddressValue()
	require.Equal(t, uint32(11), id)
	require.Equal(t, []uint32{2, 0, 1}, path)
	require.Equal(t, uint32(11), derived.AddressObjectID())

	require.Panics(t, func() { MakeUninitMemory().AddressObjectID() })
}
