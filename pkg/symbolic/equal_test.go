package symbolic

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"carbide/constexpr-go/pkg/arena"
	"carbide/constexpr-go/pkg/ir"
)

func TestIntegerEqualityAndHash(t *testing.T) {
	a1 := arena.New()
	a2 := arena.New()
	defer a1.Release()
	defer a2.Release()

	x := MakeInteger(big.NewInt(1234), 32, a1)
	y := MakeInteger(big.NewInt(1234), 32, a2)
	require.True(t, x.Equal(y), "separately constructed identical integers")
	require.Equal(t, x.Hash(), y.Hash())

	oneBitOff := MakeInteger(big.NewInt(1235), 32, a1)
	require.False(t, x.Equal(oneBitOff))
	require.NotEqual(t, x.Hash(), oneBitOff.Hash())

	widerSameValue := MakeInteger(big.NewInt(1234), 64, a1)
	require.False(t, x.Equal(widerSameValue), "bit width is part of identity")
}

func TestNanPayloadEquality(t *testing.T) {
	a := arena.New()
	defer a.Release()

	nan1 := MakeFloat(FloatDouble, []uint64{0x7ff8000000000001}, a)
	nan1again := MakeFloat(FloatDouble, []uint64{0x7ff8000000000001}, a)
	nan2 := MakeFloat(FloatDouble, []uint64{0x7ff8000000000002}, a)

	require.True(t, nan1.Equal(nan1again))
	require.False(t, nan1.Equal(nan2), "NaN payload bits are part of identity")

	posZero := MakeFloat64(0.0, a)
	negZero := MakeFloat64(math.Copysign(0, -1), a)
	require.False(t, posZero.Equal(negZero), "zero sign is part of identity")
}

func TestStructuralEquality(t *testing.T) {
	a := arena.New()
	defer a.Release()

	some := &ir.EnumCase{Enum: "Optional", Name: "some"}
	build := func() Value {
		return MakeAggregate([]Value{
			MakeString("key", a),
			MakeEnumWithPayload(some, MakeInteger(big.NewInt(-9), 16, a), a),
			MakeAddressWithPath(4, []uint32{1, 2}, a),
		}, a)
	}
	v1, v2 := build(), build()
	require.True(t, v1.Equal(v2))
	require.Equal(t, v1.Hash(), v2.Hash())

	other := MakeAggregate([]Value{
		MakeString("key", a),
		MakeEnumWithPayload(some, MakeInteger(big.NewInt(-8), 16, a), a),
		MakeAddressWithPath(4, []uint32{1, 2}, a),
	}, a)
	require.False(t, v1.Equal(other))
}

func TestLiteralNodeEqualsFoldedConstant(t *testing.T) {
	a := arena.New()
	defer a.Release()

	node := MakeInstNode(ir.IntLit(big.NewInt(77), 32))
	folded := MakeInteger(big.NewInt(77), 32, a)
	require.True(t, node.Equal(folded))
	require.Equal(t, node.Hash(), folded.Hash())
}

func TestKindMismatchNeverEqual(t *testing.T) {
	a := arena.New()
	defer a.Release()

	require.False(t, MakeString("1", a).Equal(MakeInteger(big.NewInt(1), 8, a)))
	require.False(t, MakeUninitMemory().Equal(MakeUnknown(ir.IntLit64(0), ReasonDefault)))
	require.False(t, MakeAddress(1).Equal(MakeAddress(2)))
	require.False(t, MakeAddress(1).Equal(MakeAddressWithPath(1, []uint32{0}, a)))
}
