package symbolic

import (
	"carbide/constexpr-go/pkg/arena"
)

// CloneInto deep-copies every arena-owned payload reachable from this value
// into target, returning a value valid for at least target's lifetime. Forms
// that reference no arena memory are returned by plain copy. Cloning a
// non-constant value is a contract violation: sentinels own nothing and
// should be propagated by plain copy instead.
func (v Value) CloneInto(target *arena.Arena) Value {
	if !v.IsConstant() {
		panic("symbolic: CloneInto requires a constant value")
	}
	switch v.rep {
	case repMetatype, repFunction, repInstNode, repEnum, repDirectAddress:
		return v
	case repInteger:
		return MakeInteger(v.IntegerValue(), v.IntegerBitWidth(), target)
	case repFloat:
		format, limbs := v.FloatValue()
		return MakeFloat(format, limbs, target)
	case repString:
		return MakeString(v.StringValue(), target)
	case repAggregate:
		elems := v.AggregateValue()
		cloned := make([]Value, len(elems))
		for i, e := range elems {
			if e.IsConstant() {
				cloned[i] = e.CloneInto(target)
			} else {
				// Unknown elements of a partially folded aggregate carry
				// only collaborator references; a word copy is complete.
				cloned[i] = e
			}
		}
		return MakeAggregate(cloned, target)
	case repEnumWithPayload:
		return MakeEnumWithPayload(v.EnumValue(), v.EnumPayloadValue().CloneInto(target), target)
	case repDerivedAddress:
		id, path := v.AddressValue()
		return MakeAddressWithPath(id, path, target)
	default:
		panic("symbolic: CloneInto over invalid representation")
	}
}
