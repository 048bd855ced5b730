// Package symbolic implements the value domain of the compile-time constant
// evaluator: a small, copyable tagged value the evaluator stores by-copy in
// its environments while folding constants over the IR.
//
// A Value supports several internal storage forms for the same sort of value
// to avoid memory bloat and copying; externally it exposes the coarser Kind
// taxonomy. Values never own heap memory themselves: every heap-backed form
// points into an arena owned by the surrounding evaluation scope, so copying
// a Value is always a two-word copy and never allocates.
package symbolic

import (
	"unsafe"

	"carbide/constexpr-go/pkg/ir"
)

// representation is the internal storage form of a Value. Several forms
// collapse to one public Kind.
type representation uint8

const (
	// repUninitMemory is a storage location never written by the program.
	repUninitMemory representation = iota

	// repUnknown is a value the evaluator could not determine. Carries the
	// offending node and an UnknownReason.
	repUnknown

	// repMetatype is a direct type-descriptor reference.
	repMetatype

	// repFunction is a direct callable reference.
	repFunction

	// repInstNode is a still-unevaluated literal-producing node. Its public
	// Kind depends on the node's opcode.
	repInstNode

	// repInteger is an arena-backed two's-complement integer of any width.
	repInteger

	// repFloat is an arena-backed float bit pattern of any supported format.
	repFloat

	// repString is an arena-backed UTF-8 byte buffer.
	repString

	// repAggregate is an arena-backed ordered sequence of Values.
	repAggregate

	// repEnum is a payload-less enum case selector.
	repEnum

	// repEnumWithPayload is a case selector plus one nested constant Value.
	repEnumWithPayload

	// repDirectAddress is an object-id address with no access path.
	repDirectAddress

	// repDerivedAddress is an object-id address refined by a non-empty
	// access path, stored in one arena allocation.
	repDerivedAddress
)

// Kind is the public classification of a Value, independent of its internal
// storage form.
type Kind int

const (
	KindUnknown Kind = iota
	KindMetatype
	KindFunction
	KindInteger
	KindFloat
	KindString
	KindAggregate
	KindEnum
	KindEnumWithPayload
	KindAddress
	KindUninitMemory
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindMetatype:
		return "metatype"
	case KindFunction:
		return "function"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindAggregate:
		return "aggregate"
	case KindEnum:
		return "enum"
	case KindEnumWithPayload:
		return "enum_with_payload"
	case KindAddress:
		return "address"
	case KindUninitMemory:
		return "uninit_memory"
	default:
		return "invalid_kind"
	}
}

// UnknownReason says why the evaluator failed to fold a value. The set is
// closed; the diagnostic layer translates, it never extends.
type UnknownReason uint32

const (
	// ReasonDefault is the catch-all for failures with no finer
	// classification. Prefer a specific reason where one exists.
	ReasonDefault UnknownReason = iota

	// ReasonTooManyInstructions means the evaluation budget was exceeded.
	ReasonTooManyInstructions

	// ReasonLoop means non-terminating control flow was detected.
	ReasonLoop

	// ReasonOverflow means arithmetic overflow occurred during evaluation.
	ReasonOverflow

	// ReasonTrap means an unconditional runtime-fault instruction was
	// reached.
	ReasonTrap
)

func (r UnknownReason) String() string {
	switch r {
	case ReasonDefault:
		return "default"
	case ReasonTooManyInstructions:
		return "too_many_instructions"
	case ReasonLoop:
		return "loop"
	case ReasonOverflow:
		return "overflow"
	case ReasonTrap:
		return "trap"
	default:
		return "invalid_reason"
	}
}

// Value is the symbolic value tracked for each IR value in an evaluation
// scope. It is exactly two machine words: a discriminant plus auxiliary
// scalar in one word, and a payload pointer in the other. The pointer is
// always the concrete type selected by rep, checked at every access; only
// factories construct Values, so the pairing cannot drift.
//
// Values are immutable after construction and freely copyable. They do not
// own the memory they point at; see the arena package for lifetime rules.
type Value struct {
	rep representation
	aux uint32
	ptr unsafe.Pointer
}

// Kind returns the public classification of this value.
func (v Value) Kind() Kind {
	switch v.rep {
	case repUninitMemory:
		return KindUninitMemory
	case repUnknown:
		return KindUnknown
	case repMetatype:
		return KindMetatype
	case repFunction:
		return KindFunction
	case repInstNode:
		switch v.instNode().Op {
		case ir.OpIntegerLiteral:
			return KindInteger
		case ir.OpFloatLiteral:
			return KindFloat
		case ir.OpStringLiteral:
			return KindString
		}
		panic("symbolic: non-literal node form")
	case repInteger:
		return KindInteger
	case repFloat:
		return KindFloat
	case repString:
		return KindString
	case repAggregate:
		return KindAggregate
	case repEnum:
		return KindEnum
	case repEnumWithPayload:
		return KindEnumWithPayload
	case repDirectAddress, repDerivedAddress:
		return KindAddress
	default:
		panic("symbolic: invalid representation")
	}
}

// IsConstant reports whether this value is fully determined.
func (v Value) IsConstant() bool {
	k := v.Kind()
	return k != KindUnknown && k != KindUninitMemory
}

// IsUnknown reports whether this value could not be determined.
func (v Value) IsUnknown() bool {
	return v.Kind() == KindUnknown
}

func (v Value) require(rep representation, accessor string) {
	if v.rep != rep {
		panic("symbolic: " + accessor + " called on incompatible value form")
	}
}

//-----------------------------------------------------------------------------
// Sentinels and direct reference forms
//-----------------------------------------------------------------------------

// MakeUnknown builds the indeterminate value, recording the node that could
// not be folded and the reason. The node must be present.
func MakeUnknown(node *ir.Node, reason UnknownReason) Value {
	if node == nil {
		panic("symbolic: MakeUnknown requires a node")
	}
	return Value{rep: repUnknown, aux: uint32(reason), ptr: unsafe.Pointer(node)}
}

// UnknownValue returns the offending node and the failure reason.
func (v Value) UnknownValue() (*ir.Node, UnknownReason) {
	v.require(repUnknown, "UnknownValue")
	return (*ir.Node)(v.ptr), UnknownReason(v.aux)
}

// MakeUninitMemory builds the sentinel for a never-written storage location.
func MakeUninitMemory() Value {
	return Value{rep: repUninitMemory}
}

// MakeMetatype builds a type-descriptor reference value.
func MakeMetatype(t *ir.TypeDesc) Value {
	if t == nil {
		panic("symbolic: MakeMetatype requires a type descriptor")
	}
	return Value{rep: repMetatype, ptr: unsafe.Pointer(t)}
}

// MetatypeValue returns the referenced type descriptor.
func (v Value) MetatypeValue() *ir.TypeDesc {
	v.require(repMetatype, "MetatypeValue")
	return (*ir.TypeDesc)(v.ptr)
}

// MakeFunction builds a callable reference value.
func MakeFunction(fn *ir.Function) Value {
	if fn == nil {
		panic("symbolic: MakeFunction requires a function")
	}
	return Value{rep: repFunction, ptr: unsafe.Pointer(fn)}
}

// FunctionValue returns the referenced callable.
func (v Value) FunctionValue() *ir.Function {
	v.require(repFunction, "FunctionValue")
	return (*ir.Function)(v.ptr)
}

// MakeInstNode wraps a literal-producing node without materializing its
// constant. The node's opcode decides the public Kind; the scalar accessors
// materialize from the node payload on demand.
func MakeInstNode(n *ir.Node) Value {
	if n == nil {
		panic("symbolic: MakeInstNode requires a node")
	}
	if !n.Op.IsLiteral() {
		panic("symbolic: MakeInstNode requires a literal-producing node")
	}
	return Value{rep: repInstNode, ptr: unsafe.Pointer(n)}
}

// InstNode returns the wrapped literal-producing node, or nil when the value
// uses any other form.
func (v Value) InstNode() *ir.Node {
	if v.rep != repInstNode {
		return nil
	}
	return v.instNode()
}

func (v Value) instNode() *ir.Node {
	return (*ir.Node)(v.ptr)
}
