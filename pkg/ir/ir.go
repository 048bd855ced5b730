// Package ir defines the slice of the intermediate representation the
// symbolic value core needs to reference: literal-producing nodes, callable
// references, enum case selectors, and type descriptors. The full IR belongs
// to the surrounding compiler; values only hold opaque pointers into it.
package ir

import (
	"fmt"
	"math/big"

	"carbide/constexpr-go/pkg/diag"
)

// Op identifies what a node computes.
type Op uint8

const (
	OpInvalid Op = iota
	OpIntegerLiteral
	OpFloatLiteral
	OpStringLiteral
	OpCall
	OpBuiltin
	OpBranch
	OpTrap
)

func (op Op) String() string {
	switch op {
	case OpIntegerLiteral:
		return "integer_literal"
	case OpFloatLiteral:
		return "float_literal"
	case OpStringLiteral:
		return "string_literal"
	case OpCall:
		return "call"
	case OpBuiltin:
		return "builtin"
	case OpBranch:
		return "branch"
	case OpTrap:
		return "trap"
	default:
		return fmt.Sprintf("op_%d", uint8(op))
	}
}

// IsLiteral reports whether the node op produces a constant scalar directly.
func (op Op) IsLiteral() bool {
	switch op {
	case OpIntegerLiteral, OpFloatLiteral, OpStringLiteral:
		return true
	default:
		return false
	}
}

// Node is one IR instruction or value-producing node. Literal payload fields
// are populated according to Op; the rest of the node structure is owned by
// the surrounding compiler and irrelevant here.
type Node struct {
	Op   Op
	Loc  diag.SourceLocation
	Name string

	// Literal payloads.
	IntVal    *big.Int // OpIntegerLiteral
	IntWidth  uint     // OpIntegerLiteral, bits
	FloatBits uint64   // OpFloatLiteral, IEEE-754 double pattern
	StrVal    string   // OpStringLiteral
}

func (n *Node) String() string {
	if n == nil {
		return "<nil node>"
	}
	switch n.Op {
	case OpIntegerLiteral:
		return fmt.Sprintf("%s %s : i%d", n.Op, n.IntVal, n.IntWidth)
	case OpStringLiteral:
		return fmt.Sprintf("%s %q", n.Op, n.StrVal)
	default:
		if n.Name != "" {
			return fmt.Sprintf("%s %s", n.Op, n.Name)
		}
		return n.Op.String()
	}
}

// IntLit builds an integer literal node of the given bit width.
func IntLit(x *big.Int, width uint) *Node {
	return &Node{Op: OpIntegerLiteral, IntVal: new(big.Int).Set(x), IntWidth: width}
}

// IntLit64 builds a 64-bit integer literal node.
func IntLit64(x int64) *Node {
	return IntLit(big.NewInt(x), 64)
}

// FloatLit builds a double-precision float literal node.
func FloatLit(bits uint64) *Node {
	return &Node{Op: OpFloatLiteral, FloatBits: bits}
}

// StrLit builds a string literal node.
func StrLit(s string) *Node {
	return &Node{Op: OpStringLiteral, StrVal: s}
}

// At annotates the node with a source location and returns it.
func At(n *Node, loc diag.SourceLocation) *Node {
	n.Loc = loc
	return n
}

// Function is a reference to a callable.
type Function struct {
	Name string
	Loc  diag.SourceLocation
}

func (f *Function) String() string {
	if f == nil {
		return "<nil function>"
	}
	return f.Name
}

// EnumCase selects one case of an enum declaration.
type EnumCase struct {
	Enum  string
	Name  string
	Index int
}

// QualifiedName renders the case as Enum.Name.
func (c *EnumCase) QualifiedName() string {
	if c == nil {
		return "<nil case>"
	}
	if c.Enum == "" {
		return c.Name
	}
	return c.Enum + "." + c.Name
}

// TypeDesc describes a type for metatype values.
type TypeDesc struct {
	Name string
}

func (t *TypeDesc) String() string {
	if t == nil {
		return "<nil type>"
	}
	return t.Name
}
