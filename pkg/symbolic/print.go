package symbolic

import (
	"fmt"
	"io"
	"os"
	"strings"

	"carbide/constexpr-go/pkg/diag"
)

// String renders the value on one line. Deterministic for a given value.
func (v Value) String() string {
	var sb strings.Builder
	v.Print(&sb, 0)
	return strings.TrimSuffix(sb.String(), "\n")
}

// Print writes an indented rendering of the value. Aggregates and enum
// payloads nest one level per indent step.
func (v Value) Print(w io.Writer, indent int) {
	pad := strings.Repeat("  ", indent)
	switch v.rep {
	case repUninitMemory:
		fmt.Fprintf(w, "%suninit_memory\n", pad)
	case repUnknown:
		node, reason := v.UnknownValue()
		fmt.Fprintf(w, "%sunknown(%s): %s\n", pad, reason, node)
	case repMetatype:
		fmt.Fprintf(w, "%smetatype $%s\n", pad, v.MetatypeValue())
	case repFunction:
		fmt.Fprintf(w, "%sfn @%s\n", pad, v.FunctionValue())
	case repInstNode:
		fmt.Fprintf(w, "%sinst %s\n", pad, v.instNode())
	case repInteger:
		fmt.Fprintf(w, "%sint<%d> %s\n", pad, v.IntegerBitWidth(), v.IntegerValue())
	case repFloat:
		format, limbs := v.FloatValue()
		fmt.Fprintf(w, "%s%s 0x", pad, format)
		for i := len(limbs) - 1; i >= 0; i-- {
			fmt.Fprintf(w, "%016x", limbs[i])
		}
		fmt.Fprintln(w)
	case repString:
		fmt.Fprintf(w, "%sstring %q\n", pad, v.StringValue())
	case repAggregate:
		elems := v.AggregateValue()
		fmt.Fprintf(w, "%saggregate [%d]\n", pad, len(elems))
		for _, e := range elems {
			e.Print(w, indent+1)
		}
	case repEnum:
		fmt.Fprintf(w, "%senum %s\n", pad, v.EnumValue().QualifiedName())
	case repEnumWithPayload:
		fmt.Fprintf(w, "%senum %s, payload:\n", pad, v.EnumValue().QualifiedName())
		v.EnumPayloadValue().Print(w, indent+1)
	case repDirectAddress:
		fmt.Fprintf(w, "%saddress[%d]\n", pad, v.aux)
	case repDerivedAddress:
		id, path := v.AddressValue()
		fmt.Fprintf(w, "%saddress[%d] path %v\n", pad, id, path)
	default:
		panic("symbolic: Print over invalid representation")
	}
}

// Dump prints the value to stderr.
func (v Value) Dump() {
	v.Print(os.Stderr, 0)
}

// EmitUnknownDiagnosticNotes reports why this value could not be folded.
// The offending node's own location is used when it has one, otherwise the
// caller-supplied fallback. Requires the Unknown form.
func (v Value) EmitUnknownDiagnosticNotes(fallback diag.SourceLocation, r diag.Reporter) {
	node, reason := v.UnknownValue()
	loc := node.Loc
	if !loc.IsValid() {
		loc = fallback
	}
	switch reason {
	case ReasonTooManyInstructions:
		r.Note(loc, "constant expression exceeded the evaluation budget")
	case ReasonLoop:
		r.Note(loc, "control flow loop found during constant folding")
	case ReasonOverflow:
		r.Note(loc, "integer overflow detected during constant folding")
	case ReasonTrap:
		r.Note(loc, "trap reached during constant folding")
	default:
		r.Note(loc, "could not fold operation: %s", node)
	}
}
