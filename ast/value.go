package ast

import (
	"fmt"
	"strings"
)

// ValueKind tags the payload carried by a Value.
type ValueKind int

const (
	VInt    ValueKind = iota // 64-bit signed integer
	VStr                     // pointer to a Go string (stands in for the original's NUL-terminated string+length)
	VFun                     // callable built-in
	VTab                     // opaque table/map value (see the `map` builtin)
	VPtr                     // generic pointer payload, unused by current primitives
	VFloat                   // double-precision float
	VSym                     // symbol reference, unused by current primitives
	VVar                     // variable reference, unused by current primitives
	VPInt                    // pointer-to-int, unused by current primitives
	VPFloat                  // pointer-to-float, unused by current primitives
	VVoid                    // no value
	VShort                   // short integer, unused by current primitives
	VQuad                    // quad-word, unused by current primitives
	VBin                     // binary blob, unused by current primitives
)

// Value is the tagged union every Node's value slot (and every Symbol's
// bound value) carries. Only VInt, VStr and VFloat (literals and
// arithmetic) and VTab (the map builtin) are produced by the current
// parser and primitives; the remaining kinds exist so the enum mirrors
// the original data model in full.
type Value struct {
	Kind ValueKind
	Num  int64       // valid when Kind == VInt
	FNum float64     // valid when Kind == VFloat
	Str  string      // valid when Kind == VStr
	Tab  []Value     // valid when Kind == VTab
	Any  interface{} // escape hatch for VFun/VPtr/etc. payloads
}

// Format renders v the way the interpreter's print primitives do.
// quote selects the style used for strings: quote=false renders the bare
// string (as println does); quote=true renders it double-quoted (as the
// AST/CFG graph emitters do for readability).
func (v Value) Format(quote bool) string {
	switch v.Kind {
	case VInt:
		return fmt.Sprintf("%d", v.Num)
	case VFloat:
		return fmt.Sprintf("%g", v.FNum)
	case VStr:
		if quote {
			return fmt.Sprintf("%q", v.Str)
		}
		return v.Str
	case VTab:
		parts := make([]string, len(v.Tab))
		for i, e := range v.Tab {
			parts[i] = e.Format(quote)
		}
		return "map[" + strings.Join(parts, " ") + "]"
	default:
		return ""
	}
}
