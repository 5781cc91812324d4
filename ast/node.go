// Package ast defines the node/symbol data model shared by the parser,
// CFG builder, tree-walk interpreter, JIT backend and diagnostic
// emitters, and implements the precedence-climbing parser itself.
package ast

// Kind enumerates AST/CFG node kinds. Kinds strictly less than Op denote
// "statement-level" productions that terminate an expression; kinds at
// Op or later may participate in expression trees. This ordering is
// load-bearing: Parser.parseStatement relies on it to decide when a
// freshly parsed node stops a statement outright.
type Kind int

const (
	Undef Kind = iota
	SL               // statement list
	If               // if [cond, then, else?]
	While            // while [cond, body]
	Break            // break
	Continue         // continue
	Def              // func definition [name, params, body]
	For              // for [init, cond, post, body]
	Return           // return [value]
	Local            // local declaration, introduces a lexical scope
	Map              // map(...) builtin literal construction
	Ops              // postfix unary operator, e.g. ++
	Op               // infix operator or prefix unary operator
	Term             // literal constant
	Var              // variable reference
	Fun              // callable built-in
	LVar             // reserved, mirrors the original's unused LVAR kind
	Array            // [...] literal
	CondBranch       // synthesized by CFG lowering
	Namespace        // package
)

var kindNames = [...]string{
	Undef: "UNDEF", SL: "SL", If: "IF", While: "WHILE", Break: "BREAK",
	Continue: "CONTINUE", Def: "DEF", For: "FOR", Return: "RETURN",
	Local: "LOCAL", Map: "MAP", Ops: "OPS", Op: "OP", Term: "TERM",
	Var: "VAR", Fun: "FUN", LVar: "LVAR", Array: "ARRAY",
	CondBranch: "COND_BRANCH", Namespace: "NAMESPACE",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "?"
	}
	return kindNames[k]
}

// IsLeaf reports whether a node of this kind never has CFG fields of its
// own; leaves are traversed only via their ancestor's child order.
func (k Kind) IsLeaf() bool { return k == Term || k == Var }

// Fn is the signature shared by every operator primitive, whether run by
// the tree-walk interpreter or compiled by the JIT backend: read the
// node's children's values, write the node's own value slot.
type Fn func(n *Node)

// Symbol is a named binding: a keyword, operator, or variable.
type Symbol struct {
	Name   string // symbol's unique name
	Kind   Kind   // node kind this symbol produces when parsed
	Prio   int    // operator precedence; higher binds tighter
	Interp Fn     // interpreter primitive, nil for pure syntax markers
	JIT    Fn     // JIT primitive, nil for pure syntax markers

	Value  Value // current runtime value, used by VAR symbols
	Assign *Node // node which last assigned this symbol; no parser or primitive sets it

	Reg int // JIT register slot; jit.Compile tracks registers in its own map and leaves this 0
}

// Node is an AST/CFG vertex. It is mutated by the parser during
// precedence restructuring and by the CFG builder (Start/SNext/Next);
// after CFG lowering the only field that still changes is a
// COND_BRANCH node's SNext, which its primitive sets at run time.
type Node struct {
	Anc   *Node   // unique ancestor, nil for the root
	Child []*Node // owned children, in source order

	Sym  *Symbol
	Kind Kind
	Num  int // unique ascending serial number, assigned at creation
	Prio int // operator precedence, copied from Sym at parse time

	Val Value  // the node's own value slot
	PV  *Value // resolves to &Val for literals/computed results, or &Sym.Value for variables
	F   Fn     // primitive copied from Sym at parse time

	visits int // traversal-local counter; unused, since Walk is recursive

	// CFG fields, populated by cfg.Build.
	Start *Node    // entry point of this subtree
	SNext *Node    // default successor
	Next  [2]*Node // indexed by False=0, True=1; only used on CondBranch nodes

	// JIT fields. jit.Compile keeps its labels and registers in its own
	// maps and leaves these unset.
	Label interface{} // opaque label/patch handle, owned by the jit package
	Reg   int          // register slot, owned by the jit package
}

const (
	False = 0
	True  = 1
)

// AppendChild appends child to anc's child list and sets child's
// ancestor, maintaining the anc/child invariant.
func AppendChild(anc, child *Node) {
	if child == nil {
		return
	}
	anc.Child = append(anc.Child, child)
	child.Anc = anc
}

// InsertChild inserts child at the front of anc's child list.
func InsertChild(anc, child *Node) {
	old := anc.Child
	anc.Child = nil
	AppendChild(anc, child)
	for _, c := range old {
		AppendChild(anc, c)
	}
}

// DeleteChild removes child from anc's child list.
func DeleteChild(anc, child *Node) {
	old := anc.Child
	anc.Child = nil
	for _, c := range old {
		if c != child {
			AppendChild(anc, c)
		}
	}
}

// Walk traverses n depth-first, invoking in on entry and out on exit of
// each node (either may be nil).
func (n *Node) Walk(in, out func(*Node)) {
	if n == nil {
		return
	}
	if in != nil {
		in(n)
	}
	for _, c := range n.Child {
		c.Walk(in, out)
	}
	if out != nil {
		out(n)
	}
}
