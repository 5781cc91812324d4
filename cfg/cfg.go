// Package cfg lowers a parsed AST into a control-flow graph overlay: it
// populates each node's Start/SNext/Next fields in place (no new node
// storage except one synthesized COND_BRANCH per control-flow decision)
// and records the program's entry points.
package cfg

import "github.com/mvezie/gi/ast"

// Builder walks an AST and threads its CFG fields. A Builder holds no
// state aside from the shared counter/symbol table needed to
// synthesize COND_BRANCH nodes and the Entries it accumulates, so the
// same Builder may lower many trees (e.g. once per Eval call sharing
// one interpreter's symbols).
type Builder struct {
	syms *ast.SymbolTable
	nc   *ast.Counter

	// Entries accumulates the start node of every tree lowered by this
	// Builder, in lowering order. interp's Eval runs only the entry of
	// the tree it just lowered (or that tree's `func main` body);
	// interp's RunAll runs all of them.
	Entries []*ast.Node
}

// NewBuilder returns a Builder resolving the synthesized COND_BRANCH
// node's symbol ("CB") against syms and numbering it from nc. Both are
// normally the same SymbolTable/Counter the Parser used, since CFG
// lowering runs after parsing completes but still allocates node
// numbers from the same sequence.
func NewBuilder(syms *ast.SymbolTable, nc *ast.Counter) *Builder {
	return &Builder{syms: syms, nc: nc}
}

// Build lowers root's subtree in place and appends root.Start to
// Entries.
func (b *Builder) Build(root *ast.Node) {
	root.Walk(nil, b.cfgOut)
	b.Entries = append(b.Entries, root.Start)
}

func (b *Builder) addCondBranch(cond *ast.Node) *ast.Node {
	sym, _ := b.syms.Lookup("CB")
	pv := cond.PV
	if pv == nil {
		// An omitted FOR condition (`for init;; post`) parses to an empty
		// placeholder statement with no value slot of its own; treat it
		// as always-true, matching Go's own `for ;; {}` infinite loop.
		pv = &ast.Value{Kind: ast.VInt, Num: ast.True}
	}
	n := &ast.Node{Num: b.nc.Next(), Kind: ast.CondBranch, Sym: sym, PV: pv}
	if sym != nil {
		n.F = sym.Interp
	}
	return n
}

// cfgOut is the postorder visitor threading start/snext/next for a
// single node, assuming its children have already been lowered.
func (b *Builder) cfgOut(n *ast.Node) {
	switch n.Kind {
	case ast.Fun, ast.Op, ast.Ops, ast.SL, ast.Local, ast.Return:
		b.linearize(n)
	case ast.If:
		b.lowerIf(n)
	case ast.While:
		b.lowerWhile(n)
	case ast.For:
		b.lowerFor(n)
	case ast.Namespace, ast.Def:
		// A package declaration or function definition is its own CFG
		// vertex but never falls through into its own children: `package`
		// doesn't re-run its name, and `func` bodies only run when
		// reached through the func-main entry-point resolution (see
		// interp.mainEntry), not by falling into them positionally.
		n.Start = n
	default:
		// TERM, VAR, BREAK and CONTINUE need no CFG fields of their own.
	}
}

// linearize threads a node whose children execute strictly in order
// (a function call's arguments, an operator's operands, a statement
// list's statements): the node's own Start is its first non-leaf
// child's Start (or itself, if every child is a leaf), each non-leaf
// child's SNext chains to the next non-leaf child's Start (leaves have
// nothing to run and are skipped), and the last non-leaf child's SNext
// returns control to the node itself so its primitive can run after
// all children have.
func (b *Builder) linearize(n *ast.Node) {
	for _, c := range n.Child {
		if !c.Kind.IsLeaf() {
			n.Start = c.Start
			break
		}
	}
	if n.Start == nil {
		n.Start = n
	}
	var prev *ast.Node
	for _, c := range n.Child {
		if c.Kind.IsLeaf() {
			continue
		}
		if prev != nil {
			prev.SNext = c.Start
		}
		prev = c
	}
	if prev != nil {
		prev.SNext = n
	}
}

// entryOr returns sub's own Start if sub is a non-leaf subtree with
// primitives to run, or fallback if sub is a bare leaf (TERM/VAR) with
// nothing to execute before its value is already available through its
// PV: control should skip straight to whatever would normally run next.
func entryOr(sub, fallback *ast.Node) *ast.Node {
	if sub.Start != nil {
		return sub.Start
	}
	return fallback
}

func (b *Builder) lowerIf(n *ast.Node) {
	cond, then := n.Child[0], n.Child[1]
	then.SNext = n
	var els *ast.Node
	if len(n.Child) == 3 {
		els = n.Child[2]
		els.SNext = n
	}
	cb := b.addCondBranch(cond)
	n.Start = entryOr(cond, cb)
	cond.SNext = cb
	cb.Next[ast.True] = entryOr(then, n)
	if els != nil {
		cb.Next[ast.False] = entryOr(els, n)
	} else {
		cb.Next[ast.False] = n
	}
}

func (b *Builder) lowerWhile(n *ast.Node) {
	cond, body := n.Child[0], n.Child[1]
	cb := b.addCondBranch(cond)
	n.Start = entryOr(cond, cb)
	body.SNext = n.Start
	cond.SNext = cb
	cb.Next[ast.True] = entryOr(body, n.Start)
	cb.Next[ast.False] = n
}

func (b *Builder) lowerFor(n *ast.Node) {
	init, cond, post, body := n.Child[0], n.Child[1], n.Child[2], n.Child[3]
	cb := b.addCondBranch(cond)
	condStart := entryOr(cond, cb)
	n.Start = entryOr(init, condStart)
	init.SNext = condStart
	cond.SNext = cb
	cb.Next[ast.False] = n
	post.SNext = condStart
	body.SNext = entryOr(post, condStart)
	cb.Next[ast.True] = entryOr(body, body.SNext)
}
