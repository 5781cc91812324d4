// Package dot renders the AST and CFG as Graphviz "dot" graph
// descriptions, grounded on the original implementation's print_tree and
// print_flow: one node per line with a type/label attribute, ancestor
// edges for the AST view, true/false-colored control-flow edges for the
// CFG view.
package dot

import (
	"fmt"
	"strings"

	"github.com/mvezie/gi/ast"
)

// AST renders root's subtree as `digraph ast {...}`: one node per AST
// vertex, with an edge from each node's parent to the node.
func AST(root *ast.Node) string {
	var b strings.Builder
	b.WriteString("digraph ast {\n")
	root.Walk(func(n *ast.Node) {
		fmt.Fprintf(&b, "%d [type=%q, label=%q]\n", n.Num, n.Kind.String(), nodeLabel(n, false))
		if n.Anc != nil {
			fmt.Fprintf(&b, "%d -> %d\n", n.Anc.Num, n.Num)
		}
	}, nil)
	b.WriteString("}\n")
	return b.String()
}

// CFG renders the control-flow edges reachable from root's AST (the same
// tree CFG lowering annotated in place) as `digraph cfg {...}`. entries
// are colored red, mirroring the original's documented (but, in its own
// source, never actually populated) convention of marking thread start
// nodes; here entries should be cfg.Builder.Entries, which is the live
// equivalent.
func CFG(root *ast.Node, entries []*ast.Node) string {
	var b strings.Builder
	b.WriteString("digraph cfg {\n")
	root.Walk(func(n *ast.Node) {
		if skipInCFG(n.Kind) {
			return
		}
		fmt.Fprintf(&b, "%d [label=%q]\n", n.Num, cfgNodeLabel(n))
		next := n.SNext
		if next == nil {
			return
		}
		if next.Kind == ast.CondBranch {
			if next.Next[ast.True] != nil {
				fmt.Fprintf(&b, "%d -> %d [color=green]\n", n.Num, next.Next[ast.True].Num)
			}
			if next.Next[ast.False] != nil {
				fmt.Fprintf(&b, "%d -> %d [color=red]\n", n.Num, next.Next[ast.False].Num)
			}
			return
		}
		fmt.Fprintf(&b, "%d -> %d\n", n.Num, next.Num)
	}, nil)
	for _, e := range entries {
		if e != nil {
			fmt.Fprintf(&b, "%d [color=red]\n", e.Num)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// skipInCFG reports whether a node kind is never drawn as its own CFG
// vertex: leaves (TERM/VAR) are addressed only via their ancestor's
// label, and BREAK/CONTINUE carry no CFG wiring of their own in this
// port (cfg.Builder gives them no Start or SNext).
func skipInCFG(k ast.Kind) bool {
	return k.IsLeaf() || k == ast.Break || k == ast.Continue
}

// nodeLabel renders a single node's own text, without recursing into
// children: the node's value for a TERM, its kind name for an SL, its
// symbol's name for a VAR or any other named symbol, or "undefined" for
// a symbol-less node. With flow set, nodes other than TERM/SL/VAR render
// as just "$<num>".
func nodeLabel(n *ast.Node, flow bool) string {
	switch n.Kind {
	case ast.Term:
		if n.PV != nil {
			return fmt.Sprintf("%d: %s", n.Num, n.PV.Format(true))
		}
		return fmt.Sprintf("%d: ", n.Num)
	case ast.SL:
		return fmt.Sprintf("%d: %s", n.Num, n.Kind)
	case ast.Var:
		if n.Sym != nil {
			return fmt.Sprintf("%d: %s", n.Num, n.Sym.Name)
		}
		return fmt.Sprintf("%d: undefined", n.Num)
	default:
		if flow {
			return fmt.Sprintf("$%d", n.Num)
		}
		if n.Sym != nil {
			return fmt.Sprintf("%d: %s", n.Num, n.Sym.Name)
		}
		return fmt.Sprintf("%d: undefined", n.Num)
	}
}

// cfgNodeLabel renders a CFG vertex's full label: its own text plus, for
// an OP node, its first child's text prefixed (the left operand, printed
// before the operator itself, matching the original's layout), plus
// every other child's text.
func cfgNodeLabel(n *ast.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:", n.Num)
	start := 0
	if n.Kind == ast.Op && len(n.Child) > 0 {
		b.WriteString(" " + nodeLabel(n.Child[0], true))
		start = 1
	}
	b.WriteString(" " + nodeLabel(n, false))
	for i := start; i < len(n.Child); i++ {
		b.WriteString(" " + nodeLabel(n.Child[i], true))
	}
	return b.String()
}
