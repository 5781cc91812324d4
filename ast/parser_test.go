package ast

import (
	"testing"

	"github.com/mvezie/gi/scanner"
)

func newParser() (*Parser, *SymbolTable) {
	syms := NewSymbolTable()
	syms.Define("if", If, 0, Nop, Nop)
	syms.Define("else", Var, 0, Nop, Nop)
	syms.Define("for", For, 0, Nop, Nop)
	syms.Define("break", Break, 0, Nop, Nop)
	syms.Define("continue", Continue, 0, Nop, Nop)
	syms.Define("return", Return, 0, Nop, Nop)
	syms.Define("func", Def, 0, Nop, Nop)
	syms.Define("local", Local, 0, Nop, Nop)
	syms.Define("println", Fun, 0, Nop, Nop)

	syms.Define("=", Op, 1, Nop, Nop)
	syms.Define(":=", Op, 1, Nop, Nop)
	syms.Define("||", Op, 2, Nop, Nop)
	syms.Define("&&", Op, 3, Nop, Nop)
	syms.Define("==", Op, 4, Nop, Nop)
	syms.Define("<", Op, 4, Nop, Nop)
	syms.Define("+", Op, 5, Nop, Nop)
	syms.Define("-", Op, 5, Nop, Nop)
	syms.Define("*", Op, 6, Nop, Nop)
	syms.Define("/", Op, 6, Nop, Nop)
	syms.Define("++", Ops, 7, Nop, Nop)

	return NewParser(syms, &Counter{}), syms
}

func parse(t *testing.T, src string) *Node {
	t.Helper()
	p, _ := newParser()
	sc := scanner.New([]byte(src))
	return p.ParseStatementList(sc)
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3: root should be '+' with right child '2 * 3'.
	root := parse(t, "1 + 2 * 3")
	if len(root.Child) != 1 {
		t.Fatalf("SL: got %d statements, want 1", len(root.Child))
	}
	stmt := root.Child[0]
	if stmt.Kind != Op || stmt.Sym.Name != "+" {
		t.Fatalf("root = %v %q, want OP +", stmt.Kind, symName(stmt))
	}
	right := stmt.Child[1]
	if right.Kind != Op || right.Sym.Name != "*" {
		t.Fatalf("right child = %v %q, want OP *", right.Kind, symName(right))
	}
}

func TestParseChainedPrecedence(t *testing.T) {
	// a + b * c - d: per the spec's precedence property, root is the
	// last same-or-lower-priority operator, here '-'.
	root := parse(t, "a + b * c - d")
	stmt := root.Child[0]
	if stmt.Kind != Op || stmt.Sym.Name != "-" {
		t.Fatalf("root = %v %q, want OP -", stmt.Kind, symName(stmt))
	}
	if stmt.Child[0].Sym.Name != "+" {
		t.Fatalf("left child = %q, want +", symName(stmt.Child[0]))
	}
}

func TestParseParenOverridesPrecedence(t *testing.T) {
	root := parse(t, "(a + b) * c")
	stmt := root.Child[0]
	if stmt.Kind != Op || stmt.Sym.Name != "*" {
		t.Fatalf("root = %v %q, want OP *", stmt.Kind, symName(stmt))
	}
	if stmt.Child[0].Sym.Name != "+" {
		t.Fatalf("left child = %q, want +", symName(stmt.Child[0]))
	}
}

func TestParseAssignment(t *testing.T) {
	root := parse(t, "a := 1")
	stmt := root.Child[0]
	if stmt.Kind != Op || stmt.Sym.Name != ":=" {
		t.Fatalf("root = %v %q, want OP :=", stmt.Kind, symName(stmt))
	}
	if stmt.Child[0].Kind != Var {
		t.Fatalf("left child = %v, want VAR", stmt.Child[0].Kind)
	}
}

func TestParseIf(t *testing.T) {
	root := parse(t, "if a < 1 { b := 2 }")
	stmt := root.Child[0]
	if stmt.Kind != If {
		t.Fatalf("got %v, want IF", stmt.Kind)
	}
	if len(stmt.Child) != 2 {
		t.Fatalf("IF has %d children, want 2 (no else)", len(stmt.Child))
	}
	if stmt.Child[0].Sym.Name != "<" {
		t.Fatalf("cond = %q, want <", symName(stmt.Child[0]))
	}
	if stmt.Child[1].Kind != SL {
		t.Fatalf("then = %v, want SL", stmt.Child[1].Kind)
	}
}

func TestParseIfElse(t *testing.T) {
	root := parse(t, "if a < 1 { b := 2 } else { b := 3 }")
	stmt := root.Child[0]
	if len(stmt.Child) != 3 {
		t.Fatalf("IF has %d children, want 3 (with else)", len(stmt.Child))
	}
}

func TestParseFor(t *testing.T) {
	root := parse(t, "for i := 0; i < 10; i++ { println(i) }")
	stmt := root.Child[0]
	if stmt.Kind != For {
		t.Fatalf("got %v, want FOR", stmt.Kind)
	}
	if len(stmt.Child) != 4 {
		t.Fatalf("FOR has %d children, want 4", len(stmt.Child))
	}
}

func TestParseFunCall(t *testing.T) {
	root := parse(t, "println(1 + 2 * 3)")
	stmt := root.Child[0]
	if stmt.Kind != Fun {
		t.Fatalf("got %v, want FUN", stmt.Kind)
	}
	if len(stmt.Child) != 1 {
		t.Fatalf("FUN has %d children, want 1", len(stmt.Child))
	}
	if stmt.Child[0].Sym.Name != "+" {
		t.Fatalf("arg = %q, want +", symName(stmt.Child[0]))
	}
}

func TestParseMultipleStatements(t *testing.T) {
	root := parse(t, "a := 1; b := 2\nc := 3")
	if len(root.Child) != 3 {
		t.Fatalf("got %d statements, want 3", len(root.Child))
	}
}

// TestParseConsecutiveFunCallsBothSurvive guards against a lookahead bug
// where parseStatement's second-token probe (construct-then-discard, to
// check whether the token belongs to the next statement) consumed a
// FUN call's own trailing separator via nested Scan calls, clobbering
// the scanner's single-slot Unscan position and losing the next
// statement's leading token entirely.
func TestParseConsecutiveFunCallsBothSurvive(t *testing.T) {
	root := parse(t, "println(1); println(2)")
	if len(root.Child) != 2 {
		t.Fatalf("got %d statements, want 2 (println(1); println(2))", len(root.Child))
	}
	for i, want := range []int64{1, 2} {
		stmt := root.Child[i]
		if stmt.Kind != Fun {
			t.Fatalf("statement %d: got %v, want FUN", i, stmt.Kind)
		}
		if len(stmt.Child) != 1 || stmt.Child[0].Val.Num != want {
			t.Fatalf("statement %d: arg = %+v, want TERM %d", i, stmt.Child, want)
		}
	}
}

func TestParseEmptyStatementsSkipped(t *testing.T) {
	root := parse(t, ";;; a := 1 ;;;")
	if len(root.Child) != 1 {
		t.Fatalf("got %d statements, want 1", len(root.Child))
	}
}

func TestParseLocalShadowsOnlyWithinBlock(t *testing.T) {
	p, syms := newParser()
	sc := scanner.New([]byte("a := 1; if a < 1 { local a := 2; println(a) }; b := a"))
	root := p.ParseStatementList(sc)

	outerA, _ := syms.Lookup("a")
	ifStmt := root.Child[1]
	then := ifStmt.Child[1]
	localStmt := then.Child[0]
	if localStmt.Kind != Local {
		t.Fatalf("got %v, want LOCAL", localStmt.Kind)
	}
	innerAssign := localStmt.Child[0]
	shadowed := innerAssign.Child[0].Sym
	if shadowed == outerA {
		t.Fatal("local a should bind a fresh symbol, not the outer one")
	}

	printCall := then.Child[1]
	if printCall.Child[0].Sym != shadowed {
		t.Fatal("println(a) inside the block should resolve to the shadow")
	}

	// `b := a` outside the block should resolve `a` back to the outer symbol.
	bAssign := root.Child[2]
	if bAssign.Child[1].Sym != outerA {
		t.Fatal("a outside the block should resolve back to the outer symbol")
	}
}

func symName(n *Node) string {
	if n.Sym == nil {
		return ""
	}
	return n.Sym.Name
}
