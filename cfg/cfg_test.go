package cfg

import (
	"testing"

	"github.com/mvezie/gi/ast"
	"github.com/mvezie/gi/scanner"
)

func TestCFGLinearStatementList(t *testing.T) {
	syms := ast.NewSymbolTable()
	syms.Define("println", ast.Fun, 0, ast.Nop, ast.Nop)
	syms.Define("CB", ast.CondBranch, 0, ast.Nop, ast.Nop)
	syms.Define(":=", ast.Op, 1, ast.Nop, ast.Nop)
	nc := &ast.Counter{}
	p := ast.NewParser(syms, nc)
	sc := scanner.New([]byte("a := 1\nb := 2"))
	root := p.ParseStatementList(sc)

	b := NewBuilder(syms, nc)
	b.Build(root)

	if root.Start == nil {
		t.Fatal("root.Start not set")
	}
	if len(b.Entries) != 1 || b.Entries[0] != root.Start {
		t.Fatalf("Entries = %v, want [root.Start]", b.Entries)
	}
	// Walking via SNext from root.Start should eventually reach root.
	n := root.Start
	seen := map[*ast.Node]bool{}
	reachedRoot := false
	for n != nil {
		if seen[n] {
			t.Fatal("CFG walk cycles without terminating")
		}
		seen[n] = true
		if n == root {
			reachedRoot = true
			break
		}
		n = n.SNext
	}
	if !reachedRoot {
		t.Fatal("CFG walk from root.Start never reaches root")
	}
}

func TestCFGIfSynthesizesCondBranch(t *testing.T) {
	syms := ast.NewSymbolTable()
	syms.Define("if", ast.If, 0, ast.Nop, ast.Nop)
	syms.Define("CB", ast.CondBranch, 0, ast.Nop, ast.Nop)
	syms.Define(":=", ast.Op, 1, ast.Nop, ast.Nop)
	syms.Define("<", ast.Op, 4, ast.Nop, ast.Nop)
	nc := &ast.Counter{}
	p := ast.NewParser(syms, nc)
	sc := scanner.New([]byte("if a < 1 { b := 2 }"))
	root := p.ParseStatementList(sc)

	b := NewBuilder(syms, nc)
	b.Build(root)

	ifNode := root.Child[0]
	cond := ifNode.Child[0]
	cb := cond.SNext
	if cb == nil || cb.Kind != ast.CondBranch {
		t.Fatalf("cond.SNext = %v, want a COND_BRANCH node", cb)
	}
	if cb.Next[ast.True] == nil || cb.Next[ast.False] != ifNode {
		t.Fatalf("cb.Next = %v, want [false=ifNode, true=then.Start]", cb.Next)
	}
	if cb.PV != cond.PV {
		t.Fatal("COND_BRANCH must share its value pointer with the condition")
	}
}

func TestCFGIfBareLeafConditionAndBodyDontDeadEnd(t *testing.T) {
	syms := ast.NewSymbolTable()
	syms.Define("if", ast.If, 0, ast.Nop, ast.Nop)
	syms.Define("CB", ast.CondBranch, 0, ast.Nop, ast.Nop)
	syms.Define(":=", ast.Op, 1, ast.Nop, ast.Nop)
	nc := &ast.Counter{}
	p := ast.NewParser(syms, nc)
	// flag and y are bare VAR leaves parsed with no enclosing braces:
	// neither the condition nor the then-branch has a primitive of its
	// own to run, which must not leave any CFG field nil (a nil
	// SNext/Next terminates the whole tree-walk early, per interp.run).
	sc := scanner.New([]byte("x := 1\nflag\ny\nif flag y"))
	root := p.ParseStatementList(sc)

	b := NewBuilder(syms, nc)
	b.Build(root)

	ifNode := root.Child[len(root.Child)-1]
	if ifNode.Start == nil {
		t.Fatal("if.Start is nil for a bare-leaf condition")
	}
	cond := ifNode.Child[0]
	if cond.SNext == nil {
		t.Fatal("bare-leaf condition has nil SNext")
	}
	cb := cond.SNext
	if cb.Kind != ast.CondBranch {
		t.Fatalf("cond.SNext = %v, want a COND_BRANCH node", cb)
	}
	if cb.Next[ast.True] == nil {
		t.Fatal("cb.Next[True] is nil for a bare-leaf then-branch")
	}
	// Walking the whole CFG from root.Start must reach root, not dead-end
	// inside the if statement.
	n := root.Start
	seen := map[*ast.Node]bool{}
	reachedRoot := false
	for n != nil {
		if seen[n] {
			t.Fatal("CFG walk cycles without terminating")
		}
		seen[n] = true
		if n == root {
			reachedRoot = true
			break
		}
		if n.Kind == ast.CondBranch {
			// A COND_BRANCH only picks its SNext at run time; follow the
			// then-branch, the bare leaf under test here.
			n = n.Next[ast.True]
			continue
		}
		n = n.SNext
	}
	if !reachedRoot {
		t.Fatal("CFG walk dead-ends before reaching root")
	}
}

func TestCFGWhileLoopsBack(t *testing.T) {
	syms := ast.NewSymbolTable()
	syms.Define("while", ast.While, 0, ast.Nop, ast.Nop)
	syms.Define("CB", ast.CondBranch, 0, ast.Nop, ast.Nop)
	syms.Define("++", ast.Ops, 7, ast.Nop, ast.Nop)
	syms.Define("<", ast.Op, 4, ast.Nop, ast.Nop)
	nc := &ast.Counter{}
	p := ast.NewParser(syms, nc)
	sc := scanner.New([]byte("while a < 1 { a++ }"))
	root := p.ParseStatementList(sc)

	b := NewBuilder(syms, nc)
	b.Build(root)

	w := root.Child[0]
	body := w.Child[1]
	if body.SNext != w.Start {
		t.Fatalf("body.SNext = %v, want w.Start (loop back to condition)", body.SNext)
	}
}
