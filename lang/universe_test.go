package lang

import (
	"testing"

	"github.com/mvezie/gi/ast"
)

func TestSeedDefinesKeywordsAndOperators(t *testing.T) {
	syms := New()

	cases := []struct {
		name string
		kind ast.Kind
		prio int
	}{
		{"if", ast.If, 0},
		{"for", ast.For, 0},
		{"func", ast.Def, 0},
		{"return", ast.Return, 0},
		{"local", ast.Local, 0},
		{"println", ast.Fun, 0},
		{"map", ast.Fun, 0},
		{"++", ast.Ops, 0},
		{"!", ast.Op, 10},
		{"*", ast.Op, 9},
		{"+", ast.Op, 8},
		{"<<", ast.Op, 7},
		{"<", ast.Op, 6},
		{"==", ast.Op, 5},
		{"&", ast.Op, 4},
		{"|", ast.Op, 3},
		{"&&", ast.Op, 2},
		{"||", ast.Op, 1},
		{":=", ast.Op, 0},
		{"=", ast.Op, 0},
	}
	for _, c := range cases {
		sym, ok := syms.Lookup(c.name)
		if !ok {
			t.Fatalf("%q not defined", c.name)
		}
		if sym.Kind != c.kind {
			t.Errorf("%q Kind = %v, want %v", c.name, sym.Kind, c.kind)
		}
		if sym.Prio != c.prio {
			t.Errorf("%q Prio = %d, want %d", c.name, sym.Prio, c.prio)
		}
	}
}

func TestSeedLeavesEvalSourceDsymUnbound(t *testing.T) {
	syms := New()
	for _, name := range []string{"eval", "source", "dsym"} {
		sym, ok := syms.Lookup(name)
		if !ok {
			t.Fatalf("%q not defined", name)
		}
		if sym.Interp != nil {
			t.Errorf("%q Interp should be nil pending interp.Interpreter rebinding", name)
		}
	}
}

func TestPrintlnHasRealPrimitive(t *testing.T) {
	syms := New()
	sym, _ := syms.Lookup("println")
	if sym.Interp == nil {
		t.Fatal("println Interp should not be nil")
	}
}
