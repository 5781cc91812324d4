// Package lang seeds a fresh ast.SymbolTable with every keyword,
// operator and builtin this language defines, grounded symbol-for-symbol
// on bip_init in the original implementation: same names, same Kinds,
// same operator priorities. Where the original left a symbol's
// interpreter primitive unbound (a handful of operators and most FUN
// builtins only had a JIT form), this port gives it a real primitive
// from package ops instead of leaving a nil function pointer — see
// DESIGN.md for the full list and rationale.
//
// eval, source and dsym are seeded here with a nil Interp: each needs a
// live *interp.Interpreter to re-parse or introspect against, which
// package lang cannot hold without an import cycle. Package interp
// rebinds those three symbols to closures over itself immediately after
// calling Seed.
package lang

import (
	"github.com/mvezie/gi/ast"
	"github.com/mvezie/gi/ops"
)

// Seed installs the language's fixed vocabulary into syms and returns it
// for convenience. Calling Seed twice on the same table simply
// re-installs every symbol (Define always overwrites).
func Seed(syms *ast.SymbolTable) *ast.SymbolTable {
	// Keywords and statement-level productions.
	syms.Define("if", ast.If, 0, ops.Nop, ops.Nop)
	syms.Define("while", ast.While, 0, ops.Nop, ops.Nop)
	syms.Define("break", ast.Break, 0, ops.Nop, ops.Nop)
	syms.Define("continue", ast.Continue, 0, ops.Nop, ops.Nop)
	syms.Define("for", ast.For, 0, ops.Nop, ops.Nop)
	syms.Define("func", ast.Def, 0, ops.Nop, ops.Nop)
	syms.Define("return", ast.Return, 0, ops.Nop, ops.Nop)
	syms.Define("local", ast.Local, 0, ops.Nop, ops.Nop)
	syms.Define("package", ast.Namespace, 0, ops.Nop, ops.Nop)
	syms.Define("nop", ast.Op, 0, ops.Nop, ops.Nop)
	syms.Define("SL", ast.SL, 0, ops.Nop, ops.Nop)
	syms.Define("CB", ast.CondBranch, 0, ops.CondBranch, ops.CondBranch)

	// FUN builtins. println is the only one with a real primitive in
	// the original (echo/j_echo); print and map are supplemented here
	// (see package ops's doc comments). eval/source/dsym are rebound by
	// package interp once an Interpreter exists to run or introspect.
	syms.Define("eval", ast.Fun, 0, nil, nil)
	syms.Define("print", ast.Fun, 0, ops.Print, ops.Print)
	syms.Define("println", ast.Fun, 0, ops.Echo, ops.Echo)
	syms.Define("source", ast.Fun, 0, nil, nil)
	syms.Define("dsym", ast.Fun, 0, nil, nil)
	syms.Define("map", ast.Fun, 0, ops.Map, ops.Map)

	// Postfix unary.
	syms.Define("++", ast.Ops, 0, ops.Inc, ops.Inc)
	syms.Define("--", ast.Ops, 0, ops.Dec, ops.Dec)

	// Operators, in the original's exact priority order (higher binds
	// tighter): unary ! ~ ^ at 10, * / % at 9, unary/binary + - at 8,
	// << >> at 7, relational at 6, equality at 5, & at 4, | at 3, &&
	// at 2, || at 1, assignment at 0.
	syms.Define("!", ast.Op, 10, ops.Not, ops.Not)
	syms.Define("~", ast.Op, 10, ops.BNot, ops.BNot)
	syms.Define("^", ast.Op, 10, ops.Xor, ops.Xor)
	syms.Define("*", ast.Op, 9, ops.Mul, ops.Mul)
	syms.Define("/", ast.Op, 9, ops.Div, ops.Div)
	syms.Define("%", ast.Op, 9, ops.Mod, ops.Mod)
	syms.Define("+", ast.Op, 8, ops.Add, ops.Add)
	syms.Define("-", ast.Op, 8, ops.Sub, ops.Sub)
	syms.Define("<<", ast.Op, 7, ops.Lshift, ops.Lshift)
	syms.Define(">>", ast.Op, 7, ops.Rshift, ops.Rshift)
	syms.Define("<", ast.Op, 6, ops.Lt, ops.Lt)
	syms.Define("<=", ast.Op, 6, ops.Le, ops.Le)
	syms.Define(">=", ast.Op, 6, ops.Ge, ops.Ge)
	syms.Define(">", ast.Op, 6, ops.Gt, ops.Gt)
	syms.Define("==", ast.Op, 5, ops.Eq, ops.Eq)
	syms.Define("!=", ast.Op, 5, ops.Neq, ops.Neq)
	syms.Define("&", ast.Op, 4, ops.And, ops.And)
	syms.Define("|", ast.Op, 3, ops.Or, ops.Or)
	syms.Define("&&", ast.Op, 2, ops.Land, ops.Land)
	syms.Define("||", ast.Op, 1, ops.Lor, ops.Lor)
	syms.Define(":=", ast.Op, 0, ops.Assign, ops.Assign)
	syms.Define("=", ast.Op, 0, ops.Assign, ops.Assign)

	return syms
}

// New returns a fresh SymbolTable already seeded with the language's
// vocabulary.
func New() *ast.SymbolTable {
	return Seed(ast.NewSymbolTable())
}
