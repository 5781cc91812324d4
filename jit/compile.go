package jit

import "github.com/mvezie/gi/ast"

// arithOps and cmpOps map an operator symbol's name to the ArithOp/CmpOp
// Compile can translate directly into register code. Anything else
// (println, the map/source/eval/dsym builtins, assignment to a target
// wider than a single int64, nop) falls back to a Call instruction that
// invokes the node's own interpreter primitive — the same escape hatch
// the original backend uses for anything past its small set of
// specially-cased operators (println's native call, most notably).
var arithOps = map[string]ArithOp{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "%": OpMod,
	"&": OpAnd, "|": OpOr, "^": OpXor, "<<": OpShl, ">>": OpShr,
}

var cmpOps = map[string]CmpOp{
	"==": OpEq, "!=": OpNeq, "<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe,
}

// Compiler lowers a CFG-annotated AST (see package cfg) into a Program.
// Unlike the tree-walk interpreter, a Compiler allocates a virtual
// register per VAR symbol it encounters. Every read of a variable still
// re-loads that register from the symbol's value slot first (see
// loadOperand), so the register is not a cache across reads.
type Compiler struct {
	e       Emitter
	regOf   map[*ast.Symbol]Reg
	nextReg Reg
	maxVars Reg // one past the last register available for variables
	labels  map[*ast.Node]*Label
	end     *Label // bound past the last real instruction; the "halt" target
}

// scratch register slots 0..numScratch-1, reserved below the variable
// registers (which start at numScratch): operands a and b and the
// operation's own result.
const (
	scratchA Reg = iota
	scratchB
	scratchR
	numScratch
)

// NewCompiler returns a Compiler targeting a fresh Emitter with room
// for nvars virtual registers, one per distinct VAR symbol Compile
// discovers, plus a fixed handful of scratch registers used to hold
// operands and results mid-computation.
func NewCompiler(nvars int) *Compiler {
	return &Compiler{
		e:       NewEmitter(nvars + int(numScratch)),
		regOf:   make(map[*ast.Symbol]Reg),
		nextReg: numScratch,
		maxVars: Reg(nvars) + numScratch,
		labels:  make(map[*ast.Node]*Label),
		end:     NewLabel(),
	}
}

// Compile translates the CFG reachable from entry into a Program whose
// execution is equivalent to the tree-walk interpreter running the same
// entry point. entry must already have its Start/SNext/Next fields
// populated by cfg.Builder.
func Compile(entry *ast.Node) *Program {
	c := NewCompiler(256)
	c.run(entry)
	return c.e.Finish()
}

func (c *Compiler) labelFor(n *ast.Node) *Label {
	if n == nil {
		return c.end
	}
	if l, ok := c.labels[n]; ok {
		return l
	}
	l := NewLabel()
	c.labels[n] = l
	return l
}

func (c *Compiler) run(entry *ast.Node) {
	visited := make(map[*ast.Node]bool)
	queue := []*ast.Node{entry}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == nil || visited[n] {
			continue
		}
		visited[n] = true
		c.e.Bind(c.labelFor(n))
		c.translate(n)
		for _, succ := range c.successors(n) {
			if succ != nil && !visited[succ] {
				queue = append(queue, succ)
			}
		}
	}
	c.e.Bind(c.end)
}

func (c *Compiler) successors(n *ast.Node) []*ast.Node {
	if n.Kind == ast.CondBranch {
		return []*ast.Node{n.Next[ast.False], n.Next[ast.True]}
	}
	return []*ast.Node{n.SNext}
}

// reg returns the virtual register holding sym's current value. Once
// every available register is assigned, further symbols share the
// caller-provided scratch register instead — correct, since every read
// re-loads from sym's value slot first, just uncached, mirroring the
// original backend's fall back to direct memory addressing when its
// fixed-size register file is exhausted.
func (c *Compiler) reg(sym *ast.Symbol, scratch Reg) Reg {
	if r, ok := c.regOf[sym]; ok {
		return r
	}
	if c.nextReg >= c.maxVars {
		return scratch
	}
	r := c.nextReg
	c.nextReg++
	c.regOf[sym] = r
	return r
}

// loadOperand emits code to load an operand node's integer value into
// scratch, returning the register to read it back from.
func (c *Compiler) loadOperand(n *ast.Node, scratch Reg) Reg {
	if n.Kind == ast.Term {
		c.e.MoveImm(scratch, n.PV.Num)
		return scratch
	}
	if n.Kind == ast.Var {
		r := c.reg(n.Sym, scratch)
		c.e.Load(r, &n.Sym.Value.Num)
		return r
	}
	c.e.Load(scratch, &n.PV.Num)
	return scratch
}

func (c *Compiler) storeResult(n *ast.Node, src Reg) {
	c.e.Store(&n.PV.Num, src)
	if n.Kind == ast.Var {
		r := c.reg(n.Sym, src)
		if r != src {
			c.e.MoveReg(r, src)
		}
		c.e.Store(&n.Sym.Value.Num, src)
	}
}

// translate emits the instructions for one CFG node, jumping to its
// successor's label (or branching, for COND_BRANCH) at the end.
func (c *Compiler) translate(n *ast.Node) {
	switch n.Kind {
	case ast.CondBranch:
		// COND_BRANCH has no children of its own; its PV is shared with
		// the condition subtree's result (see cfg.Builder), so loadOperand
		// reads it straight from that shared slot.
		r := c.loadOperand(n, scratchA)
		c.e.Branch(r, c.labelFor(n.Next[ast.True]), c.labelFor(n.Next[ast.False]))
		return
	case ast.Op:
		name := ""
		if n.Sym != nil {
			name = n.Sym.Name
		}
		switch {
		case name == "=" || name == ":=":
			r := c.loadOperand(n.Child[1], scratchR)
			c.storeResult(n.Child[0], r)
			c.e.Store(&n.PV.Num, r)
		case len(n.Child) != 2:
			// unary forms (+x, -x, !x, ~x, ...): left to the interpreter
			// primitive, which already special-cases the single-child case.
			c.callOut(n)
		default:
			if op, ok := arithOps[name]; ok {
				a := c.loadOperand(n.Child[0], scratchA)
				b := c.loadOperand(n.Child[1], scratchB)
				c.e.Arith(op, scratchR, a, b)
				c.storeResult(n, scratchR)
			} else if op, ok := cmpOps[name]; ok {
				a := c.loadOperand(n.Child[0], scratchA)
				b := c.loadOperand(n.Child[1], scratchB)
				c.e.Cmp(op, scratchR, a, b)
				c.storeResult(n, scratchR)
			} else {
				c.callOut(n)
			}
		}
	case ast.Ops:
		c.callOut(n)
	default:
		c.callOut(n)
	}
	c.e.Jump(c.labelFor(n.SNext))
}

// callOut emits a native call to n's own interpreter primitive. This is
// the fallback path for anything Compile does not specially recognize:
// println and the other FUN builtins, postfix ++/--, nop, and any
// operator with a single child (unary +/-), exactly the set the
// original backend also leaves to a plain function call rather than
// hand-rolled register code.
func (c *Compiler) callOut(n *ast.Node) {
	if n.F == nil {
		return
	}
	c.e.Call(func() { n.F(n) })
}
