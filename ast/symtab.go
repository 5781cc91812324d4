package ast

import "sync"

// SymbolTable maps identifier text to a Symbol. The parser consults a
// global table (seeded with keywords and operators, see the lang
// package) and interns fresh VAR symbols for identifiers it has not
// seen before, exactly as the original scanner/parser pair does.
type SymbolTable struct {
	mu     sync.RWMutex
	syms   map[string]*Symbol
	parent *SymbolTable
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{syms: make(map[string]*Symbol, 64)}
}

// NewChild returns a fresh table that shadows t: Lookup and Intern check
// its own bindings first, falling back to t (and t's own ancestors) for
// anything not defined locally. The parser pushes one of these for each
// `{...}` block it parses, giving the `local` keyword a scope confined
// to that block to shadow within.
func (t *SymbolTable) NewChild() *SymbolTable {
	return &SymbolTable{syms: make(map[string]*Symbol, 8), parent: t}
}

// Define installs a new symbol under name, overwriting any prior binding.
// Used during table seeding (keywords, operators, builtins).
func (t *SymbolTable) Define(name string, kind Kind, prio int, interp, jit Fn) *Symbol {
	sym := &Symbol{Name: name, Kind: kind, Prio: prio, Interp: interp, JIT: jit}
	t.mu.Lock()
	t.syms[name] = sym
	t.mu.Unlock()
	return sym
}

// Lookup returns the symbol bound to name, checking t's own bindings
// first and then each ancestor table in turn, if any.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	t.mu.RLock()
	sym, ok := t.syms[name]
	parent := t.parent
	t.mu.RUnlock()
	if ok {
		return sym, true
	}
	if parent != nil {
		return parent.Lookup(name)
	}
	return nil, false
}

// DefineLocal installs a fresh VAR symbol for name in t itself, shadowing
// any binding of the same name in an ancestor table. Used by the `local`
// keyword's parse-time scoping: the shadow is visible only through t (and
// any further children of t), and reverts to the ancestor's binding once
// the parser pops back out of t's block.
func (t *SymbolTable) DefineLocal(name string) *Symbol {
	sym := &Symbol{Name: name, Kind: Var, Interp: Nop}
	t.mu.Lock()
	t.syms[name] = sym
	t.mu.Unlock()
	return sym
}

// Intern returns the symbol bound to name, creating a fresh VAR symbol
// (with Interp set to Nop) if none exists yet. This is how unknown
// identifiers become variables: there is no "undefined variable" error
// in this language, per the error-handling design.
func (t *SymbolTable) Intern(name string) *Symbol {
	if sym, ok := t.Lookup(name); ok {
		return sym
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if sym, ok := t.syms[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name, Kind: Var, Interp: Nop}
	t.syms[name] = sym
	return sym
}

// Names returns every symbol name currently bound, in no particular
// order. Used by the dsym builtin to dump the global scope.
func (t *SymbolTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.syms))
	for name := range t.syms {
		names = append(names, name)
	}
	return names
}

// Nop is the no-op primitive bound to freshly interned and
// `local`-declared VAR symbols. (Package lang binds ops.Nop, not this
// function, to the control-flow keywords.)
func Nop(*Node) {}

// Counter hands out ascending, unique node serial numbers, mirroring the
// original's ip->nc field.
type Counter struct {
	mu sync.Mutex
	n  int
}

// Next returns the next serial number, starting at 1.
func (c *Counter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}
