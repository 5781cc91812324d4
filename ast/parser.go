package ast

import (
	"github.com/mvezie/gi/scanner"
	"github.com/mvezie/gi/token"
)

// Parser turns a token stream into an AST. It recognizes statements and
// expressions together, applying C-style operator precedence by
// restructuring the tree in place as each new operator is read.
//
// A Parser is not safe for concurrent use; each Eval/Parse call should
// use its own Parser sharing the interpreter's long-lived SymbolTable.
type Parser struct {
	syms *SymbolTable
	nc   *Counter
}

// NewParser returns a Parser resolving identifiers against syms and
// numbering fresh nodes from nc. Both are normally shared with the rest
// of an interpreter instance so that node numbers stay unique across an
// entire program and symbols persist across successive Eval calls.
func NewParser(syms *SymbolTable, nc *Counter) *Parser {
	return &Parser{syms: syms, nc: nc}
}

// ParseStatementList parses sc to exhaustion, returning an SL node whose
// children are the top-level statements in source order.
func (p *Parser) ParseStatementList(sc *scanner.Scanner) *Node {
	sym, _ := p.syms.Lookup("SL")
	n := &Node{Num: p.nc.Next(), Kind: SL, Sym: sym}
	if sym != nil {
		n.F = sym.Interp
	}
	for sc.Len() > 0 {
		before := sc.Pos()
		stmt := p.parseStatement(sc)
		if stmt != nil {
			AppendChild(n, stmt)
		}
		if sc.Pos() == before {
			break // defensive: a Parser bug would otherwise spin forever
		}
	}
	return n
}

// parseStatement parses one expression/control-flow statement, applying
// precedence climbing: each newly read infix operator is spliced into the
// deepest position on first's right spine where its priority still binds
// tighter than the node found there.
func (p *Parser) parseStatement(sc *scanner.Scanner) *Node {
	var first, node *Node
	for sc.Len() > 0 {
		// mark is this iteration's own lookahead position, saved before
		// Scan so it survives however many further Scan/Unscan calls
		// p.construct makes underneath us (e.g. a FUN node's argument
		// loop scans straight through its own trailing separator).
		// Scanner.Unscan's single orig slot does not survive that, since
		// the last nested call overwrites it before we get a chance to
		// rewind our own token; Seek(mark) does.
		mark := sc.Pos()
		tok := sc.Scan()
		if tok.Type == token.CSep {
			if first == nil {
				continue // pure separator run: keep skipping, restart the statement
			}
			break
		}
		if first != nil && tok.Type == token.Brace {
			// `if cond { ... }`: the brace belongs to the control form that
			// already consumed `cond` as a child, not to this expression.
			sc.Seek(mark)
			break
		}
		node = p.construct(tok, sc)
		if node == nil {
			break
		}
		if first == nil {
			first = node
			if node.Kind < Op {
				break
			}
			continue
		}
		if node.Kind != Op {
			sc.Seek(mark)
			break
		}
		node.Prio = node.Sym.Prio
		for n := first; n != nil; {
			if n.Kind != Op || node.Prio <= n.Prio || (n.Kind == Op && len(n.Child) == 1) {
				if n == first {
					first = node
				} else {
					anc := n.Anc
					DeleteChild(anc, n)
					AppendChild(anc, node)
				}
				InsertChild(node, n)
				break
			}
			if len(n.Child) > 1 {
				n = n.Child[1]
			} else {
				n = nil
			}
		}
	}
	return first
}

// parseOne consumes exactly one token and dispatches to its constructor,
// possibly recursing to build a larger subtree (e.g. a prefix operator's
// operand).
func (p *Parser) parseOne(sc *scanner.Scanner) *Node {
	if sc.Len() == 0 {
		return nil
	}
	tok := sc.Scan()
	return p.construct(tok, sc)
}

// construct dispatches on tok's scan type to build a freshly allocated
// node, recursing into sc for any operands the production requires.
func (p *Parser) construct(tok scanner.Token, sc *scanner.Scanner) *Node {
	switch tok.Type {
	case token.Int:
		n := p.term()
		n.Val = Value{Kind: VInt, Num: tok.Num}
		return n
	case token.Float:
		n := p.term()
		n.Val = Value{Kind: VFloat, FNum: tok.FNum}
		return n
	case token.Str, token.BStr:
		n := p.term()
		n.Val = Value{Kind: VStr, Str: string(tok.Text)}
		return n
	case token.Paren:
		inner := scanner.New(tok.Text)
		n := p.parseStatement(inner)
		if n == nil {
			return nil
		}
		n.Prio = 20 // parenthesized: bind as tightly as a leaf
		return n
	case token.Bracket:
		n := &Node{Num: p.nc.Next(), Kind: Array}
		inner := scanner.New(tok.Text)
		AppendChild(n, p.parseStatement(inner))
		return n
	case token.Brace:
		inner := scanner.New(tok.Text)
		// Each block gets its own child scope so a `local` declaration
		// inside it shadows only for the block's duration; p.syms reverts
		// to the enclosing scope once the block is fully parsed.
		outer := p.syms
		p.syms = outer.NewChild()
		n := p.ParseStatementList(inner)
		p.syms = outer
		return n
	case token.Oper:
		return p.constructOper(tok, sc)
	case token.Id:
		return p.constructID(tok, sc)
	default: // token.Bad, token.CSep, token.LSep: no node produced
		return nil
	}
}

func (p *Parser) term() *Node {
	n := &Node{Num: p.nc.Next(), Kind: Term}
	n.PV = &n.Val
	return n
}

// parseParamList parses a PAREN token's body as a statement wrapped in an
// SL node, the shape used for a DEF node's parameter list.
func (p *Parser) parseParamList(tok scanner.Token) *Node {
	n := &Node{Num: p.nc.Next(), Kind: SL}
	n.PV = &n.Val
	inner := scanner.New(tok.Text)
	AppendChild(n, p.parseStatement(inner))
	return n
}

// parseForClause parses one of a FOR statement's init/cond/post clauses,
// which may be empty (`for ;cond;post { ... }` omits init; `for init;;post`
// omits cond). parseStatement's separator handling only skips CSep tokens
// when it hasn't produced a node yet, which is correct for a pure
// whitespace run but would otherwise keep scanning straight into the next
// clause's content on an empty one; parseForClause peeks a single token
// to detect that case and returns an empty placeholder statement instead,
// preserving FOR's fixed four-child shape.
func (p *Parser) parseForClause(sc *scanner.Scanner) *Node {
	tok := sc.Scan()
	if tok.Type == token.CSep {
		return &Node{Num: p.nc.Next(), Kind: SL}
	}
	sc.Unscan()
	return p.parseStatement(sc)
}

// constructOper builds a node for a leading operator lexeme: a prefix OP
// (which consumes one operand via parseOne) or a bare OPS symbol.
func (p *Parser) constructOper(tok scanner.Token, sc *scanner.Scanner) *Node {
	n := &Node{Num: p.nc.Next()}
	n.PV = &n.Val
	if sym, ok := p.syms.Lookup(string(tok.Text)); ok {
		n.Sym = sym
		n.Kind = sym.Kind
		n.F = sym.Interp
	}
	if n.Kind != Ops {
		AppendChild(n, p.parseOne(sc))
	}
	return n
}

// constructID builds a node for an identifier: a keyword/operator symbol
// if one is already bound to that name, or a freshly interned VAR symbol
// otherwise. The operand shape parsed next depends on the symbol's kind.
func (p *Parser) constructID(tok scanner.Token, sc *scanner.Scanner) *Node {
	name := string(tok.Text)
	sym, existing := p.syms.Lookup(name)
	n := &Node{Num: p.nc.Next()}
	if existing {
		n.Kind = sym.Kind
		n.Sym = sym
	} else {
		sym = p.syms.Intern(name)
		n.Kind = Var
		n.Sym = sym
	}
	n.F = sym.Interp
	n.PV = &n.Val // overridden below for VAR (aliases the symbol's value)

	switch n.Kind {
	case Namespace:
		AppendChild(n, p.parseOne(sc))
	case Def:
		AppendChild(n, p.parseOne(sc)) // function name
		ptok := sc.Scan()              // explicitly scan the parameter list
		AppendChild(n, p.parseParamList(ptok))
		AppendChild(n, p.parseOne(sc)) // function body
	case For:
		AppendChild(n, p.parseForClause(sc)) // init, may be empty (`for ;cond;post`)
		AppendChild(n, p.parseForClause(sc)) // cond, may be empty (an infinite loop)
		AppendChild(n, p.parseForClause(sc)) // post, may be empty
		AppendChild(n, p.parseStatement(sc)) // body
	case While:
		AppendChild(n, p.parseStatement(sc)) // cond
		AppendChild(n, p.parseStatement(sc)) // body
	case If:
		AppendChild(n, p.parseStatement(sc)) // cond
		AppendChild(n, p.parseStatement(sc)) // then
		if tok2 := sc.Scan(); tok2.Type == token.Id && string(tok2.Text) == "else" {
			AppendChild(n, p.parseStatement(sc))
		} else {
			sc.Unscan()
		}
	case Op:
		AppendChild(n, p.parseOne(sc))
	case Return:
		AppendChild(n, p.parseStatement(sc))
	case Local:
		// `local x := expr`: pre-declare x as a fresh shadow in the
		// current (innermost) scope before parsing the assignment, so its
		// identifier resolves to the shadow rather than an outer/global
		// symbol of the same name for the rest of the enclosing block.
		if idTok := sc.Scan(); idTok.Type == token.Id {
			p.syms.DefineLocal(string(idTok.Text))
		}
		sc.Unscan()
		AppendChild(n, p.parseStatement(sc))
	case Fun:
		n.PV = &n.Val
		for {
			c := p.parseOne(sc)
			if c == nil {
				break
			}
			AppendChild(n, c)
		}
	case Var:
		n.PV = &sym.Value
		if tok2 := sc.Scan(); tok2.Type == token.Oper {
			if opsym, ok := p.syms.Lookup(string(tok2.Text)); ok && opsym.Kind == Ops {
				wrap := &Node{Num: p.nc.Next(), Kind: Ops, Sym: opsym, F: opsym.Interp}
				wrap.PV = &wrap.Val
				AppendChild(wrap, n)
				n = wrap
			} else {
				sc.Unscan()
			}
		} else {
			sc.Unscan()
		}
	default:
		// BREAK, CONTINUE, MAP, LVAR, ARRAY, SL, COND_BRANCH, UNDEF:
		// childless statement forms.
	}
	return n
}
