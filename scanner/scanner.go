// Package scanner implements the dispatch-table driven lexical scanner.
//
// The scanner holds a 256-entry table of scan functions keyed on the
// leading byte of the remaining input. Each scan function inspects (and
// may consume) bytes starting at that position and reports whether the
// consumed run was whitespace/comment (scanning should continue) or a
// complete token (scanning stops and the token is returned).
package scanner

import (
	"strconv"

	"github.com/mvezie/gi/token"
)

// Token is one lexeme produced by the scanner.
type Token struct {
	Type  token.Type
	Text  []byte  // lexeme bytes; for block tokens, the body excluding delimiters
	Start int     // byte offset of Text in the source buffer
	End   int     // byte offset one past the consumed input (including whitespace)
	Num   int64   // populated when Type == token.Int
	FNum  float64 // populated when Type == token.Float
}

// scanFunc inspects src starting at pos and fills tok. It returns true if
// the bytes consumed (tok.End - pos) are whitespace/comment and scanning
// should continue from tok.End, or false if tok is now a complete token.
type scanFunc func(src []byte, pos int, tok *Token) bool

// Scanner turns a byte buffer into a stream of Tokens via Scan, and
// supports rewinding exactly one token via Unscan.
type Scanner struct {
	src  []byte
	pos  int
	orig int // position before the most recent Scan, restored by Unscan
}

// New returns a Scanner over src starting at offset 0.
func New(src []byte) *Scanner { return &Scanner{src: src} }

// Pos reports the current scan cursor, the offset of the next Scan.
func (s *Scanner) Pos() int { return s.pos }

// Len reports how many bytes remain unscanned.
func (s *Scanner) Len() int { return len(s.src) - s.pos }

// Scan consumes whitespace/comments and returns the next token. At end of
// input it returns a zero-value token (token.Type is token.Bad with an
// empty Text and Start == End == len(src)).
func (s *Scanner) Scan() Token {
	s.orig = s.pos
	pos := s.pos
	var tok Token
	tok.Start = pos
	tok.End = pos
	for pos < len(s.src) {
		fn := dispatch[s.src[pos]]
		cont := fn(s.src, pos, &tok)
		if !cont {
			break
		}
		pos = tok.End
	}
	s.pos = tok.End
	return tok
}

// Unscan rewinds the cursor to the position before the last Scan call, so
// the next Scan reproduces the same token. Only one level of rewind is
// supported, matching the original scanner's single lookahead: a caller
// that lets any further Scan call happen in between (directly, or via a
// recursive parse of a nested construct) must not rely on Unscan to
// undo its own lookahead afterward, since the single orig slot will
// have been overwritten. Seek is the tool for that case.
func (s *Scanner) Unscan() { s.pos = s.orig }

// Seek resets the cursor to an arbitrary offset previously obtained from
// Pos, unconditionally, regardless of how many Scan/Unscan calls have
// happened since. Callers that need to look ahead past a lookahead token
// which may itself trigger further scanning (e.g. the parser probing
// whether a freshly constructed node turned out to belong to the next
// statement) must save Pos() themselves before scanning and Seek back to
// it, rather than trust Unscan's single-slot memory across that gap.
func (s *Scanner) Seek(pos int) { s.pos = pos }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
func isAlpha(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }
func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }

func scanBad(src []byte, pos int, tok *Token) bool {
	tok.Type = token.Bad
	tok.Text = src[pos : pos+1]
	tok.Start = pos
	tok.End = pos + 1
	return false
}

func scanWSep(src []byte, pos int, tok *Token) bool {
	end := pos + 1
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	tok.End = end
	return true
}

// scanCSep consumes a run of statement separators: newlines, ';', and
// interleaved whitespace, collapsing them into a single CSEP token.
func scanCSep(src []byte, pos int, tok *Token) bool {
	end := pos + 1
	for end < len(src) {
		c := src[end]
		if c != '\n' && c != ';' && c != ' ' && c != '\t' {
			break
		}
		end++
	}
	tok.Type = token.CSep
	tok.Start = pos
	tok.End = end
	return false
}

func scanLSep(src []byte, pos int, tok *Token) bool {
	tok.Type = token.LSep
	tok.Start = pos
	tok.End = pos + 1
	return false
}

// scanCmt consumes a '#' comment through end of line (exclusive),
// treated as whitespace.
func scanCmt(src []byte, pos int, tok *Token) bool {
	end := pos + 1
	for end < len(src) && src[end] != '\n' {
		end++
	}
	tok.End = end
	return true
}

// scanNum scans the maximal numeric lexeme starting at a digit: digits,
// one decimal point, and a single exponent. A lexeme with a decimal
// point or exponent is FLOAT; otherwise it is INT, parsed as octal when
// it has a leading 0.
func scanNum(src []byte, pos int, tok *Token) bool {
	end := pos
	for end < len(src) && isDigit(src[end]) {
		end++
	}
	isFloat := false
	if end < len(src) && src[end] == '.' {
		isFloat = true
		end++
		for end < len(src) && isDigit(src[end]) {
			end++
		}
	}
	if end < len(src) && (src[end] == 'e' || src[end] == 'E') {
		save := end
		e := end + 1
		if e < len(src) && (src[e] == '+' || src[e] == '-') {
			e++
		}
		if e < len(src) && isDigit(src[e]) {
			for e < len(src) && isDigit(src[e]) {
				e++
			}
			end = e
			isFloat = true
		} else {
			end = save
		}
	}
	lex := src[pos:end]
	tok.Text = lex
	tok.Start = pos
	tok.End = end
	if isFloat {
		tok.Type = token.Float
		tok.FNum, _ = strconv.ParseFloat(string(lex), 64)
		return false
	}
	tok.Type = token.Int
	fnum, _ := strconv.ParseFloat(string(lex), 64)
	if len(lex) > 1 && lex[0] == '0' && lex[1] != 'x' {
		n, err := strconv.ParseInt(string(lex), 8, 64)
		if err == nil {
			tok.Num = n
			return false
		}
	}
	tok.Num = int64(fnum)
	return false
}

func scanId(src []byte, pos int, tok *Token) bool {
	end := pos + 1
	for end < len(src) && isAlnum(src[end]) {
		end++
	}
	tok.Type = token.Id
	tok.Text = src[pos:end]
	tok.Start = pos
	tok.End = end
	return false
}

// scanBlock performs a flat scan of a delimited block (parenthesis,
// bracket or brace), counting nested openings/closings while treating
// sdelim-quoted regions as opaque. The produced token's Text excludes the
// opening and closing delimiters; an unbalanced block becomes BAD.
func scanBlock(src []byte, pos int, tok *Token, typ token.Type, bstart, bend, sdelim byte) bool {
	start := pos + 1
	i := start
	inQuote := false
	level := 0
	complete := false
	for i < len(src) {
		c := src[i]
		switch {
		case c == sdelim:
			inQuote = !inQuote
		case inQuote && c == '\\':
			i++
		case !inQuote && c == bstart:
			level++
		case !inQuote && c == bend:
			level--
			if level < 0 {
				complete = true
			}
		}
		if complete {
			break
		}
		i++
	}
	if complete {
		tok.Type = typ
		tok.Text = src[start:i]
		tok.Start = start
		tok.End = i + 1
	} else {
		tok.Type = token.Bad
		tok.Text = src[start:i]
		tok.Start = start
		tok.End = i
	}
	return false
}

func scanParen(src []byte, pos int, tok *Token) bool {
	return scanBlock(src, pos, tok, token.Paren, '(', ')', '"')
}

func scanBrace(src []byte, pos int, tok *Token) bool {
	return scanBlock(src, pos, tok, token.Brace, '{', '}', '"')
}

func scanBracket(src []byte, pos int, tok *Token) bool {
	return scanBlock(src, pos, tok, token.Bracket, '[', ']', '"')
}

func scanStr(src []byte, pos int, tok *Token) bool {
	delim := src[pos]
	start := pos + 1
	i := start
	typ := token.Str
	terminated := false
	for i < len(src) {
		c := src[i]
		if c == '\\' {
			typ = token.BStr
			i += 2
			continue
		}
		if c == delim {
			terminated = true
			break
		}
		i++
	}
	tok.Start = start
	if !terminated {
		end := min(i, len(src))
		tok.Type = token.Bad
		tok.Text = src[start:end]
		tok.End = end
		return false
	}
	tok.Type = typ
	tok.Text = src[start:i]
	tok.End = i + 1
	return false
}

// twoCharOps is the set of two-character operator lexemes this language
// recognizes, keyed by first byte then required second byte.
var twoCharOps = map[byte]byte{
	':': '=', // :=
	'!': '=', // !=
	'=': '=', // ==
	'&': '&', // &&
	'|': '|', // ||
	'+': '+', // ++
	'-': '-', // --
}

// twoCharEither covers operators whose second byte may be one of two
// options: <= / << and >= / >>.
var twoCharEither = map[byte][2]byte{
	'<': {'=', '<'},
	'>': {'=', '>'},
}

func scanOp(src []byte, pos int, tok *Token) bool {
	end := pos + 1
	c := src[pos]
	if want, ok := twoCharOps[c]; ok && end < len(src) && src[end] == want {
		end++
	} else if opts, ok := twoCharEither[c]; ok && end < len(src) && (src[end] == opts[0] || src[end] == opts[1]) {
		end++
	}
	tok.Type = token.Oper
	tok.Text = src[pos:end]
	tok.Start = pos
	tok.End = end
	return false
}

// dispatch is the 256-entry scan table keyed on the leading byte of the
// remaining input, built once at package init to mirror the fixed table
// in the original implementation.
var dispatch [256]scanFunc

func init() {
	for i := range dispatch {
		dispatch[i] = scanBad
	}
	dispatch['\t'] = scanWSep
	dispatch[' '] = scanWSep
	dispatch['\n'] = scanCSep
	dispatch['\r'] = scanCSep
	dispatch[';'] = scanCSep
	dispatch[','] = scanLSep
	dispatch['#'] = scanCmt
	dispatch['('] = scanParen
	dispatch['{'] = scanBrace
	dispatch['['] = scanBracket
	for c := byte('0'); c <= '9'; c++ {
		dispatch[c] = scanNum
	}
	for c := byte('a'); c <= 'z'; c++ {
		dispatch[c] = scanId
	}
	for c := byte('A'); c <= 'Z'; c++ {
		dispatch[c] = scanId
	}
	dispatch['_'] = scanId
	dispatch['"'] = scanStr
	dispatch['\''] = scanStr
	for _, c := range []byte("!=<>&|+-:*/%^~@?$.`") {
		dispatch[c] = scanOp
	}
}
