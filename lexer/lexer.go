package lexer

import (
	"fmt"
	"strings"
)

const bareAssignMessage = "Single '=' not supported, use ':=' for assignment"

// Option configures a Lexer.
type Option func(*Lexer)

// AllowBareAssign makes a lone '=' an EQUALS token instead of an error.
func AllowBareAssign() Option {
	return func(l *Lexer) { l.allowBareAssign = true }
}

// Lexer scans one source buffer. The zero value is not usable; call New.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int

	allowBareAssign bool
}

// State is a saved lexer position, see Checkpoint.
type State struct {
	pos  int
	line int
	col  int
}

func New(src string, opts ...Option) *Lexer {
	l := &Lexer{src: src, line: 1, col: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Checkpoint captures the scanning position so that Restore can rewind to it.
func (l *Lexer) Checkpoint() State {
	return State{pos: l.pos, line: l.line, col: l.col}
}

func (l *Lexer) Restore(s State) {
	l.pos = s.pos
	l.line = s.line
	l.col = s.col
}

// Peek returns the next token without consuming it. It rescans instead of
// caching, so a Peek followed by Next does the work twice.
func (l *Lexer) Peek() Token {
	saved := l.Checkpoint()
	tok := l.Next()
	l.Restore(saved)
	return tok
}

// Next scans and returns the next token. After the end of input it keeps
// returning EOF.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	line, col := l.line, l.col
	start := l.pos

	if l.atEnd() {
		return Token{Type: EOF, Line: line, Col: col}
	}
	c := l.advance()

	if isLetter(c) {
		for isLetter(l.peek()) || isDigit(l.peek()) {
			l.advance()
		}
		text := l.src[start:l.pos]
		typ := IDENT
		if kw, ok := keywords[text]; ok {
			typ = kw
		}
		return Token{Type: typ, Lexeme: text, Line: line, Col: col}
	}

	if isDigit(c) {
		var val int64
		val = int64(c - '0')
		for isDigit(l.peek()) {
			val = val*10 + int64(l.advance()-'0')
		}
		return Token{Type: NUMBER, Lexeme: l.src[start:l.pos], Line: line, Col: col, Int: val}
	}

	if c == '"' {
		return l.readString(start, line, col)
	}

	tok := func(typ TokenType) Token {
		return Token{Type: typ, Lexeme: l.src[start:l.pos], Line: line, Col: col}
	}
	errTok := func(msg string) Token {
		return Token{Type: ERROR, Lexeme: msg, Line: line, Col: col}
	}

	switch c {
	case ':':
		if l.match(':') {
			return tok(PROC)
		}
		if l.match('=') {
			return tok(ASSIGN)
		}
		return tok(COLON)
	case '=':
		if l.match('=') {
			return tok(EQ)
		}
		if l.allowBareAssign {
			return tok(EQUALS)
		}
		return errTok(bareAssignMessage)
	case '!':
		if l.match('=') {
			return tok(NOT_EQ)
		}
		return tok(BANG)
	case '<':
		if l.match('=') {
			return tok(LE)
		}
		return tok(LT)
	case '>':
		if l.match('=') {
			return tok(GE)
		}
		return tok(GT)
	case '-':
		if l.match('>') {
			return tok(ARROW)
		}
		return tok(MINUS)
	case '.':
		if l.match('.') {
			return tok(DOTDOT)
		}
		return tok(DOT)
	case '(':
		return tok(LPAREN)
	case ')':
		return tok(RPAREN)
	case '{':
		return tok(LBRACE)
	case '}':
		return tok(RBRACE)
	case '[':
		return tok(LBRACKET)
	case ']':
		return tok(RBRACKET)
	case ';':
		return tok(SEMICOLON)
	case ',':
		return tok(COMMA)
	case '+':
		return tok(PLUS)
	case '*':
		return tok(STAR)
	case '/':
		return tok(SLASH)
	case '%':
		return tok(PERCENT)
	case '&':
		return tok(AMPERSAND)
	case '|':
		return tok(PIPE)
	case '^':
		return tok(CARET)
	case '~':
		return tok(TILDE)
	}

	return errTok(fmt.Sprintf("Unexpected character %q", rune(c)))
}

// readString scans a string literal whose opening quote was consumed.
// Raw newlines are not allowed inside the literal.
func (l *Lexer) readString(start, line, col int) Token {
	var val strings.Builder
	for {
		if l.atEnd() {
			return Token{Type: ERROR, Lexeme: "Unterminated string", Line: line, Col: col}
		}
		c := l.peek()
		switch c {
		case '\n':
			return Token{Type: ERROR, Lexeme: "Unterminated string", Line: line, Col: col}
		case '"':
			l.advance()
			return Token{Type: STRING, Lexeme: l.src[start:l.pos], Line: line, Col: col, Str: val.String()}
		case '\\':
			l.advance()
			if l.atEnd() {
				continue
			}
			esc := l.peek()
			if esc == '\n' {
				return Token{Type: ERROR, Lexeme: "Unterminated string", Line: line, Col: col}
			}
			l.advance()
			switch esc {
			case 'n':
				val.WriteByte('\n')
			case 't':
				val.WriteByte('\t')
			case 'r':
				val.WriteByte('\r')
			default:
				// \\, \" and unknown escapes all yield the escaped character.
				val.WriteByte(esc)
			}
		default:
			val.WriteByte(l.advance())
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekNext() == '/':
			for l.peek() != '\n' && !l.atEnd() {
				l.advance()
			}
		case c == '/' && l.peekNext() == '*':
			l.advance()
			l.advance()
			for !l.atEnd() && !(l.peek() == '*' && l.peekNext() == '/') {
				l.advance()
			}
			if !l.atEnd() {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

// atEnd reports whether the input is exhausted. A NUL byte inside the
// source is not the end.
func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// Tokenize scans src to the end and returns every token, EOF included.
// Error tokens do not stop the scan.
func Tokenize(src string, opts ...Option) []Token {
	l := New(src, opts...)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}
