// Package lexer turns source text into tokens.
package lexer

import (
	"fmt"
	"strings"
)

// TokenType is the kind of a token.
type TokenType string

const (
	EOF    TokenType = "EOF"
	IDENT  TokenType = "IDENTIFIER"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"
	ERROR  TokenType = "ERROR"

	PROC   TokenType = "PROCEDURE" // ::
	ASSIGN TokenType = "ASSIGN"    // :=
	EQUALS TokenType = "EQUALS"    // =, only with AllowBareAssign
	COLON  TokenType = "COLON"
	ARROW  TokenType = "ARROW"  // ->
	DOTDOT TokenType = "DOTDOT" // ..

	LPAREN    TokenType = "LPAREN"
	RPAREN    TokenType = "RPAREN"
	LBRACE    TokenType = "LBRACE"
	RBRACE    TokenType = "RBRACE"
	LBRACKET  TokenType = "LBRACKET"
	RBRACKET  TokenType = "RBRACKET"
	SEMICOLON TokenType = "SEMICOLON"
	COMMA     TokenType = "COMMA"
	DOT       TokenType = "DOT"

	PLUS      TokenType = "PLUS"
	MINUS     TokenType = "MINUS"
	STAR      TokenType = "MULTIPLY"
	SLASH     TokenType = "DIVIDE"
	PERCENT   TokenType = "MODULO"
	BANG      TokenType = "NOT"
	EQ        TokenType = "EQUAL"
	NOT_EQ    TokenType = "NOT_EQUAL"
	LT        TokenType = "LESS"
	LE        TokenType = "LESS_EQUAL"
	GT        TokenType = "GREATER"
	GE        TokenType = "GREATER_EQUAL"
	AMPERSAND TokenType = "AMPERSAND"
	PIPE      TokenType = "PIPE"
	CARET     TokenType = "CARET"
	TILDE     TokenType = "TILDE"

	IF     TokenType = "IF"
	ELSE   TokenType = "ELSE"
	FOR    TokenType = "FOR"
	WHILE  TokenType = "WHILE"
	RETURN TokenType = "RETURN"
	STRUCT TokenType = "STRUCT"
)

var keywords = map[string]TokenType{
	"if":     IF,
	"else":   ELSE,
	"for":    FOR,
	"while":  WHILE,
	"return": RETURN,
	"struct": STRUCT,
}

// Token is a single lexeme with its position. Int is only meaningful for
// NUMBER tokens and Str only for STRING tokens.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Col    int

	Int int64
	Str string
}

func (t Token) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Token{type=%s, lexeme=%q, line=%d, col=%d", t.Type, t.Lexeme, t.Line, t.Col)
	switch t.Type {
	case NUMBER:
		fmt.Fprintf(&b, ", value=%d", t.Int)
	case STRING:
		fmt.Fprintf(&b, ", str=%q", t.Str)
	}
	b.WriteString("}")
	return b.String()
}
