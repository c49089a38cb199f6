package parser

import (
	"fmt"

	"github.com/strager/jaic/lexer"
)

// Diagnostic is one reported parse error.
type Diagnostic struct {
	Line    int
	Col     int
	Message string

	// Where is the offending lexeme, "end" at end of input, or empty for
	// lexical errors whose message already describes the token.
	Where string
	AtEOF bool
}

func newDiagnostic(tok lexer.Token, msg string) Diagnostic {
	d := Diagnostic{Line: tok.Line, Col: tok.Col, Message: msg}
	switch tok.Type {
	case lexer.EOF:
		d.AtEOF = true
	case lexer.ERROR:
	default:
		d.Where = tok.Lexeme
	}
	return d
}

func (d Diagnostic) Error() string {
	loc := fmt.Sprintf("[Line %d, Col %d] Parser Error", d.Line, d.Col)
	switch {
	case d.AtEOF:
		loc += " at end"
	case d.Where != "":
		loc += fmt.Sprintf(" at '%s'", d.Where)
	}
	return loc + ": " + d.Message
}
