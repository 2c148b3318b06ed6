package mif

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// mifLexer splits MIF text into punctuation, integers and identifiers.
// Identifiers may contain spaces and hyphens because enum value names do
// ("fft of real-valued data").
var mifLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_ \-]*`},
	{Name: "Punct", Pattern: `[{}:,.*]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type tokenKind uint8

const (
	tokPunct tokenKind = iota
	tokInt
	tokIdent
)

type token struct {
	kind tokenKind
	text string
	num  int
	pos  int
}

func (t token) is(punct string) bool {
	return t.kind == tokPunct && t.text == punct
}

// tokenize lexes text into a token slice, dropping whitespace.
func tokenize(text string) ([]token, error) {
	lex, err := mifLexer.Lex("", strings.NewReader(text))
	if err != nil {
		return nil, &BadFormatStringError{Pos: -1, Reason: err.Error()}
	}
	symbols := mifLexer.Symbols()
	var (
		intType   = symbols["Int"]
		identType = symbols["Ident"]
		wsType    = symbols["Whitespace"]
	)

	var tokens []token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, &BadFormatStringError{Pos: -1, Reason: err.Error()}
		}
		if tok.EOF() {
			return tokens, nil
		}
		switch tok.Type {
		case wsType:
			continue
		case intType:
			n, err := strconv.Atoi(tok.Value)
			if err != nil {
				return nil, &BadFormatStringError{Pos: tok.Pos.Offset, Token: tok.Value, Reason: "integer out of range"}
			}
			tokens = append(tokens, token{kind: tokInt, text: tok.Value, num: n, pos: tok.Pos.Offset})
		case identType:
			tokens = append(tokens, token{kind: tokIdent, text: strings.TrimRight(tok.Value, " "), pos: tok.Pos.Offset})
		default:
			tokens = append(tokens, token{kind: tokPunct, text: tok.Value, pos: tok.Pos.Offset})
		}
	}
}
