package mif

import (
	"fmt"
	"strconv"
)

// Resolver returns the compiled layout of a named type. It is consulted for
// object fields ("o" and "x" type codes).
type Resolver func(typeName string) (*Layout, error)

// EmifString is the built-in object type the HFA dictionary uses for
// strings. Inline it occupies a fixed 16-byte character field.
const EmifString = "Emif_String"

const emifStringSize = 16

type scalarCode struct {
	kind Kind
	size int
}

// scalarCodes maps one-character MIF type codes to their storage.
var scalarCodes = map[byte]scalarCode{
	'1': {KindUint8, 1},
	'2': {KindUint8, 1},
	'4': {KindUint8, 1},
	'C': {KindUint8, 1},
	'c': {KindChar, 1},
	'S': {KindUint16, 2},
	's': {KindInt16, 2},
	'L': {KindUint32, 4},
	't': {KindUint32, 4},
	'l': {KindInt32, 4},
	'i': {KindInt32, 4},
	'f': {KindFloat32, 4},
	'd': {KindFloat64, 8},
	'm': {KindComplex64, 8},
	'M': {KindComplex128, 16},
}

// Compile compiles a single definition of the form "{fields}Name," into a
// layout. The trailing name and comma are optional; a bare "{fields}"
// yields a layout with an empty name. resolve may be nil when the grammar
// has no object fields.
func Compile(text string, resolve Resolver) (*Layout, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, resolve: resolve}
	layout, err := p.definition()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) && !p.peek().is(".") {
		return nil, p.errorf("unexpected trailing token")
	}
	return layout, nil
}

// parser is a recursive-descent parser over a token slice.
type parser struct {
	tokens  []token
	pos     int
	resolve Resolver
	name    string // type being compiled, for error context
}

func (p *parser) peek() token {
	if p.pos >= len(p.tokens) {
		return token{kind: tokPunct, text: "", pos: -1}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() (token, error) {
	if p.pos >= len(p.tokens) {
		return token{}, &BadFormatStringError{TypeName: p.name, Pos: -1, Reason: "unexpected end of definition"}
	}
	t := p.tokens[p.pos]
	p.pos++
	return t, nil
}

func (p *parser) errorf(format string, args ...any) error {
	t := p.peek()
	return &BadFormatStringError{TypeName: p.name, Pos: t.pos, Token: t.text, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(punct string) error {
	t := p.peek()
	if !t.is(punct) {
		return p.errorf("expected %q", punct)
	}
	p.pos++
	return nil
}

func (p *parser) ident() (string, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return "", p.errorf("expected identifier")
	}
	p.pos++
	return t.text, nil
}

// nameComma reads "name," as used after every field.
func (p *parser) nameComma() (string, error) {
	name, err := p.ident()
	if err != nil {
		return "", err
	}
	if err := p.expect(","); err != nil {
		return "", err
	}
	return name, nil
}

func (p *parser) definition() (*Layout, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	// Peek ahead for the trailing name so errors inside the body carry it.
	p.name = p.lookaheadName()
	fields, width, err := p.fields()
	if err != nil {
		return nil, err
	}
	layout := &Layout{Fields: fields, Width: width}
	if p.peek().kind == tokIdent {
		name, _ := p.ident()
		layout.Name = name
		if p.peek().is(",") {
			p.pos++
		}
	}
	return layout, nil
}

// lookaheadName finds the identifier following the brace that closes the
// current block, without consuming tokens.
func (p *parser) lookaheadName() string {
	depth := 1
	for i := p.pos; i < len(p.tokens); i++ {
		switch {
		case p.tokens[i].is("{"):
			depth++
		case p.tokens[i].is("}"):
			depth--
			if depth == 0 {
				if i+1 < len(p.tokens) && p.tokens[i+1].kind == tokIdent {
					return p.tokens[i+1].text
				}
				return ""
			}
		}
	}
	return ""
}

// fields parses field entries up to and including the closing brace.
func (p *parser) fields() ([]Field, int, error) {
	var (
		fields []Field
		offset int
	)
	for {
		t := p.peek()
		switch {
		case t.is("}"):
			p.pos++
			return fields, offset, nil

		case t.is("{"):
			p.pos++
			sub, width, err := p.fields()
			if err != nil {
				return nil, 0, err
			}
			name, err := p.nameComma()
			if err != nil {
				return nil, 0, err
			}
			fields = append(fields, Field{
				Name:   name,
				Kind:   KindStruct,
				Size:   width,
				Count:  1,
				Offset: offset,
				Sub:    &Layout{Name: name, Fields: sub, Width: width},
			})
			offset += width

		case t.kind == tokInt:
			p.pos++
			f, err := p.field(t.num)
			if err != nil {
				return nil, 0, err
			}
			f.Offset = offset
			fields = append(fields, f)
			offset += f.Width()

		case t.pos < 0:
			return nil, 0, p.errorf("unbalanced braces")

		default:
			return nil, 0, p.errorf("expected field count, '{' or '}'")
		}
	}
}

// field parses the remainder of "count:typeSpec name," after the count.
func (p *parser) field(count int) (Field, error) {
	if err := p.expect(":"); err != nil {
		return Field{}, err
	}
	pointer := count == 0
	if p.peek().is("*") {
		p.pos++
		pointer = true
	}
	spec, err := p.typeSpec()
	if err != nil {
		return Field{}, err
	}
	if len(spec) > 1 && spec[0] == 'p' {
		pointer = true
		spec = spec[1:]
	}
	if count == 0 {
		count = 1
	}

	code := spec[0]
	switch code {
	case 'e':
		return p.enumField(spec, count, pointer)
	case 'o', 'x':
		return p.objectField(spec[1:], count, pointer)
	case 'b':
		name := spec[1:]
		if name == "" {
			return Field{}, p.errorf("missing field name")
		}
		if err := p.expect(","); err != nil {
			return Field{}, err
		}
		return Field{Name: name, Kind: KindBaseData, Size: PointerSize, Count: 1, Pointer: true}, nil
	}

	sc, ok := scalarCodes[code]
	if !ok {
		p.pos--
		return Field{}, p.errorf("unknown type code %q", code)
	}
	name := spec[1:]
	if name == "" {
		p.pos--
		return Field{}, p.errorf("missing field name")
	}
	if err := p.expect(","); err != nil {
		return Field{}, err
	}
	f := Field{Name: name, Kind: sc.kind, Size: sc.size, Count: count}
	if pointer {
		f.Pointer, f.ElemSize, f.Size, f.Count = true, sc.size, PointerSize, 1
	}
	return f, nil
}

// typeSpec reads the type code and field name. The bit codes 1, 2 and 4
// lex as an integer followed by the name.
func (p *parser) typeSpec() (string, error) {
	t := p.peek()
	if t.kind != tokInt {
		return p.ident()
	}
	if t.text != "1" && t.text != "2" && t.text != "4" {
		return "", p.errorf("unknown type code %q", t.text)
	}
	p.pos++
	name, err := p.ident()
	if err != nil {
		return "", err
	}
	return t.text + name, nil
}

// enumField parses "eN:v1,...,vN,name," with spec holding "eN".
func (p *parser) enumField(spec string, count int, pointer bool) (Field, error) {
	n, err := strconv.Atoi(spec[1:])
	if err != nil || n <= 0 {
		p.pos--
		return Field{}, p.errorf("bad enumeration size")
	}
	if err := p.expect(":"); err != nil {
		return Field{}, err
	}
	values := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v, err := p.nameComma()
		if err != nil {
			return Field{}, err
		}
		values = append(values, v)
	}
	name, err := p.nameComma()
	if err != nil {
		return Field{}, err
	}
	f := Field{Name: name, Kind: KindEnum, Size: 1, Count: count, Enum: values}
	if pointer {
		f.Pointer, f.ElemSize, f.Size, f.Count = true, 1, PointerSize, 1
	}
	return f, nil
}

// objectField parses "TypeName,name," for the "o" and "x" codes.
func (p *parser) objectField(typeName string, count int, pointer bool) (Field, error) {
	if typeName == "" {
		p.pos--
		return Field{}, p.errorf("missing object type name")
	}
	if err := p.expect(","); err != nil {
		return Field{}, err
	}
	name, err := p.nameComma()
	if err != nil {
		return Field{}, err
	}

	if typeName == EmifString {
		if pointer {
			return Field{Name: name, Kind: KindChar, Size: PointerSize, Count: 1, Pointer: true, ElemSize: 1, TypeName: typeName}, nil
		}
		return Field{Name: name, Kind: KindChar, Size: 1, Count: emifStringSize * count, TypeName: typeName}, nil
	}

	if pointer {
		// Elements are resolved at decode time so self-referencing types
		// compile.
		return Field{Name: name, Kind: KindStruct, Size: PointerSize, Count: 1, Pointer: true, TypeName: typeName}, nil
	}

	if p.resolve == nil {
		return Field{}, &BadFormatStringError{TypeName: p.name, Pos: -1, Token: typeName, Reason: "no resolver for object type"}
	}
	sub, err := p.resolve(typeName)
	if err != nil {
		return Field{}, fmt.Errorf("resolving %s.%s: %w", p.name, name, err)
	}
	return Field{Name: name, Kind: KindStruct, Size: sub.Width, Count: count, Sub: sub, TypeName: typeName}, nil
}
