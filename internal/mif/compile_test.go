package mif

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func sumWidths(l *Layout) int {
	total := 0
	for _, f := range l.Fields {
		total += f.Size * f.Count
	}
	return total
}

func TestCompileWidth(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
		width   int
		fields  int
	}{
		{"file header", `{1:lversion,1:LfreeList,1:LrootEntryPtr,1:sentryHeaderLength,1:LdictionaryPtr,}Ehfa_File,`, 18, 5},
		{"entry", defaultEntryGrammar, 124, 9},
		{"repeated chars", `{16:clabel,1:LheaderPtr,}Ehfa_HeaderTag,`, 20, 2},
		{"every scalar", `{1:1a,1:2b,1:4c,1:Cd,1:ce,1:Sf,1:sg,1:Lh,1:li,1:tj,1:ik,1:fl,1:dm,1:mn,1:Mo,}All,`, 1 + 1 + 1 + 1 + 1 + 2 + 2 + 4 + 4 + 4 + 4 + 4 + 8 + 8 + 16, 15},
		{"enum", `{1:e2:no,yes,flag,}E,`, 1, 1},
		{"repeated enum", `{3:e2:no,yes,flags,}E,`, 3, 1},
		{"nested", `{1:lx,{1:dy,2:sz,}inner,1:Cw,}N,`, 4 + 12 + 1, 3},
		{"pointer zero count", `{0:pcname,1:lx,}P,`, 8 + 4, 2},
		{"pointer star", `{1:*ddata,}P,`, 8, 1},
		{"basedata", `{1:lx,0:bdata,}B,`, 12, 2},
		{"inline string", `{1:oEmif_String,name,1:lx,}S,`, 16 + 4, 2},
		{"pointer string", `{0:poEmif_String,name,}S,`, 8, 1},
		{"unnamed", `{1:lx,}`, 4, 1},
		{"whitespace", "{ 1:lx,\n 1:ly, }Pt,", 8, 2},
		{"dictionary terminator", `{1:lx,}A,.`, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compile(tt.grammar, nil)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if l.Width != tt.width {
				t.Errorf("Width = %d, want %d", l.Width, tt.width)
			}
			if got := sumWidths(l); got != l.Width {
				t.Errorf("sum of field widths = %d, Width = %d", got, l.Width)
			}
			if len(l.Fields) != tt.fields {
				t.Errorf("len(Fields) = %d, want %d: %s", len(l.Fields), tt.fields, l)
			}
		})
	}
}

func TestCompileOffsets(t *testing.T) {
	l, err := Compile(`{1:Cflag,1:lx,{1:sa,1:sb,}pair,2:dv,}R,`, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 5, 9}
	for i, f := range l.Fields {
		if f.Offset != want[i] {
			t.Errorf("field %s offset = %d, want %d", f.Name, f.Offset, want[i])
		}
	}

	flat := l.Flatten()
	names := make([]string, len(flat))
	for i, f := range flat {
		names[i] = fmt.Sprintf("%s@%d", f.Name, f.Offset)
	}
	got := strings.Join(names, " ")
	if got != "flag@0 x@1 pair.a@5 pair.b@7 v@9" {
		t.Errorf("Flatten = %q", got)
	}
}

func TestCompileEnum(t *testing.T) {
	l, err := Compile(`{1:e3:thematic,athematic,fft of real-valued data,layerType,}Eimg_Layer,`, nil)
	if err != nil {
		t.Fatal(err)
	}
	f, ok := l.Field("layerType")
	if !ok {
		t.Fatalf("layerType missing: %s", l)
	}
	if f.Kind != KindEnum || f.Size != 1 {
		t.Errorf("kind %s size %d", f.Kind, f.Size)
	}
	want := []string{"thematic", "athematic", "fft of real-valued data"}
	if strings.Join(f.Enum, "|") != strings.Join(want, "|") {
		t.Errorf("Enum = %q, want %q", f.Enum, want)
	}
	if l.Name != "Eimg_Layer" {
		t.Errorf("Name = %q", l.Name)
	}
}

func TestCompilePointer(t *testing.T) {
	l, err := Compile(`{0:pcname,1:*oEdsc_Column,cols,}T,`, nil)
	if err != nil {
		t.Fatal(err)
	}
	name, _ := l.Field("name")
	if !name.Pointer || name.Kind != KindChar || name.ElemSize != 1 {
		t.Errorf("name = %+v", name)
	}
	cols, _ := l.Field("cols")
	if !cols.Pointer || cols.Kind != KindStruct || cols.TypeName != "Edsc_Column" {
		t.Errorf("cols = %+v", cols)
	}
	if !l.HasPointers() {
		t.Error("HasPointers = false")
	}
}

func TestCompileObject(t *testing.T) {
	defs := map[string]string{
		"Pt": `{1:lx,1:ly,}Pt,`,
	}
	var resolve Resolver
	resolve = func(name string) (*Layout, error) {
		g, ok := defs[name]
		if !ok {
			return nil, fmt.Errorf("unknown type %s", name)
		}
		return Compile(g, resolve)
	}

	l, err := Compile(`{1:oPt,origin,2:oPt,corners,}Box,`, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if l.Width != 8+16 {
		t.Errorf("Width = %d, want 24", l.Width)
	}
	corners, _ := l.Field("corners")
	if corners.Sub == nil || corners.Sub.Name != "Pt" || corners.Count != 2 {
		t.Errorf("corners = %+v", corners)
	}

	_, err = Compile(`{1:oMissing,m,}X,`, resolve)
	if err == nil || !strings.Contains(err.Error(), "unknown type Missing") {
		t.Errorf("missing type error = %v", err)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
	}{
		{"no open brace", `1:lx,}A,`},
		{"unbalanced", `{1:lx,`},
		{"unbalanced nested", `{1:lx,{1:ly,}`},
		{"missing comma", `{1:lx 1:ly,}A,`},
		{"unknown code", `{1:qx,}A,`},
		{"missing name", `{1:l,}A,`},
		{"missing colon", `{1 lx,}A,`},
		{"bad enum size", `{1:ex:a,b,}A,`},
		{"short enum", `{1:e3:a,b,}A,`},
		{"trailing", `{1:lx,}A,}`},
		{"object without resolver", `{1:oPt,p,}A,`},
		{"stray token", `{:}A,`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.grammar, nil)
			var bad *BadFormatStringError
			if !errors.As(err, &bad) {
				t.Fatalf("err = %v, want *BadFormatStringError", err)
			}
		})
	}
}

func TestCompileErrorContext(t *testing.T) {
	_, err := Compile(`{1:lx,1:qy,}Named,`, nil)
	var bad *BadFormatStringError
	if !errors.As(err, &bad) {
		t.Fatalf("err = %v", err)
	}
	if bad.TypeName != "Named" {
		t.Errorf("TypeName = %q", bad.TypeName)
	}
	if bad.Token != "qy" || bad.Pos != 8 {
		t.Errorf("Token %q at %d", bad.Token, bad.Pos)
	}
}

func TestCompileDeterministic(t *testing.T) {
	a, err := Compile(defaultEntryGrammar, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile(defaultEntryGrammar, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("layouts differ:\n%s\n%s", a, b)
	}
}

const defaultEntryGrammar = `{1:Lnext,1:Lprev,1:Lparent,1:Lchild,1:Ldata,1:ldataSize,64:cname,32:ctype,1:tmodTime,}Ehfa_Entry,`
