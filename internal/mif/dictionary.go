package mif

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// SplitDictionary splits an HFA dictionary string of the form
// "{...}Name1,{...}Name2,." into a map from type name to the grammar of
// that single definition. Nested blocks stay inside their definition.
func SplitDictionary(dict string) (map[string]string, error) {
	defs := make(map[string]string)
	i := 0
	for i < len(dict) {
		c := dict[i]
		switch {
		case c == '.' || c == 0:
			return defs, nil
		case c == '{':
		case c == ' ' || c == '\n' || c == '\r' || c == '\t':
			i++
			continue
		default:
			return nil, &BadFormatStringError{Pos: i, Token: string(c), Reason: "expected '{' at start of definition"}
		}

		start, depth := i, 0
		for ; i < len(dict); i++ {
			if dict[i] == '{' {
				depth++
			} else if dict[i] == '}' {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		if depth != 0 {
			return nil, &BadFormatStringError{Pos: start, Reason: "unbalanced braces"}
		}
		comma := strings.IndexByte(dict[i:], ',')
		if comma < 0 {
			return nil, &BadFormatStringError{Pos: i, Reason: "missing type name terminator"}
		}
		name := strings.TrimSpace(dict[i+1 : i+comma])
		if name == "" {
			return nil, &BadFormatStringError{Pos: i + 1, Reason: "missing type name"}
		}
		end := i + comma + 1
		defs[name] = dict[start:end]
		i = end
	}
	return defs, nil
}

// LoadDefinitions reads a JSON object mapping type names to grammar text.
func LoadDefinitions(r io.Reader) (map[string]string, error) {
	var defs map[string]string
	if err := json.NewDecoder(r).Decode(&defs); err != nil {
		return nil, fmt.Errorf("decoding definitions: %w", err)
	}
	return defs, nil
}
