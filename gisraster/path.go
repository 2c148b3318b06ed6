package gisraster

import "strings"

// SplitPath splits an entry path into its names.
// Leading and trailing slashes are handled, empty components are removed.
//
// Examples:
//   - "/" -> []string{}
//   - "/Layer_1" -> []string{"Layer_1"}
//   - "Layer_1//Statistics" -> []string{"Layer_1", "Statistics"}
func SplitPath(path string) []string {
	out := []string{}
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanPath normalizes a path, ensuring it starts with "/" and has no
// empty components or trailing slash.
func CleanPath(path string) string {
	return "/" + strings.Join(SplitPath(path), "/")
}

// JoinPath appends an entry name to a parent path.
func JoinPath(parent, name string) string {
	if parent == "/" || parent == "" {
		return "/" + name
	}
	return parent + "/" + name
}
