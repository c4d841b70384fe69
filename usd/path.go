// Package usd holds the typed scene-graph data model: Stage, Layer, Prim,
// PrimSpec, and the metadata/property types they carry. It has no
// dependency on the parser or reader — those consume and produce these
// types but never the reverse.
package usd

import (
	"fmt"
	"strings"
)

// Path is a USD-style path of the form /A/B.prop[target]. Only the prim
// part is used by the reconstruction pipeline; property and target are
// carried for callers that need the full path (e.g. relationship targets).
type Path struct {
	Prim     string
	Property string
	Target   string
}

// ParsePath splits a raw USD path string into its prim/property/target parts.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("usd: empty path")
	}

	p := Path{}
	rest := raw

	if i := strings.IndexByte(rest, '['); i >= 0 {
		if !strings.HasSuffix(rest, "]") {
			return Path{}, fmt.Errorf("usd: malformed path target in %q", raw)
		}
		p.Target = rest[i+1 : len(rest)-1]
		rest = rest[:i]
	}

	if i := strings.IndexByte(rest, '.'); i >= 0 {
		p.Property = rest[i+1:]
		rest = rest[:i]
	}

	p.Prim = rest
	return p, nil
}

// IsAbsolute reports whether the prim part begins with '/'.
func (p Path) IsAbsolute() bool {
	return strings.HasPrefix(p.Prim, "/")
}

// IsRoot reports whether the prim part is exactly "/".
func (p Path) IsRoot() bool {
	return p.Prim == "/"
}

// AppendChild returns the path obtained by appending a child element name
// to the prim part. name must already have been validated by the caller
// (non-empty, no '/', no '.').
func (p Path) AppendChild(name string) Path {
	prim := p.Prim
	if prim == "" || prim == "/" {
		return Path{Prim: "/" + name}
	}
	return Path{Prim: prim + "/" + name}
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString(p.Prim)
	if p.Property != "" {
		b.WriteByte('.')
		b.WriteString(p.Property)
	}
	if p.Target != "" {
		b.WriteByte('[')
		b.WriteString(p.Target)
		b.WriteByte(']')
	}
	return b.String()
}

// IsValidElementName reports whether name is a legal single path element:
// non-empty, and free of '/' and '.'.
func IsValidElementName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, "/.")
}
