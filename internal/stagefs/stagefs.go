// Package stagefs projects a reconstructed Stage as a read-only virtual
// filesystem: each Prim is a directory, and each of its properties,
// metadata fields, and variant-set selections is a virtual file holding
// the Go "%v" rendering of the value. This is ambient tooling (§12), not
// part of the core reader — value printing is deliberately simple.
package stagefs

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/usdscene/usdscene/usd"
)

// entryKind distinguishes a directory (a Prim) from a virtual file
// (a rendered property/metadata/variant field) when resolving a path.
type entryKind int

const (
	kindDir entryKind = iota
	kindFile
)

// resolved is the outcome of walking a slash-separated path down a Stage.
type resolved struct {
	kind    entryKind
	prim    *usd.Prim // the owning Prim, always set
	content []byte    // set only for kindFile
}

// StageView wraps a *usd.Stage with the path-resolution and virtual-file
// rendering logic shared by StageFS (cgofuse) and BillyFS (go-billy/go-nfs).
// Neither backend interprets Stage data directly — both delegate here,
// mirroring how MacheFS and GraphFS both delegate to a graph.Graph.
type StageView struct {
	stage     *usd.Stage
	mountTime time.Time
}

// NewStageView wraps stage for filesystem projection.
func NewStageView(stage *usd.Stage) *StageView {
	return &StageView{stage: stage, mountTime: time.Now()}
}

// resolve walks p (an absolute, slash-separated FS path) against the
// Stage tree. The root "/" and any prefix of Prim element names resolves
// to a directory; the final segment may additionally name a virtual file
// produced by fileContent for that Prim.
func (v *StageView) resolve(p string) (*resolved, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return &resolved{kind: kindDir, prim: nil}, nil
	}

	segments := strings.Split(strings.TrimPrefix(clean, "/"), "/")

	var cur *usd.Prim
	var children []*usd.Prim
	for _, root := range v.stage.Root {
		children = append(children, root)
	}

	for i, seg := range segments {
		last := i == len(segments)-1

		var next *usd.Prim
		for _, c := range children {
			if c.Name == seg {
				next = c
				break
			}
		}
		if next != nil {
			cur = next
			children = primChildren(cur)
			continue
		}

		if last && cur != nil {
			if content, ok := v.fileContent(cur, seg); ok {
				return &resolved{kind: kindFile, prim: cur, content: content}, nil
			}
		}
		return nil, fmt.Errorf("stagefs: no such entry %q", clean)
	}

	return &resolved{kind: kindDir, prim: cur}, nil
}

// primChildren returns a Prim's directory listing: ordinary children
// plus, for each variant set, one synthetic child per variant case named
// "<setName>@<variantName>" so every variant body is browsable, not just
// the selected one. Composition (actually switching to the selection) is
// out of scope; browsing every alternative is not.
func primChildren(p *usd.Prim) []*usd.Prim {
	children := make([]*usd.Prim, 0, len(p.Children))
	children = append(children, p.Children...)
	for setName, vs := range p.VariantSets {
		for variantName, variant := range vs.Variants {
			synthName := setName + "@" + variantName
			children = append(children, variantAsPrim(synthName, variant))
		}
	}
	return children
}

// variantAsPrim adapts a Variant body into a *usd.Prim shell purely for
// directory traversal; it borrows the variant's properties/children and
// is never attached back into the Stage.
func variantAsPrim(name string, v *usd.Variant) *usd.Prim {
	return &usd.Prim{
		Name:       name,
		Meta:       v.Meta,
		Properties: v.Properties,
		Children:   v.Children,
	}
}

// dirNames lists the names of one Prim's directory children (or the
// Stage roots, for the synthetic root Prim).
func (v *StageView) dirNames(p *usd.Prim) []string {
	var children []*usd.Prim
	if p == nil {
		children = v.stage.Root
	} else {
		children = primChildren(p)
	}
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// fileNames lists the virtual-file names exposed under a Prim.
func (v *StageView) fileNames(p *usd.Prim) []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0)
	if p.Properties != nil {
		for pair := p.Properties.Oldest(); pair != nil; pair = pair.Next() {
			names = append(names, pair.Key)
		}
	}
	names = append(names, metaFileNames(p.Meta)...)
	sort.Strings(names)
	return names
}

// fileContent renders the named virtual file under Prim p, if name
// names a property or a recognized metadata field.
func (v *StageView) fileContent(p *usd.Prim, name string) ([]byte, bool) {
	if p.Properties != nil {
		if prop, ok := p.Properties.Get(name); ok {
			return []byte(renderProperty(prop)), true
		}
	}
	if content, ok := metaFileContent(p.Meta, name); ok {
		return []byte(content), true
	}
	return nil, false
}

func renderProperty(prop usd.Property) string {
	var b strings.Builder
	if prop.Kind == usd.PropertyRelationship {
		fmt.Fprintf(&b, "rel")
	} else {
		fmt.Fprintf(&b, "%s", prop.TypeName)
	}
	if prop.Custom {
		b.WriteString(" custom")
	}
	if prop.Uniform {
		b.WriteString(" uniform")
	}
	b.WriteByte('\n')
	if prop.Value != nil {
		fmt.Fprintf(&b, "value: %v\n", prop.Value)
	}
	if len(prop.Targets) > 0 {
		fmt.Fprintf(&b, "targets: %v\n", prop.Targets)
	}
	if prop.Raw != "" {
		fmt.Fprintf(&b, "raw: %s\n", prop.Raw)
	}
	return b.String()
}

// metaFileNames and metaFileContent expose a fixed, non-exhaustive slice
// of PrimMeta fields as files: the ones most useful to inspect while
// browsing a mount, not an exhaustive dump of every field (customData and
// assetInfo each get their own file, rendered with %v; everything else stays in
// get_prim/cat, §13/§14, for full fidelity).
func metaFileNames(m usd.PrimMeta) []string {
	var names []string
	if m.HasActive {
		names = append(names, ".active")
	}
	if m.Kind != usd.KindUnset {
		names = append(names, ".kind")
	}
	if m.DisplayName != "" {
		names = append(names, ".displayName")
	}
	if len(m.CustomData) > 0 {
		names = append(names, ".customData")
	}
	if len(m.AssetInfo) > 0 {
		names = append(names, ".assetInfo")
	}
	if len(m.Variants) > 0 {
		names = append(names, ".variants")
	}
	return names
}

func metaFileContent(m usd.PrimMeta, name string) (string, bool) {
	switch name {
	case ".active":
		if m.HasActive {
			return strconv.FormatBool(m.Active), true
		}
	case ".kind":
		if m.Kind != usd.KindUnset {
			return m.Kind.String(), true
		}
	case ".displayName":
		if m.DisplayName != "" {
			return m.DisplayName, true
		}
	case ".customData":
		if len(m.CustomData) > 0 {
			return fmt.Sprintf("%v\n", m.CustomData), true
		}
	case ".assetInfo":
		if len(m.AssetInfo) > 0 {
			return fmt.Sprintf("%v\n", m.AssetInfo), true
		}
	case ".variants":
		if len(m.Variants) > 0 {
			return fmt.Sprintf("%v\n", m.Variants), true
		}
	}
	return "", false
}
