package usd

// Prim is the typed tagged union described in §3: a node in the
// reconstructed Stage tree carrying a schema-specific payload (Schema)
// plus the fields common to every schema (element name, specifier, meta,
// properties, variant sets, children).
type Prim struct {
	Type     PrimType
	Schema   Schema // always set by the reader; PrimTypeGPrim is never assigned (unregistered, see enums.go)
	Specifier Specifier
	Name     string // element name
	Path     Path   // absolute path, filled in during stage path computation
	ID       int    // pre-order index, filled in during stage path computation

	// ModelTypeName carries the original, unrecognized type-name string
	// when Type == PrimTypeModel, so round-trip printing is lossless.
	ModelTypeName string

	Meta        PrimMeta
	Properties  *PropertyMap
	VariantSets map[string]*VariantSet // variant-set name -> set
	Children    []*Prim
}

// VariantSet is a named set of alternative subgraphs under a Prim.
type VariantSet struct {
	Name     string
	Variants map[string]*Variant // variant name -> body
	// Selected is the chosen variant name, if PrimMeta.Variants named one
	// for this set. Composition evaluation (actually switching the tree
	// to reflect the selection) is a Non-goal; this is bookkeeping only.
	Selected string
}

// Variant is a single variant's body (§3, VariantNode).
type Variant struct {
	Name       string
	Meta       PrimMeta
	Properties *PropertyMap
	Children   []*Prim
}

// RawMetaEntry is one (list-edit-qualifier, value) pair exactly as the
// parser read it, before PrimMetaDecoder closes over the known metadata
// keys (§4.3). PrimSpec keeps metadata in this raw form because
// layer-mode loads feed a composition engine that is out of scope here.
type RawMetaEntry struct {
	Qualifier ListEditQualifier
	Value     any
}

// PrimSpec is the untyped, pre-composition representation used when a
// USDA document is loaded as a composition arc rather than as the top
// stage (§3, §4.5, §4.8). Metadata and variant sets are kept opaque
// (raw parser output), since layer-mode loads feed a composition engine
// that is explicitly out of scope for this reader.
type PrimSpec struct {
	Name        string
	Specifier   Specifier
	TypeName    string
	Properties  *PropertyMap
	Meta        map[string]RawMetaEntry
	VariantSets map[string]map[string]*RawVariantSpec
	Children    []*PrimSpec
}

// RawVariantSpec is the layer-mode (opaque) counterpart of Variant: it
// keeps the variant's metadata/properties as raw parser output, and its
// children as PrimSpecs, without the typed decode §4.3 performs for the
// stage path.
type RawVariantSpec struct {
	Meta       map[string]RawMetaEntry
	Properties *PropertyMap
	Children   []*PrimSpec
}

// Stage is the fully typed, composed-arc-free scene tree produced by
// ReconstructStage (§4.7).
type Stage struct {
	Metas StageMetas
	Root  []*Prim
}

// Layer is the untyped tree of PrimSpecs produced by GetAsLayer (§4.8),
// used as input to a (not-implemented-here) composition engine.
type Layer struct {
	Metas StageMetas
	Root  []*PrimSpec
}

// Walk visits every Prim in the stage in pre-order, including variant
// children (each variant subgraph is visited once, under its variant,
// never under the owning Prim's ordinary children — see §4.7).
func (s *Stage) Walk(visit func(p *Prim)) {
	var rec func(p *Prim)
	rec = func(p *Prim) {
		visit(p)
		for _, vs := range p.VariantSets {
			for _, v := range vs.Variants {
				for _, c := range v.Children {
					rec(c)
				}
			}
		}
		for _, c := range p.Children {
			rec(c)
		}
	}
	for _, root := range s.Root {
		rec(root)
	}
}

// FindPrim looks up a Prim by absolute path via pre-order walk.
func (s *Stage) FindPrim(path string) *Prim {
	var found *Prim
	s.Walk(func(p *Prim) {
		if found == nil && p.Path.Prim == path {
			found = p
		}
	})
	return found
}
