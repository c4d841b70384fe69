// Package reader implements the Reader facade (§4.1) and the
// PrimNode/PrimSpec intermediate stores it owns: the bridge between the
// parser's flat, index-keyed callback stream and the owned Stage/Layer
// trees. This is the hardest part of the module — see SPEC_FULL.md §1.
package reader

import (
	"github.com/usdscene/usdscene/usd"
)

// LoadState selects which callback set the Reader registers and which
// intermediate store a Read populates (§4.1).
type LoadState int

const (
	Toplevel LoadState = iota
	Reference
	SubLayer
	Payload
)

func (s LoadState) String() string {
	switch s {
	case Toplevel:
		return "Toplevel"
	case Reference:
		return "Reference"
	case SubLayer:
		return "SubLayer"
	case Payload:
		return "Payload"
	default:
		return "Unknown"
	}
}

// variantNode is the intermediate VariantNode of §3: one variant case's
// body, recorded but not yet spliced into the owning Prim's tree.
type variantNode struct {
	meta         usd.PrimMeta
	properties   *usd.PropertyMap
	primChildren []int
}

// primNode is the intermediate PrimNode of §3.
type primNode struct {
	typed     usd.Schema
	typeName  string // type name as written, including on the Model fallback path; empty when the header names no type
	modelType string // original type-name string, set only when typed is usd.Model

	elementName string
	specifier   usd.Specifier
	meta        usd.PrimMeta
	properties  *usd.PropertyMap

	parentIndex     int
	parentIsVariant bool
	children        []int // includes variant children at this stage, per §3
	variantSets     map[string]map[string]*variantNode
}

// rawVariantSpecNode is the opaque, layer-mode counterpart of variantNode.
type rawVariantSpecNode struct {
	meta       map[string]usd.RawMetaEntry
	properties *usd.PropertyMap
	children   []int
}

// primSpecNode is the intermediate PrimSpec of §3 (layer/composition-arc mode).
type primSpecNode struct {
	name      string
	specifier usd.Specifier
	typeName  string

	properties *usd.PropertyMap
	meta       map[string]usd.RawMetaEntry

	parentIndex int
	children    []int
	variantSets map[string]map[string]*rawVariantSpecNode
}
