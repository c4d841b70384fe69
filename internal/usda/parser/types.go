// Package parser implements AsciiParser (§6): a streaming tokenizer and
// recursive-descent grammar over the USDA textual subset this reader
// understands. It owns no scene state — it only calls back into
// whatever Hooks its caller (the reader facade) registers, exactly as
// §4.1's "callback registration" describes. The grammar/tokenizer
// themselves are explicitly out of this spec's core (§1); this package
// exists so the reader has a real collaborator to drive.
package parser

import (
	"github.com/usdscene/usdscene/usd"
)

// Config mirrors the configuration object of §6.
type Config struct {
	NumThreads             int
	MaxPrimNestLevel       int
	MaxFieldValuePairs     int
	MaxTokenLength         int
	MaxStringLength        int
	MaxElementSize         int
	MaxAllowedMemoryInMB   int
	AllowUnknownPrims      bool
	AllowUnknownAPISchemas bool
}

// DefaultConfig returns the defaults from the §6 configuration table.
func DefaultConfig() Config {
	return Config{
		NumThreads:             -1,
		MaxPrimNestLevel:       256,
		MaxFieldValuePairs:     4096,
		MaxTokenLength:         4096,
		MaxStringLength:        64 * 1024 * 1024,
		MaxElementSize:         512,
		MaxAllowedMemoryInMB:   16384,
		AllowUnknownPrims:      true,
		AllowUnknownAPISchemas: true,
	}
}

// RawMetaEntry is one (list-edit-qualifier, value) pair from a metadata
// block, exactly as the parser read it — the value's Go type depends on
// what was written (string, bool via Ident "true"/"false", float64,
// usd.Path, usd.Reference, []any, map[string]any, or nil for an explicit
// "None" block). PrimMetaDecoder (in the reader package) is responsible
// for turning these into the closed, typed PrimMeta. It is defined on
// usd.RawMetaEntry so PrimSpec (a public, non-reconstructed type) can
// hold it without this package needing to be imported back.
type RawMetaEntry = usd.RawMetaEntry

// RawVariantGroup is one variant case as encountered by the parser: its
// owning variant-set name, its own name, its raw metadata and properties,
// and the indices (already assigned via AssignIndex) of Prims declared
// directly inside its braces — the "primChildren" of §3's VariantNode.
type RawVariantGroup struct {
	SetName      string
	VariantName  string
	Meta         map[string]RawMetaEntry
	Properties   *usd.PropertyMap
	PrimChildren []int
}

// PrimContext is the full set of inputs to a prim-construct or
// prim-spec callback (§4.4, §4.5).
type PrimContext struct {
	Path        string // full textual path as written, for diagnostics only
	Specifier   usd.Specifier
	TypeName    string
	ElementName string
	Index       int
	ParentIndex int
	Properties  *usd.PropertyMap
	RawMeta     map[string]RawMetaEntry
	RawVariants []RawVariantGroup
	Line        int
}

// PrimConstructFunc is the per-schema prim-construct callback (§4.4).
type PrimConstructFunc func(ctx PrimContext) error

// PrimSpecFunc is the untyped prim-spec callback (§4.5).
type PrimSpecFunc func(ctx PrimContext) error

// StageMetaFunc is the stage-metadata callback (§4.6). It receives the raw
// decoded entries; structured validation happens in the reader package.
type StageMetaFunc func(raw map[string]RawMetaEntry, subLayers []string) error

// AssignIndexFunc is the prim-index-allocator callback (§4.2).
type AssignIndexFunc func(parentIndex int) int

// Hooks is the full registration surface of §6's table. Exactly one of
// {PrimConstruct+PrimFallback, PrimSpec} is populated by the reader,
// depending on load state (§4.1: "at most one of {typed callback
// matching typeName, untyped PrimSpec callback, generic Model fallback}
// fires per Prim").
type Hooks struct {
	StageMeta     StageMetaFunc
	AssignIndex   AssignIndexFunc
	PrimConstruct map[string]PrimConstructFunc // toplevel mode: typeName -> fn
	PrimFallback  PrimConstructFunc            // toplevel mode: unrecognized type name
	PrimSpec      PrimSpecFunc                 // non-toplevel mode: every prim
}
