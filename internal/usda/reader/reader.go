package reader

import (
	"fmt"
	"strings"

	"github.com/usdscene/usdscene/internal/usda/parser"
	"github.com/usdscene/usdscene/internal/usda/schema"
	"github.com/usdscene/usdscene/usd"
)

// Reader is the facade of §4.1: it owns the intermediate PrimNode/PrimSpec
// stores, drives the parser, and exposes the final Stage/Layer. One
// Reader is good for exactly one successful Read, per the lifecycle note
// in §3 ("callers are expected to Read then reconstruct once").
type Reader struct {
	baseDir string
	cfg     parser.Config

	loadState LoadState

	nodes    []*primNode
	topLevel []int

	specNodes    []*primSpecNode
	specTopLevel []int
	specInvalid  bool

	stageMetas usd.StageMetas
	stage      *usd.Stage

	errs     []string
	warnings []string
	fatal    error
}

// New creates a Reader with the given parser configuration.
func New(cfg parser.Config) *Reader {
	return &Reader{cfg: cfg}
}

// SetBaseDir records the directory the (external) file resolver should
// use for relative asset paths. Pure bookkeeping — this package does not
// itself resolve or load referenced files.
func (r *Reader) SetBaseDir(dir string) {
	r.baseDir = dir
}

// BaseDir returns the directory set by SetBaseDir.
func (r *Reader) BaseDir() string {
	return r.baseDir
}

// Read runs the parser over src with the callback set appropriate to
// state (§4.1's "callback registration"). It returns the first fatal
// error, if any; GetError/GetWarning expose the accumulated diagnostics
// regardless of outcome.
func (r *Reader) Read(src []byte, state LoadState) error {
	r.loadState = state

	hooks := parser.Hooks{
		StageMeta:   r.onStageMeta,
		AssignIndex: r.assignIndex,
	}
	if state == Toplevel {
		hooks.PrimConstruct = r.buildPrimConstructTable()
		hooks.PrimFallback = r.onUnknownPrim
	} else {
		hooks.PrimSpec = r.onPrimSpec
	}

	if err := parser.Parse(src, r.cfg, hooks); err != nil {
		r.fatal = err
		r.errs = append(r.errs, err.Error())
		return err
	}
	return nil
}

func (r *Reader) assignIndex(parentIdx int) int {
	if r.loadState == Toplevel {
		return r.assignStageIndex(parentIdx)
	}
	return r.assignSpecIndex(parentIdx)
}

func (r *Reader) onStageMeta(raw map[string]usd.RawMetaEntry, subLayers []string) error {
	metas, warnings, err := decodeStageMeta(raw, subLayers)
	if err != nil {
		r.errs = append(r.errs, err.Error())
		return err
	}
	r.stageMetas = metas
	r.warnings = append(r.warnings, warnings...)
	return nil
}

func (r *Reader) buildPrimConstructTable() map[string]parser.PrimConstructFunc {
	table := make(map[string]parser.PrimConstructFunc, len(schema.Registry))
	for typeName, fn := range schema.Registry {
		reconstruct := fn
		table[typeName] = func(ctx parser.PrimContext) error {
			return r.constructTypedPrim(ctx, reconstruct)
		}
	}
	return table
}

func (r *Reader) constructTypedPrim(ctx parser.PrimContext, reconstruct schema.ReconstructFunc) error {
	if err := r.validateElementName(ctx); err != nil {
		return err
	}
	meta, warnings, err := decodePrimMeta(ctx.RawMeta, r.cfg)
	if err != nil {
		r.errs = append(r.errs, err.Error())
		return err
	}
	r.warnings = append(r.warnings, warnings...)

	typed, schemaWarnings, err := reconstruct(ctx.Properties, meta.References.Values)
	if err != nil {
		wrapped := fmt.Errorf("%w: %s %q: %v", usd.ErrSchemaReconstructFailed, ctx.TypeName, ctx.Path, err)
		r.errs = append(r.errs, wrapped.Error())
		return wrapped
	}
	for _, w := range schemaWarnings {
		r.warnings = append(r.warnings, fmt.Sprintf("[USDA] %s %q: %s", ctx.TypeName, ctx.Path, w))
	}

	return r.storePrimNode(ctx, typed, meta, "")
}

func (r *Reader) onUnknownPrim(ctx parser.PrimContext) error {
	if !r.cfg.AllowUnknownPrims {
		err := fmt.Errorf("%w: %q at %s", usd.ErrUnknownPrimType, ctx.TypeName, ctx.Path)
		r.errs = append(r.errs, err.Error())
		return err
	}
	r.warnings = append(r.warnings, fmt.Sprintf("[USDA] unrecognized prim type %q at %s, falling back to Model", ctx.TypeName, ctx.Path))

	if err := r.validateElementName(ctx); err != nil {
		return err
	}
	meta, warnings, err := decodePrimMeta(ctx.RawMeta, r.cfg)
	if err != nil {
		r.errs = append(r.errs, err.Error())
		return err
	}
	r.warnings = append(r.warnings, warnings...)

	return r.storePrimNode(ctx, usd.Model{}, meta, ctx.TypeName)
}

func (r *Reader) validateElementName(ctx parser.PrimContext) error {
	if !usd.IsValidElementName(ctx.ElementName) || strings.ContainsAny(ctx.ElementName, "/") {
		err := fmt.Errorf("%w: %q at %s", usd.ErrInvalidName, ctx.ElementName, ctx.Path)
		r.errs = append(r.errs, err.Error())
		return err
	}
	return nil
}

// storePrimNode implements §4.4 steps 4-6: attach the typed payload and
// decoded metadata, splice in the raw variant groups, and link the node
// into either the top-level list or its parent's child list.
func (r *Reader) storePrimNode(ctx parser.PrimContext, typed usd.Schema, meta usd.PrimMeta, modelType string) error {
	if ctx.Index < 0 || ctx.Index >= len(r.nodes) {
		err := fmt.Errorf("%w: prim index %d", usd.ErrIndexOutOfRange, ctx.Index)
		r.errs = append(r.errs, err.Error())
		return err
	}

	variantSets, err := r.buildVariantSets(ctx.RawVariants)
	if err != nil {
		return err
	}

	node := &primNode{
		typed:       typed,
		typeName:    ctx.TypeName,
		modelType:   modelType,
		elementName: ctx.ElementName,
		specifier:   ctx.Specifier,
		meta:        meta,
		properties:  ctx.Properties,
		parentIndex: ctx.ParentIndex,
		variantSets: variantSets,
	}
	// Children finish before their owner, so they may already have linked
	// themselves into this slot.
	if prev := r.nodes[ctx.Index]; prev != nil {
		node.children = prev.children
	}
	r.nodes[ctx.Index] = node

	if ctx.ParentIndex < 0 {
		r.topLevel = append(r.topLevel, ctx.Index)
		return nil
	}
	if ctx.ParentIndex >= len(r.nodes) {
		err := fmt.Errorf("%w: parent index %d", usd.ErrIndexOutOfRange, ctx.ParentIndex)
		r.errs = append(r.errs, err.Error())
		return err
	}
	if r.nodes[ctx.ParentIndex] == nil {
		r.nodes[ctx.ParentIndex] = &primNode{}
	}
	r.nodes[ctx.ParentIndex].children = append(r.nodes[ctx.ParentIndex].children, ctx.Index)
	return nil
}

// buildVariantSets decodes each raw variant group's metadata and marks
// its Prim children as parent_is_variant (§4.4 step 5). Variant children
// are always constructed before their owner, since the parser finishes
// their whole subtree — including any nested variant sets — before
// closing the owner's body; that ordering is what makes this safe.
func (r *Reader) buildVariantSets(raw []parser.RawVariantGroup) (map[string]map[string]*variantNode, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]map[string]*variantNode)
	for _, g := range raw {
		set, ok := out[g.SetName]
		if !ok {
			set = make(map[string]*variantNode)
			out[g.SetName] = set
		}
		vmeta, warnings, err := decodePrimMeta(g.Meta, r.cfg)
		if err != nil {
			r.errs = append(r.errs, err.Error())
			return nil, err
		}
		r.warnings = append(r.warnings, warnings...)

		set[g.VariantName] = &variantNode{
			meta:         vmeta,
			properties:   g.Properties,
			primChildren: g.PrimChildren,
		}
		for _, childIdx := range g.PrimChildren {
			if childIdx < 0 || childIdx >= len(r.nodes) {
				err := fmt.Errorf("%w: variant child index %d", usd.ErrIndexOutOfRange, childIdx)
				r.errs = append(r.errs, err.Error())
				return nil, err
			}
			if r.nodes[childIdx] != nil {
				r.nodes[childIdx].parentIsVariant = true
			}
		}
	}
	return out, nil
}

// onPrimSpec is the untyped callback of §4.5, used for non-Toplevel loads.
func (r *Reader) onPrimSpec(ctx parser.PrimContext) error {
	if ctx.Index < 0 || ctx.Index >= len(r.specNodes) {
		err := fmt.Errorf("%w: prim index %d", usd.ErrIndexOutOfRange, ctx.Index)
		r.errs = append(r.errs, err.Error())
		return err
	}

	variantSets := make(map[string]map[string]*rawVariantSpecNode)
	for _, g := range ctx.RawVariants {
		set, ok := variantSets[g.SetName]
		if !ok {
			set = make(map[string]*rawVariantSpecNode)
			variantSets[g.SetName] = set
		}
		set[g.VariantName] = &rawVariantSpecNode{
			meta:       g.Meta,
			properties: g.Properties,
			children:   g.PrimChildren,
		}
	}

	node := &primSpecNode{
		name:        ctx.ElementName,
		specifier:   ctx.Specifier,
		typeName:    ctx.TypeName,
		properties:  ctx.Properties,
		meta:        ctx.RawMeta,
		parentIndex: ctx.ParentIndex,
		variantSets: variantSets,
	}
	if prev := r.specNodes[ctx.Index]; prev != nil {
		node.children = prev.children
	}
	r.specNodes[ctx.Index] = node

	if ctx.ParentIndex < 0 {
		r.specTopLevel = append(r.specTopLevel, ctx.Index)
		return nil
	}
	if ctx.ParentIndex >= len(r.specNodes) {
		err := fmt.Errorf("%w: parent index %d", usd.ErrIndexOutOfRange, ctx.ParentIndex)
		r.errs = append(r.errs, err.Error())
		return err
	}
	if r.specNodes[ctx.ParentIndex] == nil {
		r.specNodes[ctx.ParentIndex] = &primSpecNode{}
	}
	r.specNodes[ctx.ParentIndex].children = append(r.specNodes[ctx.ParentIndex].children, ctx.Index)
	return nil
}

// GetStage returns the last Stage built by ReconstructStage, or nil.
func (r *Reader) GetStage() *usd.Stage {
	return r.stage
}

// GetError returns the accumulated fatal/per-Prim error text, joined,
// or "" if none occurred.
func (r *Reader) GetError() string {
	return strings.Join(r.errs, "\n")
}

// GetWarning returns the accumulated warning text, joined, or "" if none.
func (r *Reader) GetWarning() string {
	return strings.Join(r.warnings, "\n")
}
