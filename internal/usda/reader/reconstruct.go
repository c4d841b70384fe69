package reader

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/usdscene/usdscene/usd"
)

// ReconstructStage implements §4.7: a bottom-up, recursive build of the
// typed Stage tree from the PrimNode store, valid only after a
// successful Toplevel Read. Any out-of-range index or duplicate variant
// child aborts the whole pass; no partial Stage is kept (§4.7, "Failure
// semantics").
func (r *Reader) ReconstructStage() error {
	if r.loadState != Toplevel {
		return fmt.Errorf("%w: ReconstructStage requires a Toplevel Read", usd.ErrStateViolation)
	}
	if r.fatal != nil {
		return fmt.Errorf("%w: Read did not complete successfully", usd.ErrStateViolation)
	}

	visited := roaring.New()

	var build func(idx int) (*usd.Prim, error)
	build = func(idx int) (*usd.Prim, error) {
		if idx < 0 || idx >= len(r.nodes) || r.nodes[idx] == nil {
			return nil, fmt.Errorf("%w: prim index %d", usd.ErrIndexOutOfRange, idx)
		}
		if visited.Contains(uint32(idx)) {
			return nil, fmt.Errorf("%w: prim index %d reached more than once", usd.ErrDuplicateVariantChild, idx)
		}
		visited.Add(uint32(idx))

		node := r.nodes[idx]
		out := &usd.Prim{
			Specifier:     node.specifier,
			Name:          node.elementName,
			ModelTypeName: node.modelType,
			Meta:          node.meta,
			Properties:    node.properties,
		}
		// node.typed is always populated: every construct path produces
		// either a real schema or the usd.Model fallback (§4.1). PrimTypeGPrim
		// itself is never materialized — see design note (a).
		out.Schema = node.typed
		out.Type = node.typed.PrimType()

		placedByVariant := make(map[int]bool, len(node.children))
		if len(node.variantSets) > 0 {
			out.VariantSets = make(map[string]*usd.VariantSet, len(node.variantSets))
			for setName, variants := range node.variantSets {
				vs := &usd.VariantSet{Name: setName, Variants: make(map[string]*usd.Variant, len(variants))}
				if sel, ok := node.meta.Variants[setName]; ok {
					vs.Selected = sel
				}
				for variantName, vn := range variants {
					variant := &usd.Variant{Name: variantName, Meta: vn.meta, Properties: vn.properties}
					for _, childIdx := range vn.primChildren {
						if placedByVariant[childIdx] {
							return nil, fmt.Errorf("%w: prim index %d", usd.ErrDuplicateVariantChild, childIdx)
						}
						placedByVariant[childIdx] = true
						child, err := build(childIdx)
						if err != nil {
							return nil, err
						}
						variant.Children = append(variant.Children, child)
					}
					vs.Variants[variantName] = variant
				}
				out.VariantSets[setName] = vs
			}
		}

		for _, childIdx := range node.children {
			if placedByVariant[childIdx] {
				continue
			}
			child, err := build(childIdx)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, child)
		}
		return out, nil
	}

	roots := make([]*usd.Prim, 0, len(r.topLevel))
	for _, idx := range r.topLevel {
		p, err := build(idx)
		if err != nil {
			r.errs = append(r.errs, err.Error())
			return err
		}
		roots = append(roots, p)
	}

	if int(visited.GetCardinality()) != len(r.nodes) {
		err := fmt.Errorf("%w: %d of %d prim indices unreachable after reconstruction",
			usd.ErrIndexOutOfRange, len(r.nodes)-int(visited.GetCardinality()), len(r.nodes))
		r.errs = append(r.errs, err.Error())
		return err
	}

	stage := &usd.Stage{Metas: r.stageMetas, Root: roots}
	assignPrimPaths(stage)
	r.stage = stage
	return nil
}

// assignPrimPaths walks the freshly built Stage in pre-order, computing
// each Prim's absolute Path and a stable ID equal to its traversal
// position, exactly as §4.7 describes. Variant subgraphs are visited in
// map order, which is the one place this reader's output ordering is
// not a strict function of source text (ordinary children, carried in
// slices, always are).
func assignPrimPaths(stage *usd.Stage) {
	id := 0
	root := usd.Path{Prim: "/"}

	var rec func(p *usd.Prim, parent usd.Path)
	rec = func(p *usd.Prim, parent usd.Path) {
		p.Path = parent.AppendChild(p.Name)
		p.ID = id
		id++
		for _, vs := range p.VariantSets {
			for _, v := range vs.Variants {
				for _, c := range v.Children {
					rec(c, p.Path)
				}
			}
		}
		for _, c := range p.Children {
			rec(c, p.Path)
		}
	}
	for _, p := range stage.Root {
		rec(p, root)
	}
}

// GetAsLayer implements §4.8: a simpler, untyped analogue of
// ReconstructStage. It is one-shot — the PrimSpec store is moved out of
// and invalidated on success, matching the lifecycle contract in §3.
func (r *Reader) GetAsLayer() (*usd.Layer, error) {
	if r.loadState == Toplevel {
		return nil, fmt.Errorf("%w: GetAsLayer requires a non-Toplevel Read", usd.ErrStateViolation)
	}
	if r.specInvalid {
		return nil, fmt.Errorf("%w: PrimSpec store already invalidated by a prior GetAsLayer", usd.ErrStateViolation)
	}
	if r.fatal != nil {
		return nil, fmt.Errorf("%w: Read did not complete successfully", usd.ErrStateViolation)
	}

	visited := roaring.New()

	var build func(idx int) (*usd.PrimSpec, error)
	build = func(idx int) (*usd.PrimSpec, error) {
		if idx < 0 || idx >= len(r.specNodes) || r.specNodes[idx] == nil {
			return nil, fmt.Errorf("%w: prim index %d", usd.ErrIndexOutOfRange, idx)
		}
		if visited.Contains(uint32(idx)) {
			return nil, fmt.Errorf("%w: prim index %d reached more than once", usd.ErrDuplicateVariantChild, idx)
		}
		visited.Add(uint32(idx))

		node := r.specNodes[idx]
		out := &usd.PrimSpec{
			Name:       node.name,
			Specifier:  node.specifier,
			TypeName:   node.typeName,
			Properties: node.properties,
			Meta:       node.meta,
		}

		placedByVariant := make(map[int]bool, len(node.children))
		if len(node.variantSets) > 0 {
			out.VariantSets = make(map[string]map[string]*usd.RawVariantSpec, len(node.variantSets))
			for setName, variants := range node.variantSets {
				vs := make(map[string]*usd.RawVariantSpec, len(variants))
				for variantName, vn := range variants {
					spec := &usd.RawVariantSpec{Meta: vn.meta, Properties: vn.properties}
					for _, childIdx := range vn.children {
						if placedByVariant[childIdx] {
							return nil, fmt.Errorf("%w: prim index %d", usd.ErrDuplicateVariantChild, childIdx)
						}
						placedByVariant[childIdx] = true
						child, err := build(childIdx)
						if err != nil {
							return nil, err
						}
						spec.Children = append(spec.Children, child)
					}
					vs[variantName] = spec
				}
				out.VariantSets[setName] = vs
			}
		}

		for _, childIdx := range node.children {
			if placedByVariant[childIdx] {
				continue
			}
			child, err := build(childIdx)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, child)
		}
		return out, nil
	}

	roots := make([]*usd.PrimSpec, 0, len(r.specTopLevel))
	for _, idx := range r.specTopLevel {
		p, err := build(idx)
		if err != nil {
			r.errs = append(r.errs, err.Error())
			return nil, err
		}
		roots = append(roots, p)
	}

	if int(visited.GetCardinality()) != len(r.specNodes) {
		err := fmt.Errorf("%w: %d of %d prim indices unreachable after reconstruction",
			usd.ErrIndexOutOfRange, len(r.specNodes)-int(visited.GetCardinality()), len(r.specNodes))
		r.errs = append(r.errs, err.Error())
		return nil, err
	}

	layer := &usd.Layer{Metas: r.stageMetas, Root: roots}
	r.specNodes = nil
	r.specTopLevel = nil
	r.specInvalid = true
	return layer, nil
}
