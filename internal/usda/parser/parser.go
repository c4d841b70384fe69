package parser

import (
	"fmt"

	"github.com/usdscene/usdscene/internal/usda/token"
	"github.com/usdscene/usdscene/usd"
)

var specifierTokens = map[string]usd.Specifier{
	"def":   usd.SpecifierDef,
	"over":  usd.SpecifierOver,
	"class": usd.SpecifierClass,
}

func isSpecifierToken(s string) bool {
	_, ok := specifierTokens[s]
	return ok
}

// Parser is the recursive-descent grammar over the lexer's token stream.
// It is created fresh per Parse call and holds no state across calls.
type Parser struct {
	lex   *token.Lexer
	cur   token.Token
	cfg   Config
	hooks Hooks
}

// Parse runs AsciiParser over src, invoking hooks.StageMeta once and
// hooks.AssignIndex/PrimConstruct-or-PrimSpec once per Prim header, in
// the deterministic textual order described in §5.
func Parse(src []byte, cfg Config, hooks Hooks) error {
	if hooks.AssignIndex == nil {
		return fmt.Errorf("%w: AssignIndex hook is required", usd.ErrStateViolation)
	}
	if hooks.PrimSpec == nil && hooks.PrimFallback == nil {
		return fmt.Errorf("%w: either PrimSpec or PrimFallback hook is required", usd.ErrStateViolation)
	}

	p := &Parser{lex: token.NewLexer(src), cfg: cfg, hooks: hooks}
	if err := p.next(); err != nil {
		return err
	}

	var rawMeta map[string]RawMetaEntry
	if p.cur.Kind == token.LParen {
		meta, err := p.parseMetadataBlock()
		if err != nil {
			return err
		}
		rawMeta = meta
	}

	var subLayers []string
	if entry, ok := rawMeta["subLayers"]; ok {
		if list, ok := entry.Value.([]any); ok {
			for _, item := range list {
				if ref, ok := item.(usd.Reference); ok {
					subLayers = append(subLayers, ref.AssetPath)
				} else if s, ok := item.(string); ok {
					subLayers = append(subLayers, s)
				}
			}
		}
	}

	if hooks.StageMeta != nil {
		if err := hooks.StageMeta(rawMeta, subLayers); err != nil {
			return err
		}
	}

	for p.cur.Kind != token.EOF {
		if p.cur.Kind != token.Ident || !isSpecifierToken(p.cur.Text) {
			return fmt.Errorf("%w: expected prim specifier at line %d, got %s %q",
				usd.ErrMalformedInput, p.cur.Line, p.cur.Kind, p.cur.Text)
		}
		if _, err := p.parsePrim(-1, 0); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) next() error {
	t, err := p.lex.Next()
	if err != nil {
		return fmt.Errorf("%w: %v", usd.ErrMalformedInput, err)
	}
	if len(t.Text) > p.cfg.MaxTokenLength {
		return fmt.Errorf("%w: token at line %d exceeds kMaxTokenLength", usd.ErrResourceLimitExceeded, t.Line)
	}
	if t.Kind == token.String && len(t.Text) > p.cfg.MaxStringLength {
		return fmt.Errorf("%w: string at line %d exceeds kMaxStringLength", usd.ErrResourceLimitExceeded, t.Line)
	}
	p.cur = t
	return nil
}

func (p *Parser) expect(k token.Kind) error {
	if p.cur.Kind != k {
		return fmt.Errorf("%w: expected %s at line %d, got %s %q",
			usd.ErrMalformedInput, k, p.cur.Line, p.cur.Kind, p.cur.Text)
	}
	return p.next()
}

// parsePrim parses one "specifier typeName? "name" metadata? { body }"
// statement and dispatches the resulting callback. It returns the index
// assigned to this Prim so a variant-case caller can record it among its
// primChildren.
func (p *Parser) parsePrim(parentIdx, depth int) (int, error) {
	if depth > p.cfg.MaxPrimNestLevel {
		return 0, fmt.Errorf("%w: nesting depth exceeds kMaxPrimNestLevel", usd.ErrResourceLimitExceeded)
	}

	specTok := p.cur
	spec := specifierTokens[specTok.Text]
	if err := p.next(); err != nil {
		return 0, err
	}

	typeName := ""
	if p.cur.Kind == token.Ident {
		typeName = p.cur.Text
		if err := p.next(); err != nil {
			return 0, err
		}
	}

	if p.cur.Kind != token.String {
		return 0, fmt.Errorf("%w: expected prim name string at line %d", usd.ErrMalformedInput, p.cur.Line)
	}
	name := p.cur.Text
	line := p.cur.Line
	if !usd.IsValidElementName(name) {
		return 0, fmt.Errorf("%w: %q at line %d", usd.ErrInvalidName, name, line)
	}
	if err := p.next(); err != nil {
		return 0, err
	}

	var rawMeta map[string]RawMetaEntry
	if p.cur.Kind == token.LParen {
		meta, err := p.parseMetadataBlock()
		if err != nil {
			return 0, err
		}
		rawMeta = meta
	}

	idx := p.hooks.AssignIndex(parentIdx)

	if err := p.expect(token.LBrace); err != nil {
		return 0, err
	}
	props, variants, _, err := p.parseBody(idx, depth+1)
	if err != nil {
		return 0, err
	}
	if err := p.expect(token.RBrace); err != nil {
		return 0, err
	}

	ctx := PrimContext{
		Path:        name,
		Specifier:   spec,
		TypeName:    typeName,
		ElementName: name,
		Index:       idx,
		ParentIndex: parentIdx,
		Properties:  props,
		RawMeta:     rawMeta,
		RawVariants: variants,
		Line:        line,
	}

	if p.hooks.PrimSpec != nil {
		if err := p.hooks.PrimSpec(ctx); err != nil {
			return 0, err
		}
		return idx, nil
	}

	if fn, ok := p.hooks.PrimConstruct[typeName]; ok {
		if err := fn(ctx); err != nil {
			return 0, err
		}
		return idx, nil
	}
	if err := p.hooks.PrimFallback(ctx); err != nil {
		return 0, err
	}
	return idx, nil
}

// parseBody parses the statements inside a prim's or variant case's
// braces: properties (opaque), nested prims, and variant sets. It
// returns the ordinary child indices encountered directly at this level
// (used by variant-case parsing to build VariantNode.primChildren; the
// owning prim discards this return value because each child already
// linked itself into the store via its own callback, §4.4 step 6).
func (p *Parser) parseBody(parentIdx, depth int) (*usd.PropertyMap, []RawVariantGroup, []int, error) {
	props := usd.NewPropertyMap()
	var variants []RawVariantGroup
	var childIdx []int

	for p.cur.Kind != token.RBrace {
		if p.cur.Kind == token.EOF {
			return nil, nil, nil, fmt.Errorf("%w: unterminated block", usd.ErrMalformedInput)
		}
		switch {
		case p.cur.Kind == token.Ident && p.cur.Text == "variantSet":
			groups, err := p.parseVariantSet(parentIdx, depth)
			if err != nil {
				return nil, nil, nil, err
			}
			variants = append(variants, groups...)
		case p.cur.Kind == token.Ident && isSpecifierToken(p.cur.Text):
			idx, err := p.parsePrim(parentIdx, depth)
			if err != nil {
				return nil, nil, nil, err
			}
			childIdx = append(childIdx, idx)
		default:
			name, prop, err := p.parseProperty()
			if err != nil {
				return nil, nil, nil, err
			}
			props.Set(name, prop)
		}
	}
	return props, variants, childIdx, nil
}

// parseVariantSet parses "variantSet "name" = { "variant" meta? { body } ... }".
func (p *Parser) parseVariantSet(parentIdx, depth int) ([]RawVariantGroup, error) {
	if err := p.next(); err != nil { // consume 'variantSet'
		return nil, err
	}
	if p.cur.Kind != token.String {
		return nil, fmt.Errorf("%w: expected variant set name at line %d", usd.ErrMalformedInput, p.cur.Line)
	}
	setName := p.cur.Text
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.expect(token.Equals); err != nil {
		return nil, err
	}
	if err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	var groups []RawVariantGroup
	for p.cur.Kind != token.RBrace {
		if p.cur.Kind != token.String {
			return nil, fmt.Errorf("%w: expected variant name at line %d", usd.ErrMalformedInput, p.cur.Line)
		}
		variantName := p.cur.Text
		if err := p.next(); err != nil {
			return nil, err
		}

		var meta map[string]RawMetaEntry
		if p.cur.Kind == token.LParen {
			m, err := p.parseMetadataBlock()
			if err != nil {
				return nil, err
			}
			meta = m
		}

		if err := p.expect(token.LBrace); err != nil {
			return nil, err
		}
		props, nested, childIdx, err := p.parseBody(parentIdx, depth+1)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RBrace); err != nil {
			return nil, err
		}

		groups = append(groups, nested...)
		groups = append(groups, RawVariantGroup{
			SetName:      setName,
			VariantName:  variantName,
			Meta:         meta,
			Properties:   props,
			PrimChildren: childIdx,
		})
	}
	if err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return groups, nil
}

// parseProperty parses one opaque attribute or relationship statement.
func (p *Parser) parseProperty() (string, usd.Property, error) {
	custom := false
	uniform := false
	for p.cur.Kind == token.Ident && (p.cur.Text == "custom" || p.cur.Text == "uniform") {
		if p.cur.Text == "custom" {
			custom = true
		} else {
			uniform = true
		}
		if err := p.next(); err != nil {
			return "", usd.Property{}, err
		}
	}

	if p.cur.Kind == token.Ident && p.cur.Text == "rel" {
		if err := p.next(); err != nil {
			return "", usd.Property{}, err
		}
		name, err := p.parsePropertyName()
		if err != nil {
			return "", usd.Property{}, err
		}
		prop := usd.Property{Kind: usd.PropertyRelationship, Custom: custom}
		if p.cur.Kind == token.Equals {
			if err := p.next(); err != nil {
				return "", usd.Property{}, err
			}
			v, err := p.parseValue()
			if err != nil {
				return "", usd.Property{}, err
			}
			prop.Value = v
			switch vv := v.(type) {
			case usd.Path:
				prop.Targets = []usd.Path{vv}
			case []any:
				for _, item := range vv {
					if pp, ok := item.(usd.Path); ok {
						prop.Targets = append(prop.Targets, pp)
					}
				}
			}
		}
		return name, prop, nil
	}

	if p.cur.Kind != token.Ident {
		return "", usd.Property{}, fmt.Errorf("%w: expected property type at line %d, got %s", usd.ErrMalformedInput, p.cur.Line, p.cur.Kind)
	}
	typeName := p.cur.Text
	if err := p.next(); err != nil {
		return "", usd.Property{}, err
	}
	if p.cur.Kind == token.LBracket {
		// Peek: only consume as an array-type suffix "T[]" if immediately
		// followed by "]" with nothing in between.
		save := *p
		if err := p.next(); err == nil && p.cur.Kind == token.RBracket {
			typeName += "[]"
			if err := p.next(); err != nil {
				return "", usd.Property{}, err
			}
		} else {
			*p = save
		}
	}

	name, err := p.parsePropertyName()
	if err != nil {
		return "", usd.Property{}, err
	}
	prop := usd.Property{Kind: usd.PropertyAttribute, TypeName: typeName, Custom: custom, Uniform: uniform}

	if p.cur.Kind == token.Equals {
		if err := p.next(); err != nil {
			return "", usd.Property{}, err
		}
		v, err := p.parseValue()
		if err != nil {
			return "", usd.Property{}, err
		}
		prop.Value = v
	}
	if p.cur.Kind == token.LParen {
		if _, err := p.parseMetadataBlock(); err != nil {
			return "", usd.Property{}, err
		}
	}
	return name, prop, nil
}

func (p *Parser) parsePropertyName() (string, error) {
	if p.cur.Kind != token.Ident {
		return "", fmt.Errorf("%w: expected property name at line %d", usd.ErrMalformedInput, p.cur.Line)
	}
	name := p.cur.Text
	if err := p.next(); err != nil {
		return "", err
	}
	for p.cur.Kind == token.Dot {
		if err := p.next(); err != nil {
			return "", err
		}
		if p.cur.Kind != token.Ident {
			return "", fmt.Errorf("%w: expected identifier after '.' at line %d", usd.ErrMalformedInput, p.cur.Line)
		}
		name += "." + p.cur.Text
		if err := p.next(); err != nil {
			return "", err
		}
	}
	return name, nil
}
