package parser

import (
	"fmt"
	"strconv"

	"github.com/usdscene/usdscene/internal/usda/token"
	"github.com/usdscene/usdscene/usd"
)

// parseValue parses a single metadata/attribute value literal. It
// returns a Go value whose concrete type reflects what was written:
// string, bool, float64, nil (explicit "None"), usd.Path, usd.Reference,
// []any, or map[string]any.
func (p *Parser) parseValue() (any, error) {
	tok := p.cur
	switch tok.Kind {
	case token.String:
		if err := p.next(); err != nil {
			return nil, err
		}
		return tok.Text, nil
	case token.Number:
		if err := p.next(); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed number %q at line %d", usd.ErrMalformedInput, tok.Text, tok.Line)
		}
		return f, nil
	case token.PathLit:
		if err := p.next(); err != nil {
			return nil, err
		}
		path, err := usd.ParsePath(tok.Text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", usd.ErrMalformedInput, err)
		}
		return path, nil
	case token.Asset:
		if err := p.next(); err != nil {
			return nil, err
		}
		ref := usd.Reference{AssetPath: tok.Text}
		if p.cur.Kind == token.PathLit {
			path, err := usd.ParsePath(p.cur.Text)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", usd.ErrMalformedInput, err)
			}
			ref.PrimPath = path
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		return ref, nil
	case token.LBracket:
		return p.parseList()
	case token.LParen:
		return p.parseTuple()
	case token.LBrace:
		return p.parseDict()
	case token.Ident:
		switch tok.Text {
		case "true":
			if err := p.next(); err != nil {
				return nil, err
			}
			return true, nil
		case "false":
			if err := p.next(); err != nil {
				return nil, err
			}
			return false, nil
		case "None":
			if err := p.next(); err != nil {
				return nil, err
			}
			return nil, nil
		default:
			if err := p.next(); err != nil {
				return nil, err
			}
			return tok.Text, nil
		}
	default:
		return nil, fmt.Errorf("%w: unexpected token %s at line %d", usd.ErrMalformedInput, tok.Kind, tok.Line)
	}
}

func (p *Parser) parseList() (any, error) {
	if err := p.expect(token.LBracket); err != nil {
		return nil, err
	}
	var out []any
	for p.cur.Kind != token.RBracket {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if p.cur.Kind == token.Comma {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return out, nil
}

// parseTuple parses a "(v0, v1, ...)" tuple literal, used for vector and
// color values (e.g. "point3f[] points = [(0,0,0), (1,0,0)]"). Returned
// as []any rather than a fixed-arity type since the grammar has no static
// element-count knowledge; per-schema reconstruction in the schema
// package is responsible for asserting the arity it expects.
func (p *Parser) parseTuple() (any, error) {
	if err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var out []any
	for p.cur.Kind != token.RParen {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if p.cur.Kind == token.Comma {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return out, nil
}

// parseDict parses a "{ typeName key = value ... }" dictionary literal,
// used for customData, assetInfo, and customLayerData.
func (p *Parser) parseDict() (any, error) {
	if err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	out := map[string]any{}
	for p.cur.Kind != token.RBrace {
		if p.cur.Kind != token.Ident {
			return nil, fmt.Errorf("%w: expected dictionary entry type at line %d", usd.ErrMalformedInput, p.cur.Line)
		}
		if err := p.next(); err != nil { // type name token, not semantically needed since values are opaque
			return nil, err
		}
		if p.cur.Kind == token.LBracket { // array type suffix, e.g. "string[]"
			if err := p.next(); err != nil {
				return nil, err
			}
			if err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
		}
		if p.cur.Kind != token.Ident && p.cur.Kind != token.String {
			return nil, fmt.Errorf("%w: expected dictionary key at line %d", usd.ErrMalformedInput, p.cur.Line)
		}
		key := p.cur.Text
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.expect(token.Equals); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	if err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return out, nil
}

// parseMetadataBlock parses a "(" (qualifier? key = value)* ")" block.
func (p *Parser) parseMetadataBlock() (map[string]RawMetaEntry, error) {
	if err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	out := map[string]RawMetaEntry{}
	count := 0
	for p.cur.Kind != token.RParen {
		count++
		if count > p.cfg.MaxFieldValuePairs {
			return nil, fmt.Errorf("%w: metadata entry count exceeds kMaxFieldValuePairs", usd.ErrResourceLimitExceeded)
		}
		qual := usd.EditExplicit
		if p.cur.Kind == token.Ident {
			if q, ok := editQualifierTokens[p.cur.Text]; ok {
				qual = q
				if err := p.next(); err != nil {
					return nil, err
				}
			}
		}
		if p.cur.Kind != token.Ident {
			return nil, fmt.Errorf("%w: expected metadata key at line %d", usd.ErrMalformedInput, p.cur.Line)
		}
		key := p.cur.Text
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.expect(token.Equals); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out[key] = RawMetaEntry{Qualifier: qual, Value: v}
	}
	if err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return out, nil
}

var editQualifierTokens = map[string]usd.ListEditQualifier{
	"add":     usd.EditAdd,
	"append":  usd.EditAppend,
	"prepend": usd.EditPrepend,
	"delete":  usd.EditDelete,
	"reset":   usd.EditReset,
}
