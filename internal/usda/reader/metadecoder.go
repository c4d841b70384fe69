package reader

import (
	"fmt"
	"strings"

	"github.com/usdscene/usdscene/internal/usda/parser"
	"github.com/usdscene/usdscene/usd"
)

// knownAPISchemas is the small closed set this reader recognizes for
// "apiSchemas" validation (§4.3). Unrecognized names are dropped with a
// warning rather than rejected outright, per allow_unknown_apiSchemas.
var knownAPISchemas = map[string]bool{
	"CollectionAPI":       true,
	"MaterialBindingAPI":  true,
	"SkelBindingAPI":      true,
	"PhysicsRigidBodyAPI": true,
	"PhysicsCollisionAPI": true,
}

func typeErr(key string, v any) error {
	return fmt.Errorf("%w: %s: got %T", usd.ErrInvalidMetadataType, key, v)
}

func splitAPISchemaName(n string) (name, instance string) {
	if i := strings.IndexByte(n, ':'); i >= 0 {
		return n[:i], n[i+1:]
	}
	return n, ""
}

func decodePathList(v any) ([]usd.Path, error) {
	if v == nil {
		return nil, nil
	}
	switch vv := v.(type) {
	case usd.Path:
		return []usd.Path{vv}, nil
	case []any:
		out := make([]usd.Path, 0, len(vv))
		for _, item := range vv {
			p, ok := item.(usd.Path)
			if !ok {
				return nil, fmt.Errorf("%w: expected path literal, got %T", usd.ErrInvalidMetadataType, item)
			}
			out = append(out, p)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected path or path list, got %T", usd.ErrInvalidMetadataType, v)
	}
}

func decodeStringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	switch vv := v.(type) {
	case string:
		return []string{vv}, nil
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: expected string, got %T", usd.ErrInvalidMetadataType, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected string or string list, got %T", usd.ErrInvalidMetadataType, v)
	}
}

func decodeReferenceList(v any) ([]usd.Reference, error) {
	if v == nil {
		return nil, nil
	}
	switch vv := v.(type) {
	case usd.Reference:
		return []usd.Reference{vv}, nil
	case []any:
		out := make([]usd.Reference, 0, len(vv))
		for _, item := range vv {
			ref, ok := item.(usd.Reference)
			if !ok {
				return nil, fmt.Errorf("%w: expected reference, got %T", usd.ErrInvalidMetadataType, item)
			}
			out = append(out, ref)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected reference or reference list, got %T", usd.ErrInvalidMetadataType, v)
	}
}

// decodePrimMeta implements the PrimMetaDecoder of §4.3: a pure dispatch
// over the closed metadata key set, with strict per-key type checks.
func decodePrimMeta(raw map[string]usd.RawMetaEntry, cfg parser.Config) (usd.PrimMeta, []string, error) {
	var meta usd.PrimMeta
	var warnings []string
	var unknown map[string]any

	for key, entry := range raw {
		switch key {
		case "active":
			b, ok := entry.Value.(bool)
			if !ok {
				return meta, warnings, typeErr(key, entry.Value)
			}
			meta.Active, meta.HasActive = b, true
		case "hidden":
			b, ok := entry.Value.(bool)
			if !ok {
				return meta, warnings, typeErr(key, entry.Value)
			}
			meta.Hidden, meta.HasHidden = b, true
		case "kind":
			s, ok := entry.Value.(string)
			if !ok {
				return meta, warnings, typeErr(key, entry.Value)
			}
			k, ok := usd.ParseKind(s)
			if !ok {
				return meta, warnings, fmt.Errorf("%w: kind %q", usd.ErrUnknownEnumToken, s)
			}
			meta.Kind = k
		case "sceneName":
			s, ok := entry.Value.(string)
			if !ok {
				return meta, warnings, typeErr(key, entry.Value)
			}
			meta.SceneName = s
		case "displayName":
			s, ok := entry.Value.(string)
			if !ok {
				return meta, warnings, typeErr(key, entry.Value)
			}
			meta.DisplayName = s
		case "customData":
			m, ok := entry.Value.(map[string]any)
			if !ok {
				return meta, warnings, typeErr(key, entry.Value)
			}
			meta.CustomData = m
		case "assetInfo":
			m, ok := entry.Value.(map[string]any)
			if !ok {
				return meta, warnings, typeErr(key, entry.Value)
			}
			meta.AssetInfo = m
		case "variants":
			m, ok := entry.Value.(map[string]any)
			if !ok {
				return meta, warnings, typeErr(key, entry.Value)
			}
			meta.Variants = make(map[string]string, len(m))
			for k, v := range m {
				s, ok := v.(string)
				if !ok {
					return meta, warnings, fmt.Errorf("%w: variants[%s]: got %T", usd.ErrInvalidMetadataType, k, v)
				}
				meta.Variants[k] = s
			}
		case "inherits":
			paths, err := decodePathList(entry.Value)
			if err != nil {
				return meta, warnings, err
			}
			meta.Inherits = usd.EditList[usd.Path]{Qualifier: entry.Qualifier, Values: paths}
		case "specializes":
			paths, err := decodePathList(entry.Value)
			if err != nil {
				return meta, warnings, err
			}
			meta.Specializes = usd.EditList[usd.Path]{Qualifier: entry.Qualifier, Values: paths}
		case "variantSets":
			strs, err := decodeStringList(entry.Value)
			if err != nil {
				return meta, warnings, err
			}
			meta.VariantSets = usd.EditList[string]{Qualifier: entry.Qualifier, Values: strs}
		case "apiSchemas":
			if entry.Qualifier != usd.EditPrepend && entry.Qualifier != usd.EditReset {
				return meta, warnings, fmt.Errorf("%w: apiSchemas must be prepend or reset, got %s", usd.ErrInvalidListEditQualifier, entry.Qualifier)
			}
			names, err := decodeStringList(entry.Value)
			if err != nil {
				return meta, warnings, err
			}
			var schemas []usd.APISchema
			for _, n := range names {
				base, instance := splitAPISchemaName(n)
				if !knownAPISchemas[base] {
					if !cfg.AllowUnknownAPISchemas {
						return meta, warnings, fmt.Errorf("%w: apiSchemas: %q", usd.ErrUnknownEnumToken, n)
					}
					warnings = append(warnings, fmt.Sprintf("unknown API schema %q", n))
					continue
				}
				schemas = append(schemas, usd.APISchema{Name: base, InstanceName: instance})
			}
			meta.APISchemas.Qualifier = entry.Qualifier
			meta.APISchemas.Schemas = schemas
		case "references":
			refs, err := decodeReferenceList(entry.Value)
			if err != nil {
				return meta, warnings, err
			}
			meta.References = usd.EditList[usd.Reference]{Qualifier: entry.Qualifier, Values: refs}
		case "payload":
			refs, err := decodeReferenceList(entry.Value)
			if err != nil {
				return meta, warnings, err
			}
			meta.Payload = usd.EditList[usd.Reference]{Qualifier: entry.Qualifier, Values: refs}
		case "comment":
			s, ok := entry.Value.(string)
			if !ok {
				return meta, warnings, typeErr(key, entry.Value)
			}
			meta.Comment = s
		case "subLayers":
			// Stage-only; harmless if present on a Prim, but not a
			// recognized Prim-level field either. Falls to unknown.
			fallthrough
		default:
			warnings = append(warnings, fmt.Sprintf("unknown metadata key %q", key))
			if unknown == nil {
				unknown = map[string]any{}
			}
			unknown[key] = entry.Value
		}
	}
	meta.Unknown = unknown
	return meta, warnings, nil
}

// decodeStageMeta implements §4.6: the stage-metadata callback's
// validation, over the same raw-entry shape as Prim metadata.
func decodeStageMeta(raw map[string]usd.RawMetaEntry, subLayers []string) (usd.StageMetas, []string, error) {
	var metas usd.StageMetas
	metas.SubLayers = subLayers
	var warnings []string

	for key, entry := range raw {
		switch key {
		case "doc":
			s, ok := entry.Value.(string)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.Doc = s
		case "upAxis":
			s, ok := entry.Value.(string)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.UpAxis, metas.HasUpAxis = s, true
		case "comment":
			s, ok := entry.Value.(string)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.Comment = s
		case "subLayers":
			// already decoded by the parser into the subLayers argument
		case "defaultPrim":
			s, ok := entry.Value.(string)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.DefaultPrim = s
		case "metersPerUnit":
			f, ok := entry.Value.(float64)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.MetersPerUnit, metas.HasMetersPerUnit = f, true
		case "timeCodesPerSecond":
			f, ok := entry.Value.(float64)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.TimeCodesPerSecond, metas.HasTimeCodesPerSec = f, true
		case "startTimeCode":
			f, ok := entry.Value.(float64)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.StartTimeCode, metas.HasStartTimeCode = f, true
		case "endTimeCode":
			f, ok := entry.Value.(float64)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.EndTimeCode, metas.HasEndTimeCode = f, true
		case "framesPerSecond":
			f, ok := entry.Value.(float64)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.FramesPerSecond, metas.HasFramesPerSecond = f, true
		case "autoPlay":
			b, ok := entry.Value.(bool)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.AutoPlay, metas.HasAutoPlay = b, true
		case "playbackMode":
			s, ok := entry.Value.(string)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			m, ok := usd.ParsePlaybackMode(s)
			if !ok {
				return metas, warnings, fmt.Errorf("%w: playbackMode %q", usd.ErrUnknownEnumToken, s)
			}
			metas.PlaybackMode, metas.HasPlaybackMode = m, true
		case "customLayerData":
			m, ok := entry.Value.(map[string]any)
			if !ok {
				return metas, warnings, typeErr(key, entry.Value)
			}
			metas.CustomLayerData = m
		default:
			warnings = append(warnings, fmt.Sprintf("unknown stage metadata key %q", key))
		}
	}
	return metas, warnings, nil
}
