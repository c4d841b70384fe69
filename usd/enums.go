package usd

// Specifier is the declaration kind on a Prim header: def, over, or class.
type Specifier int

const (
	SpecifierDef Specifier = iota
	SpecifierOver
	SpecifierClass
)

func (s Specifier) String() string {
	switch s {
	case SpecifierDef:
		return "def"
	case SpecifierOver:
		return "over"
	case SpecifierClass:
		return "class"
	default:
		return "unknown"
	}
}

// ListEditQualifier annotates how a list-valued metadata field composes
// with the same field on weaker opinions. Explicit means no edit keyword
// was written — a plain assignment.
type ListEditQualifier int

const (
	EditExplicit ListEditQualifier = iota
	EditAdd
	EditAppend
	EditPrepend
	EditDelete
	EditReset
)

func (q ListEditQualifier) String() string {
	switch q {
	case EditExplicit:
		return "explicit"
	case EditAdd:
		return "add"
	case EditAppend:
		return "append"
	case EditPrepend:
		return "prepend"
	case EditDelete:
		return "delete"
	case EditReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Kind is the closed set of tokens recognized for the "kind" metadata field.
type Kind int

const (
	KindUnset Kind = iota
	KindSubcomponent
	KindComponent
	KindModel
	KindGroup
	KindAssembly
	KindSceneLibrary
)

var kindTokens = map[string]Kind{
	"subcomponent": KindSubcomponent,
	"component":    KindComponent,
	"model":        KindModel,
	"group":        KindGroup,
	"assembly":     KindAssembly,
	"sceneLibrary": KindSceneLibrary,
}

// ParseKind matches a token against the closed kind enum.
func ParseKind(tok string) (Kind, bool) {
	k, ok := kindTokens[tok]
	return k, ok
}

func (k Kind) String() string {
	for tok, v := range kindTokens {
		if v == k {
			return tok
		}
	}
	return "unset"
}

// PlaybackMode is the closed set of tokens for the "playbackMode" stage
// metadata field. Per design note (c), unrecognized tokens are an error —
// there is no silent fallback to None.
type PlaybackMode int

const (
	PlaybackModeNone PlaybackMode = iota
	PlaybackModeLoop
)

var playbackModeTokens = map[string]PlaybackMode{
	"none": PlaybackModeNone,
	"loop": PlaybackModeLoop,
}

// ParsePlaybackMode matches a token against the closed playbackMode enum.
func ParsePlaybackMode(tok string) (PlaybackMode, bool) {
	m, ok := playbackModeTokens[tok]
	return m, ok
}

// PrimType is the closed set of schema types the reader recognizes. Model
// is the fallback used for any type name outside this set.
type PrimType int

const (
	PrimTypeXform PrimType = iota
	PrimTypeScope
	PrimTypeModel
	PrimTypeGeomMesh
	PrimTypeGeomSphere
	PrimTypeGeomCube
	PrimTypeGeomCone
	PrimTypeGeomCylinder
	PrimTypeGeomCapsule
	PrimTypeGeomPoints
	PrimTypeGeomBasisCurves
	PrimTypeGeomSubset
	PrimTypeGeomCamera
	PrimTypeSphereLight
	PrimTypeDomeLight
	PrimTypeDiskLight
	PrimTypeDistantLight
	PrimTypeCylinderLight
	PrimTypeMaterial
	PrimTypeShader
	PrimTypeSkelRoot
	PrimTypeSkeleton
	PrimTypeSkelAnimation
	PrimTypeBlendShape
	PrimTypeGPrim
	PrimTypeNodeGraph
)

// SchemaTypeNames maps the canonical USD type name to the PrimType it
// reconstructs as. schema.Registry mirrors it, and the reader registers one
// prim-construct callback per Registry entry (§4.1).
var SchemaTypeNames = map[string]PrimType{
	"Xform":          PrimTypeXform,
	"Scope":          PrimTypeScope,
	"Mesh":           PrimTypeGeomMesh,
	"Sphere":         PrimTypeGeomSphere,
	"Cube":           PrimTypeGeomCube,
	"Cone":           PrimTypeGeomCone,
	"Cylinder":       PrimTypeGeomCylinder,
	"Capsule":        PrimTypeGeomCapsule,
	"Points":         PrimTypeGeomPoints,
	"BasisCurves":    PrimTypeGeomBasisCurves,
	"GeomSubset":     PrimTypeGeomSubset,
	"Camera":         PrimTypeGeomCamera,
	"SphereLight":    PrimTypeSphereLight,
	"DomeLight":      PrimTypeDomeLight,
	"DiskLight":      PrimTypeDiskLight,
	"DistantLight":   PrimTypeDistantLight,
	"CylinderLight":  PrimTypeCylinderLight,
	"Material":       PrimTypeMaterial,
	"Shader":         PrimTypeShader,
	"SkelRoot":       PrimTypeSkelRoot,
	"Skeleton":       PrimTypeSkeleton,
	"SkelAnimation":  PrimTypeSkelAnimation,
	"BlendShape":     PrimTypeBlendShape,
	"NodeGraph":      PrimTypeNodeGraph,
	// GPrim is intentionally left unregistered: see design note (a) in
	// DESIGN.md — a Prim declared exactly "GPrim" falls through to the
	// unknown-type path and is reported with a warning.
}

func (t PrimType) String() string {
	for name, v := range SchemaTypeNames {
		if v == t {
			return name
		}
	}
	if t == PrimTypeModel {
		return "Model"
	}
	if t == PrimTypeGPrim {
		return "GPrim"
	}
	return "Unknown"
}
