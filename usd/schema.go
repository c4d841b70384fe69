package usd

// Schema is implemented by every per-type payload a Prim can carry.
// The reader's per-schema reconstructors (§6, "per-schema reconstructor
// boundary") each produce one of these from a Prim's PropertyMap; this
// spec's core does not interpret the payload further, it only attaches
// it to the Prim.
type Schema interface {
	PrimType() PrimType
}

type Xform struct{}

func (Xform) PrimType() PrimType { return PrimTypeXform }

type Scope struct{}

func (Scope) PrimType() PrimType { return PrimTypeScope }

// Model is the fallback payload for an unrecognized type name
// (§4.1, "Unknown Prim types"). The original type-name string lives on
// the owning Prim (ModelTypeName), not here, so Model itself carries no
// state distinct from the zero value.
type Model struct{}

func (Model) PrimType() PrimType { return PrimTypeModel }

type GeomMesh struct {
	Points            []Vec3
	FaceVertexCounts  []int
	FaceVertexIndices []int
	Normals           []Vec3
	DoubleSided       bool
}

func (GeomMesh) PrimType() PrimType { return PrimTypeGeomMesh }

type GeomSphere struct{ Radius float64 }

func (GeomSphere) PrimType() PrimType { return PrimTypeGeomSphere }

type GeomCube struct{ Size float64 }

func (GeomCube) PrimType() PrimType { return PrimTypeGeomCube }

type GeomCone struct {
	Height float64
	Radius float64
	Axis   string
}

func (GeomCone) PrimType() PrimType { return PrimTypeGeomCone }

type GeomCylinder struct {
	Height float64
	Radius float64
	Axis   string
}

func (GeomCylinder) PrimType() PrimType { return PrimTypeGeomCylinder }

type GeomCapsule struct {
	Height float64
	Radius float64
	Axis   string
}

func (GeomCapsule) PrimType() PrimType { return PrimTypeGeomCapsule }

type GeomPoints struct {
	Points []Vec3
	Widths []float64
}

func (GeomPoints) PrimType() PrimType { return PrimTypeGeomPoints }

type GeomBasisCurves struct {
	Points        []Vec3
	CurveVertexCounts []int
	Type          string // "linear" or "cubic"
	Basis         string
	Wrap          string
}

func (GeomBasisCurves) PrimType() PrimType { return PrimTypeGeomBasisCurves }

type GeomSubset struct {
	ElementType string
	Indices     []int
	Family      string
}

func (GeomSubset) PrimType() PrimType { return PrimTypeGeomSubset }

type GeomCamera struct {
	FocalLength     float64
	FocusDistance   float64
	HorizontalAperture float64
	VerticalAperture   float64
}

func (GeomCamera) PrimType() PrimType { return PrimTypeGeomCamera }

type SphereLight struct {
	Intensity float64
	Color     Vec3
	Radius    float64
}

func (SphereLight) PrimType() PrimType { return PrimTypeSphereLight }

type DomeLight struct {
	Intensity float64
	Color     Vec3
	TextureFile string
}

func (DomeLight) PrimType() PrimType { return PrimTypeDomeLight }

type DiskLight struct {
	Intensity float64
	Color     Vec3
	Radius    float64
}

func (DiskLight) PrimType() PrimType { return PrimTypeDiskLight }

type DistantLight struct {
	Intensity float64
	Color     Vec3
	Angle     float64
}

func (DistantLight) PrimType() PrimType { return PrimTypeDistantLight }

type CylinderLight struct {
	Intensity float64
	Color     Vec3
	Length    float64
	Radius    float64
}

func (CylinderLight) PrimType() PrimType { return PrimTypeCylinderLight }

type Material struct {
	SurfaceOutput string // path of the connected surface shader output, opaque
}

func (Material) PrimType() PrimType { return PrimTypeMaterial }

type Shader struct {
	ID     string
	Inputs map[string]any
}

func (Shader) PrimType() PrimType { return PrimTypeShader }

type SkelRoot struct{}

func (SkelRoot) PrimType() PrimType { return PrimTypeSkelRoot }

type Skeleton struct {
	Joints             []string
	BindTransforms     []Matrix4
	RestTransforms     []Matrix4
	AnimationSource    Path
	HasAnimationSource bool
}

func (Skeleton) PrimType() PrimType { return PrimTypeSkeleton }

// GetAnimationSource is a deliberate, spec-mandated divergence from the
// source reader: see design note (b) — the original's equivalent method
// returns false on the success path, which we treat as a latent bug and
// do not replicate. This returns true when an animationSource relationship
// is present.
func (s Skeleton) GetAnimationSource() (Path, bool) {
	return s.AnimationSource, s.HasAnimationSource
}

type SkelAnimation struct {
	Joints         []string
	Translations   []Vec3
	Rotations      []Quat
	Scales         []Vec3
}

func (SkelAnimation) PrimType() PrimType { return PrimTypeSkelAnimation }

type BlendShape struct {
	Offsets       []Vec3
	NormalOffsets []Vec3
	PointIndices  []int
}

func (BlendShape) PrimType() PrimType { return PrimTypeBlendShape }

type NodeGraph struct{}

func (NodeGraph) PrimType() PrimType { return PrimTypeNodeGraph }

// Vec3, Matrix4, and Quat are minimal value types for the handful of
// typed schema fields above; full numeric/value-printing support is an
// external collaborator (§1, "value printing") out of this spec's core.
type Vec3 struct{ X, Y, Z float64 }

type Matrix4 [4][4]float64

type Quat struct{ R, I, J, K float64 }
