package schema

import "github.com/usdscene/usdscene/usd"

func reconstructXform(_ *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	return usd.Xform{}, nil, nil
}

func reconstructScope(_ *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	return usd.Scope{}, nil, nil
}

func reconstructNodeGraph(_ *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	return usd.NodeGraph{}, nil, nil
}

func reconstructSkelRoot(_ *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	return usd.SkelRoot{}, nil, nil
}

func reconstructGeomMesh(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	points, w := getVec3Slice(props, "points")
	warnings = append(warnings, w...)
	counts, w := getIntSlice(props, "faceVertexCounts")
	warnings = append(warnings, w...)
	indices, w := getIntSlice(props, "faceVertexIndices")
	warnings = append(warnings, w...)
	normals, w := getVec3Slice(props, "normals")
	warnings = append(warnings, w...)
	doubleSided, w := getBool(props, "doubleSided", false)
	warnings = append(warnings, w...)
	return usd.GeomMesh{
		Points:            points,
		FaceVertexCounts:  counts,
		FaceVertexIndices: indices,
		Normals:           normals,
		DoubleSided:       doubleSided,
	}, warnings, nil
}

func reconstructGeomSphere(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	radius, warnings := getFloat(props, "radius", 1.0)
	return usd.GeomSphere{Radius: radius}, warnings, nil
}

func reconstructGeomCube(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	size, warnings := getFloat(props, "size", 2.0)
	return usd.GeomCube{Size: size}, warnings, nil
}

func reconstructGeomCone(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	height, w := getFloat(props, "height", 2.0)
	warnings = append(warnings, w...)
	radius, w := getFloat(props, "radius", 1.0)
	warnings = append(warnings, w...)
	axis, w := getString(props, "axis", "Z")
	warnings = append(warnings, w...)
	return usd.GeomCone{Height: height, Radius: radius, Axis: axis}, warnings, nil
}

func reconstructGeomCylinder(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	height, w := getFloat(props, "height", 2.0)
	warnings = append(warnings, w...)
	radius, w := getFloat(props, "radius", 1.0)
	warnings = append(warnings, w...)
	axis, w := getString(props, "axis", "Z")
	warnings = append(warnings, w...)
	return usd.GeomCylinder{Height: height, Radius: radius, Axis: axis}, warnings, nil
}

func reconstructGeomCapsule(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	height, w := getFloat(props, "height", 2.0)
	warnings = append(warnings, w...)
	radius, w := getFloat(props, "radius", 0.5)
	warnings = append(warnings, w...)
	axis, w := getString(props, "axis", "Z")
	warnings = append(warnings, w...)
	return usd.GeomCapsule{Height: height, Radius: radius, Axis: axis}, warnings, nil
}

func reconstructGeomPoints(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	points, w := getVec3Slice(props, "points")
	warnings = append(warnings, w...)
	widths, w := getFloatSlice(props, "widths")
	warnings = append(warnings, w...)
	return usd.GeomPoints{Points: points, Widths: widths}, warnings, nil
}

func reconstructGeomBasisCurves(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	points, w := getVec3Slice(props, "points")
	warnings = append(warnings, w...)
	counts, w := getIntSlice(props, "curveVertexCounts")
	warnings = append(warnings, w...)
	typ, w := getString(props, "type", "cubic")
	warnings = append(warnings, w...)
	basis, w := getString(props, "basis", "bezier")
	warnings = append(warnings, w...)
	wrap, w := getString(props, "wrap", "nonperiodic")
	warnings = append(warnings, w...)
	return usd.GeomBasisCurves{
		Points:            points,
		CurveVertexCounts: counts,
		Type:              typ,
		Basis:             basis,
		Wrap:              wrap,
	}, warnings, nil
}

func reconstructGeomSubset(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	elementType, w := getString(props, "elementType", "face")
	warnings = append(warnings, w...)
	indices, w := getIntSlice(props, "indices")
	warnings = append(warnings, w...)
	family, w := getString(props, "familyName", "")
	warnings = append(warnings, w...)
	return usd.GeomSubset{ElementType: elementType, Indices: indices, Family: family}, warnings, nil
}

func reconstructGeomCamera(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	focal, w := getFloat(props, "focalLength", 50.0)
	warnings = append(warnings, w...)
	focusDist, w := getFloat(props, "focusDistance", 0.0)
	warnings = append(warnings, w...)
	hAperture, w := getFloat(props, "horizontalAperture", 20.955)
	warnings = append(warnings, w...)
	vAperture, w := getFloat(props, "verticalAperture", 15.2908)
	warnings = append(warnings, w...)
	return usd.GeomCamera{
		FocalLength:        focal,
		FocusDistance:      focusDist,
		HorizontalAperture: hAperture,
		VerticalAperture:   vAperture,
	}, warnings, nil
}

func reconstructSphereLight(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	intensity, w := getFloat(props, "inputs:intensity", 1.0)
	warnings = append(warnings, w...)
	color, w := getVec3(props, "inputs:color", usd.Vec3{X: 1, Y: 1, Z: 1})
	warnings = append(warnings, w...)
	radius, w := getFloat(props, "inputs:radius", 0.5)
	warnings = append(warnings, w...)
	return usd.SphereLight{Intensity: intensity, Color: color, Radius: radius}, warnings, nil
}

func reconstructDiskLight(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	intensity, w := getFloat(props, "inputs:intensity", 1.0)
	warnings = append(warnings, w...)
	color, w := getVec3(props, "inputs:color", usd.Vec3{X: 1, Y: 1, Z: 1})
	warnings = append(warnings, w...)
	radius, w := getFloat(props, "inputs:radius", 0.5)
	warnings = append(warnings, w...)
	return usd.DiskLight{Intensity: intensity, Color: color, Radius: radius}, warnings, nil
}

func reconstructDomeLight(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	intensity, w := getFloat(props, "inputs:intensity", 1.0)
	warnings = append(warnings, w...)
	color, w := getVec3(props, "inputs:color", usd.Vec3{X: 1, Y: 1, Z: 1})
	warnings = append(warnings, w...)
	texture, w := getString(props, "inputs:texture:file", "")
	warnings = append(warnings, w...)
	return usd.DomeLight{Intensity: intensity, Color: color, TextureFile: texture}, warnings, nil
}

func reconstructDistantLight(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	intensity, w := getFloat(props, "inputs:intensity", 1.0)
	warnings = append(warnings, w...)
	color, w := getVec3(props, "inputs:color", usd.Vec3{X: 1, Y: 1, Z: 1})
	warnings = append(warnings, w...)
	angle, w := getFloat(props, "inputs:angle", 0.53)
	warnings = append(warnings, w...)
	return usd.DistantLight{Intensity: intensity, Color: color, Angle: angle}, warnings, nil
}

func reconstructCylinderLight(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	intensity, w := getFloat(props, "inputs:intensity", 1.0)
	warnings = append(warnings, w...)
	color, w := getVec3(props, "inputs:color", usd.Vec3{X: 1, Y: 1, Z: 1})
	warnings = append(warnings, w...)
	length, w := getFloat(props, "inputs:length", 1.0)
	warnings = append(warnings, w...)
	radius, w := getFloat(props, "inputs:radius", 0.5)
	warnings = append(warnings, w...)
	return usd.CylinderLight{Intensity: intensity, Color: color, Length: length, Radius: radius}, warnings, nil
}

func reconstructMaterial(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	target, ok := relationshipTarget(props, "outputs:surface.connect")
	if !ok {
		target, ok = relationshipTarget(props, "outputs:surface")
	}
	surface := ""
	if ok {
		surface = target.String()
	}
	return usd.Material{SurfaceOutput: surface}, nil, nil
}

func reconstructShader(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	id, warnings := getString(props, "info:id", "")
	inputs := map[string]any{}
	if props != nil {
		for pair := props.Oldest(); pair != nil; pair = pair.Next() {
			if len(pair.Key) > len("inputs:") && pair.Key[:len("inputs:")] == "inputs:" {
				inputs[pair.Key[len("inputs:"):]] = pair.Value.Value
			}
		}
	}
	return usd.Shader{ID: id, Inputs: inputs}, warnings, nil
}

func reconstructSkeleton(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	joints, w := getStringSlice(props, "joints")
	warnings = append(warnings, w...)
	bind, w := getMatrix4Slice(props, "bindTransforms")
	warnings = append(warnings, w...)
	rest, w := getMatrix4Slice(props, "restTransforms")
	warnings = append(warnings, w...)
	out := usd.Skeleton{Joints: joints, BindTransforms: bind, RestTransforms: rest}
	if target, ok := relationshipTarget(props, "skel:animationSource"); ok {
		out.AnimationSource = target
		out.HasAnimationSource = true
	}
	return out, warnings, nil
}

func reconstructSkelAnimation(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	joints, w := getStringSlice(props, "joints")
	warnings = append(warnings, w...)
	translations, w := getVec3Slice(props, "translations")
	warnings = append(warnings, w...)
	scales, w := getVec3Slice(props, "scales")
	warnings = append(warnings, w...)
	rotations, w := getQuatSlice(props, "rotations")
	warnings = append(warnings, w...)
	return usd.SkelAnimation{
		Joints:       joints,
		Translations: translations,
		Rotations:    rotations,
		Scales:       scales,
	}, warnings, nil
}

func reconstructBlendShape(props *usd.PropertyMap, _ []usd.Reference) (usd.Schema, []string, error) {
	var warnings []string
	offsets, w := getVec3Slice(props, "offsets")
	warnings = append(warnings, w...)
	normalOffsets, w := getVec3Slice(props, "normalOffsets")
	warnings = append(warnings, w...)
	indices, w := getIntSlice(props, "pointIndices")
	warnings = append(warnings, w...)
	return usd.BlendShape{
		Offsets:       offsets,
		NormalOffsets: normalOffsets,
		PointIndices:  indices,
	}, warnings, nil
}

// Registry maps canonical USD type names to their reconstructor, mirroring
// usd.SchemaTypeNames. GPrim has no entry here for the same reason it has
// no entry there.
var Registry = map[string]ReconstructFunc{
	"Xform":         reconstructXform,
	"Scope":         reconstructScope,
	"Mesh":          reconstructGeomMesh,
	"Sphere":        reconstructGeomSphere,
	"Cube":          reconstructGeomCube,
	"Cone":          reconstructGeomCone,
	"Cylinder":      reconstructGeomCylinder,
	"Capsule":       reconstructGeomCapsule,
	"Points":        reconstructGeomPoints,
	"BasisCurves":   reconstructGeomBasisCurves,
	"GeomSubset":    reconstructGeomSubset,
	"Camera":        reconstructGeomCamera,
	"SphereLight":   reconstructSphereLight,
	"DomeLight":     reconstructDomeLight,
	"DiskLight":     reconstructDiskLight,
	"DistantLight":  reconstructDistantLight,
	"CylinderLight": reconstructCylinderLight,
	"Material":      reconstructMaterial,
	"Shader":        reconstructShader,
	"SkelRoot":      reconstructSkelRoot,
	"Skeleton":      reconstructSkeleton,
	"SkelAnimation": reconstructSkelAnimation,
	"BlendShape":    reconstructBlendShape,
	"NodeGraph":     reconstructNodeGraph,
}
