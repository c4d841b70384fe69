package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usdscene/usdscene/usd"
)

func propsWith(entries map[string]usd.Property) *usd.PropertyMap {
	m := usd.NewPropertyMap()
	for name, p := range entries {
		m.Set(name, p)
	}
	return m
}

func TestRegistry_GPrimNotRegistered(t *testing.T) {
	_, ok := Registry["GPrim"]
	assert.False(t, ok)
}

func TestReconstructGeomSphere_DefaultsWhenUnset(t *testing.T) {
	schema, warnings, err := reconstructGeomSphere(usd.NewPropertyMap(), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, usd.GeomSphere{Radius: 1.0}, schema)
}

func TestReconstructGeomSphere_ReadsRadius(t *testing.T) {
	props := propsWith(map[string]usd.Property{
		"radius": {Kind: usd.PropertyAttribute, TypeName: "double", Value: 4.5},
	})
	schema, _, err := reconstructGeomSphere(props, nil)
	require.NoError(t, err)
	assert.Equal(t, usd.GeomSphere{Radius: 4.5}, schema)
}

func TestReconstructGeomMesh_FullFields(t *testing.T) {
	props := propsWith(map[string]usd.Property{
		"points":            {Value: []any{[]any{0.0, 0.0, 0.0}, []any{1.0, 0.0, 0.0}}},
		"faceVertexCounts":  {Value: []any{3.0}},
		"faceVertexIndices": {Value: []any{0.0, 1.0, 2.0}},
		"doubleSided":       {Value: true},
	})
	schema, _, err := reconstructGeomMesh(props, nil)
	require.NoError(t, err)
	mesh := schema.(usd.GeomMesh)
	assert.Equal(t, []usd.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}, mesh.Points)
	assert.Equal(t, []int{3}, mesh.FaceVertexCounts)
	assert.Equal(t, []int{0, 1, 2}, mesh.FaceVertexIndices)
	assert.True(t, mesh.DoubleSided)
}

func TestReconstructGeomMesh_WarnsOnMalformedPoint(t *testing.T) {
	props := propsWith(map[string]usd.Property{
		"points": {Value: []any{"not a tuple"}},
	})
	schema, warnings, err := reconstructGeomMesh(props, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, warnings)
	assert.Empty(t, schema.(usd.GeomMesh).Points)
}

func TestReconstructSkeleton_AnimationSourceRelationship(t *testing.T) {
	target := usd.Path{Prim: "/Anim"}
	props := propsWith(map[string]usd.Property{
		"skel:animationSource": {Kind: usd.PropertyRelationship, Targets: []usd.Path{target}},
	})
	schema, _, err := reconstructSkeleton(props, nil)
	require.NoError(t, err)
	skel := schema.(usd.Skeleton)
	assert.True(t, skel.HasAnimationSource)
	assert.Equal(t, target, skel.AnimationSource)
}

func TestReconstructSkeleton_NoAnimationSource(t *testing.T) {
	schema, _, err := reconstructSkeleton(usd.NewPropertyMap(), nil)
	require.NoError(t, err)
	skel := schema.(usd.Skeleton)
	assert.False(t, skel.HasAnimationSource)
}

func TestReconstructShader_CollectsInputsPrefix(t *testing.T) {
	props := propsWith(map[string]usd.Property{
		"info:id":          {Value: "UsdPreviewSurface"},
		"inputs:diffuseColor": {Value: []any{0.8, 0.2, 0.2}},
		"outputs:surface":  {Kind: usd.PropertyRelationship},
	})
	schema, _, err := reconstructShader(props, nil)
	require.NoError(t, err)
	shader := schema.(usd.Shader)
	assert.Equal(t, "UsdPreviewSurface", shader.ID)
	assert.Contains(t, shader.Inputs, "diffuseColor")
	assert.NotContains(t, shader.Inputs, "surface")
}

func TestReconstructMaterial_PrefersConnectSuffix(t *testing.T) {
	target := usd.Path{Prim: "/Material/Surface", Property: "out"}
	props := propsWith(map[string]usd.Property{
		"outputs:surface.connect": {Kind: usd.PropertyRelationship, Targets: []usd.Path{target}},
	})
	schema, _, err := reconstructMaterial(props, nil)
	require.NoError(t, err)
	mat := schema.(usd.Material)
	assert.Equal(t, target.String(), mat.SurfaceOutput)
}

func TestReconstructGeomCone_Defaults(t *testing.T) {
	schema, _, err := reconstructGeomCone(usd.NewPropertyMap(), nil)
	require.NoError(t, err)
	assert.Equal(t, usd.GeomCone{Height: 2.0, Radius: 1.0, Axis: "Z"}, schema)
}

func TestAllRegistryEntriesProduceMatchingPrimType(t *testing.T) {
	for typeName, fn := range Registry {
		want, ok := usd.SchemaTypeNames[typeName]
		require.Truef(t, ok, "Registry has %q but SchemaTypeNames does not", typeName)

		schema, _, err := fn(usd.NewPropertyMap(), nil)
		require.NoErrorf(t, err, "type %q", typeName)
		assert.Equalf(t, want, schema.PrimType(), "type %q", typeName)
	}
}
