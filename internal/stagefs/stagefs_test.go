package stagefs

import (
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winfsp/cgofuse/fuse"

	"github.com/usdscene/usdscene/usd"
)

// buildTestStage constructs a small Stage by hand, skipping the parser
// entirely, matching the teacher's root_test.go style of pre-populating
// a store directly rather than going through ingestion.
func buildTestStage() *usd.Stage {
	props := usd.NewPropertyMap()
	props.Set("radius", usd.Property{
		Kind:     usd.PropertyAttribute,
		TypeName: "double",
		Value:    float64(2),
		Raw:      "2",
	})

	sphere := &usd.Prim{
		Name:      "ball",
		Specifier: usd.SpecifierDef,
		Type:      usd.PrimTypeGeomSphere,
		Schema:    usd.GeomSphere{Radius: 2},
		Meta: usd.PrimMeta{
			Kind:        usd.KindComponent,
			DisplayName: "The Ball",
		},
		Properties: props,
	}

	variantProps := usd.NewPropertyMap()
	variantProps.Set("displayColor", usd.Property{
		Kind:     usd.PropertyAttribute,
		TypeName: "color3f[]",
		Value:    []any{[]any{float64(1), float64(0), float64(0)}},
	})

	root := &usd.Prim{
		Name:      "world",
		Specifier: usd.SpecifierDef,
		Type:      usd.PrimTypeXform,
		Schema:    usd.Xform{},
		Children:  []*usd.Prim{sphere},
		VariantSets: map[string]*usd.VariantSet{
			"shadingVariant": {
				Name:     "shadingVariant",
				Selected: "red",
				Variants: map[string]*usd.Variant{
					"red": {Name: "red", Properties: variantProps},
				},
			},
		},
	}

	return &usd.Stage{Root: []*usd.Prim{root}}
}

func TestStageView_Resolve(t *testing.T) {
	view := NewStageView(buildTestStage())

	r, err := view.resolve("/")
	require.NoError(t, err)
	assert.Equal(t, kindDir, r.kind)

	r, err = view.resolve("/world")
	require.NoError(t, err)
	assert.Equal(t, kindDir, r.kind)
	assert.Equal(t, "world", r.prim.Name)

	r, err = view.resolve("/world/ball")
	require.NoError(t, err)
	assert.Equal(t, kindDir, r.kind)
	assert.Equal(t, "ball", r.prim.Name)

	r, err = view.resolve("/world/ball/radius")
	require.NoError(t, err)
	assert.Equal(t, kindFile, r.kind)
	assert.Contains(t, string(r.content), "double")

	r, err = view.resolve("/world/ball/.displayName")
	require.NoError(t, err)
	assert.Equal(t, kindFile, r.kind)
	assert.Equal(t, "The Ball", string(r.content))

	_, err = view.resolve("/world/nope")
	assert.Error(t, err)
}

func TestStageView_VariantBrowsing(t *testing.T) {
	view := NewStageView(buildTestStage())

	r, err := view.resolve("/world")
	require.NoError(t, err)
	names := view.dirNames(r.prim)
	assert.Contains(t, names, "ball")
	assert.Contains(t, names, "shadingVariant@red")

	r, err = view.resolve("/world/shadingVariant@red")
	require.NoError(t, err)
	assert.Equal(t, kindDir, r.kind)
	assert.Contains(t, view.fileNames(r.prim), "displayColor")
}

func TestStageFS_Getattr(t *testing.T) {
	fs := NewStageFS(buildTestStage())

	var stat fuse.Stat_t
	errc := fs.Getattr("/world", &stat, 0)
	require.Equal(t, 0, errc)
	assert.NotZero(t, stat.Mode&fuse.S_IFDIR)

	errc = fs.Getattr("/world/ball/radius", &stat, 0)
	require.Equal(t, 0, errc)
	assert.NotZero(t, stat.Mode&fuse.S_IFREG)
	assert.Greater(t, stat.Size, int64(0))

	errc = fs.Getattr("/does/not/exist", &stat, 0)
	assert.Equal(t, -fuse.ENOENT, errc)
}

func TestStageFS_OpenRejectsDirectories(t *testing.T) {
	fs := NewStageFS(buildTestStage())

	errc, _ := fs.Open("/world", 0)
	assert.Equal(t, -fuse.EISDIR, errc)

	errc, _ = fs.Open("/world/ball/radius", 0)
	assert.Equal(t, 0, errc)
}

func TestStageFS_ReadFull(t *testing.T) {
	fs := NewStageFS(buildTestStage())

	buf := make([]byte, 4096)
	n := fs.Read("/world/ball/.displayName", buf, 0, 0)
	require.Greater(t, n, 0)
	assert.Equal(t, "The Ball", string(buf[:n]))
}

func TestBillyFS_ReadOnly(t *testing.T) {
	bfs := NewBillyFS(buildTestStage())

	_, err := bfs.Create("/anything")
	assert.ErrorIs(t, err, errReadOnly)

	assert.ErrorIs(t, bfs.Remove("/world"), errReadOnly)
	assert.ErrorIs(t, bfs.Rename("/a", "/b"), errReadOnly)
	assert.ErrorIs(t, bfs.MkdirAll("/a", 0o755), errReadOnly)
}

func TestBillyFS_OpenAndReadDir(t *testing.T) {
	bfs := NewBillyFS(buildTestStage())

	f, err := bfs.Open("/world/ball/radius")
	require.NoError(t, err)
	buf := make([]byte, 256)
	n, _ := f.Read(buf)
	assert.Contains(t, string(buf[:n]), "double")

	infos, err := bfs.ReadDir("/world/ball")
	require.NoError(t, err)
	var sawRadius bool
	for _, info := range infos {
		if info.Name() == "radius" {
			sawRadius = true
			assert.False(t, info.IsDir())
		}
	}
	assert.True(t, sawRadius)
}

func TestBillyFS_Capabilities(t *testing.T) {
	bfs := NewBillyFS(buildTestStage())
	caps := bfs.Capabilities()
	assert.NotZero(t, caps&billy.ReadCapability)
	assert.Zero(t, caps&billy.WriteCapability)
}
