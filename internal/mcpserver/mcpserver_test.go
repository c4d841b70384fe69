package mcpserver

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usdscene/usdscene/usd"
)

func buildTestStage() *usd.Stage {
	ball := &usd.Prim{
		Name:      "ball",
		Specifier: usd.SpecifierDef,
		Type:      usd.PrimTypeGeomSphere,
		Schema:    usd.GeomSphere{Radius: 2},
		Meta: usd.PrimMeta{
			Kind: usd.KindComponent,
			CustomData: map[string]any{
				"tags": []any{"hero", "red"},
			},
		},
		Properties: usd.NewPropertyMap(),
	}
	world := &usd.Prim{
		Name:      "world",
		Specifier: usd.SpecifierDef,
		Type:      usd.PrimTypeXform,
		Schema:    usd.Xform{},
		Children:  []*usd.Prim{ball},
		VariantSets: map[string]*usd.VariantSet{
			"shadingVariant": {
				Name:     "shadingVariant",
				Selected: "red",
				Variants: map[string]*usd.Variant{
					"red":  {Name: "red"},
					"blue": {Name: "blue"},
				},
			},
		},
	}
	stage := &usd.Stage{Root: []*usd.Prim{world}}

	// Mirror ReconstructStage's path assignment so FindPrim works in tests.
	id := 0
	var assign func(p *usd.Prim, parent usd.Path)
	assign = func(p *usd.Prim, parent usd.Path) {
		p.Path = parent.AppendChild(p.Name)
		p.ID = id
		id++
		for _, c := range p.Children {
			assign(c, p.Path)
		}
	}
	for _, root := range stage.Root {
		assign(root, usd.Path{Prim: "/"})
	}
	return stage
}

func requestWithArgs(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestHandleListPrims(t *testing.T) {
	s := New(buildTestStage())
	res, err := s.handleListPrims(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	text := textOf(t, res)
	assert.Contains(t, text, "/world")
	assert.Contains(t, text, "/world/ball")
}

func TestHandleGetPrim(t *testing.T) {
	s := New(buildTestStage())
	res, err := s.handleGetPrim(context.Background(), requestWithArgs(map[string]any{"path": "/world/ball"}))
	require.NoError(t, err)
	text := textOf(t, res)
	assert.Contains(t, text, "type: Sphere")
	assert.Contains(t, text, "component")
}

func TestHandleGetPrim_NotFound(t *testing.T) {
	s := New(buildTestStage())
	res, err := s.handleGetPrim(context.Background(), requestWithArgs(map[string]any{"path": "/nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleListVariantSets(t *testing.T) {
	s := New(buildTestStage())
	res, err := s.handleListVariantSets(context.Background(), requestWithArgs(map[string]any{"path": "/world"}))
	require.NoError(t, err)
	text := textOf(t, res)
	assert.Contains(t, text, "shadingVariant")
	assert.Contains(t, text, `selected="red"`)
	assert.Contains(t, text, "blue")
}

func TestHandleQueryCustomData(t *testing.T) {
	s := New(buildTestStage())
	res, err := s.handleQueryCustomData(context.Background(), requestWithArgs(map[string]any{
		"path":  "/world/ball",
		"query": "$.tags[0]",
	}))
	require.NoError(t, err)
	text := textOf(t, res)
	assert.Contains(t, text, "hero")
}

func TestHandleQueryCustomData_UnknownField(t *testing.T) {
	s := New(buildTestStage())
	res, err := s.handleQueryCustomData(context.Background(), requestWithArgs(map[string]any{
		"path":  "/world/ball",
		"query": "$.tags",
		"field": "bogus",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}
