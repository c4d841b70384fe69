// Package mcpserver exposes read-only Stage-introspection tools over the
// Model Context Protocol, using github.com/mark3labs/mcp-go — present in
// the teacher's go.mod but never imported there (§11). This gives that
// dependency the home the teacher itself never built: the teacher
// projects a code graph for agent consumption via a mounted filesystem;
// this package does the analogous thing for a Stage via MCP tool calls,
// so an agent can inspect a parsed Stage without a FUSE mount at all.
package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ohler55/ojg/jp"

	"github.com/usdscene/usdscene/usd"
)

// Server wraps a single reconstructed Stage and the four read-only MCP
// tools §13 names. No tool mutates the Stage — this keeps composition
// evaluation (a Non-goal) unreachable from an agent entirely.
type Server struct {
	stage *usd.Stage
	mcp   *server.MCPServer
}

// New builds the MCP server for stage, registering all four tools.
func New(stage *usd.Stage) *Server {
	s := &Server{
		stage: stage,
		mcp:   server.NewMCPServer("usdscene", "1.0.0"),
	}
	s.registerTools()
	return s
}

// ServeStdio serves the MCP tool set over stdio until the client
// disconnects, matching the teacher's preference for a single blocking
// "serve" entry point (cmd/mount.go's host.Mount is the closest analogue).
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list_prims",
			mcp.WithDescription("List the absolute path and type name of every Prim in the Stage, in pre-order."),
		),
		s.handleListPrims,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_prim",
			mcp.WithDescription("Return specifier, type name, kind, property names, and variant-set names for the Prim at the given absolute path."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Absolute Prim path, e.g. /world/ball")),
		),
		s.handleGetPrim,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_variant_sets",
			mcp.WithDescription("Return the variant-set names for the Prim at the given path, and per set the variant names plus the selected one."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Absolute Prim path")),
		),
		s.handleListVariantSets,
	)

	s.mcp.AddTool(
		mcp.NewTool("query_custom_data",
			mcp.WithDescription("Run a JSONPath expression against a Prim's customData (or assetInfo) dictionary and return the matches."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Absolute Prim path")),
			mcp.WithString("query", mcp.Required(), mcp.Description("JSONPath expression, e.g. $.tags[0]")),
			mcp.WithString("field", mcp.Description(`Which dictionary to query: "customData" (default) or "assetInfo"`)),
		),
		s.handleQueryCustomData,
	)
}

func stringArg(req mcp.CallToolRequest, name string) (string, bool) {
	v, ok := req.GetArguments()[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (s *Server) findPrim(path string) (*usd.Prim, error) {
	p := s.stage.FindPrim(path)
	if p == nil {
		return nil, fmt.Errorf("no Prim at path %q", path)
	}
	return p, nil
}

func (s *Server) handleListPrims(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var lines []string
	s.stage.Walk(func(p *usd.Prim) {
		lines = append(lines, fmt.Sprintf("%s\t%s", p.Path.String(), p.Type))
	})
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) handleGetPrim(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, ok := stringArg(req, "path")
	if !ok {
		return mcp.NewToolResultError("missing required argument \"path\""), nil
	}
	p, err := s.findPrim(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var props []string
	if p.Properties != nil {
		for pair := p.Properties.Oldest(); pair != nil; pair = pair.Next() {
			props = append(props, pair.Key)
		}
	}
	var variantSets []string
	for name := range p.VariantSets {
		variantSets = append(variantSets, name)
	}
	sort.Strings(props)
	sort.Strings(variantSets)

	var b strings.Builder
	fmt.Fprintf(&b, "path: %s\n", p.Path)
	fmt.Fprintf(&b, "specifier: %s\n", p.Specifier)
	fmt.Fprintf(&b, "type: %s\n", p.Type)
	if p.Type == usd.PrimTypeModel {
		fmt.Fprintf(&b, "modelTypeName: %s\n", p.ModelTypeName)
	}
	fmt.Fprintf(&b, "kind: %s\n", p.Meta.Kind)
	fmt.Fprintf(&b, "properties: %s\n", strings.Join(props, ", "))
	fmt.Fprintf(&b, "variantSets: %s\n", strings.Join(variantSets, ", "))
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleListVariantSets(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, ok := stringArg(req, "path")
	if !ok {
		return mcp.NewToolResultError("missing required argument \"path\""), nil
	}
	p, err := s.findPrim(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(p.VariantSets) == 0 {
		return mcp.NewToolResultText("(no variant sets)"), nil
	}

	var b strings.Builder
	var setNames []string
	for name := range p.VariantSets {
		setNames = append(setNames, name)
	}
	sort.Strings(setNames)
	for _, name := range setNames {
		vs := p.VariantSets[name]
		var variantNames []string
		for vn := range vs.Variants {
			variantNames = append(variantNames, vn)
		}
		sort.Strings(variantNames)
		fmt.Fprintf(&b, "%s: selected=%q variants=[%s]\n", name, vs.Selected, strings.Join(variantNames, ", "))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleQueryCustomData(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, ok := stringArg(req, "path")
	if !ok {
		return mcp.NewToolResultError("missing required argument \"path\""), nil
	}
	query, ok := stringArg(req, "query")
	if !ok {
		return mcp.NewToolResultError("missing required argument \"query\""), nil
	}
	field, _ := stringArg(req, "field")
	if field == "" {
		field = "customData"
	}

	p, err := s.findPrim(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var data map[string]any
	switch field {
	case "customData":
		data = p.Meta.CustomData
	case "assetInfo":
		data = p.Meta.AssetInfo
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown field %q, want \"customData\" or \"assetInfo\"", field)), nil
	}

	expr, err := jp.ParseString(query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid JSONPath query: %v", err)), nil
	}
	matches := expr.Get(data)

	var lines []string
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("%v", m))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("(no matches)"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
