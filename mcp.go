package pagemap

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pagemap/assemble"
	"pagemap/kit"
)

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// RegisterMCP registers the build_page_map and get_page_map tools on
// srv, backed by b.
func (b *Builder) RegisterMCP(srv *mcp.Server) {
	b.registerBuildTool(srv)
	b.registerGetTool(srv)
}

type buildPageMapReq struct {
	URL    string `json:"url"`
	HTML   string `json:"html"`
	Title  string `json:"title,omitempty"`
	Format string `json:"format,omitempty"`
}

func (b *Builder) registerBuildTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "build_page_map",
		Description: "Build an agent-facing PageMap from a browser HTML snapshot.",
		InputSchema: inputSchema(map[string]any{
			"url":    map[string]any{"type": "string", "description": "Page URL"},
			"html":   map[string]any{"type": "string", "description": "Raw HTML snapshot"},
			"title":  map[string]any{"type": "string", "description": "Page title, if known"},
			"format": map[string]any{"type": "string", "description": "prompt or json, default json"},
		}, []string{"url", "html"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*buildPageMapReq)
		pm, err := b.Build(ctx, Snapshot{
			HTML:  []byte(r.HTML),
			URL:   r.URL,
			Title: r.Title,
		})
		if err != nil {
			return nil, err
		}
		if r.Format == "prompt" {
			return map[string]any{"prompt": assemble.ToPrompt(pm)}, nil
		}
		return pm, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r buildPageMapReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type getPageMapReq struct {
	URL string `json:"url"`
}

func (b *Builder) registerGetTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_page_map",
		Description: "Return the cached PageMap for a URL, if one hasn't expired.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Page URL"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*getPageMapReq)
		pm, ok := b.cache.Get(r.URL)
		if !ok {
			return map[string]any{"found": false}, nil
		}
		return pm, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r getPageMapReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
