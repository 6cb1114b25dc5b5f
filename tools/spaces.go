package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/athapong/docmost-mcp/services"
	"github.com/athapong/docmost-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterSpaceTools(s *server.MCPServer) {
	tool := mcp.NewTool("space_list",
		mcp.WithDescription("List all spaces in the Docmost workspace"),
	)
	s.AddTool(tool, util.ErrorGuard(spaceListHandler))
}

func spaceListHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client := services.DocmostClient()

	var results strings.Builder
	for page := 1; ; page++ {
		chunk, err := client.ListSpaces(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("failed to list spaces: %v", err)
		}
		for _, space := range chunk.Spaces {
			results.WriteString(fmt.Sprintf("Name: %s\nID: %s\nSlug: %s\n----------------------------------------\n",
				space.Name, space.ID, space.Slug))
		}
		if !chunk.HasNextPage {
			break
		}
	}

	if results.Len() == 0 {
		results.WriteString("No spaces found")
	}
	return mcp.NewToolResultText(results.String()), nil
}
