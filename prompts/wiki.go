package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterWikiPrompts(s *server.MCPServer) {
	prompt := mcp.NewPrompt("page_draft",
		mcp.WithPromptDescription("Draft a new wiki page on a topic and save it to Docmost"),
		mcp.WithArgument("topic", mcp.ArgumentDescription("The topic the page should cover")),
		mcp.WithArgument("space_id", mcp.ArgumentDescription("ID of the space to create the page in")),
	)
	s.AddPrompt(prompt, pageDraftHandler)
}

func pageDraftHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := request.Params.Arguments["topic"]
	spaceID := request.Params.Arguments["space_id"]

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Draft a page about %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf("Use page_search to check whether a page about %s already exists, then write a well-structured Markdown draft and save it with page_create in space %s.", topic, spaceID),
				},
			},
		},
	}, nil
}
