package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/athapong/docmost-mcp/services"
	"github.com/athapong/docmost-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sergi/go-diff/diffmatchpatch"
)

func RegisterDiffTools(s *server.MCPServer) {
	tool := mcp.NewTool("page_diff",
		mcp.WithDescription("Compare two Docmost pages as Markdown"),
		mcp.WithString("source_page_id", mcp.Required(), mcp.Description("Page ID of the source page")),
		mcp.WithString("target_page_id", mcp.Required(), mcp.Description("Page ID of the target page")),
	)
	s.AddTool(tool, util.ErrorGuard(pageDiffHandler))
}

func pageDiffHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.DocmostClient()

	sourceID, err := requirePageID(arguments, "source_page_id")
	if err != nil {
		return nil, err
	}
	targetID, err := requirePageID(arguments, "target_page_id")
	if err != nil {
		return nil, err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	source, err := client.GetPage(ctxWithTimeout, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get source page: %v", err)
	}
	target, err := client.GetPage(ctxWithTimeout, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get target page: %v", err)
	}

	sourceMarkdown, err := pageMarkdown(ctxWithTimeout, client, source)
	if err != nil {
		return nil, err
	}
	targetMarkdown, err := pageMarkdown(ctxWithTimeout, client, target)
	if err != nil {
		return nil, err
	}

	var comparison strings.Builder
	comparison.WriteString(fmt.Sprintf("Comparing %q (%s) with %q (%s)\n\n", source.Title, source.ID, target.Title, target.ID))
	comparison.WriteString("Content Changes:\n")
	comparison.WriteString("=================\n")
	comparison.WriteString(semanticDiff(sourceMarkdown, targetMarkdown))

	return mcp.NewToolResultText(comparison.String()), nil
}

func semanticDiff(source, target string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(source, target, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var result strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			result.WriteString("- " + strings.ReplaceAll(diff.Text, "\n", "\n- ") + "\n")
		case diffmatchpatch.DiffInsert:
			result.WriteString("+ " + strings.ReplaceAll(diff.Text, "\n", "\n+ ") + "\n")
		case diffmatchpatch.DiffEqual:
			result.WriteString("  " + strings.ReplaceAll(diff.Text, "\n", "\n  ") + "\n")
		}
	}
	return result.String()
}
