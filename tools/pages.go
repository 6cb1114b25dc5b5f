package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/athapong/docmost-mcp/pkg/docmost"
	"github.com/athapong/docmost-mcp/pkg/doctree"
	"github.com/athapong/docmost-mcp/services"
	"github.com/athapong/docmost-mcp/util"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterPageTools registers the Docmost page tools to the server
func RegisterPageTools(s *server.MCPServer) {
	searchTool := mcp.NewTool("page_search",
		mcp.WithDescription("Search Docmost pages by title or content"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithString("space_id", mcp.Description("Restrict the search to one space (optional)")),
	)
	s.AddTool(searchTool, util.ErrorGuard(pageSearchHandler))

	listTool := mcp.NewTool("page_list",
		mcp.WithDescription("List all pages of a space"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
	)
	s.AddTool(listTool, util.ErrorGuard(pageListHandler))

	getTool := mcp.NewTool("page_get",
		mcp.WithDescription("Get a Docmost page as Markdown"),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Page ID")),
	)
	s.AddTool(getTool, util.ErrorGuard(pageGetHandler))

	createTool := mcp.NewTool("page_create",
		mcp.WithDescription("Create a new Docmost page"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("ID of the space where the page will be created")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the page")),
		mcp.WithString("content", mcp.Description("Page content in Markdown (optional)")),
		mcp.WithString("parent_page_id", mcp.Description("ID of the parent page (optional)")),
	)
	s.AddTool(createTool, util.ErrorGuard(pageCreateHandler))

	moveTool := mcp.NewTool("page_move",
		mcp.WithDescription("Move a page under a new parent"),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("ID of the page to move")),
		mcp.WithString("parent_page_id", mcp.Description("New parent page ID; omit to move the page to the space root")),
	)
	s.AddTool(moveTool, util.ErrorGuard(pageMoveHandler))

	deleteTool := mcp.NewTool("page_delete",
		mcp.WithDescription("Delete a page and all of its children"),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("ID of the page to delete")),
	)
	s.AddTool(deleteTool, util.ErrorGuard(pageDeleteHandler))
}

func pageSearchHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.DocmostClient()

	query, ok := arguments["query"].(string)
	if !ok {
		return nil, fmt.Errorf("query argument is required")
	}
	spaceID, _ := arguments["space_id"].(string)

	var results strings.Builder
	for page := 1; ; page++ {
		chunk, err := client.Search(ctx, query, spaceID, page)
		if err != nil {
			return nil, fmt.Errorf("search failed: %v", err)
		}
		writePageListing(&results, chunk.Pages)
		if !chunk.HasNextPage {
			break
		}
	}

	if results.Len() == 0 {
		results.WriteString("No results found")
	}
	return mcp.NewToolResultText(results.String()), nil
}

func pageListHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.DocmostClient()

	spaceID, ok := arguments["space_id"].(string)
	if !ok {
		return nil, fmt.Errorf("space_id argument is required")
	}

	var results strings.Builder
	for page := 1; ; page++ {
		chunk, err := client.ListPages(ctx, spaceID, page)
		if err != nil {
			return nil, fmt.Errorf("failed to list pages: %v", err)
		}
		writePageListing(&results, chunk.Pages)
		if !chunk.HasNextPage {
			break
		}
	}

	if results.Len() == 0 {
		results.WriteString("No pages in this space")
	}
	return mcp.NewToolResultText(results.String()), nil
}

func pageGetHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.DocmostClient()

	pageID, err := requirePageID(arguments, "page_id")
	if err != nil {
		return nil, err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	page, err := client.GetPage(ctxWithTimeout, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %v", err)
	}

	markdown, err := pageMarkdown(ctxWithTimeout, client, page)
	if err != nil {
		return nil, err
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Title: %s\n", page.Title))
	result.WriteString(fmt.Sprintf("ID: %s\n", page.ID))
	result.WriteString(fmt.Sprintf("Space ID: %s\n", page.SpaceID))
	if page.ParentPageID != "" {
		result.WriteString(fmt.Sprintf("Parent ID: %s\n", page.ParentPageID))
	}
	result.WriteString("\nContent:\n")
	result.WriteString("----------------------------------------\n")
	result.WriteString(markdown)
	result.WriteString("\n----------------------------------------\n")

	return mcp.NewToolResultText(result.String()), nil
}

func pageCreateHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.DocmostClient()

	spaceID, ok := arguments["space_id"].(string)
	if !ok {
		return nil, fmt.Errorf("space_id argument is required")
	}
	title, ok := arguments["title"].(string)
	if !ok {
		return nil, fmt.Errorf("title argument is required")
	}
	content, _ := arguments["content"].(string)
	parentID, _ := arguments["parent_page_id"].(string)

	req := docmost.CreatePageRequest{
		SpaceID:      spaceID,
		Title:        title,
		ParentPageID: parentID,
	}
	if content != "" {
		body, err := json.Marshal(markdownToDoc(content))
		if err != nil {
			return nil, fmt.Errorf("failed to build page content: %v", err)
		}
		req.Content = string(body)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	page, err := client.CreatePage(ctxWithTimeout, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %v", err)
	}

	result := fmt.Sprintf("Page created successfully!\nTitle: %s\nID: %s\nSpace ID: %s",
		page.Title, page.ID, page.SpaceID)
	return mcp.NewToolResultText(result), nil
}

func pageMoveHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.DocmostClient()

	pageID, err := requirePageID(arguments, "page_id")
	if err != nil {
		return nil, err
	}
	parentID, _ := arguments["parent_page_id"].(string)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.MovePage(ctxWithTimeout, pageID, parentID); err != nil {
		return nil, fmt.Errorf("failed to move page: %v", err)
	}

	if parentID == "" {
		return mcp.NewToolResultText(fmt.Sprintf("Page %s moved to the space root", pageID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Page %s moved under %s", pageID, parentID)), nil
}

func pageDeleteHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.DocmostClient()

	pageID, err := requirePageID(arguments, "page_id")
	if err != nil {
		return nil, err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.DeletePage(ctxWithTimeout, pageID); err != nil {
		return nil, fmt.Errorf("failed to delete page: %v", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Page %s deleted", pageID)), nil
}

// pageMarkdown converts a page's rich-text content to Markdown and resolves
// the subpages placeholder with the page's actual children.
func pageMarkdown(ctx context.Context, client *docmost.Client, page *docmost.Page) (string, error) {
	if page.Content == "" {
		return "", nil
	}

	var root doctree.Node
	if err := json.Unmarshal([]byte(page.Content), &root); err != nil {
		return "", fmt.Errorf("failed to parse page content: %v", err)
	}
	markdown := doctree.Convert(&root)

	if strings.Contains(markdown, doctree.SubpagesToken) {
		children, err := client.ChildPages(ctx, page.ID)
		if err != nil {
			return "", fmt.Errorf("failed to fetch child pages: %v", err)
		}
		links := make([]doctree.SubpageLink, 0, len(children))
		for _, child := range children {
			links = append(links, doctree.SubpageLink{ID: child.ID, Title: child.Title})
		}
		markdown = doctree.ResolveSubpages(markdown, links)
	}
	return markdown, nil
}

// markdownToDoc wraps Markdown text into a minimal document tree: one
// paragraph per blank-line-separated block. Docmost renders the text as-is;
// no reverse Markdown parsing is attempted.
func markdownToDoc(markdown string) *doctree.Node {
	blocks := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n\n")
	doc := &doctree.Node{Type: "doc"}
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		doc.Content = append(doc.Content, &doctree.Node{
			Type:    "paragraph",
			Content: []*doctree.Node{{Type: "text", Text: block}},
		})
	}
	return doc
}

func writePageListing(w *strings.Builder, pages []docmost.Page) {
	for _, page := range pages {
		w.WriteString(fmt.Sprintf(`
Title: %s
ID: %s
SpaceId: %s
----------------------------------------
`,
			page.Title,
			page.ID,
			page.SpaceID,
		))
	}
}

func requirePageID(arguments map[string]interface{}, key string) (string, error) {
	pageID, ok := arguments[key].(string)
	if !ok || pageID == "" {
		return "", fmt.Errorf("%s argument is required", key)
	}
	if _, err := uuid.Parse(pageID); err != nil {
		return "", fmt.Errorf("invalid page ID %q: %v", pageID, err)
	}
	return pageID, nil
}
