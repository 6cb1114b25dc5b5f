package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/athapong/docmost-mcp/pkg/docmost"
	"github.com/athapong/docmost-mcp/services"
	"github.com/athapong/docmost-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterImportTools(s *server.MCPServer) {
	tool := mcp.NewTool("page_import",
		mcp.WithDescription("Fetch a web page, convert it to Markdown and save it as a new Docmost page"),
		mcp.WithString("url", mcp.Required(), mcp.Description("The complete HTTP/HTTPS URL to import")),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("ID of the space where the page will be created")),
		mcp.WithString("title", mcp.Description("Page title; defaults to the web page's <title>")),
		mcp.WithString("parent_page_id", mcp.Description("ID of the parent page (optional)")),
	)
	s.AddTool(tool, util.ErrorGuard(util.AdaptLegacyHandler(pageImportHandler)))
}

func pageImportHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	url, ok := arguments["url"].(string)
	if !ok {
		return mcp.NewToolResultError("url must be a string"), nil
	}
	spaceID, ok := arguments["space_id"].(string)
	if !ok {
		return mcp.NewToolResultError("space_id must be a string"), nil
	}

	resp, err := services.DefaultHttpClient().Get(url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch URL: %s", err)), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read response body: %s", err)), nil
	}

	title, _ := arguments["title"].(string)
	if title == "" {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
			title = strings.TrimSpace(doc.Find("title").First().Text())
		}
	}
	if title == "" {
		title = url
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to convert HTML to Markdown: %v", err)), nil
	}

	content, err := json.Marshal(markdownToDoc(markdown))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build page content: %v", err)), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	parentID, _ := arguments["parent_page_id"].(string)
	page, err := services.DocmostClient().CreatePage(ctx, docmost.CreatePageRequest{
		SpaceID:      spaceID,
		Title:        title,
		ParentPageID: parentID,
		Content:      string(content),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create page: %v", err)), nil
	}

	result := fmt.Sprintf("Imported %s\nTitle: %s\nID: %s", url, page.Title, page.ID)
	return mcp.NewToolResultText(result), nil
}
