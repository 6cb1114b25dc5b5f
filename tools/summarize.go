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
	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
)

// maxSummaryInputTokens caps how much page content is sent to the model.
const maxSummaryInputTokens = 8000

func RegisterSummarizeTools(s *server.MCPServer) {
	tool := mcp.NewTool("page_summarize",
		mcp.WithDescription("Summarize a Docmost page with an LLM"),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Page ID")),
		mcp.WithString("instructions", mcp.Description("Extra instructions for the summary (optional)")),
	)
	s.AddTool(tool, util.ErrorGuard(pageSummarizeHandler))
}

func pageSummarizeHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.DocmostClient()

	pageID, err := requirePageID(arguments, "page_id")
	if err != nil {
		return nil, err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	page, err := client.GetPage(ctxWithTimeout, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %v", err)
	}

	markdown, err := pageMarkdown(ctxWithTimeout, client, page)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(markdown) == "" {
		return mcp.NewToolResultText("Page is empty, nothing to summarize"), nil
	}
	markdown = truncateToTokens(markdown, maxSummaryInputTokens)

	systemPrompt := "You summarize wiki pages. Produce a concise Markdown summary with the key points. Keep headings and links that matter."
	if instructions, ok := arguments["instructions"].(string); ok && instructions != "" {
		systemPrompt += "\n\nAdditional instructions: " + instructions
	}

	resp, err := services.DefaultOpenAIClient().CreateChatCompletion(
		ctxWithTimeout,
		openai.ChatCompletionRequest{
			Model: services.OpenAIModel(),
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Page: %s\n\n%s", page.Title, markdown)},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("summarization failed: %v", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	return mcp.NewToolResultText(fmt.Sprintf("Summary of %q:\n\n%s", page.Title, summary)), nil
}

// truncateToTokens trims text to at most limit tokens of the cl100k_base
// encoding. On encoder errors the text is returned unchanged.
func truncateToTokens(text string, limit int) string {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return enc.Decode(tokens[:limit])
}
