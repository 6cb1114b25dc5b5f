package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/athapong/docmost-mcp/pkg/docmost"
)

// DocmostClient returns a singleton Docmost API client. It authenticates once
// at first use, either with DOCMOST_API_TOKEN or by logging in with
// DOCMOST_EMAIL and DOCMOST_PASSWORD.
var DocmostClient = sync.OnceValue(func() *docmost.Client {
	baseURL := os.Getenv("DOCMOST_URL")
	if baseURL == "" {
		panic("DOCMOST_URL is not set, please set it in MCP Config")
	}

	client := docmost.NewClient(strings.TrimRight(baseURL, "/"), DefaultHttpClient())

	if token := os.Getenv("DOCMOST_API_TOKEN"); token != "" {
		client.SetToken(token)
		return client
	}

	email := os.Getenv("DOCMOST_EMAIL")
	password := os.Getenv("DOCMOST_PASSWORD")
	if email == "" || password == "" {
		panic("set DOCMOST_API_TOKEN, or DOCMOST_EMAIL and DOCMOST_PASSWORD, in MCP Config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Login(ctx, email, password); err != nil {
		panic(fmt.Sprintf("docmost login failed: %v", err))
	}
	return client
})
