// Command export-space dumps every page of a Docmost space to Markdown files.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/athapong/docmost-mcp/pkg/docmost"
	"github.com/athapong/docmost-mcp/pkg/doctree"
	"github.com/athapong/docmost-mcp/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := flag.String("env", ".env", "Path to environment file")
	spaceID := flag.String("space", "", "ID of the space to export")
	outDir := flag.String("out", "export", "Output directory for Markdown files")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		logrus.Warnf("Error loading env file %s: %v", *envFile, err)
	}
	if *spaceID == "" {
		logrus.Fatal("-space is required")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logrus.Fatalf("Failed to create output directory: %v", err)
	}

	client := services.DocmostClient()
	ctx := context.Background()

	exported := 0
	for page := 1; ; page++ {
		chunk, err := client.ListPages(ctx, *spaceID, page)
		if err != nil {
			logrus.Fatalf("Failed to list pages: %v", err)
		}
		for _, summary := range chunk.Pages {
			if err := exportPage(ctx, client, summary.ID, *outDir); err != nil {
				logrus.WithError(err).Warnf("Skipping page %s (%s)", summary.Title, summary.ID)
				continue
			}
			exported++
		}
		if !chunk.HasNextPage {
			break
		}
	}

	logrus.Infof("Exported %d pages to %s", exported, *outDir)
}

func exportPage(ctx context.Context, client *docmost.Client, pageID, outDir string) error {
	page, err := client.GetPage(ctx, pageID)
	if err != nil {
		return err
	}

	markdown := ""
	if page.Content != "" {
		var root doctree.Node
		if err := json.Unmarshal([]byte(page.Content), &root); err != nil {
			return err
		}
		markdown = doctree.Convert(&root)
	}

	if strings.Contains(markdown, doctree.SubpagesToken) {
		children, err := client.ChildPages(ctx, page.ID)
		if err != nil {
			return err
		}
		links := make([]doctree.SubpageLink, 0, len(children))
		for _, child := range children {
			links = append(links, doctree.SubpageLink{ID: child.ID, Title: child.Title})
		}
		markdown = doctree.ResolveSubpages(markdown, links)
	}

	name := slugify(page.Title)
	if name == "" {
		name = page.ID
	}
	path := filepath.Join(outDir, name+".md")

	content := "# " + page.Title + "\n\n" + markdown + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	logrus.Infof("Wrote %s", path)
	return nil
}

func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
