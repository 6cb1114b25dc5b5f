package doctree

import (
	"fmt"
	"strings"
)

// SubpagesToken is the placeholder emitted for a subpages node. The converter
// knows nothing about the page hierarchy, so the caller fetches the child
// pages after conversion and substitutes the token. An HTML comment is used so
// that an unresolved token stays invisible in rendered Markdown.
const SubpagesToken = "<!-- subpages -->"

// SubpageLink is one child-page entry used when resolving SubpagesToken.
type SubpageLink struct {
	ID    string
	Title string
}

// ResolveSubpages replaces every occurrence of SubpagesToken in markdown with
// a list of child-page links, or removes the token when there are no children.
func ResolveSubpages(markdown string, children []SubpageLink) string {
	if !strings.Contains(markdown, SubpagesToken) {
		return markdown
	}
	if len(children) == 0 {
		return strings.ReplaceAll(markdown, SubpagesToken, "")
	}
	lines := make([]string, 0, len(children))
	for _, child := range children {
		lines = append(lines, fmt.Sprintf("- [%s](page:%s)", child.Title, child.ID))
	}
	return strings.ReplaceAll(markdown, SubpagesToken, strings.Join(lines, "\n"))
}
