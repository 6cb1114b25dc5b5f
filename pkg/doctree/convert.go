package doctree

import (
	"fmt"
	"strings"
)

// Convert renders a document tree to Markdown. It is best-effort and never
// fails: unknown node types degrade to the rendered concatenation of their
// children, unknown marks leave the text untouched, and missing attributes
// fall back to per-renderer defaults.
func Convert(root *Node) string {
	if root == nil || len(root.Content) == 0 {
		return ""
	}
	return strings.TrimSpace(render(root))
}

func render(node *Node) string {
	switch node.Type {
	case "doc":
		return renderJoined(node.Content, "\n\n")
	case "paragraph":
		return renderParagraph(node)
	case "heading":
		return renderHeading(node)
	case "text":
		return applyMarks(node.Text, node.Marks)
	case "hardBreak":
		return "\n"
	case "horizontalRule":
		return "---"
	case "codeBlock":
		return renderCodeBlock(node)
	case "blockquote":
		return prefixLines(renderJoined(node.Content, "\n"), "> ")
	case "bulletList":
		return renderBulletList(node)
	case "orderedList":
		return renderOrderedList(node)
	case "taskList":
		return renderTaskList(node)
	case "image":
		return renderImage(node)
	case "video":
		return mediaLink(node, "Video", "src")
	case "youtube":
		return mediaLink(node, "YouTube", "src")
	case "embed":
		return mediaLink(node, "Embed", "src")
	case "attachment":
		return mediaLink(node, "Attachment", "url")
	case "drawio":
		return "[Draw.io diagram]"
	case "excalidraw":
		return "[Excalidraw drawing]"
	case "table":
		return renderJoined(node.Content, "\n")
	case "tableRow":
		return renderTableRow(node)
	case "callout":
		return renderCallout(node)
	case "detailsSummary":
		return "<details>\n<summary>" + renderChildren(node) + "</summary>\n\n"
	case "detailsContent":
		return renderJoined(node.Content, "\n\n") + "\n\n</details>"
	case "mathInline":
		return "$" + stringAttr(node, "latex", "") + "$"
	case "mathBlock":
		return "$$\n" + stringAttr(node, "latex", "") + "\n$$"
	case "mention":
		return renderMention(node)
	case "subpages":
		return SubpagesToken
	default:
		// Covers tableCell, tableHeader and details as well as node types
		// this converter has never heard of: render whatever is inside.
		return renderChildren(node)
	}
}

// applyMarks folds the mark sequence over the raw text. Order matters: the
// first mark wraps the raw text and ends up innermost, the last ends up
// outermost. Unknown mark types leave the text as-is.
func applyMarks(text string, marks []*Mark) string {
	for _, mark := range marks {
		switch mark.Type {
		case "bold":
			text = "**" + text + "**"
		case "italic":
			text = "*" + text + "*"
		case "code":
			text = "`" + text + "`"
		case "strike":
			text = "~~" + text + "~~"
		case "underline":
			text = "<u>" + text + "</u>"
		case "subscript":
			text = "<sub>" + text + "</sub>"
		case "superscript":
			text = "<sup>" + text + "</sup>"
		case "highlight":
			color := markAttr(mark, "color", "yellow")
			text = fmt.Sprintf("<mark style=\"background-color: %s\">%s</mark>", color, text)
		case "link":
			text = fmt.Sprintf("[%s](%s)", text, markAttr(mark, "href", ""))
		case "textStyle":
			if color := markAttr(mark, "color", ""); color != "" {
				text = fmt.Sprintf("<span style=\"color: %s\">%s</span>", color, text)
			}
		}
	}
	return text
}

func renderParagraph(node *Node) string {
	text := renderChildren(node)
	if align := stringAttr(node, "textAlign", "left"); align != "left" && text != "" {
		return fmt.Sprintf("<div style=\"text-align: %s\">%s</div>", align, text)
	}
	return text
}

func renderHeading(node *Node) string {
	level := intAttr(node, "level", 1)
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + renderChildren(node)
}

func renderCodeBlock(node *Node) string {
	language := stringAttr(node, "language", "")
	return "```" + language + "\n" + renderChildren(node) + "\n```"
}

func renderBulletList(node *Node) string {
	items := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		items = append(items, renderListItem("-", item))
	}
	return strings.Join(items, "\n")
}

func renderOrderedList(node *Node) string {
	items := make([]string, 0, len(node.Content))
	for i, item := range node.Content {
		items = append(items, renderListItem(fmt.Sprintf("%d.", i+1), item))
	}
	return strings.Join(items, "\n")
}

// renderListItem puts the marker on the first line and indents every
// continuation line by two spaces. The indent is flat: nested lists are not
// indented further per level.
func renderListItem(marker string, item *Node) string {
	lines := strings.Split(renderJoined(item.Content, "\n"), "\n")
	var b strings.Builder
	b.WriteString(marker + " " + lines[0])
	for _, line := range lines[1:] {
		b.WriteString("\n  " + line)
	}
	return b.String()
}

func renderTaskList(node *Node) string {
	items := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		box := "- [ ]"
		if boolAttr(item, "checked", false) {
			box = "- [x]"
		}
		// Task item content is flattened onto a single line.
		content := strings.ReplaceAll(renderJoined(item.Content, "\n"), "\n", " ")
		items = append(items, box+" "+content)
	}
	return strings.Join(items, "\n")
}

func renderImage(node *Node) string {
	out := fmt.Sprintf("![%s](%s)", stringAttr(node, "alt", ""), stringAttr(node, "src", ""))
	if title := stringAttr(node, "title", ""); title != "" {
		out += "\n*" + title + "*"
	}
	return out
}

func mediaLink(node *Node, label, urlKey string) string {
	if url := stringAttr(node, urlKey, ""); url != "" {
		return fmt.Sprintf("[%s](%s)", label, url)
	}
	return "[" + label + "]"
}

func renderTableRow(node *Node) string {
	cells := make([]string, 0, len(node.Content))
	for _, cell := range node.Content {
		cells = append(cells, render(cell))
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

func renderCallout(node *Node) string {
	label := strings.ToUpper(stringAttr(node, "type", "info"))
	out := "> **" + label + "**"
	if content := renderJoined(node.Content, "\n"); content != "" {
		out += "\n" + prefixLines(content, "> ")
	}
	return out
}

func renderMention(node *Node) string {
	label := stringAttr(node, "label", "")
	if label == "" {
		label = stringAttr(node, "id", "")
	}
	return "@" + label
}

func renderChildren(node *Node) string {
	var b strings.Builder
	for _, child := range node.Content {
		b.WriteString(render(child))
	}
	return b.String()
}

// renderJoined renders each child and joins the non-empty results with sep.
func renderJoined(children []*Node, sep string) string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		if s := render(child); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func stringAttr(node *Node, key, fallback string) string {
	if v, ok := node.Attrs[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intAttr(node *Node, key string, fallback int) int {
	switch v := node.Attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func boolAttr(node *Node, key string, fallback bool) bool {
	if v, ok := node.Attrs[key].(bool); ok {
		return v
	}
	return fallback
}

func markAttr(mark *Mark, key, fallback string) string {
	if v, ok := mark.Attrs[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
