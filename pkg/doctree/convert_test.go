package doctree

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func doc(children ...*Node) *Node {
	return &Node{Type: "doc", Content: children}
}

func para(children ...*Node) *Node {
	return &Node{Type: "paragraph", Content: children}
}

func text(s string, marks ...*Mark) *Node {
	return &Node{Type: "text", Text: s, Marks: marks}
}

func mark(typ string, attrs map[string]interface{}) *Mark {
	return &Mark{Type: typ, Attrs: attrs}
}

func item(typ string, attrs map[string]interface{}, children ...*Node) *Node {
	return &Node{Type: typ, Attrs: attrs, Content: children}
}

func TestConvertEmptyDocuments(t *testing.T) {
	if got := Convert(nil); got != "" {
		t.Errorf("Convert(nil) = %q, want empty", got)
	}
	if got := Convert(&Node{Type: "doc"}); got != "" {
		t.Errorf("Convert(empty doc) = %q, want empty", got)
	}
}

func TestConvertBlocks(t *testing.T) {
	tests := []struct {
		name string
		root *Node
		want string
	}{
		{
			name: "plain paragraph",
			root: doc(para(text("hello"))),
			want: "hello",
		},
		{
			name: "paragraphs joined by blank line",
			root: doc(para(text("one")), para(text("two"))),
			want: "one\n\ntwo",
		},
		{
			name: "aligned paragraph",
			root: doc(item("paragraph", map[string]interface{}{"textAlign": "center"}, text("mid"))),
			want: `<div style="text-align: center">mid</div>`,
		},
		{
			name: "left alignment is not wrapped",
			root: doc(item("paragraph", map[string]interface{}{"textAlign": "left"}, text("plain"))),
			want: "plain",
		},
		{
			name: "heading default level",
			root: doc(item("heading", nil, text("Title"))),
			want: "# Title",
		},
		{
			name: "code block with language",
			root: doc(item("codeBlock", map[string]interface{}{"language": "go"}, text("x := 1"))),
			want: "```go\nx := 1\n```",
		},
		{
			name: "code block without language",
			root: doc(item("codeBlock", nil, text("plain"))),
			want: "```\nplain\n```",
		},
		{
			name: "blockquote prefixes every line",
			root: doc(item("blockquote", nil, para(text("first")), para(text("second")))),
			want: "> first\n> second",
		},
		{
			name: "horizontal rule between paragraphs",
			root: doc(para(text("a")), &Node{Type: "horizontalRule"}, para(text("b"))),
			want: "a\n\n---\n\nb",
		},
		{
			name: "hard break inside paragraph",
			root: doc(para(text("a"), &Node{Type: "hardBreak"}, text("b"))),
			want: "a\nb",
		},
		{
			name: "image with caption",
			root: doc(item("image", map[string]interface{}{"src": "cat.png", "alt": "a cat", "title": "A cat"})),
			want: "![a cat](cat.png)\n*A cat*",
		},
		{
			name: "image defaults",
			root: doc(item("image", nil)),
			want: "![]()",
		},
		{
			name: "video with source",
			root: doc(item("video", map[string]interface{}{"src": "https://cdn/v.mp4"})),
			want: "[Video](https://cdn/v.mp4)",
		},
		{
			name: "attachment without url",
			root: doc(item("attachment", nil)),
			want: "[Attachment]",
		},
		{
			name: "drawio fixed label",
			root: doc(item("drawio", map[string]interface{}{"src": "ignored"})),
			want: "[Draw.io diagram]",
		},
		{
			name: "math inline and block",
			root: doc(
				para(item("mathInline", map[string]interface{}{"latex": "a^2"})),
				item("mathBlock", map[string]interface{}{"latex": "E = mc^2"}),
			),
			want: "$a^2$\n\n$$\nE = mc^2\n$$",
		},
		{
			name: "mention prefers label",
			root: doc(para(item("mention", map[string]interface{}{"label": "jane", "id": "u1"}))),
			want: "@jane",
		},
		{
			name: "mention falls back to id",
			root: doc(para(item("mention", map[string]interface{}{"id": "u1"}))),
			want: "@u1",
		},
		{
			name: "callout with type",
			root: doc(item("callout", map[string]interface{}{"type": "warning"}, para(text("careful")), para(text("really")))),
			want: "> **WARNING**\n> careful\n> really",
		},
		{
			name: "callout default type",
			root: doc(item("callout", nil, para(text("fyi")))),
			want: "> **INFO**\n> fyi",
		},
		{
			name: "details summary and content",
			root: doc(item("details", nil,
				item("detailsSummary", nil, text("More")),
				item("detailsContent", nil, para(text("hidden")), para(text("stuff"))),
			)),
			want: "<details>\n<summary>More</summary>\n\nhidden\n\nstuff\n\n</details>",
		},
		{
			name: "subpages placeholder",
			root: doc(para(text("intro")), &Node{Type: "subpages"}),
			want: "intro\n\n" + SubpagesToken,
		},
		{
			name: "unknown node type renders children",
			root: doc(item("holoDeck", nil, text("x"))),
			want: "x",
		},
		{
			name: "unknown leaf renders nothing",
			root: doc(para(text("a")), item("telemetryBeacon", nil), para(text("b"))),
			want: "a\n\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.root)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Convert mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertHeadingLevels(t *testing.T) {
	for level := 1; level <= 6; level++ {
		root := doc(item("heading", map[string]interface{}{"level": float64(level)}, text("h")))
		want := strings.Repeat("#", level) + " h"
		if got := Convert(root); got != want {
			t.Errorf("level %d: got %q, want %q", level, got, want)
		}
	}
}

func TestConvertLists(t *testing.T) {
	tests := []struct {
		name string
		root *Node
		want string
	}{
		{
			name: "bullet list",
			root: doc(item("bulletList", nil,
				item("listItem", nil, para(text("A"))),
				item("listItem", nil, para(text("B"))),
			)),
			want: "- A\n- B",
		},
		{
			name: "bullet item continuation lines are indented",
			root: doc(item("bulletList", nil,
				item("listItem", nil, para(text("first")), para(text("second"))),
			)),
			want: "- first\n  second",
		},
		{
			name: "nested list keeps flat indent",
			root: doc(item("bulletList", nil,
				item("listItem", nil,
					para(text("parent")),
					item("bulletList", nil, item("listItem", nil, para(text("child")))),
				),
			)),
			want: "- parent\n  - child",
		},
		{
			name: "ordered list numbering",
			root: doc(item("orderedList", nil,
				item("listItem", nil, para(text("A"))),
				item("listItem", nil, para(text("B"))),
				item("listItem", nil, para(text("C"))),
			)),
			want: "1. A\n2. B\n3. C",
		},
		{
			name: "task list checkboxes",
			root: doc(item("taskList", nil,
				item("taskItem", map[string]interface{}{"checked": true}, para(text("Done"))),
				item("taskItem", nil, para(text("Todo"))),
			)),
			want: "- [x] Done\n- [ ] Todo",
		},
		{
			name: "task item content is flattened to one line",
			root: doc(item("taskList", nil,
				item("taskItem", nil, para(text("first")), para(text("second"))),
			)),
			want: "- [ ] first second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.root)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Convert mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertTable(t *testing.T) {
	row := func(cellType string, cells ...string) *Node {
		content := make([]*Node, 0, len(cells))
		for _, c := range cells {
			content = append(content, item(cellType, nil, para(text(c))))
		}
		return item("tableRow", nil, content...)
	}

	t.Run("single row has no separator line", func(t *testing.T) {
		root := doc(item("table", nil, row("tableCell", "A", "B")))
		if got := Convert(root); got != "| A | B |" {
			t.Errorf("got %q, want %q", got, "| A | B |")
		}
	})

	t.Run("header row joins like any other row", func(t *testing.T) {
		root := doc(item("table", nil,
			row("tableHeader", "Name", "Age"),
			row("tableCell", "Ada", "36"),
		))
		want := "| Name | Age |\n| Ada | 36 |"
		if diff := cmp.Diff(want, Convert(root)); diff != "" {
			t.Errorf("table mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestApplyMarks(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		marks []*Mark
		want  string
	}{
		{name: "no marks", text: "plain", want: "plain"},
		{
			name:  "bold then italic, first mark innermost",
			text:  "t",
			marks: []*Mark{mark("bold", nil), mark("italic", nil)},
			want:  "*" + "**" + "t" + "**" + "*",
		},
		{
			name:  "code then bold",
			text:  "x",
			marks: []*Mark{mark("code", nil), mark("bold", nil)},
			want:  "**`x`**",
		},
		{
			name:  "strike",
			text:  "old",
			marks: []*Mark{mark("strike", nil)},
			want:  "~~old~~",
		},
		{
			name:  "underline and scripts",
			text:  "x",
			marks: []*Mark{mark("subscript", nil), mark("underline", nil)},
			want:  "<u><sub>x</sub></u>",
		},
		{
			name:  "superscript",
			text:  "2",
			marks: []*Mark{mark("superscript", nil)},
			want:  "<sup>2</sup>",
		},
		{
			name:  "highlight default color",
			text:  "hot",
			marks: []*Mark{mark("highlight", nil)},
			want:  `<mark style="background-color: yellow">hot</mark>`,
		},
		{
			name:  "highlight custom color",
			text:  "hot",
			marks: []*Mark{mark("highlight", map[string]interface{}{"color": "#fdd"})},
			want:  `<mark style="background-color: #fdd">hot</mark>`,
		},
		{
			name:  "link",
			text:  "docs",
			marks: []*Mark{mark("link", map[string]interface{}{"href": "https://example.com"})},
			want:  "[docs](https://example.com)",
		},
		{
			name:  "link without href",
			text:  "docs",
			marks: []*Mark{mark("link", nil)},
			want:  "[docs]()",
		},
		{
			name:  "textStyle without color is a no-op",
			text:  "t",
			marks: []*Mark{mark("textStyle", nil)},
			want:  "t",
		},
		{
			name:  "textStyle with color",
			text:  "t",
			marks: []*Mark{mark("textStyle", map[string]interface{}{"color": "red"})},
			want:  `<span style="color: red">t</span>`,
		},
		{
			name:  "unknown mark passes through",
			text:  "t",
			marks: []*Mark{mark("blink", nil), mark("bold", nil)},
			want:  "**t**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyMarks(tt.text, tt.marks)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("applyMarks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		root *Node
		want string
	}{
		{
			name: "negative heading level floors to one",
			root: doc(item("heading", map[string]interface{}{"level": float64(-1)}, text("h"))),
			want: "# h",
		},
		{
			name: "zero heading level floors to one",
			root: doc(item("heading", map[string]interface{}{"level": float64(0)}, text("h"))),
			want: "# h",
		},
		{
			name: "huge heading level",
			root: doc(item("heading", map[string]interface{}{"level": float64(40)}, text("h"))),
			want: strings.Repeat("#", 40) + " h",
		},
		{
			name: "non-string language attr falls back to empty",
			root: doc(item("codeBlock", map[string]interface{}{"language": float64(5)}, text("x"))),
			want: "```\nx\n```",
		},
		{
			name: "non-bool checked attr falls back to unchecked",
			root: doc(item("taskList", nil,
				item("taskItem", map[string]interface{}{"checked": "yes"}, para(text("t"))),
			)),
			want: "- [ ] t",
		},
		{
			name: "non-string mark color falls back to default",
			root: doc(para(text("t", mark("highlight", map[string]interface{}{"color": float64(3)})))),
			want: `<mark style="background-color: yellow">t</mark>`,
		},
		{
			name: "bare text node",
			root: doc(&Node{Type: "text"}),
			want: "",
		},
		{
			name: "node with nil everything",
			root: doc(&Node{}),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.root)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Convert mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertDeterminism(t *testing.T) {
	root := doc(
		item("heading", map[string]interface{}{"level": float64(2)}, text("Notes")),
		item("bulletList", nil,
			item("listItem", nil, para(text("a", mark("bold", nil)))),
			item("listItem", nil, para(text("b"))),
		),
		item("callout", map[string]interface{}{"type": "danger"}, para(text("boom"))),
	)
	first := Convert(root)
	for i := 0; i < 5; i++ {
		if got := Convert(root); got != first {
			t.Fatalf("conversion not deterministic: %q != %q", got, first)
		}
	}
}

func TestConvertDoesNotMutateInput(t *testing.T) {
	root := doc(para(text("keep", mark("bold", nil))))
	Convert(root)
	if root.Content[0].Content[0].Text != "keep" {
		t.Error("input tree was mutated")
	}
	if root.Content[0].Content[0].Marks[0].Type != "bold" {
		t.Error("input marks were mutated")
	}
}
