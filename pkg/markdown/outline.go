// ABOUTME: Markdown outline scanning built on goldmark AST parsing
// ABOUTME: Extracts document title, heading texts and bullet-list items

package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Item is a single list entry found in a document.
type Item struct {
	Text     string
	Marker   byte // '-', '*' or '+' for bullet lists, '.' or ')' for ordered
	TopLevel bool // item of a list nested directly under the document
}

// Outline is the structural skeleton of a markdown document.
type Outline struct {
	Title    string   // first level-1 heading, else first level-2 heading
	Headings []string // all heading texts in document order
	Items    []Item   // all list items in document order, nested included
}

var parser = goldmark.New()

// Scan parses content and returns its outline.
func Scan(content string) Outline {
	source := []byte(content)
	doc := parser.Parser().Parse(text.NewReader(source))

	var out Outline
	var firstH2 string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			heading := nodeText(node, source)
			out.Headings = append(out.Headings, heading)
			if node.Level == 1 && out.Title == "" {
				out.Title = heading
			} else if node.Level == 2 && firstH2 == "" {
				firstH2 = heading
			}

		case *ast.ListItem:
			list, ok := node.Parent().(*ast.List)
			if !ok {
				return ast.WalkContinue, nil
			}
			out.Items = append(out.Items, Item{
				Text:     itemText(node, source),
				Marker:   list.Marker,
				TopLevel: list.Parent() == doc,
			})
		}

		return ast.WalkContinue, nil
	})

	if out.Title == "" {
		out.Title = firstH2
	}
	return out
}

// itemText returns the text of the item's own first block, excluding any
// nested lists.
func itemText(item *ast.ListItem, source []byte) string {
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if _, isList := child.(*ast.List); isList {
			continue
		}
		return nodeText(child, source)
	}
	return ""
}

// nodeText collects the raw text content under n.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
