package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Section is one heading-delimited slice of a markdown document. Documents
// are split per heading so each knowledge entry stays small enough to be a
// useful retrieval unit.
type Section struct {
	Title string
	Level int
	Text  string
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// SplitSections parses markdown source and returns one Section per heading,
// each carrying the plain text of the blocks up to the next heading. Text
// before the first heading becomes an untitled leading section. Sections
// with no body text are dropped.
func SplitSections(source []byte) []Section {
	doc := markdown.Parser().Parse(text.NewReader(source))

	var (
		sections []Section
		current  Section
		body     strings.Builder
	)

	flush := func() {
		current.Text = strings.TrimSpace(body.String())
		if current.Text != "" {
			sections = append(sections, current)
		}
		body.Reset()
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok {
			flush()
			current = Section{
				Title: plainText(heading, source),
				Level: heading.Level,
			}
			continue
		}

		if t := plainText(node, source); t != "" {
			if body.Len() > 0 {
				body.WriteString("\n\n")
			}
			body.WriteString(t)
		}
	}
	flush()

	return sections
}

// PlainText extracts all readable text from a markdown document, with
// heading structure flattened. Used when a document is small enough to be
// stored whole.
func PlainText(source []byte) string {
	doc := markdown.Parser().Parse(text.NewReader(source))

	var parts []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if t := plainText(node, source); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// plainText renders the text content of one AST node, dropping all markup.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.FencedCodeBlock:
			writeLines(&b, t.Lines(), source)
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			writeLines(&b, t.Lines(), source)
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if node != n {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func writeLines(b *strings.Builder, lines *text.Segments, source []byte) {
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
}
