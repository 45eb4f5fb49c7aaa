package retrieval

import (
	"fmt"
	"strings"
)

// Per-kind rendering limits for prompt augmentation. Prompts stay compact
// even when a strategy retrieved more.
const (
	promptSimilarMax   = 2
	promptKnowledgeMax = 3
	promptStyleMax     = 2
)

// BuildAugmentedPrompt renders a retrieved context into an enhanced prompt:
// the base prompt, a Retrieved Context block in fixed order (similar content,
// then knowledge, then style examples), and a marker reintroducing the
// original request. Pure formatting; no store access.
func BuildAugmentedPrompt(base string, c *Context) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n### Retrieved Context:\n")

	if items := itemsOfKind(c, kindSimilar, promptSimilarMax); len(items) > 0 {
		b.WriteString("\n**Similar Previous Content:**\n")
		for _, item := range items {
			fmt.Fprintf(&b, "- %s (similarity: %.2f)\n", excerpt(item.Content, 200), item.Score)
		}
	}

	if items := itemsOfKind(c, kindKnowledge, promptKnowledgeMax); len(items) > 0 {
		b.WriteString("\n**Relevant Knowledge:**\n")
		for _, item := range items {
			fmt.Fprintf(&b, "- %s (source: %s)\n", excerpt(item.Content, 150), item.Source)
		}
	}

	if items := itemsOfKind(c, kindStyle, promptStyleMax); len(items) > 0 {
		b.WriteString("\n**High-Performing Examples:**\n")
		for _, item := range items {
			fmt.Fprintf(&b, "- %s (score: %.2f)\n", excerpt(item.Content, 150), item.Score)
		}
	}

	b.WriteString("\n### Original Request:\n")
	return b.String()
}

// itemsOfKind collects items across all sections of one kind, in section
// order, capped at max.
func itemsOfKind(c *Context, kind sectionKind, max int) []Item {
	if c == nil {
		return nil
	}
	var items []Item
	for _, section := range c.Sections {
		if section.Kind != kind {
			continue
		}
		for _, item := range section.Items {
			if len(items) == max {
				return items
			}
			items = append(items, item)
		}
	}
	return items
}

// excerpt truncates s to at most n characters, appending an ellipsis when cut.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
