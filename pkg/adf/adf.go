// Package adf extracts plain text from Atlassian Document Format trees, the
// rich-text structure Jira Cloud uses for issue descriptions.
package adf

import (
	"encoding/json"
	"strings"
)

// NoDescription is the text returned when a description is absent, malformed,
// or carries no text nodes.
const NoDescription = "no description available"

// node is the recursive ADF shape. Only text and content matter here; marks,
// attrs and node types are ignored.
type node struct {
	Text    string `json:"text"`
	Content []node `json:"content"`
}

// ExtractText flattens an ADF document into plain text. Text nodes are
// collected in traversal order; each top-level block becomes one line and
// lines are joined with newlines, then the result is trimmed. Extraction
// never fails: anything unusable yields NoDescription.
func ExtractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return NoDescription
	}

	var doc node
	if err := json.Unmarshal(raw, &doc); err != nil {
		return NoDescription
	}

	lines := make([]string, 0, len(doc.Content))
	for _, block := range doc.Content {
		var sb strings.Builder
		collectText(block, &sb)
		lines = append(lines, sb.String())
	}

	out := strings.TrimSpace(strings.Join(lines, "\n"))
	if out == "" {
		return NoDescription
	}
	return out
}

func collectText(n node, sb *strings.Builder) {
	if n.Text != "" {
		sb.WriteString(n.Text)
	}
	for _, child := range n.Content {
		collectText(child, sb)
	}
}
