// Package prompt flattens a structured conversation into the single prompt
// string the backend expects.
package prompt

import (
	"strings"

	"aibridge/internal/core"
)

// ToPrompt renders each message as "<ROLE>: <content>" with the role
// uppercased, joined by single newlines. Message order is preserved and
// content is not escaped, so multi-line content spills onto extra lines
// attributed to the same role. An empty message list yields "".
func ToPrompt(messages []core.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, strings.ToUpper(msg.Role)+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}
