// Package goldmark renders assistant replies, which arrive as markdown,
// to ANSI-styled terminal output using goldmark for parsing and lipgloss
// for styling.
package goldmark

import chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"

// Render parses an assistant reply as markdown and returns ANSI-styled
// terminal output. Paragraphs, quotes, and list items are word-wrapped
// to width; code block lines are kept intact without reflow.
func Render(reply string, width int, theme chatbot.Theme) string {
	if reply == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newReplyRenderer(theme)
	return r.render([]byte(reply), width)
}
