package chatbot

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the widget
// automatically matches any color scheme.
type Theme struct {
	UserMsg int // User message accent
	BotMsg  int // Assistant reply text
	Spinner int // Typing indicator
	Error   int // Error notices
	Notice  int // Timeout and completion notices
	Muted   int // Status bar, placeholders, hints
	CodeBg  int // Code block background
	Accent  int // Headings, links, banner
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg: 4,
		BotMsg:  7,
		Spinner: 5,
		Error:   1,
		Notice:  3,
		Muted:   8,
		CodeBg:  0,
		Accent:  5,
	}
}
