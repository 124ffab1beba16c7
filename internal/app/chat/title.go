package chat

import "strings"

const (
	titleMaxWords   = 5
	titleMaxLen     = 25
	titleTruncateAt = 22
	defaultTitle    = "New Chat"
)

// TitleFor derives a short session label from the leading words of a
// message. Blank input yields "New Chat".
func TitleFor(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return defaultTitle
	}
	if len(words) > titleMaxWords {
		words = words[:titleMaxWords]
	}

	title := strings.Join(words, " ")
	if runes := []rune(title); len(runes) > titleMaxLen {
		title = string(runes[:titleTruncateAt]) + "..."
	}
	return title
}
