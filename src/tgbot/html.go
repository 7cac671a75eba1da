package tgbot

import (
	"fmt"

	"golang.org/x/net/html"
)

// BoldText transforms text into telegram bold text.
func BoldText(text string) string {
	return fmt.Sprintf("<b>%s</b>", text)
}

// InlineLink combines text and link into telegram inline link.
// Both arguments must already be escaped.
func InlineLink(text, link string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, link, text)
}

// EscapeText escapes the characters telegram HTML parse mode treats as markup.
// Don't include the formatting tags in the input text, or they will be escaped too.
func EscapeText(text string) string {
	return html.EscapeString(text)
}
