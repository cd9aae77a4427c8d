package format

import "strings"

var mdEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"`", "\\`",
)

// EscapeMarkdown escapes Telegram Markdown control characters so free-form
// text can be embedded in a Markdown-mode message without breaking parsing.
func EscapeMarkdown(text string) string {
	return mdEscaper.Replace(text)
}
