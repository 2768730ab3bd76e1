package formatter

import (
	"strings"
	"unicode/utf8"
)

// Hashtags renders tags as "#a #b", stripping any leading '#' the tag already has
// and skipping blanks.
func Hashtags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = NormalizeTag(tag)
		if tag == "" {
			continue
		}
		parts = append(parts, "#"+tag)
	}
	return strings.Join(parts, " ")
}

// NormalizeTag trims whitespace and leading '#' characters.
func NormalizeTag(tag string) string {
	return strings.TrimLeft(strings.TrimSpace(tag), "#")
}

// JoinBody appends the rendered hashtags to content using sep. With no tags the
// content is returned as is.
func JoinBody(content string, tags []string, sep string) string {
	rendered := Hashtags(tags)
	if rendered == "" {
		return content
	}
	if content == "" {
		return rendered
	}
	return content + sep + rendered
}

// Truncate shortens s to at most max runes, ending with "..." when cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}

// EscapeMarkdownV2 escapes special characters in Markdown V2 format
func EscapeMarkdownV2(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
