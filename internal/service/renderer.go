package service

import (
	"regexp"
	"strings"
)

// RenderedMessage carries the three forms of a campaign message that go
// into every outgoing payload. WhatsApp payloads use the WhatsApp form as
// their primary message, email payloads use the HTML form.
type RenderedMessage struct {
	HTML     string
	WhatsApp string
	Plain    string
}

var (
	lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>`)
	paragraphRe = regexp.MustCompile(`(?i)</p>`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)
)

// NormalizeRichText makes sure the message template is rich text. Editor
// output (anything already starting with markup) passes through; raw text
// is wrapped into a single justified paragraph, with blank lines kept as
// non-breaking-space placeholders and other line breaks turned into <br>.
func NormalizeRichText(src string) string {
	trimmed := strings.TrimSpace(src)
	if strings.HasPrefix(trimmed, "<") {
		return src
	}

	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = "&nbsp;"
		}
	}
	return `<p class="ql-align-justify">` + strings.Join(lines, "<br>") + "</p>"
}

// RenderWhatsApp converts rich text into the WhatsApp-safe plain form:
// paragraph and line-break boundaries become newlines, markup is stripped
// and blank paragraphs survive as blank lines.
func RenderWhatsApp(html string) string {
	text := stripMarkup(html)

	// WhatsApp renders at most one blank line between blocks.
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

// RenderPlainText converts rich text into the generic single-spaced
// plain form.
func RenderPlainText(html string) string {
	text := stripMarkup(html)
	for strings.Contains(text, "\n\n") {
		text = strings.ReplaceAll(text, "\n\n", "\n")
	}
	return strings.TrimSpace(text)
}

// RenderMessage normalizes the template once and produces both plain
// renderings from the same normalized source.
func RenderMessage(src string) RenderedMessage {
	html := NormalizeRichText(src)
	return RenderedMessage{
		HTML:     html,
		WhatsApp: RenderWhatsApp(html),
		Plain:    RenderPlainText(html),
	}
}

func stripMarkup(html string) string {
	text := lineBreakRe.ReplaceAllString(html, "\n")
	text = paragraphRe.ReplaceAllString(text, "\n")
	text = tagRe.ReplaceAllString(text, "")

	text = strings.ReplaceAll(text, "&nbsp;", "")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&amp;", "&")

	// Strip trailing whitespace the placeholder removal leaves behind.
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
