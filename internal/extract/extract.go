// Package extract collects readable text from web pages for quiz
// generation. Collection is deterministic: the same document always
// yields the same string.
package extract

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// MaxTextLen is the hard cap on collected page text, in characters.
// Longer documents are truncated; the LLM prompt never sees more.
const MaxTextLen = 9000

// ErrNoContent indicates nothing extractable was found on the page.
var ErrNoContent = errors.New("no extractable text content")

// skipElements are containers whose text is never user-visible prose.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"template": true,
	"iframe":   true,
	"svg":      true,
}

// Normalize collapses consecutive whitespace to single spaces, trims,
// and truncates to MaxTextLen characters.
func Normalize(s string) string {
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if len(out) > MaxTextLen {
		out = out[:MaxTextLen]
	}
	return out
}

// FromHTML extracts the visible text of an HTML document and normalizes
// it. Returns ErrNoContent when the document has no visible text.
func FromHTML(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)

	var b strings.Builder
	depth := 0 // nesting depth inside skipped elements

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				text := Normalize(b.String())
				if text == "" {
					return "", ErrNoContent
				}
				return text, nil
			}
			return "", z.Err()

		case html.StartTagToken:
			name, _ := z.TagName()
			if skipElements[string(name)] {
				depth++
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if skipElements[string(name)] && depth > 0 {
				depth--
			}

		case html.TextToken:
			if depth == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

// Title returns the contents of the document's <title> element, or "".
func Title(r io.Reader) string {
	z := html.NewTokenizer(r)
	inTitle := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				return ""
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(z.Text()))
			}
		}
	}
}
