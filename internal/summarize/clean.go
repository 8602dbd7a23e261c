package summarize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reTags           = regexp.MustCompile(`<[^>]*>`)
	reParenNote      = regexp.MustCompile(`(?i)\((note|disclaimer)[^)]*\)`)
	reBracketNote    = regexp.MustCompile(`(?i)\[(note|disclaimer)[^\]]*\]`)
	reNoteLinePrefix = regexp.MustCompile(`(?i)^(note|disclaimer)\s*:`)
)

// CleanText strips HTML tags and entities from a feed summary and
// normalizes whitespace. Feeds ship anything from plain text to full
// article markup, so this goes through a real HTML parser rather than
// string surgery.
func CleanText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	} else {
		// net/html accepts almost anything; if it still refuses, fall back
		// to a blunt tag strip.
		text = reTags.ReplaceAllString(raw, " ")
	}

	text = decodeBasicEntities(text)
	return strings.Join(strings.Fields(text), " ")
}

// decodeBasicEntities handles entities that survive text extraction, e.g.
// when a feed double-escapes its summary HTML.
func decodeBasicEntities(text string) string {
	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	return replacer.Replace(text)
}

// SanitizeModelOutput removes boilerplate the models like to append, such
// as "Note: this summary was generated..." lines and bracketed
// disclaimers, then collapses leftover whitespace.
func SanitizeModelOutput(text string) string {
	text = reParenNote.ReplaceAllString(text, " ")
	text = reBracketNote.ReplaceAllString(text, " ")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if reNoteLinePrefix.MatchString(line) {
			continue
		}
		kept = append(kept, strings.Join(strings.Fields(line), " "))
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
