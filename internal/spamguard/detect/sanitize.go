package detect

import (
	"regexp"
	"strings"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	quoteRemover = strings.NewReplacer(`'`, "", `"`, "", ";", "")
)

// Sanitize strips markup tags, removes quote and semicolon characters and
// collapses whitespace runs to a single space. Sanitize(Sanitize(s)) equals
// Sanitize(s).
func Sanitize(text string) string {
	text = tagPattern.ReplaceAllString(text, "")
	text = quoteRemover.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
