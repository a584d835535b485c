// Package snippet sanitizes store-generated match headlines.
//
// Headlines echo user-controlled text, so everything except the highlight
// element is stripped before a headline leaves the search subsystem.
package snippet

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HighlightTag is the only element allowed in a sanitized headline.
const HighlightTag = "mark"

// Highlight delimiters the store is asked to wrap matches with.
const (
	StartSel = "<" + HighlightTag + ">"
	StopSel  = "</" + HighlightTag + ">"
)

// policy allows <mark> without attributes; script and style content is dropped.
var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(HighlightTag)
	return p
}()

// Sanitize strips all markup except bare highlight tags. Nil passes through,
// and a headline that is blank after sanitizing becomes nil.
func Sanitize(raw *string) *string {
	if raw == nil {
		return nil
	}
	clean := strings.TrimSpace(policy.Sanitize(*raw))
	if clean == "" {
		return nil
	}
	return &clean
}
