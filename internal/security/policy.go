// Package security holds the markup policy checked against user-supplied
// long text (job descriptions, cover letters, company descriptions). Text
// that passes is stored exactly as submitted.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type Policy interface {
	// Allowed reports whether raw only uses the permitted formatting tags.
	// Plain text, including bare '<', '&' and quotes, is always allowed.
	Allowed(raw string) bool
}

type markupPolicy struct{ policy *bluemonday.Policy }

// NewPolicy permits basic formatting and plain http(s)/mailto links.
func NewPolicy() Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "ul", "ol", "li", "strong", "em", "b", "i")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("https", "http", "mailto")
	p.AllowRelativeURLs(false)
	return &markupPolicy{policy: p}
}

// bluemonday 输出是转义后的 HTML，比较前两边都反转义
func (m *markupPolicy) Allowed(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	clean := html.UnescapeString(m.policy.Sanitize(raw))
	return strings.EqualFold(clean, html.UnescapeString(raw))
}

// Nop accepts everything.
type Nop struct{}

func (Nop) Allowed(string) bool { return true }
