package highlight

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// policy keeps user-generated-content tags plus the <mark> element the
// upstream search pipeline injects into message bodies.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("mark")
	return p
}()

// SanitizeHTML strips scripts and event handlers from server-supplied
// markup. Every raw content field crosses this before rendering.
func SanitizeHTML(raw string) template.HTML {
	return template.HTML(policy.Sanitize(raw))
}
