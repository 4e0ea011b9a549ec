package richtext

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var classValue = regexp.MustCompile(`^[A-Za-z0-9\s_-]+$`)

// Policy is the sanitizer applied to rendered documents: user-generated content
// plus the structural elements and attributes the renderer emits.
func Policy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption", "section", "div", "span", "hr", "u", "sup", "sub")
	policy.AllowAttrs("class").Matching(classValue).Globally()
	policy.AllowAttrs("loading").Matching(regexp.MustCompile(`^(lazy|eager)$`)).OnElements("img")
	policy.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	policy.AllowAttrs("rel").Matching(regexp.MustCompile(`^[a-z\s]+$`)).OnElements("a")
	policy.AllowDataAttributes()
	policy.RequireNoFollowOnLinks(false)
	policy.RequireNoFollowOnFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnFullyQualifiedLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}
