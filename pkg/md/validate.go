// validate.go sanitizes and validates untrusted directive attributes.
package md

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every tag and attribute, keeping only text content.
var textPolicy = bluemonday.StrictPolicy()

var angleStripper = strings.NewReplacer("<", "", ">", "")

// SanitizeText strips all markup from raw and trims surrounding whitespace.
// The result is plain (unescaped) text that never contains '<' or '>', and
// sanitizing it again returns it unchanged.
func SanitizeText(raw string) string {
	if raw == "" {
		return ""
	}
	s := textPolicy.Sanitize(raw)
	// Decode entities until nothing changes; decoding can surface new
	// angle brackets, which are dropped on the same pass.
	for {
		next := angleStripper.Replace(html.UnescapeString(s))
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// SanitizeAttr returns the sanitized text of attrs[key], or "" when absent.
func SanitizeAttr(attrs Attributes, key string) string {
	raw, ok := attrs.Lookup(key)
	if !ok {
		return ""
	}
	return SanitizeText(raw)
}

// IsValidURL accepts root-relative paths and absolute http(s) URLs.
func IsValidURL(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "/") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ParseBooleanAttr reports whether a boolean attribute is on: the key is
// present and its value is not the literal "false".
func ParseBooleanAttr(attrs Attributes, key string) bool {
	v, ok := attrs.Lookup(key)
	return ok && v != "false"
}

// defaultOnAttr reports whether an attribute that defaults to on is still on.
// Only the literal "false" turns it off.
func defaultOnAttr(attrs Attributes, key string) bool {
	v, ok := attrs.Lookup(key)
	return !ok || v != "false"
}
