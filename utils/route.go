package utils

import "strings"

// NormalizeTemplate canonicalizes a route template so lookups are exact:
//   - a leading '/' is ensured and a trailing '/' is dropped (except root)
//   - ':name' parameter segments are rewritten to the '{name}' form
//   - repeated '/' separators collapse to one
//
// Raw URLs must not be passed here; templates carry placeholders, not values.
func NormalizeTemplate(template string) string {
	if template == "" {
		return "/"
	}
	segs := strings.Split(template, "/")
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg == "" {
			continue
		}
		if seg[0] == ':' {
			seg = "{" + seg[1:] + "}"
		}
		out = append(out, seg)
	}
	return "/" + strings.Join(out, "/")
}

// TemplateParams returns the parameter names of a normalized template in
// path order, e.g. "/store/{storeId}/pet/{petId}" -> ["storeId", "petId"].
func TemplateParams(template string) []string {
	params := make([]string, 0, 2)
	for _, seg := range strings.Split(template, "/") {
		if len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
			params = append(params, seg[1:len(seg)-1])
		}
	}
	return params
}

// ValidTemplate reports whether every segment of a normalized template is
// either a literal or a well-formed '{name}' placeholder.
func ValidTemplate(template string) bool {
	if template == "" || template[0] != '/' {
		return false
	}
	for _, seg := range strings.Split(template[1:], "/") {
		if seg == "" && template != "/" {
			return false
		}
		open := strings.ContainsAny(seg, "{}")
		if !open {
			continue
		}
		if len(seg) < 3 || seg[0] != '{' || seg[len(seg)-1] != '}' {
			return false
		}
		if strings.ContainsAny(seg[1:len(seg)-1], "{}/") {
			return false
		}
	}
	return true
}
