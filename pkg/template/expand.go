// Package template expands {name} placeholders in instruction text.
package template

import "regexp"

var placeholderRe = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// Expand replaces every {key} in text with vars[key].
//
// Placeholders without a value are left as written, so literal braces in
// prose survive expansion.
func Expand(text string, vars map[string]string) string {
	if len(vars) == 0 {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		if v, ok := vars[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// Placeholders returns the distinct placeholder names in text, in order of
// first appearance.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Missing returns placeholders in text that vars does not define.
func Missing(text string, vars map[string]string) []string {
	var out []string
	for _, name := range Placeholders(text) {
		if _, ok := vars[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
