package displaytemplate

import "regexp"

// placeholderRe matches a run of non-whitespace characters following a $,
// taking the longest such run as the placeholder name (maximal munch).
var placeholderRe = regexp.MustCompile(`\$[^\s]+`)

// Expand replaces every "$name" occurrence in s with vars[name]. A name not
// present in vars is left untouched, dollar sign and all, so a later
// substitution pass (e.g. one done by the manager process after seatd hands
// off a session) can still resolve it.
func Expand(s string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1:]
		if v, ok := vars[name]; ok {
			return v
		}
		return match
	})
}
