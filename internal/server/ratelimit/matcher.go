package ratelimit

import (
	"strings"
)

// unlimitedPaths are probe endpoints that are never limited.
var unlimitedPaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// MatchRule returns the rule for a request, or nil when the default applies.
// Literal paths win over patterns; "{name}" segments match any single segment
// and a trailing "/" matches by prefix.
func MatchRule(path, method string, rules []Rule) *Rule {
	if unlimitedPaths[path] && method == "GET" {
		return &Rule{Path: path, Method: method}
	}

	for i := range rules {
		r := &rules[i]
		if r.Method == method && r.Path == path {
			return r
		}
	}

	for i := range rules {
		r := &rules[i]
		if r.Method == method && strings.Contains(r.Path, "{") && matchSegments(r.Path, path) {
			return r
		}
	}

	for i := range rules {
		r := &rules[i]
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}

	return nil
}

func matchSegments(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}
