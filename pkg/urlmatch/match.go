// Package urlmatch implements matching a concrete request URL against
// a generic template whose path segments and query values may contain
// "{name}" placeholders.
package urlmatch

import "strings"

// Match reports whether url has the same structure as template: same
// presence/absence of a query, same path segment count, same query pair
// count, with every segment/key/value either matching exactly or bound to
// a "{...}" placeholder in template.
func Match(template, url string) bool {
	tPath, tQuery, tHasQuery := splitPathQuery(template)
	uPath, uQuery, uHasQuery := splitPathQuery(url)

	if tHasQuery != uHasQuery {
		return false
	}

	tSegs := strings.Split(tPath, "/")
	uSegs := strings.Split(uPath, "/")
	if len(tSegs) != len(uSegs) {
		return false
	}
	for i := range tSegs {
		if !segmentMatch(tSegs[i], uSegs[i]) {
			return false
		}
	}

	if !tHasQuery {
		return true
	}
	return queryMatch(tQuery, uQuery)
}

// Extract returns the values bound to every "{name}" placeholder in
// template for the given matching url. The second return is false if the
// two do not match at all.
func Extract(template, url string) (map[string]string, bool) {
	if !Match(template, url) {
		return nil, false
	}
	result := map[string]string{}

	tPath, tQuery, tHasQuery := splitPathQuery(template)
	uPath, uQuery, _ := splitPathQuery(url)

	tSegs := strings.Split(tPath, "/")
	uSegs := strings.Split(uPath, "/")
	for i := range tSegs {
		if name, ok := placeholderName(tSegs[i]); ok {
			result[name] = uSegs[i]
		}
	}

	if tHasQuery {
		tPairs := strings.Split(tQuery, "&")
		uPairs := strings.Split(uQuery, "&")
		for i := range tPairs {
			tk, tv := splitPair(tPairs[i])
			uk, uv := splitPair(uPairs[i])
			if name, ok := placeholderName(tk); ok {
				result[name] = uk // key itself was a placeholder (rare)
				_ = tv
			}
			if name, ok := placeholderName(tv); ok {
				result[name] = uv
			}
		}
	}

	return result, true
}

func splitPathQuery(s string) (path, query string, hasQuery bool) {
	if idx := strings.IndexByte(s, '?'); idx >= 0 {
		return s[:idx], s[idx+1:], true
	}
	return s, "", false
}

func segmentMatch(generic, specific string) bool {
	if generic == specific {
		return true
	}
	_, ok := placeholderName(generic)
	return ok
}

func placeholderName(segment string) (string, bool) {
	if len(segment) >= 2 && strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
		return segment[1 : len(segment)-1], true
	}
	return "", false
}

func splitPair(pair string) (key, value string) {
	if idx := strings.IndexByte(pair, '='); idx >= 0 {
		return pair[:idx], pair[idx+1:]
	}
	return pair, ""
}

func queryMatch(tQuery, uQuery string) bool {
	tPairs := strings.Split(tQuery, "&")
	uPairs := strings.Split(uQuery, "&")
	if len(tPairs) != len(uPairs) {
		return false
	}
	for i := range tPairs {
		tk, tv := splitPair(tPairs[i])
		uk, uv := splitPair(uPairs[i])
		if !segmentMatch(tk, uk) {
			return false
		}
		if !segmentMatch(tv, uv) {
			return false
		}
	}
	return true
}
