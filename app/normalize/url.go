package normalize

import (
	"net/url"
	"strings"
)

var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
}

// URL removes the utm_* tracking parameters from raw. Keys match exactly,
// so UTM_Source and similar are kept. Every other part of
// the URL is kept byte for byte, so the result is stable under repeated
// application. Input that is not an absolute URL is returned unchanged.
func URL(raw string) string {
	s := strings.TrimSpace(raw)

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	base, fragment, hasFragment := strings.Cut(s, "#")
	base, query, hasQuery := strings.Cut(base, "?")
	if !hasQuery {
		return s
	}

	kept := make([]string, 0, strings.Count(query, "&")+1)
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		key, _, _ := strings.Cut(part, "=")
		if unescaped, err := url.QueryUnescape(key); err == nil {
			key = unescaped
		}
		if trackingParams[key] {
			continue
		}
		kept = append(kept, part)
	}

	out := base
	if len(kept) > 0 {
		out += "?" + strings.Join(kept, "&")
	}
	if hasFragment {
		out += "#" + fragment
	}
	return out
}

// LinkKey is the case-folded canonical link, the primary dedup identity.
func LinkKey(raw string) string {
	return Fold(URL(raw))
}
