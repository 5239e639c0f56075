package web

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/JonMunkholm/nacebel/internal/nace"
	"github.com/JonMunkholm/nacebel/internal/query"
)

// parseLeadingInt reads the integer at the start of s: leading whitespace and
// one sign are skipped, then digits are read until the first non-digit, so
// "12abc" is 12 and "2.9" is 2. It reports false when no digit follows.
// Values that overflow saturate.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		n = math.MaxInt
	}
	if neg {
		n = -n
	}
	return n, true
}

// parseListParams validates page, limit and level. Absent or empty values
// take their defaults: page 1, limit query.DefaultLimit, no level filter.
func parseListParams(v url.Values) (query.Params, error) {
	p := query.Params{Page: 1, Limit: query.DefaultLimit}

	if raw := v.Get("page"); raw != "" {
		n, ok := parseLeadingInt(raw)
		if !ok || n < 1 {
			return p, &nace.ValidationError{Param: "page", Message: nace.MsgInvalidPage}
		}
		p.Page = n
	}

	if raw := v.Get("limit"); raw != "" {
		n, ok := parseLeadingInt(raw)
		if !ok || n < 1 || n > query.MaxLimit {
			return p, &nace.ValidationError{Param: "limit", Message: nace.MsgInvalidLimit}
		}
		p.Limit = n
	}

	level, err := parseLevel(v.Get("level"))
	if err != nil {
		return p, err
	}
	p.MinLevel = level
	return p, nil
}

// parseLevel returns 0 for an empty value.
func parseLevel(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, ok := parseLeadingInt(raw)
	if !ok || !nace.ValidLevel(n) {
		return 0, &nace.ValidationError{Param: "level", Message: nace.MsgInvalidLevel}
	}
	return n, nil
}
