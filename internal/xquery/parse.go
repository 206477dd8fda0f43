package xquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/clubadmin/clubadmin/internal/xstrconv"
)

func ParseBool(query url.Values, name string, defaultValue bool) bool {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := xstrconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func ParseInt(query url.Values, name string, defaultValue int) int {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

// ParsePage reads a zero-based page index. Negative or malformed values yield 0.
func ParsePage(query url.Values, name string) int {
	page := ParseInt(query, name, 0)
	if page < 0 {
		return 0
	}
	return page
}

// ParseString returns the trimmed value or defaultValue when it is blank.
func ParseString(query url.Values, name string, defaultValue string) string {
	value := strings.TrimSpace(query.Get(name))
	if value == "" {
		return defaultValue
	}
	return value
}

// ParseOneOf returns the value if it is one of allowed, defaultValue otherwise.
func ParseOneOf(query url.Values, name string, defaultValue string, allowed ...string) string {
	value := query.Get(name)
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return defaultValue
}
