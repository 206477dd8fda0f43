// Package media turns the storage paths the backend returns for uploaded
// images into URLs a browser can load.
package media

import (
	"strings"
)

// NewResolver returns a Resolver serving images below baseURL. stripPrefix is
// the storage directory prefix the backend leaks into its paths, e.g. "src/".
func NewResolver(baseURL string, stripPrefix string) Resolver {
	return Resolver{
		baseURL:     strings.TrimRight(baseURL, "/"),
		stripPrefix: strings.Trim(normalize(stripPrefix), "/"),
	}
}

type Resolver struct {
	baseURL     string
	stripPrefix string
}

// URL resolves a backend image path. Empty paths resolve to "" so templates
// can fall back to placeholders; absolute URLs are returned unchanged.
func (r Resolver) URL(path string) string {
	rel := r.Path(path)
	if rel == "" {
		return ""
	}
	if isAbsoluteURL(rel) {
		return rel
	}
	return r.baseURL + "/" + rel
}

// URLs resolves every path, dropping the ones that resolve to nothing.
func (r Resolver) URLs(paths []string) []string {
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		if u := r.URL(p); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Path normalizes a backend image path to a slash separated path relative to
// the image server root.
func (r Resolver) Path(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if isAbsoluteURL(path) {
		return path
	}

	path = strings.TrimLeft(normalize(path), "/")
	if r.stripPrefix != "" {
		path = strings.TrimPrefix(path, r.stripPrefix+"/")
	}
	return path
}

func normalize(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

func isAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
