package server

import (
	"bytes"
	"html/template"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// raw HTML in post content is escaped since goldmark runs without WithUnsafe
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var templateFuncs = template.FuncMap{
	"markdown": renderMarkdown,
	"relTime":  relTime,
	"date":     formatDate,
	"dateTime": formatDateTime,
	"plural":   english.Plural,
	"comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"bytes": func(n int64) string {
		return humanize.IBytes(uint64(n))
	},
	"add": func(a int, b int) int {
		return a + b
	},
	"dict": func(pairs ...any) map[string]any {
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			key, _ := pairs[i].(string)
			m[key] = pairs[i+1]
		}
		return m
	},
}

func renderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		slog.Error("Failed to render markdown", slog.Any("err", err))
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(buf.String())
}

func relTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.Time(t)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Format("Jan 2, 2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Format("Jan 2, 2006 15:04")
}
