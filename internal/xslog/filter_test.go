package xslog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDropPathPrefixes(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewFilterHandler(
		slog.NewTextHandler(buf, nil),
		DropPathPrefixes("path", "/static/"),
	))

	logger.Info("request", slog.String("path", "/static/style.css"))
	assert.Empty(t, buf.String())

	logger.Info("request", slog.String("path", "/clubs"))
	assert.Contains(t, buf.String(), "path=/clubs")

	buf.Reset()
	logger.Error("request", slog.String("path", "/static/missing.css"))
	assert.Contains(t, buf.String(), "path=/static/missing.css")
}
