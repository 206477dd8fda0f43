package web

import (
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

// MediaProxy streams an uploaded image from the backend image server.
func (h *handler) MediaProxy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	imagePath := r.PathValue("path")
	cleaned := path.Clean("/" + imagePath)
	if imagePath == "" || cleaned == "/" || strings.Contains(imagePath, "..") {
		h.NotFound(w, r)
		return
	}

	remoteImageURL := h.ImageOrigin.URL(strings.TrimPrefix(cleaned, "/"))
	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteImageURL, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create image request", slog.String("path", imagePath), slog.Any("err", err))
		http.Error(w, "Failed to create request", http.StatusInternalServerError)
		return
	}

	rs, err := h.HttpClient.Do(rq)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch image", slog.String("path", imagePath), slog.Any("err", err))
		http.Error(w, "Failed to fetch image", http.StatusBadGateway)
		return
	}
	defer rs.Body.Close()

	if rs.StatusCode != http.StatusOK {
		if rs.StatusCode == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to fetch image: "+rs.Status, http.StatusBadGateway)
		return
	}

	header := w.Header()
	header.Set("Content-Type", rs.Header.Get("Content-Type"))
	if length := rs.Header.Get("Content-Length"); length != "" {
		header.Set("Content-Length", length)
	}
	header.Set("Cache-Control", "private, max-age=86400")

	if _, err = io.Copy(w, rs.Body); err != nil {
		slog.ErrorContext(ctx, "Failed to write image to response", slog.Any("err", err))
		return
	}
}
