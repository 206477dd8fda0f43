package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"github.com/clubadmin/clubadmin/internal/xio"
	"github.com/clubadmin/clubadmin/server/auth"
)

// shareURL is the link encoded into the QR code of a club.
func (h *handler) shareURL(clubID string) string {
	if h.Cfg.Server.ShareURL != "" {
		if strings.Contains(h.Cfg.Server.ShareURL, "%s") {
			return fmt.Sprintf(h.Cfg.Server.ShareURL, url.PathEscape(clubID))
		}
		return strings.TrimRight(h.Cfg.Server.ShareURL, "/") + "/" + url.PathEscape(clubID)
	}
	return strings.TrimRight(h.Cfg.Server.PublicURL, "/") + clubURL(clubID)
}

func (h *handler) ClubQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)
	clubID := r.PathValue("club_id")

	if _, err := h.Backend.GetClub(ctx, session.Token, clubID); err != nil {
		h.backendFailure(w, r, err, "Failed to fetch club")
		return
	}

	qr, err := qrcode.New(h.shareURL(clubID))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create qrcode", slog.String("club_id", clubID), slog.Any("err", err))
		http.Error(w, "Failed to create qrcode", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	qrW := standard.NewWithWriter(xio.NewResponseWriteCloser(w),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
		standard.WithBorderWidth(16),
	)
	defer func() {
		_ = qrW.Close()
	}()

	if err = qr.Save(qrW); err != nil {
		slog.ErrorContext(ctx, "Failed to save qrcode", slog.String("club_id", clubID), slog.Any("err", err))
	}
}
