package web

import (
	"log/slog"
	"net/http"

	"github.com/clubadmin/clubadmin/internal/xerrors"
	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
)

type DashboardVars struct {
	Page
	Metrics []Metric
}

type Metric struct {
	Name  string
	Value int
	URL   string
	Error string
}

func newMetric(name string, url string, m backend.Metric) Metric {
	metric := Metric{
		Name:  name,
		Value: m.Value,
		URL:   url,
	}
	if m.Err != nil {
		metric.Error = backend.Message(m.Err, "Failed to load "+name)
	}
	return metric
}

func (h *handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.GetSession(r)

	stats, err := h.Backend.GetStats(ctx, session.Token)
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		slog.ErrorContext(ctx, "Failed to fetch some dashboard metrics", slog.Any("errs", xerrors.Messages(err)))
	}

	h.render(w, r, http.StatusOK, "dashboard.gohtml", DashboardVars{
		Page: h.page(r, "Dashboard", "dashboard"),
		Metrics: []Metric{
			newMetric("clubs", "/clubs", stats.Clubs),
			newMetric("users", "/users", stats.Users),
			newMetric("posts", "", stats.Posts),
		},
	})
}
