package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/database"
	"github.com/clubadmin/clubadmin/server/form"
	"github.com/clubadmin/clubadmin/server/media"
)

var (
	//go:embed static
	static embed.FS

	//go:embed templates/*.gohtml
	templates embed.FS
)

// SessionStore persists admin sessions.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*database.Session, error)
	CreateSession(ctx context.Context, session database.Session) error
	UpdateSessionUser(ctx context.Context, sessionID string, user backend.User) error
	DeleteSession(ctx context.Context, sessionID string) error
}

func New(cfg Config, sessions SessionStore) (*Server, error) {
	var (
		staticFS     http.FileSystem
		t            func() *template.Template
		reloader     *reloadNotifier
		stopWatching context.CancelFunc
	)
	if cfg.Dev {
		root, err := os.OpenRoot("server/")
		if err != nil {
			return nil, fmt.Errorf("failed to open server directory: %w", err)
		}
		staticFS = http.FS(root.FS())
		t = func() *template.Template {
			return template.Must(template.New("templates").
				Funcs(templateFuncs).
				ParseFS(root.FS(), "templates/*.gohtml"))
		}

		reloader = newReloadNotifier()
		stopWatching = startDevWatcher(reloader, "server/templates", "server/static")
	} else {
		staticFS = http.FS(static)

		st, err := ParseTemplates()
		if err != nil {
			return nil, err
		}
		t = func() *template.Template {
			return st
		}
	}

	httpClient := &http.Client{
		Timeout: cfg.Backend.Timeout.Std(),
	}

	client, err := backend.New(cfg.Backend, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	notifier, err := newNotifier(cfg.Notifications)
	if err != nil {
		return nil, err
	}

	mediaBase := cfg.Backend.ImageURL
	if cfg.Backend.ProxyImages {
		mediaBase = "/media"
	}

	return &Server{
		Cfg:            cfg,
		HttpClient:     httpClient,
		Backend:        client,
		Auth:           auth.New(cfg.Auth),
		Sessions:       sessions,
		Media:          media.NewResolver(mediaBase, cfg.Backend.ImageStripPrefix),
		ImageOrigin:    media.NewResolver(cfg.Backend.ImageURL, cfg.Backend.ImageStripPrefix),
		Validator:      form.New(),
		Notifier:       notifier,
		ReloadNotifier: reloader,
		StaticFS:       staticFS,
		Templates:      t,
		stopWatching:   stopWatching,
	}, nil
}

// ParseTemplates parses the embedded page templates.
func ParseTemplates() (*template.Template, error) {
	t, err := template.New("templates").
		Funcs(templateFuncs).
		ParseFS(templates, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

type Server struct {
	Cfg        Config
	HttpClient *http.Client
	Backend    *backend.Client
	Auth       *auth.Auth
	Sessions   SessionStore
	// Media resolves image paths for the browser, ImageOrigin for the
	// media proxy.
	Media          media.Resolver
	ImageOrigin    media.Resolver
	Validator      *form.Validator
	Notifier       Notifier
	ReloadNotifier *reloadNotifier
	StaticFS       http.FileSystem
	Templates      func() *template.Template

	server       *http.Server
	stopWatching context.CancelFunc
	notifyWg     sync.WaitGroup
}

func (s *Server) Start(handler http.Handler) {
	s.server = &http.Server{
		Addr:              s.Cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", slog.Any("err", err))
		}
	}()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.stopWatching != nil {
		s.stopWatching()
	}
	if s.ReloadNotifier != nil {
		s.ReloadNotifier.Close()
	}

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown failed", slog.Any("err", err))
		}
	}

	s.notifyWg.Wait()
	s.Notifier.Close(ctx)
}
