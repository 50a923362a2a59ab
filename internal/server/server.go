package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"news_portal/internal/auth"
	"news_portal/internal/censor"
	"news_portal/internal/config"
	"news_portal/internal/logger"
	"news_portal/internal/middleware"
	"news_portal/internal/news"
	"news_portal/internal/notes"
	"news_portal/internal/render"
	"news_portal/internal/store"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App выбирает приложение, которое обслуживает сервер.
type App string

const (
	AppNews  App = "news"
	AppNotes App = "notes"
)

const shutdownTimeout = 5 * time.Second

// Server хранит зависимости HTTP-обработчиков: хранилище, сессии и роутер.
type Server struct {
	cfg    *config.Config
	store  store.Store
	auth   *auth.Service
	router *mux.Router
}

// New собирает роутер: страницы входа, выбранное приложение, /health и /metrics.
func New(cfg *config.Config, st store.Store, app App, renderer render.Renderer) (*Server, error) {
	sessions := auth.NewSessions(cfg.Auth.SessionCookie, cfg.SessionTTL())
	svc := auth.NewService(st, sessions, cfg.Auth.LoginURL)
	pages := auth.WithUser(renderer)

	s := &Server{cfg: cfg, store: st, auth: svc, router: mux.NewRouter()}
	s.router.Use(middleware.Metrics, svc.Middleware)

	s.router.HandleFunc("/health", s.HealthCheck).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	auth.NewHandlers(svc, pages).Register(s.router)

	switch app {
	case AppNews:
		filter := censor.New(cfg.News.BadWords, cfg.News.Warning, cfg.News.FoldCase)
		s.router.HandleFunc("/api/news/{limit:[0-9]+}", s.GetNews).Methods(http.MethodGet)
		news.NewHandlers(st, svc, filter, pages, cfg.News.PageSize).Register(s.router)
	case AppNotes:
		notes.NewHandlers(st, svc, pages, cfg.Notes.SlugWarning).Register(s.router)
	default:
		return nil, fmt.Errorf("unknown app: %q", app)
	}
	return s, nil
}

// Router возвращает роутер, например для построения URL по имени маршрута.
func (s *Server) Router() *mux.Router { return s.router }

func (s *Server) Auth() *auth.Service { return s.auth }

// Handler оборачивает роутер в общие middleware.
func (s *Server) Handler() http.Handler {
	return middleware.RequestID(middleware.Logging(middleware.Recoverer(s.router)))
}

// HealthCheck отвечает 200 OK, если хранилище доступно, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		logger.FromContext(r.Context()).WithError(err).Warn("Storage ping failed")
		http.Error(w, "Storage unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

// GetNews возвращает JSON-массив последних limit новостей, сортированных по дате.
func (s *Server) GetNews(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(mux.Vars(r)["limit"])
	if err != nil || limit < 1 {
		limit = s.cfg.News.PageSize
	}
	if limit > 100 {
		limit = 100
	}

	items, err := s.store.ListNews(r.Context(), limit, 0)
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("Failed to list news")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(items); err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("Failed to encode response")
	}
}

// Run слушает cfg.Addr до отмены ctx, затем корректно останавливает сервер.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Starting HTTP server on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down...")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}
