// Package ui provides the web dashboard for leapcheck.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/internal/ui/notifier"
	"github.com/leapstack-labs/leapcheck/internal/ui/router"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

const debounceDelay = 100 * time.Millisecond

// Server is the main UI server.
type Server struct {
	source       display.Source
	store        core.Store
	port         int
	host         string
	watch        bool
	historyLimit int
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	ChecksPath   string
	ResultsPath  string
	Store        core.Store
	Host         string
	Port         int
	Watch        bool
	HistoryLimit int
	Logger       *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		source: display.Source{
			ChecksPath:  cfg.ChecksPath,
			ResultsPath: cfg.ResultsPath,
			Logger:      logger,
		},
		store:        cfg.Store,
		host:         cfg.Host,
		port:         cfg.Port,
		watch:        cfg.Watch,
		historyLimit: cfg.HistoryLimit,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	router.SetupRoutes(r, router.Deps{
		Source:       s.source,
		Store:        s.store,
		Notifier:     s.notifier,
		HistoryLimit: s.historyLimit,
		Logger:       s.logger,
	})
	return r
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port))
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	host := s.host
	if host == "" {
		host = "localhost"
	}
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://%s", net.JoinHostPort(host, fmt.Sprintf("%d", s.port))))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.Addr(),
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles broadcasts to SSE clients when the checks or results file changes.
// Parent directories are watched because the results file is replaced by rename.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	targets := watchTargets(s.source.ChecksPath, s.source.ResultsPath)
	for dir := range dirsOf(targets) {
		if err := watcher.Add(dir); err != nil {
			s.logger.Error("failed to watch directory", "dir", dir, "error", err)
		}
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, targets) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.logger.Debug("file changed, notifying clients", "file", event.Name)
				s.notifier.Broadcast()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func watchTargets(paths ...string) map[string]struct{} {
	targets := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		targets[filepath.Clean(p)] = struct{}{}
	}
	return targets
}

func dirsOf(targets map[string]struct{}) map[string]struct{} {
	dirs := make(map[string]struct{}, len(targets))
	for p := range targets {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	return dirs
}

func relevant(event fsnotify.Event, targets map[string]struct{}) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	name := event.Name
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	_, ok := targets[filepath.Clean(name)]
	return ok
}
