package commands

import (
	"fmt"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcheck/internal/ui"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Host      string
	Port      int
	Watch     bool
	Open      bool
	NoHistory bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Serve the check dashboard",
		Long: `Start a web server showing every check with its latest result.

The dashboard re-reads the checks and results files on every request, so a
"leapcheck run" from cron is picked up without a restart. With --watch, open
pages refresh as soon as either file changes.

Routes:
  /            all checks ordered by severity, then name
  /<name>/     one check with its queries, example row and recent counts
  /api/checks  the same records as JSON
  /metrics     Prometheus metrics`,
		Example: `  # Serve on the default port
  leapcheck serve

  # Serve on all interfaces, port 9000
  leapcheck serve --host 0.0.0.0 --port 9000

  # Serve and open the browser
  leapcheck serve --open`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Interface to listen on (default: all)")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Refresh open pages when files change")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the dashboard in a browser")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Do not read run history")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger
	r := cmdCtx.Renderer

	uiCfg := cfg.GetUIConfig()

	// CLI flags override config file
	host := uiCfg.Host
	if opts.Host != "" {
		host = opts.Host
	}
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	if err := cfg.ValidateChecksFile(); err != nil {
		return err
	}

	var history core.Store
	if !opts.NoHistory {
		store, err := cmdCtx.OpenStore()
		if err != nil {
			return err
		}
		if store != nil {
			defer func() { _ = store.Close() }()
			history = store
		}
	}

	server := ui.NewServer(ui.Config{
		ChecksPath:   cfg.Checks,
		ResultsPath:  cfg.Results,
		Store:        history,
		Host:         host,
		Port:         port,
		Watch:        watch,
		HistoryLimit: uiCfg.HistoryLimit,
		Logger:       logger,
	})

	url := dashboardURL(host, port)
	if opts.Open {
		go openBrowser(url)
	}

	r.Printf("Serving %s on %s\n", cfg.Checks, url)
	r.Muted("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// dashboardURL returns the browsable address of the server.
func dashboardURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
