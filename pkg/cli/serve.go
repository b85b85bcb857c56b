package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockd/internal/cliconfig"
	"github.com/getmockd/mockd/pkg/admin"
	"github.com/getmockd/mockd/pkg/config"
	"github.com/getmockd/mockd/pkg/engine"
	"github.com/getmockd/mockd/pkg/logging"
)

// drainDeadline bounds how long Shutdown waits for in-flight requests
// before releasing a listener (spec.md 5, "drain up to a deadline").
const drainDeadline = 10 * time.Second

// serveFlags mirrors spec.md 6's CLI surface, one field per flag, bound
// directly on rootCmd since mockd has no subcommands.
type serveFlags struct {
	port                  int
	urls                  []string
	admin                 bool
	readStaticMappings    string
	watchStaticMappings   bool
	proxyAll              string
	saveMapping           bool
	allowPartialMapping   bool
	requestLoggingDelayMs int
}

// applyFlags overrides cfg with every flag the user actually set,
// recording SourceFlag. A flag left at its zero value must never clobber
// a config-file or env value (spec.md 6's precedence: flags > env > local
// file > global file > defaults), so each field only moves when cobra
// reports it Changed.
func applyFlags(cfg *cliconfig.CLIConfig, cmd *cobra.Command, f serveFlags) {
	changed := cmd.Flags().Changed
	mark := func(field string) { cfg.Sources[field] = cliconfig.SourceFlag }

	if changed("port") {
		cfg.Port = f.port
		mark("port")
	}
	if changed("urls") {
		cfg.URLs = f.urls
		mark("urls")
	}
	if changed("admin") {
		cfg.AdminEnabled = f.admin
		mark("admin")
	}
	if changed("read-static-mappings") {
		cfg.ReadStaticMappings = f.readStaticMappings
		mark("readStaticMappings")
	}
	if changed("watch-static-mappings") {
		cfg.WatchStaticMappings = f.watchStaticMappings
		mark("watchStaticMappings")
	}
	if changed("proxy-all") {
		cfg.ProxyAll = f.proxyAll
		mark("proxyAll")
	}
	if changed("save-mapping") {
		cfg.SaveMapping = f.saveMapping
		mark("saveMapping")
	}
	if changed("allow-partial-mapping") {
		cfg.AllowPartialMapping = f.allowPartialMapping
		mark("allowPartialMapping")
	}
	if changed("request-logging-delay") {
		cfg.RequestLoggingDelayMs = f.requestLoggingDelayMs
		mark("requestLoggingDelayMs")
	}
}

// addresses returns every address mockd listens on: :port plus cfg.URLs,
// deduplicated against the primary address.
func addresses(cfg *cliconfig.CLIConfig) []string {
	primary := fmt.Sprintf(":%d", cfg.Port)
	out := []string{primary}
	for _, u := range cfg.URLs {
		u = strings.TrimSpace(u)
		if u == "" || u == primary {
			continue
		}
		out = append(out, u)
	}
	return out
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := cliconfig.LoadAll()
	if err != nil {
		return &exitCodeError{code: 3, err: fmt.Errorf("loading configuration: %w", err)}
	}
	applyFlags(cfg, cmd, flags)

	if err := cfg.Validate(); err != nil {
		return &exitCodeError{code: 3, err: fmt.Errorf("invalid configuration: %w", err)}
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.Verbose {
		level = logging.LevelDebug
	}
	handler := logging.New(logging.Config{
		Level:     level,
		Format:    logging.ParseFormat(cfg.LogFormat),
		AddSource: cfg.Verbose,
	}).Handler()
	if cfg.LokiURL != "" {
		handler = logging.NewMultiHandler(handler, logging.NewLokiHandler(cfg.LokiURL, logging.WithLokiLevel(level)))
	}
	log := slog.New(handler)

	ctx := engine.NewServerContext()
	ctx.Log = log

	settings := ctx.Settings()
	settings.AllowPartialMatches = cfg.AllowPartialMapping
	settings.RequestLogDelay = time.Duration(cfg.RequestLoggingDelayMs) * time.Millisecond
	settings.ProxyAllUpstream = cfg.ProxyAll
	settings.SaveProxyAllHits = cfg.SaveMapping
	ctx.SetSettings(settings)

	if cfg.MaxLogEntries > 0 && cfg.MaxLogEntries != ctx.Requests.Capacity() {
		ctx.Requests.Resize(cfg.MaxLogEntries)
	}

	var watcher *config.Watcher
	if cfg.ReadStaticMappings != "" {
		loader := config.NewDirectoryLoader(cfg.ReadStaticMappings)
		ctx.Generator.FilesRoot = loader.FilesRoot()

		result, err := loader.Load()
		if err != nil {
			return &exitCodeError{code: 3, err: fmt.Errorf("loading static mappings: %w", err)}
		}
		for _, loadErr := range result.Errors {
			log.Warn("failed to load static mapping file", "path", loadErr.Path, "error", loadErr.Err)
		}
		for _, m := range result.Mappings {
			ctx.Store.Add(m)
		}
		log.Info("loaded static mappings", "count", len(result.Mappings), "files", result.FileCount, "dir", cfg.ReadStaticMappings)

		if cfg.WatchStaticMappings {
			watcher = config.NewWatcher(loader)
			watcher.Start()
			go watchStaticMappings(ctx, watcher, log)
		}
	}

	var adminHandler *admin.Handler
	if cfg.AdminEnabled {
		adminHandler = admin.NewHandler(ctx)
	}

	addrs := addresses(cfg)
	servers := make([]*engine.Server, len(addrs))
	for i, addr := range addrs {
		// Only the primary address also serves /__admin, so two listeners
		// never disagree about which one owns the admin surface.
		if i == 0 && adminHandler != nil {
			servers[i] = engine.NewServer(addr, ctx, adminHandler.Mux())
		} else {
			servers[i] = engine.NewServer(addr, ctx, nil)
		}
	}

	errCh := make(chan error, len(servers))
	for i, srv := range servers {
		go func(addr string, srv *engine.Server) {
			if err := srv.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("listener %s: %w", addr, err)
			}
		}(addrs[i], srv)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if watcher != nil {
			watcher.Stop()
		}
		shutdownAll(servers)
		return &exitCodeError{code: 2, err: err}
	}

	if watcher != nil {
		watcher.Stop()
	}
	shutdownAll(servers)
	return nil
}

func shutdownAll(servers []*engine.Server) {
	var wg sync.WaitGroup
	for _, srv := range servers {
		wg.Add(1)
		go func(s *engine.Server) {
			defer wg.Done()
			_ = s.Shutdown(drainDeadline)
		}(srv)
	}
	wg.Wait()
}

func watchStaticMappings(ctx *engine.ServerContext, w *config.Watcher, log *slog.Logger) {
	for result := range w.Changes {
		ctx.Store.Reset()
		for _, m := range result.Mappings {
			ctx.Store.Add(m)
		}
		log.Info("reloaded static mappings", "count", len(result.Mappings), "files", result.FileCount)
	}
}
