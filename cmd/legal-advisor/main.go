// Command legal-advisor serves legal/regulatory query tools over HTTP,
// backed by a persistent result cache.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Angioz/MCP-LEGAL-ADVISOR/admin"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/auth"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/cache"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/config"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/health"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/observe"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/sources/aade"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/sources/eurlex"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/sources/normattiva"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/sources/opendata"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/tools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "legal-advisor:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "legal-advisor.toml", "path to the TOML configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	obs, err := observe.New(ctx, cfg.ObserverConfig())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()
	log := obs.Logger()

	c, err := cache.New(cfg.CacheConfig(), cache.WithLogger(log))
	if err != nil {
		// A broken cache never blocks the service; run pass-through.
		log.Warn(ctx, "cache unavailable, running without it",
			observe.Field{Key: "error", Value: err.Error()})
		c, _ = cache.New(cache.Config{Enabled: false})
	}

	registry := tools.NewRegistry()
	agg := health.NewAggregator(10 * time.Second)
	if c.Enabled() {
		agg.Register("cache-dir", health.DirWritable(cfg.Cache.Directory))
	}
	if err := registerSources(cfg, registry, agg); err != nil {
		return err
	}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}
	dispatcher := tools.NewDispatcher(registry, c,
		tools.WithMiddleware(mw),
		tools.WithLogger(log),
	)

	authn, err := newAuthenticator(cfg.Server.Auth)
	if err != nil {
		return err
	}

	server := admin.NewServer(admin.Config{
		Cache:         c,
		Dispatcher:    dispatcher,
		Registry:      registry,
		Aggregator:    agg,
		Authenticator: authn,
		Logger:        log,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "listening",
		observe.Field{Key: "addr", Value: cfg.Server.Listen},
		observe.Field{Key: "tools", Value: len(registry.List())},
		observe.Field{Key: "cache_enabled", Value: c.Enabled()},
	)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// registerSources builds each configured source client and registers
// its tools and reachability check. EUR-Lex and Normattiva have public
// defaults; AADE and open-data are only registered when configured.
func registerSources(cfg *config.Config, registry *tools.Registry, agg *health.Aggregator) error {
	eu := eurlex.NewClient(cfg.Sources.EURLex.Endpoint, cfg.Sources.EURLex.Timeout.Std())
	if err := registry.RegisterAll(eurlex.Tools(eu, cfg.Sources.EURLex.TTL.Std())...); err != nil {
		return err
	}
	agg.Register("eurlex", health.Reachable(nil, eu.Endpoint()))

	it := normattiva.NewClient(cfg.Sources.Normattiva.Endpoint, cfg.Sources.Normattiva.Timeout.Std())
	if err := registry.RegisterAll(normattiva.Tools(it, cfg.Sources.Normattiva.TTL.Std())...); err != nil {
		return err
	}

	if cfg.Sources.AADE.Endpoint != "" {
		gr, err := aade.NewClient(cfg.Sources.AADE.Endpoint, cfg.Sources.AADE.APIKey, cfg.Sources.AADE.Timeout.Std())
		if err != nil {
			return err
		}
		if err := registry.RegisterAll(aade.Tools(gr, cfg.Sources.AADE.TTL.Std())...); err != nil {
			return err
		}
		agg.Register("aade", health.Reachable(nil, gr.BaseURL()))
	}

	if cfg.Sources.OpenData.Endpoint != "" {
		od, err := opendata.NewClient(cfg.Sources.OpenData.Endpoint, cfg.Sources.OpenData.APIKey, cfg.Sources.OpenData.Timeout.Std())
		if err != nil {
			return err
		}
		if err := registry.RegisterAll(opendata.Tools(od, cfg.Sources.OpenData.TTL.Std())...); err != nil {
			return err
		}
		agg.Register("opendata", health.Reachable(nil, od.BaseURL()))
	}
	return nil
}

func newAuthenticator(cfg config.AuthConfig) (auth.Authenticator, error) {
	switch cfg.Mode {
	case "jwt":
		return auth.NewJWTAuthenticator([]byte(cfg.JWTSecret), cfg.JWTIssuer), nil
	case "apikey":
		return auth.NewAPIKeyAuthenticator(cfg.APIKey), nil
	case "none", "":
		return auth.AllowAll{}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
