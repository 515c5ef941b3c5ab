package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"har-capture/internal/adapters/storage/memory"
	"har-capture/internal/capture"
	cfgpkg "har-capture/internal/infrastructure/config"
	httpapi "har-capture/internal/infrastructure/httpapi"
	obs "har-capture/internal/infrastructure/observability"
	"har-capture/internal/usecase"
)

// headerFlags collects repeated -H "Name: value" flags.
type headerFlags map[string]string

func (h headerFlags) String() string { return fmt.Sprintf("%v", map[string]string(h)) }

func (h headerFlags) Set(v string) error {
	name, value, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("header %q is not in Name: value form", v)
	}
	h[strings.TrimSpace(name)] = strings.TrimSpace(value)
	return nil
}

func main() {
	cfg := cfgpkg.FromEnv()

	var (
		serve      = flag.Bool("serve", false, "run the capture service instead of a one-shot capture")
		addr       = flag.String("addr", cfg.Addr, "service listen address (with -serve)")
		logLevel   = flag.String("log-level", cfg.LogLevel, "log level: trace, debug, info, warn, error")
		method     = flag.String("method", "", "HTTP method (default GET)")
		body       = flag.String("d", "", "request body")
		timeout    = flag.Duration("timeout", cfg.DefaultTimeout, "per-hop timeout (0 disables)")
		maxRedir   = flag.Int("max-redirects", cfg.DefaultMaxRedirects, "redirect chain depth bound")
		noFollow   = flag.Bool("no-follow", false, "do not follow redirects")
		noContent  = flag.Bool("no-content", false, "skip response body capture entirely")
		maxBody    = flag.Int64("max-body", cfg.MaxContentLength, "response body byte budget (0 = unbounded)")
		insecure   = flag.Bool("insecure", cfg.InsecureTLS, "skip TLS certificate verification")
		outPath    = flag.String("o", "", "write the HAR document to this file instead of stdout")
		headerVals = headerFlags{}
	)
	flag.Var(headerVals, "H", "request header as \"Name: value\" (repeatable)")
	flag.Parse()

	logger := obs.NewLogger(*logLevel)
	metrics := obs.NewMetrics()
	engine := capture.NewEngine(logger, metrics)
	engine.InsecureTLS = *insecure

	if *serve {
		cfg.Addr = *addr
		cfg.InsecureTLS = *insecure
		runServer(cfg, logger, metrics, engine)
		return
	}

	rawURL := flag.Arg(0)
	if rawURL == "" {
		fmt.Fprintln(os.Stderr, "usage: har-capture [flags] <url>  |  har-capture -serve")
		flag.PrintDefaults()
		os.Exit(2)
	}

	reqCfg := capture.RequestConfig{
		URL:     rawURL,
		Method:  *method,
		Headers: headerVals,
		Timeout: *timeout,
	}
	if *body != "" {
		reqCfg.Body = []byte(*body)
	}
	if *noFollow {
		reqCfg.FollowRedirect = capture.Bool(false)
	}
	if *maxRedir != capture.DefaultMaxRedirects {
		reqCfg.MaxRedirects = capture.Int(*maxRedir)
	}
	harCfg := &capture.HarConfig{MaxContentLength: *maxBody}
	if *noContent {
		harCfg.WithContent = capture.Bool(false)
	}

	// Runtime failures are part of the HAR document, not process errors: the
	// exit code stays 0 whenever a log was produced.
	har, err := engine.CaptureHAR(context.Background(), reqCfg, harCfg)
	if err != nil {
		logger.Error().Err(err).Msg("invalid capture configuration")
		os.Exit(2)
	}
	out, err := json.MarshalIndent(har, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("serializing HAR")
		os.Exit(1)
	}
	out = append(out, '\n')
	if *outPath != "" {
		if err := os.WriteFile(*outPath, out, 0o644); err != nil {
			logger.Error().Err(err).Msg("writing HAR file")
			os.Exit(1)
		}
		return
	}
	_, _ = os.Stdout.Write(out)
}

func runServer(cfg cfgpkg.Config, logger *zerolog.Logger, metrics *obs.Metrics, engine *capture.Engine) {
	logger.Info().Str("addr", cfg.Addr).Msg("starting har-capture service")

	store := memory.NewStore(cfg.MaxCaptures, cfg.CaptureTTL)
	store.SetEvictHook(func(n int) { metrics.StoreEvictionsTotal.Add(float64(n)) })
	svc := usecase.NewCaptureService(engine, store)
	deps := &httpapi.Deps{Cfg: cfg, Logger: logger, Metrics: metrics, Svc: svc, Monitor: httpapi.NewMonitorHub()}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute, // capture chains can be slow end to end
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("har-capture stopped")
}
