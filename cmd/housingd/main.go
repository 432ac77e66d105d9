package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"housingd/internal/config"
	"housingd/internal/httpapi"
	"housingd/internal/predictor"
)

func main() {
	cfg, logFormat, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := newLogger(cfg.Server.LogLevel, logFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv, pred := newServer(ctx, cfg, log)

	// Load the model in the background so /healthz answers immediately.
	loadErr := make(chan error, 1)
	go func() {
		err := pred.Load(ctx)
		if err == nil && cfg.Server.Watch {
			go func() {
				if err := pred.Watch(ctx); err != nil {
					log.Error().Err(err).Msg("model watcher stopped")
				}
			}()
		}
		loadErr <- err
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("model", cfg.Server.Model).Msg("housingd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	code := 0
	for done := false; !done; {
		select {
		case <-stop:
			done = true
		case err := <-serveErr:
			log.Error().Err(err).Msg("server error")
			code, done = 1, true
		case err := <-loadErr:
			if err != nil {
				// without a model there is nothing to serve
				log.Error().Err(err).Msg("initial model load failed")
				code, done = 1, true
			}
		}
	}
	sctx, scancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	scancel()
	// stops the watcher and any request still running past the drain timeout
	cancel()
	log.Info().Msg("housingd stopped")
	if code != 0 {
		os.Exit(code)
	}
}

// parseConfig merges, in increasing precedence: defaults, config file,
// environment and explicitly set flags.
func parseConfig(args []string) (config.Config, string, error) {
	fs := flag.NewFlagSet("housingd", flag.ContinueOnError)
	// Flags with environment variable defaults
	configPath := fs.String("config", os.Getenv("HOUSINGD_CONFIG"), "Config file (.yaml, .json, .toml)")
	addr := fs.String("addr", ":8080", "HTTP listen address, e.g. :8080 (env HOUSINGD_ADDR)")
	model := fs.String("model", "models", "Model artifact file, or a directory whose newest *.gob is served (env HOUSINGD_MODEL)")
	logLevel := fs.String("log-level", "info", "Log level: debug|info|warn|error (env HOUSINGD_LOG_LEVEL)")
	logFormat := fs.String("log-format", "json", "Log format: json|console")
	requestLog := fs.String("request-log", "error", "Per-request log level: off|error|info|debug (env HOUSINGD_REQUEST_LOG)")
	watch := fs.Bool("watch", false, "Reload the model when the artifact changes (env HOUSINGD_WATCH)")
	maxBatch := fs.Int("max-batch", 1000, "Maximum records per /predict/batch request")
	maxBody := fs.Int64("max-body-bytes", 1<<20, "Maximum request body size")
	timeout := fs.Int("predict-timeout", 0, "Per-request prediction timeout in seconds (0 = none)")
	rps := fs.Float64("rate-limit-rps", 0, "Prediction requests per second (0 = unlimited)")
	burst := fs.Int("rate-limit-burst", 0, "Rate limit burst (defaults to rps)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins; enables CORS")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, "", err
	}

	var cfg config.Config
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			return cfg, "", err
		}
		cfg = c
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, "", err
	}
	s := &cfg.Server
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			s.Addr = *addr
		case "model":
			s.Model = *model
		case "log-level":
			s.LogLevel = *logLevel
		case "request-log":
			s.RequestLog = *requestLog
		case "watch":
			s.Watch = *watch
		case "max-batch":
			s.MaxBatch = *maxBatch
		case "max-body-bytes":
			s.MaxBodyBytes = *maxBody
		case "predict-timeout":
			s.PredictTimeoutSeconds = *timeout
		case "rate-limit-rps":
			s.RateLimitRPS = *rps
		case "rate-limit-burst":
			s.RateLimitBurst = *burst
		case "cors-origins":
			s.CORS.Enabled = true
			s.CORS.Origins = splitCSV(*corsOrigins)
		}
	})
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, *logFormat, nil
}

// newServer wires the predictor and HTTP layer from cfg. ctx is the base
// context canceled on shutdown.
func newServer(ctx context.Context, cfg config.Config, log zerolog.Logger) (*http.Server, *predictor.Predictor) {
	s := cfg.Server
	httpapi.SetLogger(log)
	httpapi.SetRequestLogLevel(s.RequestLog)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(s.MaxBodyBytes)
	httpapi.SetPredictTimeout(time.Duration(s.PredictTimeoutSeconds) * time.Second)
	httpapi.SetRateLimit(s.RateLimitRPS, s.RateLimitBurst)
	httpapi.SetCORSOptions(s.CORS.Enabled, s.CORS.Origins, s.CORS.Methods, s.CORS.Headers)

	pred := predictor.New(predictor.Config{
		ModelPath: s.Model,
		MaxBatch:  s.MaxBatch,
		Logger:    log.With().Str("component", "predictor").Logger(),
		Publisher: predictor.MultiPublisher{httpapi.MetricsPublisher{}},
	})
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           httpapi.NewMux(pred),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, pred
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	var w io.Writer = os.Stderr
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "housingd").Logger()
}

// splitCSV splits a comma-separated flag value, dropping empty items.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
