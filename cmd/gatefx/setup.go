package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/gatefx/internal/config"
	"github.com/vango-dev/gatefx/internal/errors"
	"github.com/vango-dev/gatefx/pkg/reactive"
	"github.com/vango-dev/gatefx/pkg/scenario"
	"github.com/vango-dev/gatefx/pkg/telemetry"
)

// globalFlags are the persistent flags shared by all commands.
type globalFlags struct {
	configDir string
	debug     bool
	logLevel  string
	noColor   bool
}

// runtimeEnv is what a command needs after flags and gatefx.json are merged.
type runtimeEnv struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	observer reactive.Observer
}

func setup(flags *globalFlags) (*runtimeEnv, error) {
	cfg, err := config.LoadOrDefault(flags.configDir)
	if err != nil {
		return nil, err
	}

	if flags.debug {
		cfg.Debug = true
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if flags.noColor {
		errors.DisableColors()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	reactive.SetLogger(logger)
	reactive.DebugMode = cfg.Debug

	if path := cfg.Path(); path != "" {
		logger.Debug("loaded configuration", "path", path)
	}

	registry := prometheus.NewRegistry()
	observers := []reactive.Observer{
		telemetry.Prometheus(
			telemetry.WithRegistry(registry),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithSubsystem(cfg.Metrics.Subsystem),
		),
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, telemetry.OpenTelemetry(
			telemetry.WithTracerName(cfg.Tracing.TracerName),
			telemetry.WithSkipSpans(cfg.Tracing.SkipSpans),
		))
	}

	return &runtimeEnv{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		observer: telemetry.Multi(observers...),
	}, nil
}

// objectGetter returns an S3 client for s3:// refs and nil otherwise, so
// local replays never touch the AWS credential chain.
func (e *runtimeEnv) objectGetter(ctx context.Context, ref string) (scenario.ObjectGetter, error) {
	if _, _, ok := scenario.ParseS3URI(ref); !ok {
		return nil, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if e.cfg.S3.Region != "" {
		opts = append(opts, awsconfig.WithRegion(e.cfg.S3.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("G203").
			WithSuggestion("check AWS credentials and region").
			Wrap(err)
	}

	s3cfg := e.cfg.S3
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
		}
		o.UsePathStyle = s3cfg.UsePathStyle
	}), nil
}
