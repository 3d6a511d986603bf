package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/halhen/jsonlite/pkg/config"
	"github.com/halhen/jsonlite/pkg/errors"
	"github.com/halhen/jsonlite/pkg/logger"
	"github.com/halhen/jsonlite/pkg/metrics"
	"github.com/halhen/jsonlite/pkg/observability"
	"github.com/halhen/jsonlite/pkg/simplify"
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"max-depth": "simplify.max_depth",
	"format":    "output.format",
	"compress":  "output.compression",
	"orient":    "output.orientation",
	"pretty":    "output.pretty",
	"metrics":   "observability.metrics",
	"trace":     "observability.tracing",
}

// app carries the state shared by all subcommands during one invocation.
type app struct {
	configFile string
	cfg        *config.Config
	log        *zap.Logger
	collector  *metrics.Collector
	shutdown   observability.ShutdownFunc
	ctx        context.Context
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "jsonlite",
		Short: "jsonlite - turn lists of JSON records into typed columns",
		Long: `jsonlite reads a JSON array of objects, infers one typed column per field
and writes the resulting table as JSON, Arrow, Parquet or Avro.

Input that is not a list of records is passed through unchanged.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to a YAML configuration file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Int("max-depth", simplify.DefaultMaxDepth, "Maximum nesting depth simplified inside complex cells")
	flags.Bool("metrics", false, "Write Prometheus metrics to stderr on exit")
	flags.Bool("trace", false, "Export OpenTelemetry spans to stderr")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "jsonlite v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(newSimplifyCmd(a))
	root.AddCommand(newSchemaCmd(a))

	return root
}

// loadConfig layers defaults, the config file, JSONLITE_* environment
// variables and explicitly set flags, in increasing precedence.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	base := config.Default()
	if a.configFile != "" {
		if err := config.LoadInto(a.configFile, base); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetEnvPrefix("JSONLITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", base.Log.Level)
	v.SetDefault("log.encoding", base.Log.Encoding)
	v.SetDefault("log.development", base.Log.Development)
	v.SetDefault("simplify.max_depth", base.Simplify.MaxDepth)
	v.SetDefault("output.format", base.Output.Format)
	v.SetDefault("output.compression", base.Output.Compression)
	v.SetDefault("output.orientation", base.Output.Orientation)
	v.SetDefault("output.pretty", base.Output.Pretty)
	v.SetDefault("observability.metrics", base.Observability.Metrics)
	v.SetDefault("observability.tracing", base.Observability.Tracing)

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to bind flag").
					WithDetail("flag", name)
			}
		}
	}

	cfg := &config.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = logger.New(cfg.Log.Logger())
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to create logger")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a.ctx = context.WithValue(ctx, logger.RunIDKey, uuid.NewString())

	if cfg.Observability.Metrics {
		a.collector = metrics.NewCollector("jsonlite", prometheus.NewRegistry())
	}
	if cfg.Observability.Tracing {
		tc := observability.DefaultTracingConfig()
		tc.ServiceVersion = version
		tc.Writer = cmd.ErrOrStderr()
		a.shutdown, err = observability.InitTracing(tc)
		if err != nil {
			return err
		}
	}

	a.log.Debug("configuration loaded",
		zap.String("format", cfg.Output.Format),
		zap.String("compression", cfg.Output.Compression),
		zap.Int("max_depth", cfg.Simplify.MaxDepth))
	return nil
}

func (a *app) teardown(cmd *cobra.Command) error {
	if a.cfg == nil {
		return nil
	}
	var firstErr error
	if a.collector != nil {
		firstErr = a.collector.WriteText(cmd.ErrOrStderr())
	}
	if a.shutdown != nil {
		if err := a.shutdown(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = a.log.Sync()
	return firstErr
}

// simplifier builds an engine from the loaded configuration.
func (a *app) simplifier(log *zap.Logger) *simplify.Simplifier {
	opts := []simplify.Option{
		simplify.WithLogger(log),
		simplify.WithMaxDepth(a.cfg.Simplify.MaxDepth),
	}
	if a.collector != nil {
		opts = append(opts, simplify.WithObserver(a.collector))
	}
	return simplify.New(opts...)
}
