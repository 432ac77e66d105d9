// Package cli implements housingctl, the offline companion of housingd:
// training, evaluating and inspecting model artifacts.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"housingd/internal/config"
)

// Options holds the global flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string

	cfg config.Config
	log zerolog.Logger
}

// Run executes housingctl with args and returns the command error.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := buildRootCmd(&Options{
		ConfigPath: os.Getenv("HOUSINGD_CONFIG"),
		LogLevel:   envStr("HOUSINGCTL_LOG_LEVEL", "info"),
		LogFormat:  "console",
	})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func buildRootCmd(o *Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "housingctl",
		Short:         "Train, evaluate and inspect housing price models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.ConfigPath, "config", o.ConfigPath, "Config file (.yaml, .json, .toml; defaults HOUSINGD_CONFIG)")
	root.PersistentFlags().StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level: debug|info|warn|error (defaults HOUSINGCTL_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&o.LogFormat, "log-format", o.LogFormat, "Log format: console|json")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		o.log = newLogger(cmd.ErrOrStderr(), o.LogLevel, o.LogFormat)
		if o.ConfigPath != "" {
			cfg, err := config.Load(o.ConfigPath)
			if err != nil {
				return err
			}
			o.cfg = cfg
		}
		if err := o.cfg.ApplyEnv(); err != nil {
			return err
		}
		o.cfg.Defaults()
		return nil
	}

	root.AddCommand(
		newTrainCmd(o),
		newEvaluateCmd(o),
		newPredictCmd(o),
		newInspectCmd(o),
	)
	return root
}

func newLogger(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
