package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"onnxd/internal/httpapi"
)

// logger is configured once by the root command's PersistentPreRunE and
// shared by all subcommands. Until then it discards everything.
var logger = zerolog.Nop()

type rootOptions struct {
	logLevel      string
	logFile       string
	logMaxSizeMB  int
	logMaxBackups int
}

// newRootCmd constructs the Cobra command tree for the daemon.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "onnxd",
		Short:         "ONNX model repository daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr("ONNXD_LOG_LEVEL", "info"), "Log level: trace|debug|info|warn|error|disabled (defaults ONNXD_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr (rotated)")
	root.PersistentFlags().IntVar(&opts.logMaxSizeMB, "log-max-size-mb", 64, "Rotate the log file once it reaches this many megabytes")
	root.PersistentFlags().IntVar(&opts.logMaxBackups, "log-max-backups", 3, "Keep at most this many rotated log files")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, err := buildLogger(opts)
		if err != nil {
			return err
		}
		logger = l
		httpapi.SetLogger(logger)
		return nil
	}

	root.AddCommand(newServeCmd(), newCheckCmd())
	return root
}

// buildLogger wires zerolog to stderr, or to a rotated file when
// --log-file is set.
func buildLogger(opts *rootOptions) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(opts.logLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
	}
	var w io.Writer = os.Stderr
	if opts.logFile != "" {
		w = &lumberjack.Logger{
			Filename:   opts.logFile,
			MaxSize:    opts.logMaxSizeMB,
			MaxBackups: opts.logMaxBackups,
		}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// envOr returns the environment variable's value, or def when unset or empty.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
