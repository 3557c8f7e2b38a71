// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/mathly-tui/internal/backend"
	"github.com/jeranaias/mathly-tui/internal/capture"
	"github.com/jeranaias/mathly-tui/internal/config"
	"github.com/jeranaias/mathly-tui/internal/logging"
)

// Version information (set from main at build time).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	backendURL string
	imagePath  string
	logLevel   string
}

// app is what every command runs against once the persistent flags and the
// config file have been resolved.
type app struct {
	opts   globalOptions
	cfg    *config.Config
	logger *zap.Logger
	client *backend.Client
}

// NewRootCommand builds the mathly command tree.
func NewRootCommand() *cobra.Command {
	a := &app{logger: logging.Nop()}

	root := &cobra.Command{
		Use:   "mathly",
		Short: "Mathly - a math tutor in your terminal",
		Long: `Mathly answers math questions step by step.

Type a problem, or press ctrl+p to photograph one. Answers are
rendered with math notation in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "config file (default ~/.mathly/config.toml)")
	flags.StringVar(&a.opts.backendURL, "backend", "", "backend base URL (overrides config)")
	flags.StringVar(&a.opts.imagePath, "image", "", "use an image file instead of the camera")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newAskCommand(a),
		newChatCommand(a),
		newSnapCommand(a),
		newCalcCommand(a),
		newFormulaCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// setup loads the config, applies flag overrides and builds the logger
// and backend client.
func (a *app) setup(cmd *cobra.Command) error {
	config.SetPath(a.opts.configPath)

	cfg, err := config.Read()
	if err != nil {
		return err
	}
	if a.opts.backendURL != "" {
		cfg.Backend.URL = a.opts.backendURL
	}
	if a.opts.logLevel != "" {
		cfg.Log.Level = a.opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
	}
	a.logger = logger.With(zap.String("command", cmd.Name()))

	a.client = backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.RequestTimeout.Duration,
	})
	a.logger.Debug("starting",
		zap.String("version", Version),
		zap.String("backend", a.client.BaseURL()))
	return nil
}

// camera returns the frame source: the --image file when given, the
// ffmpeg device otherwise.
func (a *app) camera() capture.Camera {
	if a.opts.imagePath != "" {
		return capture.FileCamera{Path: a.opts.imagePath}
	}
	c := a.cfg.Camera
	return &capture.FFmpegCamera{
		FFmpegPath:   c.FFmpegPath,
		Device:       c.Device,
		InputFormat:  c.InputFormat,
		PreviewFPS:   c.PreviewFPS,
		StartTimeout: c.StartTimeout.Duration,
		Logger:       a.logger,
	}
}

// constraints takes the configured camera preferences. Unset fields keep
// the capture defaults.
func (a *app) constraints() capture.Constraints {
	cons := capture.DefaultConstraints()
	c := a.cfg.Camera
	if c.Width > 0 && c.Height > 0 {
		cons.Width, cons.Height = c.Width, c.Height
	}
	if c.Facing != "" {
		cons.Facing = c.Facing
	}
	return cons
}
