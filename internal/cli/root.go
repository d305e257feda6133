package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/ctgraph/internal/config"
	"github.com/roach88/ctgraph/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Set by the root command before a subcommand runs.
	Config config.Config
	Logger *zap.Logger
	RunID  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ctgraph CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ctgraph",
		Short: "ctgraph - coordinate transform graph",
		Long:  "Resolve conversions between named coordinate systems declared in dataset metadata.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "TOML configuration file")

	// Add subcommands
	cmd.AddCommand(NewPathCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSpacesCommand(opts))
	cmd.AddCommand(NewParamsCommand(opts))

	return cmd
}

// init loads the configuration and builds the per-invocation logger.
func (o *RootOptions) init(cmd *cobra.Command) error {
	if o.ConfigPath != "" {
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "loading configuration", err)
		}
		o.Config = cfg
	} else {
		o.Config = config.FromEnv()
	}

	level := o.Config.LogLevel
	if o.Verbose {
		level = "debug"
	}
	logger, err := newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate run id: %w", err)
	}
	o.RunID = id.String()
	o.Logger = logger.With(zap.String("run_id", o.RunID), zap.String("command", cmd.Name()))
	return nil
}

// newLogger logs to the process stderr through the production config, or
// to a writer installed with SetErr.
func newLogger(w io.Writer, level string) (*zap.Logger, error) {
	if w == os.Stderr {
		return logging.New(level)
	}
	return logging.NewWriter(w, level)
}

// logger returns the configured logger, or a no-op logger when a
// subcommand runs without the root command.
func (o *RootOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return logging.Nop()
	}
	return o.Logger
}

// cfg returns the loaded configuration, or the defaults.
func (o *RootOptions) cfg() config.Config {
	if o.Config.MaxDims == 0 {
		return config.Default()
	}
	return o.Config
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
