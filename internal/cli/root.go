package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/calc"
	"github.com/roach88/rpncalc/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is the resolved configuration. Commands created without the
	// root command (tests) see the zero value and fall back to defaults.
	Config config.Config

	// Logger is set by the root command. Nil means discard.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the rpncalc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rpncalc",
		Short: "rpncalc - Reverse Polish Notation calculator",
		Long: `An RPN calculator with integer and floating-point arithmetic,
parenthesized sub-expressions and a typed error taxonomy.

Settings are read from rpncalc.cue in the working directory, or from the
file named by --config. Flags given on the command line win over the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to CUE config file (default ./"+config.DefaultFile+" if present)")

	// Add subcommands
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewOpsCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// resolve loads the config file, applies it under explicit flags, and
// sets up logging.
func (opts *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, used, err := config.LoadOptional(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeConfig+": failed to load config", err)
	}
	opts.Config = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") {
		opts.Format = cfg.Format
	}
	if !flags.Changed("verbose") {
		opts.Verbose = cfg.Verbose
	}

	// Validate format flag
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}

	// Configure logging based on verbose flag
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	if used != "" {
		opts.Logger.Debug("config loaded", "path", used)
	}
	return nil
}

// logger returns the configured logger, or a discarding one.
func (opts *RootOptions) logger() *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// settings returns the resolved config, or defaults when the root command
// did not run.
func (opts *RootOptions) settings() config.Config {
	if opts.Config == (config.Config{}) {
		return config.Default()
	}
	return opts.Config
}

// historyPath resolves the history database from the command flag or the
// config file, expanding a leading "~/". Empty means no database.
func (opts *RootOptions) historyPath(flag string) (string, error) {
	path := opts.settings().History
	if flag != "" {
		path = flag
	}
	return config.ExpandHome(path)
}

// calculator builds a calculator wired to the command logger.
func (opts *RootOptions) calculator() *calc.Calculator {
	return calc.New(calc.WithLogger(opts.logger()))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
