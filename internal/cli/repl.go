package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/history"
	"github.com/roach88/rpncalc/internal/shell"
)

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	History     string
	Session     string
	Prompt      string
	NoBanner    bool
	LineHistory string

	// IDGenerator overrides history id generation (for testing).
	// If nil, defaults to UUIDv7.
	IDGenerator history.IDGenerator
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive calculator",
		Long: `Start an interactive read-evaluate-print loop.

Each line is evaluated and answered with "Result: <value>" or
"Error: <message>". Errors never end the session; type q, quit or exit,
press Ctrl-D or Ctrl-C to leave. Type help for the operator list.

With --history (or history in the config file) every evaluated line is
recorded in a SQLite database under a session id; pass --session to
resume an earlier session.

Examples:
  rpncalc repl
  rpncalc repl --history ~/.rpncalc.db
  echo "3 4 +" | rpncalc repl --no-banner`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.History, "history", "", "path to SQLite history database (default from config)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "history session id to resume")
	cmd.Flags().StringVar(&opts.Prompt, "prompt", "", "input prompt (default from config)")
	cmd.Flags().BoolVar(&opts.NoBanner, "no-banner", false, "do not print help at start")
	cmd.Flags().StringVar(&opts.LineHistory, "line-history", "", "file for terminal line-editing history")

	return cmd
}

func runRepl(opts *ReplOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.logger()
	cfg := opts.settings()

	prompt := cfg.Prompt
	if opts.Prompt != "" {
		prompt = opts.Prompt
	}
	dbPath, err := opts.historyPath(opts.History)
	if err != nil {
		return formatter.CommandError(ErrCodeHistory, "invalid history path", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	shellOpts := []shell.Option{
		shell.WithPrompt(prompt),
		shell.WithBanner(cfg.Banner && !opts.NoBanner),
		shell.WithLogger(logger),
	}

	if dbPath != "" {
		st, err := history.Open(dbPath)
		if err != nil {
			return formatter.CommandError(ErrCodeHistory, "failed to open history database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing history database", "error", closeErr)
			}
		}()

		sessOpts := []history.SessionOption{history.WithSessionID(opts.Session)}
		if opts.IDGenerator != nil {
			sessOpts = append(sessOpts, history.WithIDGenerator(opts.IDGenerator))
		}
		sess, err := history.NewSession(ctx, st, sessOpts...)
		if err != nil {
			return formatter.CommandError(ErrCodeHistory, "failed to start history session", err)
		}
		formatter.VerboseLog("Recording history to %s (session %s)", dbPath, sess.ID())
		shellOpts = append(shellOpts, shell.WithRecorder(sess))
	}

	reader := lineReader(opts, cmd)
	defer reader.Close()

	// Ctrl-C inside the prompt is handled by the line reader. Signals that
	// arrive while evaluating or from outside stop the loop.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	sh := shell.New(opts.calculator(), reader, cmd.OutOrStdout(), shellOpts...)
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "shell error", err)
	}
	return nil
}

// lineReader uses terminal line editing when attached to a terminal, and
// plain line reading for pipes and tests.
func lineReader(opts *ReplOptions, cmd *cobra.Command) shell.LineReader {
	in := cmd.InOrStdin()
	if in == os.Stdin && shell.TerminalSupported() {
		return shell.NewTerminalReader(opts.LineHistory)
	}
	return shell.NewStreamReader(in, nil)
}
