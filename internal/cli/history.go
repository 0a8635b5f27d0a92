package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	History  string
	Session  string
	Limit    int
	Clear    bool
	Sessions bool
}

// ClearResult is the JSON payload of history --clear.
type ClearResult struct {
	Session string `json:"session,omitempty"`
	Removed int64  `json:"removed"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded evaluations",
		Long: `Show evaluations recorded by repl sessions, oldest first.

Within a session entries are ordered by their sequence number; across
sessions by creation order.

Examples:
  rpncalc history --history ~/.rpncalc.db
  rpncalc history --session 0192f0c4-... --limit 20
  rpncalc history --sessions
  rpncalc history --clear --session 0192f0c4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.History, "history", "", "path to SQLite history database (default from config)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "only this session")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show only the most recent N entries (0 = all)")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "delete entries (of --session, or all)")
	cmd.Flags().BoolVar(&opts.Sessions, "sessions", false, "list session ids instead of entries")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.logger()

	dbPath, err := opts.historyPath(opts.History)
	if err != nil {
		return formatter.CommandError(ErrCodeHistory, "invalid history path", err)
	}
	if dbPath == "" {
		return formatter.CommandError(ErrCodeHistory, "no history database: pass --history or set history in the config file", nil)
	}
	if opts.Limit < 0 {
		return formatter.CommandError(ErrCodeGeneric, fmt.Sprintf("invalid limit %d: must be >= 0", opts.Limit), nil)
	}

	st, err := history.Open(dbPath)
	if err != nil {
		return formatter.CommandError(ErrCodeHistory, "failed to open history database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing history database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()

	switch {
	case opts.Clear:
		n, err := st.Clear(ctx, opts.Session)
		if err != nil {
			return formatter.CommandError(ErrCodeHistory, "failed to clear history", err)
		}
		if opts.Format == "json" {
			return formatter.Success(ClearResult{Session: opts.Session, Removed: n})
		}
		fmt.Fprintf(formatter.Writer, "Removed %d entries\n", n)
		return nil

	case opts.Sessions:
		sessions, err := st.Sessions(ctx)
		if err != nil {
			return formatter.CommandError(ErrCodeHistory, "failed to list sessions", err)
		}
		if opts.Format == "json" {
			return formatter.Success(sessions)
		}
		for _, s := range sessions {
			fmt.Fprintln(formatter.Writer, s)
		}
		return nil
	}

	entries, err := st.ReadEntries(ctx, history.Filter{Session: opts.Session, Limit: opts.Limit})
	if err != nil {
		return formatter.CommandError(ErrCodeHistory, "failed to read history", err)
	}

	if opts.Format == "json" {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No history.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		outcome := "= " + resultString(e)
		if !e.OK() {
			outcome = fmt.Sprintf("! %s: %s", e.ErrorCode, e.ErrorMessage)
		}
		if opts.Session != "" {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Seq, e.Expression, outcome)
		} else {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Session, e.Seq, e.Expression, outcome)
		}
	}
	return tw.Flush()
}

func resultString(e history.Entry) string {
	if e.Result == nil {
		return ""
	}
	return e.Result.String()
}
