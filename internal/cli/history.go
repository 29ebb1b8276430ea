package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/ideaval/internal/db"
	"github.com/mithrel/ideaval/internal/present"
	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/internal/util"
)

func newHistoryCmd() *cobra.Command {
	var outputMode string
	var since, until string
	var limit int
	var noHeaders bool
	var indent bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously submitted ideas",
		Long: `List previously submitted ideas, newest first.

--since and --until accept relative spans (2h, 3d, 2w, 1mo) or dates
(2006-01-02, 2006-01-02T15:04, RFC3339).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			from, to, err := util.TimeRange(since, until, time.Now())
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = app.Cfg.GetInt("history.limit")
			}
			reps, err := app.Store.Reports.ListReports(ctx, db.ReportQuery{Since: from, Until: to, Limit: limit})
			if err != nil {
				return err
			}
			opts, err := outputOptions(cmd, app, outputMode)
			if err != nil {
				return err
			}
			opts.Headers = !noHeaders
			opts.JSONIndent = indent
			return render(ctx, cmd, opts, func(w io.Writer) error {
				return present.RenderReports(ctx, w, reps, opts)
			})
		},
	}
	addOutputFlag(cmd, &outputMode, "output mode: plain|json|yaml|ndjson")
	cmd.Flags().StringVar(&since, "since", "", "only reports at or after this time")
	cmd.Flags().StringVar(&until, "until", "", "only reports at or before this time")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum reports (0 uses history.limit)")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent json output")

	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var outputMode string
	var section string
	var indent bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display a recorded report (id or unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			rep, err := app.Store.Reports.GetReport(ctx, args[0])
			if err != nil {
				if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrAmbiguous) {
					return fmt.Errorf("report %s: %w", args[0], err)
				}
				return err
			}
			opts, err := outputOptions(cmd, app, outputMode)
			if err != nil {
				return err
			}
			opts.JSONIndent = indent
			if section != "" {
				id, err := report.ResolveSection(section)
				if err != nil {
					return err
				}
				opts.Section = id
			}
			return render(ctx, cmd, opts, func(w io.Writer) error {
				return present.RenderReport(ctx, w, rep, opts)
			})
		},
	}
	addOutputFlag(cmd, &outputMode, "output mode: tui|styled|pretty|plain|json|yaml (tui opens the results view)")
	cmd.Flags().StringVarP(&section, "section", "s", "", "only this section")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent json output")
	registerSectionCompletion(cmd)
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear history without --yes")
			}
			app := getApp(cmd)
			n, err := app.Store.Reports.DeleteReports(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d reports\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
