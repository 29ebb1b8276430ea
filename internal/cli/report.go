package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/ideaval/internal/present"
	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/internal/util"
)

var errNoReport = errors.New("no report in the session; run `ideaval validate` first")

func newReportCmd() *cobra.Command {
	var outputMode string
	var section string
	var indent bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the current session report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			st := app.Session.Snapshot()
			if st.Result == nil {
				return errNoReport
			}
			opts, err := outputOptions(cmd, app, outputMode)
			if err != nil {
				return err
			}
			opts.JSONIndent = indent
			opts.Notice = st.Error
			if section != "" {
				id, err := report.ResolveSection(section)
				if err != nil {
					return err
				}
				opts.Section = id
			}
			return render(ctx, cmd, opts, func(w io.Writer) error {
				return present.RenderResult(ctx, w, *st.Result, opts)
			})
		},
	}
	addOutputFlag(cmd, &outputMode, "output mode: tui|styled|pretty|plain|json|yaml (default from config)")
	cmd.Flags().StringVarP(&section, "section", "s", "", "only this section (fuzzy: idea|market|competition|risk|swot|recommendations)")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent json output")
	registerSectionCompletion(cmd)
	return cmd
}

func registerSectionCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("section", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return util.ScoreCompletions(toComplete, report.SectionIDs(), 0), cobra.ShellCompDirectiveNoFileComp
	})
}
