package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mithrel/ideaval/internal/editor"
	"github.com/mithrel/ideaval/internal/present"
	"github.com/mithrel/ideaval/internal/session"
	"github.com/mithrel/ideaval/pkg/api"
)

func newValidateCmd() *cobra.Command {
	var outputMode string
	var strict bool
	var indent bool
	var useEditor bool
	cmd := &cobra.Command{
		Use:   "validate [idea...]",
		Short: "Submit an idea and print its report",
		Long: `Submit a startup idea to the analysis API and print the report.

Without arguments the idea is prompted for on a terminal, or read from stdin.
--editor composes it in $VISUAL or $EDITOR, seeded with any arguments.
When the request fails the example report is shown instead and the advisory
goes to stderr; --strict returns the request error.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			opts, err := outputOptions(cmd, app, outputMode)
			if err != nil {
				return err
			}
			opts.JSONIndent = indent

			var idea string
			if useEditor {
				idea, err = editor.Session{
					Stdin:  cmd.InOrStdin(),
					Stdout: cmd.OutOrStdout(),
					Stderr: cmd.ErrOrStderr(),
				}.EditIdea(strings.Join(args, " "))
			} else {
				idea, err = readIdea(cmd, args)
			}
			if err != nil {
				return err
			}
			if strings.TrimSpace(idea) == "" {
				return session.ErrBlankIdea
			}

			stop := startSpinner(cmd.ErrOrStderr())
			if strict {
				res, err := app.Client.Validate(ctx, idea)
				stop()
				if err != nil {
					return err
				}
				app.Session.Show(ctx, res, "")
				if app.Cfg.GetBool("history.enabled") {
					if err := app.Store.Reports.PutReport(ctx, api.NewReport(idea, res, false, "", time.Now())); err != nil {
						app.Log.Warn("record history failed", zap.Error(err))
					}
				}
			} else {
				err := app.Session.Submit(ctx, idea)
				stop()
				if err != nil {
					return err
				}
			}

			st := app.Session.Snapshot()
			if st.Result == nil {
				return errors.New("no report produced")
			}
			if st.Error != "" {
				if cause := app.Session.LastFailure(); cause != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s (%v)\n", st.Error, cause)
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), st.Error)
				}
			}
			return render(ctx, cmd, opts, func(w io.Writer) error {
				return present.RenderResult(ctx, w, *st.Result, opts)
			})
		},
	}
	addOutputFlag(cmd, &outputMode, "output mode: tui|styled|pretty|plain|json|yaml (default from config)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on request errors instead of showing example data")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent json output")
	cmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "compose the idea in $EDITOR")
	return cmd
}

// readIdea joins args, prompts on a terminal, or reads all of stdin.
func readIdea(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		prompt := promptui.Prompt{
			Label: "Your startup idea",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return session.ErrBlankIdea
				}
				return nil
			},
		}
		idea, err := prompt.Run()
		if err != nil {
			return "", fmt.Errorf("idea prompt: %w", err)
		}
		return idea, nil
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read idea: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

// startSpinner shows an indeterminate progress spinner on w until stop is
// called. It draws nothing unless w is a terminal.
func startSpinner(w io.Writer) (stop func()) {
	if !isTerminal(w) {
		return func() {}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Analyzing..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(100 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				_ = bar.Add(1)
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			_ = bar.Finish()
		})
	}
}
