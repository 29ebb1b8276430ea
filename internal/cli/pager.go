package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/ideaval/internal/present"
	"github.com/mithrel/ideaval/internal/wire"
)

const defaultPager = "less -FRSX"

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// outputOptions resolves --output (falling back to the configured mode) and
// the render settings. tui degrades to plain when stdout is not a terminal.
func outputOptions(cmd *cobra.Command, app *wire.App, outputMode string) (present.Options, error) {
	if outputMode == "" {
		outputMode = app.Cfg.GetString("output")
	}
	mode, ok := present.ParseMode(outputMode)
	if !ok {
		return present.Options{}, fmt.Errorf("invalid --output: %s", outputMode)
	}
	if mode == present.ModeTUI && !isTerminal(cmd.OutOrStdout()) {
		mode = present.ModePlain
	}
	return present.Options{
		Mode:         mode,
		Headers:      true,
		GlamourStyle: app.Cfg.GetString("render.glamour_style"),
		Width:        present.DetectWidth(cmd.OutOrStdout(), app.Cfg.GetInt("render.width")),
		Session:      app.Session,
		Log:          app.Log,
	}, nil
}

func addOutputFlag(cmd *cobra.Command, target *string, help string) {
	cmd.Flags().StringVarP(target, "output", "o", "", help)
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return present.ModeNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// render writes through the pager unless the program owns the terminal.
func render(ctx context.Context, cmd *cobra.Command, opts present.Options, write func(io.Writer) error) error {
	if opts.Mode == present.ModeTUI {
		return write(cmd.OutOrStdout())
	}
	return withPager(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), write)
}

func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}
