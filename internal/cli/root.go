package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/ideaval/internal/config"
	"github.com/mithrel/ideaval/internal/present/tui"
	"github.com/mithrel/ideaval/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// Commands carrying these annotations change how the App is built.
const (
	annotationNoApp     = "ideaval/no-app"
	annotationStderrLog = "ideaval/stderr-log"
)

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "ideaval",
		Short:         "ideaval: validate startup ideas from the terminal",
		Long:          "Submit a startup idea to the analysis API and browse the report: idea, market, competition, risk, SWOT and recommendations.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationNoApp] != "" {
				return nil
			}
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			// flags go in first so Load derives log.file from an overridden data_dir
			if err := applyConfigFlagOverrides(cmd, v, map[string]string{
				"api-url":  "api.base_url",
				"data-dir": "data_dir",
			}); err != nil {
				return err
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			var opts []wire.Option
			if cmd.Annotations[annotationStderrLog] != "" {
				opts = append(opts, wire.WithStderrLog())
			}
			app, err := wire.BuildApp(cmd.Context(), v, opts...)
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), appKey, app)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return tui.Run(cmd.Context(), tui.Options{Session: app.Session, Log: app.Log})
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")
	cmd.PersistentFlags().String("api-url", "", "analysis API base url (overrides api.base_url)")
	cmd.PersistentFlags().String("data-dir", "", "local state directory (overrides data_dir)")

	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newBackCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}
