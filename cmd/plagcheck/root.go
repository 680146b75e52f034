package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plagcheck/config"
	"plagcheck/internal/app"
)

var (
	configPath  string
	cfg         *config.Config
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:          "plagcheck",
	Short:        "Detect and highlight text overlap between documents",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default $CONFIG_PATH or ./config/config_local.yaml)")
	// PostRunE is skipped when RunE fails; finalizers always run.
	cobra.OnFinalize(closeApp)
}

// setupApp loads the config and wires the application. Commands that need
// storage or services call it from PreRunE.
func setupApp(cmd *cobra.Command, _ []string) error {
	if application != nil {
		_ = application.Stop()
		application = nil
	}

	loaded, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return err
	}
	cfg = loaded

	log := setupLogger(cfg.Env, os.Stderr)
	log.Debug("plagcheck", "env", cfg.Env, "command", cmd.Name())

	application, err = app.New(log, cfg)
	return err
}

func teardownApp(cmd *cobra.Command, _ []string) error {
	if application == nil {
		return nil
	}
	err := application.Stop()
	application = nil
	if err != nil {
		cmd.PrintErrln("failed to close storage:", err)
	}
	return err
}

func closeApp() {
	if application == nil {
		return
	}
	if err := application.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to close storage:", err)
	}
	application = nil
}
