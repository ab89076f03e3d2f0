package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jryandunlap/brain-dump/internal/app"
	"github.com/jryandunlap/brain-dump/internal/config"
	"github.com/jryandunlap/brain-dump/internal/logger"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "braindump",
		Short:         "Brain Dump turns free-form notes into prioritized tasks",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yml", "path to the yaml config file")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := logger.Init(cfg.Logging.Development); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		return cfg, nil
	}

	rootCmd.AddCommand(serveCmd(load))
	rootCmd.AddCommand(migrateCmd(load))
	rootCmd.AddCommand(tasksCmd(load))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type loader func() (*config.Config, error)
