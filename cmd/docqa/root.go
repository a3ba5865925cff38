package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docqa/internal/config"
	"docqa/internal/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents",
	Long: `docqa indexes PDF and text documents and answers questions about them
with a language model, citing the pages each answer came from.

Configuration is read from --config, ./config.yaml or
~/.config/docqa/config.yaml. API keys are read from the environment
or a .env file in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(cfgPath)
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	return logger.New(logger.Config{Level: cfg.Level, Format: cfg.Format, Output: cfg.Output})
}
