package main

import (
	"fmt"
	"os"
	"path/filepath"

	"coinwatch/internal/cli"
	"coinwatch/internal/config"
	"coinwatch/internal/logging"
)

func main() {
	configDir := config.DirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.File = cfg.Logging.File
	logCfg.Console = false // keep the dashboard clean; file log carries detail
	if configDir != "" {
		logCfg.FilePath = filepath.Join(configDir, "logs", "coinwatch.log")
	}
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := cli.NewRootCmd(cfg, logger, configDir)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
