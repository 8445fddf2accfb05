package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gopkg.in/yaml.v3"

	"github.com/doneflow/doneflow"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a workspace in the current directory",
	Long:  `Create the data directory and a starter doneflow.yaml config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal("Failed to load config", err)
		}

		if _, err := doneflow.New(cfg.DataDir, doneflow.WithLogger(slog.Default())); err != nil {
			fatal("Failed to initialize data directory", err)
		}

		path := configPath
		if path == "" {
			path = defaultConfigFile
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				fatal("Failed to encode config", err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				fatal("Failed to write config", err)
			}
			fmt.Println("Wrote", path)
		}

		fmt.Println("Initialized Done Flow workspace with data in", cfg.DataDir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
