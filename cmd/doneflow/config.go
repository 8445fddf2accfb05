package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doneflow/doneflow"
	"github.com/doneflow/doneflow/pkg/auth"
)

const defaultConfigFile = "doneflow.yaml"

// cliConfig is the on-disk CLI configuration.
type cliConfig struct {
	DataDir      string `yaml:"data_dir"`
	Capacity     int64  `yaml:"capacity"`
	Namespace    string `yaml:"namespace"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		DataDir: "./data",
	}
}

// loadConfig reads the YAML config. A missing file is not an error: the
// defaults apply, so the CLI works out of the box.
func loadConfig() (cliConfig, error) {
	cfg := defaultCLIConfig()

	path := configPath
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && configPath == "" {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}
	return cfg, nil
}

// openStore builds the store described by the config.
func openStore(cfg cliConfig) (*doneflow.Store, error) {
	opts := []doneflow.Option{
		doneflow.WithLogger(slog.Default()),
	}
	if cfg.Capacity > 0 {
		opts = append(opts, doneflow.WithCapacity(cfg.Capacity))
	}
	if cfg.Namespace != "" {
		opts = append(opts, doneflow.WithNamespace(cfg.Namespace))
	}
	return doneflow.New(cfg.DataDir, opts...)
}

// requireOwner resolves the active session's uid, failing the command when
// nobody is logged in.
func requireOwner(store *doneflow.Store) string {
	manager := auth.NewManager(store, slog.Default())
	uid := manager.CurrentUserID()
	if uid == "" {
		fatal("Not logged in", fmt.Errorf("run 'doneflow auth login' first"))
	}
	return uid
}
