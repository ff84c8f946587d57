// Package commands provides CLI command implementations.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/agentkit/agentlearn/pkg/agentlearn"
)

// Persistent flags shared by every command.
var (
	configPath string
	storePath  string
	jsonOutput bool
)

// RegisterGlobalFlags attaches the shared flags to the root command.
func RegisterGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVarP(&storePath, "store", "s", "", "path to the SQLite store (overrides config)")
	flags.BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")
}

// loadConfig builds the engine configuration from defaults, the optional
// YAML file, and the --store override, in that order.
func loadConfig() (agentlearn.Config, error) {
	config := agentlearn.DefaultConfig()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if storePath != "" {
		config.StorePath = storePath
	}
	return config, nil
}

// newEngine builds an engine from the resolved configuration.
func newEngine() (*agentlearn.Engine, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	engine, err := agentlearn.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	return engine, nil
}

// requireStore builds an engine and fails when no store is configured.
func requireStore() (*agentlearn.Engine, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}
	if engine.Store() == nil {
		engine.Close()
		return nil, fmt.Errorf("this command needs a store; pass --store or set storePath in the config")
	}
	return engine, nil
}

// readJSONInput decodes a JSON document from a file path, or from stdin
// when path is "-".
func readJSONInput(path string, v interface{}) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}
	return nil
}

// marshalIndent renders v as indented JSON.
func marshalIndent(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
