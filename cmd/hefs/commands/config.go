package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/edqe14/hefs/internal/constants"
	"github.com/edqe14/hefs/pkg/hefs"
	"github.com/edqe14/hefs/pkg/hefsclient"
)

const readyTimeout = 30 * time.Second

// Config represents the persisted CLI configuration.
type Config struct {
	BaseURL string `json:"base_url"          yaml:"base_url,omitempty"`
	Session string `json:"session,omitempty" yaml:"session,omitempty"`
	Output  string `json:"output"            yaml:"output,omitempty"`
}

// configKeys are the keys accepted by config set and config unset.
var configKeys = map[string]bool{
	"base_url": true,
	"session":  true,
	"output":   true,
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the CLI config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective CLI configuration. The session token is masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Session != "" {
				config.Session = maskSession(config.Session)
			}

			return renderOutput(cmd.OutOrStdout(), viper.GetString("output"), config, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("Base URL", formatCell(config.BaseURL))
				_ = table.Append("Session", formatCell(config.Session))
				_ = table.Append("Output", formatCell(config.Output))
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value (base_url, session, output)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !configKeys[key] {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			if key == "output" && !isOutputFormat(value) {
				return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, value)
			}

			config, err := loadConfigFile()
			if err != nil {
				return err
			}

			setConfigValue(config, key, value)

			path, err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, path)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value (base_url, session, output)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !configKeys[key] {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			config, err := loadConfigFile()
			if err != nil {
				return err
			}

			setConfigValue(config, key, "")

			path, err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s in %s\n", key, path)

			return nil
		},
	}
}

func loadConfig() *Config {
	return &Config{
		BaseURL: viper.GetString("base_url"),
		Session: viper.GetString("session"),
		Output:  viper.GetString("output"),
	}
}

// loadConfigFile reads only what the config file holds, so values that came
// from flags or the environment are never written back. A missing file is
// an empty config.
func loadConfigFile() (*Config, error) {
	configFile, err := configFilePath()
	if err != nil {
		return nil, err
	}

	config := &Config{}

	data, err := os.ReadFile(configFile) //nolint:gosec // path is the CLI's own config file
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func setConfigValue(config *Config, key, value string) {
	switch key {
	case "base_url":
		config.BaseURL = value
	case "session":
		config.Session = value
	case "output":
		config.Output = value
	}

	viper.Set(key, value)
}

// configFilePath returns the config file in use, or $HOME/.hefs/config.yml.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".hefs", "config.yml"), nil
}

func saveConfigStruct(config *Config) (string, error) {
	configFile, err := configFilePath()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configFile, nil
}

func maskSession(session string) string {
	const visible = 4

	if len(session) <= visible {
		return "****"
	}

	return session[:visible] + "****"
}

// newLogger logs at warn level, or at debug level with --verbose.
func newLogger(w io.Writer) hefs.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	return hefs.NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// CreateClient builds a client from the effective configuration and waits
// until it is ready.
func CreateClient(cmd *cobra.Command) (hefs.Client, error) {
	stderr := cmd.ErrOrStderr()

	config := &hefs.Config{
		BaseURL:          viper.GetString("base_url"),
		Session:          viper.GetString("session"),
		DisableHydration: viper.GetBool("no_hydrate"),
		Debug:            viper.GetBool("verbose"),
		Logger:           newLogger(stderr),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := hefsclient.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	readyCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	err = client.AwaitReady(readyCtx)
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return client, nil
}

func hydrated() bool {
	return !viper.GetBool("no_hydrate")
}
