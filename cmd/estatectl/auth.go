package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rodstewart/estatectl/internal/auth"
	"github.com/rodstewart/estatectl/internal/config"
	"github.com/spf13/cobra"
)

var loginNoVerify bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored API token",
}

var authLoginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Store an API token",
	Long: `Store an API token in the config file. The token is checked against the
backend first unless --no-verify is set. Without an argument the token is
prompted for.

Examples:
  estatectl auth login
  echo "$TOKEN" | estatectl auth login`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, configPath, err := loadStoredConfig()
		if err != nil {
			return err
		}
		if err := auth.NewConfigStore(cfg, configPath).Clear(); err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(map[string]any{"logged_out": true})
		}
		fmt.Println("✓ Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authLoginCmd.Flags().BoolVar(&loginNoVerify, "no-verify", false, "store the token without checking it")
}

// loadStoredConfig loads the configuration whose token login and logout
// rewrite. --token is ignored: the stored token is being replaced.
func loadStoredConfig() (*config.Config, string, error) {
	configPath, err := configFilePath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		if flagURL == "" {
			return nil, "", err
		}
		cfg = &config.Config{URL: flagURL, Timeout: config.DefaultTimeout}
	}
	if flagURL != "" {
		cfg.URL = flagURL
	}
	return cfg, configPath, nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadStoredConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		fmt.Print("API Token: ")
		token, err = readSecret(bufio.NewReader(os.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}
	if token == "" {
		return fmt.Errorf("token is required")
	}

	if !loginNoVerify {
		if err := verifyToken(cmd, cfg, token); err != nil {
			return err
		}
	}

	session := auth.NewSession(auth.NewConfigStore(cfg, configPath), nil, newLogger(cfg))
	if err := session.Login(token); err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(map[string]any{"logged_in": true, "url": cfg.URL, "path": configPath})
	}
	fmt.Printf("✓ Logged in to %s\n", cfg.URL)
	return nil
}
