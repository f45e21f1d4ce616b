package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rodstewart/estatectl/internal/api"
	"github.com/rodstewart/estatectl/internal/config"
	"github.com/rodstewart/estatectl/internal/resources"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage estatectl configuration",
	Long:  `Manage the backend URL, API token and display settings.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration interactively",
	Long:  `Create a new configuration file by prompting for the backend URL and API token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		fmt.Print("Backend URL: ")
		url, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read URL: %w", err)
		}
		url = strings.TrimSpace(url)

		fmt.Print("API Token (leave empty to log in later): ")
		token, err := readSecret(reader)
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}

		if url == "" {
			return fmt.Errorf("URL is required")
		}

		cfg := &config.Config{URL: url, Token: token}

		configPath, err := configFilePath()
		if err != nil {
			return err
		}
		if err := config.Save(cfg, configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		if jsonOutput {
			return outputJSON(map[string]string{"status": "success", "path": configPath})
		}

		fmt.Printf("✓ Configuration saved to %s\n", configPath)
		if token == "" {
			fmt.Println("Run 'estatectl auth login' to store an API token")
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  `Show the current configuration with API token redacted for security.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{
				"url":       cfg.URL,
				"token":     redactToken(cfg.Token),
				"page_size": cfg.PageSize,
				"timeout":   cfg.Timeout.String(),
				"log_level": cfg.LogLevel,
			})
		}

		fmt.Printf("URL: %s\n", cfg.URL)
		fmt.Printf("Token: %s\n", redactToken(cfg.Token))
		if cfg.PageSize > 0 {
			fmt.Printf("Page size: %d\n", cfg.PageSize)
		} else {
			fmt.Println("Page size: per resource")
		}
		fmt.Printf("Timeout: %s\n", cfg.Timeout)
		fmt.Printf("Log level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the backend",
	Long:  `Verify that the configured URL and token can list bookings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.cancel()

		if err := s.client.Ping(s.ctx, resources.Bookings().Path); err != nil {
			if jsonOutput {
				_ = outputJSON(map[string]string{"status": "failed", "error": err.Error()})
				return err
			}
			return fmt.Errorf("✗ Connection failed: %w", err)
		}

		if jsonOutput {
			return outputJSON(map[string]string{"status": "success", "url": s.cfg.URL})
		}
		fmt.Printf("✓ Successfully connected to %s\n", s.cfg.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configTestCmd)
}

func configFilePath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultConfigPath()
}

// readSecret reads a line without echo on a terminal, plainly otherwise
func readSecret(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// redactToken masks most of the token for security
func redactToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// verifyToken lists bookings with token to check it is accepted
func verifyToken(cmd *cobra.Command, cfg *config.Config, token string) error {
	client := api.NewClient(cfg.URL, api.StaticToken(token),
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(newLogger(cfg)),
	)
	if err := client.Ping(cmd.Context(), resources.Bookings().Path); err != nil {
		if api.IsUnauthorized(err) {
			return fmt.Errorf("token rejected by %s", cfg.URL)
		}
		return fmt.Errorf("failed to verify token: %w", err)
	}
	return nil
}
