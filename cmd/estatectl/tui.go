package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rodstewart/estatectl/internal/api"
	"github.com/rodstewart/estatectl/internal/auth"
	"github.com/rodstewart/estatectl/internal/config"
	"github.com/rodstewart/estatectl/internal/logger"
	"github.com/rodstewart/estatectl/internal/ui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	Long: `Open the interactive dashboard: one tab per collection with search, status
filters, paging and dialogs to view, update, reply to and delete records.

Logs are written to ~/.config/estatectl/tui.log.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logFile, err := openTUILog()
	if err != nil {
		return err
	}
	defer logFile.Close()

	level := cfg.LogLevel
	if debugMode {
		level = logger.LevelDebug
	}
	log := logger.New(logger.Config{Level: level, Format: logger.FormatJSON, Output: logFile, Service: "estatectl-tui"})

	// the login screen replaces the onLogout handler once the program runs
	session := auth.NewSession(auth.NewMemoryStore(cfg.Token), nil, log)
	client := api.NewClient(cfg.URL, session,
		api.WithTimeout(cfg.Timeout),
		api.WithUnauthorizedHandler(session.HandleUnauthorized),
		api.WithLogger(log),
	)

	return ui.Run(cmd.Context(), ui.Options{
		Client:   client,
		Session:  session,
		Log:      log,
		PageSize: cfg.PageSize,
	})
}

func openTUILog() (*os.File, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(dir, "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}
