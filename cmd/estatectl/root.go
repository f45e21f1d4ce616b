package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rodstewart/estatectl/internal/api"
	"github.com/rodstewart/estatectl/internal/auth"
	"github.com/rodstewart/estatectl/internal/config"
	"github.com/rodstewart/estatectl/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	jsonOutput bool
	debugMode  bool
	flagURL    string
	flagToken  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "estatectl",
	Short: "estatectl - Administer the real-estate marketplace from the command line",
	Long: `estatectl manages the bookings, contacts, partners, properties, support messages
and inquiries of the marketplace backend.

Configure the backend with 'estatectl config init', then use commands like
'estatectl bookings list', 'estatectl contacts reply' and 'estatectl dashboard',
or open the interactive dashboard with 'estatectl tui'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.config/estatectl/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON instead of human-readable")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "backend URL (overrides config and env)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token (overrides config and env)")
}

// loadConfig loads the configuration from file and environment variables,
// then applies CLI flag overrides if provided.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)

	// A URL from the flags is enough to proceed without a config file
	if err != nil {
		if errors.Is(err, config.ErrNoConfig) && flagURL != "" {
			return &config.Config{
				URL:      flagURL,
				Token:    flagToken,
				Timeout:  config.DefaultTimeout,
				LogLevel: config.DefaultLogLevel,
			}, nil
		}
		return nil, err
	}

	// Apply CLI flag overrides (highest precedence)
	if flagURL != "" {
		cfg.URL = flagURL
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	level := config.DefaultLogLevel
	if cfg != nil && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	if debugMode {
		level = logger.LevelDebug
	}
	return logger.New(logger.Config{Level: level, Output: os.Stderr, Service: "estatectl"})
}

// session is the per-command wiring: an authenticated client whose first
// 401 cancels ctx, so concurrent requests stop instead of repeating it
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	log    *logger.Logger
	client *api.Client
	auth   *auth.Session
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}

	log := newLogger(cfg)
	ctx, cancel := context.WithCancel(cmd.Context())
	s := auth.NewSession(auth.NewMemoryStore(cfg.Token), cancel, log)

	client := api.NewClient(cfg.URL, s,
		api.WithTimeout(cfg.Timeout),
		api.WithUnauthorizedHandler(s.HandleUnauthorized),
		api.WithLogger(log),
	)

	return &session{ctx: ctx, cancel: cancel, cfg: cfg, log: log, client: client, auth: s}, nil
}

// pageSize returns the configured page size, or fallback when unset
func (s *session) pageSize(fallback int) int {
	if s.cfg.PageSize > 0 {
		return s.cfg.PageSize
	}
	return fallback
}
