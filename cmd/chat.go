package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/galeproject/gale/internal/agent"
	"github.com/galeproject/gale/internal/config"
	"github.com/galeproject/gale/internal/gmail"
	"github.com/galeproject/gale/internal/google"
	"github.com/galeproject/gale/internal/instrumentation"
	"github.com/galeproject/gale/internal/llm"
	"github.com/galeproject/gale/internal/logging"
	"github.com/galeproject/gale/internal/retry"
	"github.com/galeproject/gale/internal/tools"
	"github.com/galeproject/gale/internal/tools/gmail_tools"
	"github.com/galeproject/gale/internal/tools/weather_tools"
	"github.com/galeproject/gale/internal/weather"
)

func newChatCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive assistant session",
		Long: `Start an interactive session with the assistant. Type a message and
press enter; the assistant answers, looking up weather or operating on
your Gmail drafts when asked. Type bye, exit, goodbye or quit to end
the session.

Configuration is read from a YAML file (see --config) with environment
variables taking precedence. GEMINI_API_KEY and WEATHER_API_KEY are
required. Gmail tools additionally need 'gale auth' to have been run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(),
		"Path to the YAML config file. Can also use GALE_CONFIG env var.")

	return cmd
}

func runChat(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	provider, err := instrumentation.NewProvider(ctx, instrumentation.ConfigFromEnv(version))
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	registry := tools.NewRegistry(provider.Metrics())

	if err := weather_tools.RegisterWeatherTools(registry,
		weather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL)); err != nil {
		return err
	}

	creds := google.ClientCredentials{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
	}
	if err := gmail_tools.RegisterEmailTools(registry, gmail_tools.NewService(creds)); err != nil {
		return err
	}

	// The profile personalizes the system prompt and the greeting. A
	// missing or expired token is not fatal; email tools will ask the
	// user to authenticate when first used.
	profile := fetchProfile(ctx, creds)

	model, err := llm.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model,
		agent.SystemPrompt(profile.DisplayName, profile.Email))
	if err != nil {
		return err
	}

	a, err := agent.New(agent.Options{
		Provider:      model,
		Registry:      registry,
		Metrics:       provider.Metrics(),
		ModelName:     cfg.Gemini.Model,
		RetryPolicy:   retryPolicy(cfg),
		HistoryWindow: cfg.HistoryWindow,
		MaxFuncRounds: cfg.MaxFuncRounds,
		Greeting:      profile.GivenName,
	})
	if err != nil {
		return err
	}

	slog.Info("session starting",
		slog.String("model", cfg.Gemini.Model),
		slog.Any("tools", registry.Names()),
		logging.UserHash(profile.Email))

	return a.Run(ctx, os.Stdin, os.Stdout)
}

// fetchProfile returns the user's Google profile, or an empty profile
// when the user has not authenticated or the lookup fails.
func fetchProfile(ctx context.Context, creds google.ClientCredentials) gmail.Profile {
	if !gmail.HasToken() {
		return gmail.Profile{}
	}
	client, err := gmail.NewClient(ctx, creds)
	if err != nil {
		slog.Warn("could not create Gmail client for profile lookup", logging.Err(err))
		return gmail.Profile{}
	}
	p, err := client.UserProfile()
	if err != nil {
		slog.Warn("could not fetch user profile", logging.Err(err))
		return gmail.Profile{}
	}
	return *p
}

func retryPolicy(cfg *config.Config) retry.Policy {
	p := retry.DefaultPolicy(llm.IsTransient)
	if cfg.RetryAttempts > 0 {
		p.MaxAttempts = uint(cfg.RetryAttempts)
	}
	return p
}

func defaultConfigPath() string {
	if env := os.Getenv("GALE_CONFIG"); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gale", "config.yaml")
}
