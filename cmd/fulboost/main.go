package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulboost/fulboost-client/internal/client"
	"github.com/fulboost/fulboost-client/internal/config"
	"github.com/fulboost/fulboost-client/internal/logger"
	"github.com/fulboost/fulboost-client/internal/session"
	"github.com/fulboost/fulboost-client/internal/tokenstore"
	"github.com/fulboost/fulboost-client/internal/version"
	"github.com/spf13/cobra"

	// trust store for minimal containers without system CA certificates
	_ "golang.org/x/crypto/x509roots/fallback"
)

// app is built once per invocation, before any subcommand runs
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	client *client.Client
}

func main() {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "fulboost",
		Short:         "fulboost API client",
		Long:          `Command line client for the fulboost API: sign in, then manage posts, games and challenges`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	cmd.Version = version.Get().String()

	cmd.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.registerCmd(),
		a.whoamiCmd(),
		a.statusCmd(),
		a.profileCmd(),
		a.postsCmd(),
		a.gamesCmd(),
		a.challengesCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
	slog.SetDefault(a.logger)

	store, err := tokenstore.NewStore(cfg.TokenStorePath, cfg.TokenStoreSecret)
	if err != nil {
		return fmt.Errorf("opening token store: %w", err)
	}

	a.logger.Debug("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("backend_url", cfg.BackendURL),
		slog.String("token_store", cfg.TokenStorePath),
	)

	a.client = client.NewClient(client.Options{
		APIBaseURL: cfg.APIBaseURL,
		BackendURL: cfg.BackendURL,
		Timeout:    cfg.RequestTimeout,
		LoginRoute: cfg.LoginRoute,
		Session:    session.New(store),
		Navigator:  client.NavigatorFunc(reloginHint),
		Logger:     a.logger,
	})
	return nil
}

// reloginHint is the CLI's navigation: there is no login page, so the user is told to sign in again
func reloginHint(route string) {
	fmt.Fprintf(os.Stderr, "Your session has expired (%s). Run `fulboost login` to sign in again.\n", route)
}
