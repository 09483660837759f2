package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marialclark/APIValidationExercise/internal/config"
	"github.com/marialclark/APIValidationExercise/internal/database"
	"github.com/marialclark/APIValidationExercise/internal/handler"
	"github.com/marialclark/APIValidationExercise/internal/logger"
	"github.com/marialclark/APIValidationExercise/internal/repository"
	"github.com/marialclark/APIValidationExercise/internal/router"
	"github.com/marialclark/APIValidationExercise/internal/server"
	"github.com/marialclark/APIValidationExercise/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// app carries what every subcommand needs once config and logging are up.
type app struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "HTTP API for managing books keyed by ISBN",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.loggerService != nil {
				a.loggerService.Shutdown()
			}
		},
	}

	var seedOnStart bool
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), seedOnStart)
		},
	}
	serve.Flags().BoolVar(&seedOnStart, "seed", false, "insert the seed books before serving")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return database.Migrate(cmd.Context(), &a.log, a.cfg)
		},
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Insert the seed books that are not stored yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.seed(cmd.Context())
		},
	}

	root.AddCommand(serve, migrate, seed)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	if err := root.ExecuteContext(context.Background()); err != nil {
		if a.loggerService != nil {
			a.log.Error().Err(err).Msg("command failed")
			a.loggerService.Shutdown()
		} else {
			os.Stderr.WriteString(err.Error() + "\n")
		}
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.loggerService = logger.NewLoggerService(cfg.Observability)
	a.log = logger.NewLoggerWithService(cfg.Observability, a.loggerService)

	return nil
}

// open builds the application container and the services on top of it.
func (a *app) open(ctx context.Context) (*server.Server, *service.Services, error) {
	if a.cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, &a.log, a.cfg); err != nil {
			return nil, nil, err
		}
	}

	srv, err := server.New(a.cfg, &a.log, a.loggerService)
	if err != nil {
		return nil, nil, err
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		srv.Close()
		return nil, nil, err
	}

	return srv, services, nil
}

func (a *app) serve(ctx context.Context, seedOnStart bool) error {
	srv, services, err := a.open(ctx)
	if err != nil {
		return err
	}

	if seedOnStart {
		if _, err := services.Book.Seed(ctx, service.SeedBooks()); err != nil {
			srv.Close()
			return err
		}
	}

	r := router.NewRouter(srv, handler.NewHandlers(srv, services))
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			srv.Close()
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	a.log.Info().Msg("server exited properly")
	return nil
}

func (a *app) seed(ctx context.Context) error {
	srv, services, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer srv.Close()

	_, err = services.Book.Seed(ctx, service.SeedBooks())
	return err
}
