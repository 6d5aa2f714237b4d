package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/cometbft/cometbft/abci/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pokerarena/internal/api"
	"pokerarena/internal/app"
	"pokerarena/internal/config"
	"pokerarena/internal/events"
	"pokerarena/internal/state"
)

const shutdownTimeout = 10 * time.Second

func startCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the ABCI application, the read API and the event publisher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, logger)
		},
	}

	cmd.Flags().String("abci-address", "", "ABCI listen address")
	cmd.Flags().String("abci-transport", "", "ABCI transport (socket|grpc)")
	cmd.Flags().String("api-address", "", "HTTP read API listen address")
	cmd.Flags().String("log-level", "", "log level")
	cmd.Flags().Bool("events", false, "publish committed events to NATS")
	for key, flag := range map[string]string{
		"abci.address":   "abci-address",
		"abci.transport": "abci-transport",
		"api.address":    "api-address",
		"log.level":      "log-level",
		"events.enable":  "events",
	} {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
	return cmd
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	db, err := state.OpenDB(app.AppName, cfg.DB.Backend, cfg.DBDir())
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	var opts []app.Option
	if cfg.Events.Enable {
		nc, pub, err := events.Connect(cfg.Events.NATSURL, cfg.Events.Stream, cfg.Events.SubjectPrefix)
		if err != nil {
			return err
		}
		defer nc.Close()

		outbox := events.NewOutbox(pub, cfg.Events.SubjectPrefix, logger)
		sched, err := events.NewFlushScheduler(outbox, cfg.Events.FlushInterval, logger)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := sched.Shutdown(sctx); err != nil {
				logger.Error("final event flush failed", "err", err)
			}
		}()
		opts = append(opts, app.WithEventSink(outbox))
		logger.Info("publishing events", "nats", cfg.Events.NATSURL, "stream", cfg.Events.Stream)
	}

	a, err := app.New(db, logger, opts...)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	srv, err := server.NewServer(cfg.ABCI.Address, cfg.ABCI.Transport, a)
	if err != nil {
		return fmt.Errorf("start abci server: %w", err)
	}
	if err := srv.Start(); err != nil {
		return fmt.Errorf("abci server start: %w", err)
	}
	defer func() { _ = srv.Stop() }()
	logger.Info("abci server listening", "address", cfg.ABCI.Address, "transport", cfg.ABCI.Transport, "height", a.LastBlockHeight())

	apiErr := make(chan error, 1)
	if cfg.API.Enable {
		httpSrv := api.NewServer(cfg.API, a, logger)
		go func() {
			logger.Info("api listening", "address", cfg.API.Address)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				apiErr <- err
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = httpSrv.Shutdown(sctx)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-apiErr:
		return fmt.Errorf("api server: %w", err)
	}
}
