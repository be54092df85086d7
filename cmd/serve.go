package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/vendor-spend/internal/api"
)

var servePort int

// shutdownTimeout bounds how long in-flight requests get after a signal.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the classification API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return eris.Wrap(err, "serve: invalid config")
		}

		env, err := initClassifier()
		if err != nil {
			return err
		}

		deps := api.Dependencies{
			Classifier: env.Classifier,
			Rules:      env.Fallback.Rules(),
		}
		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "serve: init store")
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
			deps.Runs = st
		}

		router := api.NewRouter(api.Config{
			RateLimit:   cfg.Server.RateLimit,
			Burst:       cfg.Server.Burst,
			CORSOrigins: cfg.Server.CORSOrigins,
			MaxNames:    cfg.Server.MaxNames,
		}, deps)
		srv := api.NewServer(fmt.Sprintf(":%d", cfg.Server.Port), router)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server",
				zap.Int("port", cfg.Server.Port),
				zap.Int("registry_entries", env.Registry.Len()),
				zap.Bool("run_history", st != nil),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
