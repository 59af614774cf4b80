// Command registry hosts the Cluster Name Registry (spec §4.1) as a
// standalone HTTP service that every chat node depends on for
// register/unregister/lookup/enumerate.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/clustchat/internal/cluster"
	"github.com/dkeye/clustchat/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	store := cluster.NewStore()
	r := cluster.NewServer(cfg.Mode, store)
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)

	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Info().Str("module", "cmd.registry").Str("addr", addr).Msg("registry started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("registry forced to shutdown")
	}
	log.Info().Msg("registry exited gracefully")
}
