// Command chatnode runs one cluster node: the TCP line listener, the
// resident Room/User state objects, the Router, the Command Dispatcher,
// the Broadcast Fanout, and the HTTP RPC surface peer nodes use to reach
// rooms resident here.
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

	"github.com/dkeye/clustchat/internal/adapters/tcp"
	"github.com/dkeye/clustchat/internal/app"
	"github.com/dkeye/clustchat/internal/cluster"
	"github.com/dkeye/clustchat/internal/config"
	"github.com/dkeye/clustchat/internal/core"
	"github.com/dkeye/clustchat/internal/domain"
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
	node := domain.NodeID(cfg.NodeID)

	registryClient := cluster.NewClient(cfg.RegistryAddr)
	clusterAdapter := app.NewClusterAdapter(registryClient, cfg.NodeAddr)
	directory := app.NewClusterDirectory(registryClient)

	if err := registryClient.RegisterNode(ctx, node, cfg.NodeAddr); err != nil {
		log.Error().Err(err).Str("module", "cmd.chatnode").Msg("node registration with registry failed")
	}

	rooms := core.NewRoomManager(node, clusterAdapter)
	users := core.NewUserManager(node, clusterAdapter)

	rpc := app.NewHTTPRoomRPCWithTimeout(cfg.RouteTimeout)
	router := app.NewRouter(node, rooms, directory, rpc)
	sessions := app.NewSessions()
	fanout := app.NewFanout(node, sessions, rpc, directory)
	dispatcher := app.NewDispatcher(node, rooms, users, router, fanout, sessions, directory)

	exec := app.NewExecutor(rooms)
	rpcRouter := app.NewRPCRouter(node, rooms, users, exec, sessions)
	rpcAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	rpcSrv := &http.Server{Addr: rpcAddr, Handler: rpcRouter}

	limiter := tcp.NewCommandRateLimiter(20, time.Second)
	listener := tcp.NewListener(fmt.Sprintf(":%d", cfg.Port), dispatcher, limiter)

	go func() {
		log.Info().Str("module", "cmd.chatnode").Str("node", cfg.NodeID).Str("addr", rpcAddr).Msg("rpc surface started")
		if err := rpcSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("rpc server error")
		}
	}()

	go func() {
		log.Info().Str("module", "cmd.chatnode").Str("node", cfg.NodeID).Str("port", fmt.Sprint(cfg.Port)).Msg("chat listener started")
		if err := listener.Serve(ctx); err != nil {
			log.Error().Err(err).Msg("tcp listener error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := registryClient.UnregisterNode(shutdownCtx, node); err != nil {
		log.Error().Err(err).Str("module", "cmd.chatnode").Msg("node deregistration with registry failed")
	}
	if err := rpcSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("rpc server forced to shutdown")
	}
	log.Info().Msg("chatnode exited gracefully")
}
