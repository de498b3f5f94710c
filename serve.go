package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"platformer/config"
	"platformer/game"
	"platformer/server"
)

const shutdownTimeout = 5 * time.Second

var (
	flagAddr     string
	flagTickRate int
	flagLogFile  string
	flagStatic   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address, e.g. :8001")
	serveCmd.Flags().IntVar(&flagTickRate, "tick-rate", 0, "Simulation ticks per second")
	serveCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Rolling log file")
	serveCmd.Flags().StringVar(&flagStatic, "static", "", "Directory served at /")
}

// loadConfig 依次合并配置文件、环境变量与命令行参数
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("level") {
		cfg.Level = flagLevel
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = flagAddr
	}
	if cmd.Flags().Changed("tick-rate") {
		cfg.Server.TickRate = flagTickRate
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = flagLogFile
	}
	if cmd.Flags().Changed("static") {
		cfg.Server.StaticDir = flagStatic
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := server.InitLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer server.SyncLogger()

	lvl, err := game.LoadLevel(cfg.Level)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	world := game.NewWorld(lvl)
	room := server.NewRoom(lvl.Name, world, server.NewRegistry(), server.RoomConfig{
		TickRate:    cfg.Server.TickRate,
		InputBuffer: cfg.Server.InputBuffer,
		Logger:      log,
	})
	loopDone := room.StartTicker(ctx)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.NewServer(ctx, room, cfg.Server, log).Routes(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("platformer listening on %s (level %s, %d ticks/s)", cfg.Server.Addr, lvl.Name, room.TickRate())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down...")
	case err := <-serveErr:
		if err != nil {
			stop()
			<-loopDone
			return fmt.Errorf("listen: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("http shutdown", "error", err)
	}
	<-loopDone
	return nil
}
