package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/engine"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/room"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/transport/tcp"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	resultRepo, err := initArchive(ctx, log, conf)
	if err != nil {
		return err
	}

	directory := room.NewDirectory(logger, conf.Room.WriteGap())
	relay := room.NewRelay(logger, conf.Room.WriteGap())

	turnEngine := engine.New(logger, relay, directory, resultRepo, engine.Options{
		PollInterval: conf.Room.PollInterval(),
		DrainDelay:   conf.Room.DrainDelay(),
	})

	// exactly one engine per room, started on the second player joining
	directory.SetOnReady(func(r *room.Room) {
		go turnEngine.Run(r)
	})

	// reap rooms that never filled up (spectator-only or abandoned)
	go runReaper(ctx, directory, conf.Room.ReapInterval(), conf.Room.IdleTTL())

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort, directory); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run game server
	tcpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting game server", "port", conf.TCPPort)
		gameServer := tcp.New(logger, directory)
		if tcpErr := gameServer.Start(ctx, conf.TCPPort); tcpErr != nil {
			log.Error("game server error", "error", tcpErr)
			tcpErrCh <- tcpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-tcpErrCh:
		return fmt.Errorf("game server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// initArchive wires the finished-game archive; without a configured redis
// the archive is a no-op and games are memory-only.
func initArchive(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.ResultRepository, error) {
	redisAddr := conf.Redis.GetRedisAddr()
	if redisAddr == "" {
		log.Info("redis not configured, game archive disabled")
		return repository.NewNoopResultRepository(), nil
	}

	redisStorage, err := storage.New(ctx, redisAddr)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	go func() {
		<-ctx.Done()
		if closeErr := redisStorage.Close(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}()

	return repository.NewResultRepository(redisStorage.Connection), nil
}

func runReaper(ctx context.Context, directory *room.Directory, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			directory.Reap(ttl)
		}
	}
}
