package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"pixel-poll-service/internal/app"
	"pixel-poll-service/internal/config"
	"pixel-poll-service/internal/infra/memory"
	pgloader "pixel-poll-service/internal/infra/postgres"
	redisstore "pixel-poll-service/internal/infra/redis"
	transport "pixel-poll-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the poll server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "3000"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 12*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	configured, err := cfg.PresetQuestions()
	if err != nil {
		return err
	}
	var loader memory.PresetLoader = memory.NewStaticPresetLoader(configured)
	if pool != nil {
		loader = pgloader.NewPresetLoader(pool)
	}

	presetTTL := config.TTLDuration(cfg.Presets.TTL, 10*time.Minute)
	var presets app.PresetRepository
	if redisClient != nil {
		presets = redisstore.NewPresetRepository(redisClient, loader, presetTTL)
	} else {
		presets = memory.NewPresetRepository(loader, presetTTL)
	}

	var rooms app.RoomRepository
	if redisClient != nil {
		rooms = redisstore.NewRoomStore(redisClient, redisTTL)
	} else {
		rooms = memory.NewRoomStore()
	}
	service := app.NewRoomService(rooms, presets)
	hub := transport.NewHub()

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           transport.NewRouter(service, hub, cfg.CORS.AllowedOrigins),
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting pixel poll service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
