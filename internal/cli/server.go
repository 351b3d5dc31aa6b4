package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Croissanton/Quiziosity/internal/app"
	"github.com/Croissanton/Quiziosity/internal/config"
	"github.com/Croissanton/Quiziosity/internal/infra/memory"
	pgstore "github.com/Croissanton/Quiziosity/internal/infra/postgres"
	redisinfra "github.com/Croissanton/Quiziosity/internal/infra/redis"
	"github.com/Croissanton/Quiziosity/internal/infra/trivia"
	transport "github.com/Croissanton/Quiziosity/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
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
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	loader := trivia.NewClient(cfg.Trivia.BaseURL)
	triviaTTL := config.TTLDuration(cfg.Trivia.TTL, 10*time.Minute)

	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisinfra.NewQuestionCache(redisClient, loader, triviaTTL)
	} else {
		questions = memory.NewQuestionCache(loader, triviaTTL)
	}

	var users app.UserStore
	switch {
	case pool != nil:
		users = pgstore.NewUserStore(pool)
	case redisClient != nil:
		users = redisinfra.NewUserStore(redisClient)
	default:
		users = memory.NewUserStore()
	}

	service := app.NewGameService(memory.NewSessionStore(), questions, users, cfg.GameRules())
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/leaderboard", transport.NewLeaderboardHandler(service))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiziosity on :%s", finalPort)
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
