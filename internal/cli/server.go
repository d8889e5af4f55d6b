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
	"github.com/kitikazis/ELAC-Lectura/internal/app"
	"github.com/kitikazis/ELAC-Lectura/internal/config"
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
	"github.com/kitikazis/ELAC-Lectura/internal/infra/memory"
	pgstore "github.com/kitikazis/ELAC-Lectura/internal/infra/postgres"
	redisstore "github.com/kitikazis/ELAC-Lectura/internal/infra/redis"
	transport "github.com/kitikazis/ELAC-Lectura/internal/transport/http"
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

	categories, codes, closeStores, err := buildStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	roomTTL := config.Duration(cfg.Room.TTL, app.DefaultCodeTTL)
	manager := app.NewRoomCodeManager(codes, categories, roomTTL, cfg.Room.CheckCollisions)
	manager.OnExpire(func(code string) {
		log.Printf("room code %s expired", code)
	})
	defer manager.Stop()

	auth, err := buildAuthenticator(cfg)
	if err != nil {
		return err
	}
	admin := app.NewAdminService(categories, manager, auth)

	readingTime := config.Duration(cfg.Reading.Duration, app.DefaultReadingTime)
	handler := transport.NewHandler(admin, manager, readingTime)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting lectura service on :%s", finalPort)
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

// buildStores picks the deployment mode: postgres+redis when configured,
// the in-memory pair (with seed content) otherwise. The two are exclusive
// per deployment; the core only sees the store interfaces.
func buildStores(ctx context.Context, cfg config.Config) (app.CategoryStore, app.RoomCodeStore, func(), error) {
	cleanup := func() {}

	var categories app.CategoryStore
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup = pool.Close
		categories = pgstore.NewCategoryStore(pool)
	} else {
		categories = memory.NewCategoryStore(seedCategories()...)
	}

	if ttl := config.Duration(cfg.Cache.TTL, 0); ttl > 0 {
		categories = memory.NewCategoryCache(categories, ttl)
	}

	var codes app.RoomCodeStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		retention := config.Duration(cfg.Redis.Retention, redisstore.DefaultRetention)
		codes = redisstore.NewRoomCodeStore(client, retention)
	} else {
		codes = memory.NewRoomCodeStore()
	}

	return categories, codes, cleanup, nil
}

func buildAuthenticator(cfg config.Config) (app.Authenticator, error) {
	username := cfg.Admin.Username
	if username == "" {
		username = "Leonardo"
	}
	password := cfg.Admin.Password
	if password == "" {
		password = "0000001"
	}
	return app.NewStaticAuthenticator(username, password)
}

// seedCategories ships demo content for the standalone deployment, the way
// the local-storage mode bakes in default data.
func seedCategories() []domain.Category {
	return []domain.Category{
		{
			Key:         "biologia_basica",
			Name:        "Biología Básica",
			ReadingText: "Las células son la unidad básica de la vida. Todos los seres vivos están formados por una o más células.",
			Questions: []domain.Question{
				{
					Text:        "¿Cuál es la unidad básica de la vida?",
					Options:     []string{"El átomo", "La célula", "El tejido", "El órgano"},
					Correct:     1,
					Explanation: "La célula es la unidad estructural y funcional de todos los seres vivos.",
				},
			},
		},
	}
}
