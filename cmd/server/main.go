package main

import (
	"log"

	"anoa.com/pagebuilder/internal/bootstrap"
	"anoa.com/pagebuilder/internal/config"
	"anoa.com/pagebuilder/internal/server"
	"anoa.com/pagebuilder/pkg/database"
	"anoa.com/pagebuilder/pkg/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	store, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to prepare upload dir: %v", err)
	}

	srv := server.New(cfg, db, redisClient, store)
	log.Printf("listening on :%s", cfg.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
