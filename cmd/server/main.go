package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-feed-api/internal/config"
	"github.com/iliyamo/social-feed-api/internal/database"
	"github.com/iliyamo/social-feed-api/internal/handler"
	"github.com/iliyamo/social-feed-api/internal/middleware"
	"github.com/iliyamo/social-feed-api/internal/queue"
	"github.com/iliyamo/social-feed-api/internal/repository"
	"github.com/iliyamo/social-feed-api/internal/router"
	"github.com/iliyamo/social-feed-api/internal/storage"
	"github.com/iliyamo/social-feed-api/internal/validation"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environments set vars directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)

	images, err := storage.NewImageStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}
	if images == nil {
		log.Printf("object storage not configured; image uploads disabled")
	}

	// Rate limiting degrades to a pass-through when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartActivityConsumer(cfg.AMQPURL); err != nil {
				log.Printf("activity consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("message broker not configured; activity events disabled")
	}

	e := echo.New()
	e.Validator = validation.New()
	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Users:     handler.NewUserHandler(users, tokens),
		Posts:     handler.NewPostHandler(posts, images, cfg.AMQPURL),
		Comments:  handler.NewCommentHandler(comments),
		UserRepo:  users,
		TokenRepo: tokens,
		RateLimit: rateLimit,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
