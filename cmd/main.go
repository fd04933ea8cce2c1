package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"projectpulse/backend/internal/api/handler"
	"projectpulse/backend/internal/assignment"
	"projectpulse/backend/internal/blob"
	"projectpulse/backend/internal/config"
	"projectpulse/backend/internal/dashboard"
	"projectpulse/backend/internal/mailer"
	"projectpulse/backend/internal/models"
	"projectpulse/backend/internal/notify"
	"projectpulse/backend/internal/push"
	"projectpulse/backend/internal/storage"
	"projectpulse/backend/internal/workflow"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.ComplaintHistory{},
		&models.Response{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting ProjectPulse Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	uploads, err := blob.NewLocalStore(cfg.UploadDir, "/uploads")
	if err != nil {
		log.Fatalf("Failed to init upload store: %v", err)
	}

	var mail mailer.Gateway = mailer.LogGateway{}
	if cfg.SMTPAddr != "" {
		mail = mailer.NewSMTPGateway(cfg.SMTPAddr, cfg.SMTPFrom)
	}

	publisher := notify.NewPublisher(s)

	engine := workflow.NewService(s)
	engine.Push = publisher
	engine.Mail = mail
	engine.Blob = uploads

	assigner := assignment.NewService(s)
	assigner.Push = publisher
	assigner.Mail = mail

	aggregator := dashboard.NewAggregator(s)

	hub := push.NewHub(s)
	go hub.Run()

	r := gin.Default()
	r.Static("/uploads", cfg.UploadDir)

	h := handler.NewHandler(engine, assigner, aggregator, hub, s, []byte(cfg.JWTSecret))
	h.Register(r)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
