package main

import (
	"context"
	"errors"
	"log"

	"taskmanager/internal/config"
	"taskmanager/internal/db"
	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"

	flag "github.com/spf13/pflag"
)

// Creates a user for local testing, or logs in if the email is taken, and
// prints a bearer token for it.
func main() {
	name := flag.String("name", "Test User", "display name")
	email := flag.String("email", "test@example.com", "login email")
	password := flag.String("password", "password123", "login password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger.Init(cfg.LogLevel, false)
	defer logger.Sync()
	service.InitJWT(cfg.JWTSecret, cfg.JWTTTL)

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	audit := service.NewAuditService(repository.NewAuditRepository(pool))
	auth := service.NewAuthService(repository.NewUserRepository(pool), service.NewRedisRevoker(nil), audit)
	ctx := context.Background()

	res, err := auth.Register(ctx, *name, *email, *password)
	if errors.Is(err, domain.ErrEmailTaken) {
		log.Printf("user %s already exists, logging in", *email)
		res, err = auth.Login(ctx, *email, *password)
	}
	if err != nil {
		log.Fatalf("create user failed: %v", err)
	}

	log.Printf("user id=%d name=%s email=%s created_at=%v\n", res.User.ID, res.User.Name, res.User.Email, res.User.CreatedAt)
	log.Printf("token=%s\n", res.Token)
}
