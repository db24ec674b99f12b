package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-cms-api/internal/core/auth"
	"go-cms-api/internal/core/cache"
	"go-cms-api/internal/core/config"
	"go-cms-api/internal/core/database"
	"go-cms-api/internal/core/logger"
	"go-cms-api/internal/core/server"
	"go-cms-api/internal/domain"
	"go-cms-api/internal/repo"
	"go-cms-api/internal/service"
	"go-cms-api/internal/transport/http/handler"
	"go-cms-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := autoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	revoked := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	userRepo := repo.NewUserRepo(db)
	articleRepo := repo.NewArticleRepo(db)
	categoryRepo := repo.NewCategoryRepo(db)
	commentRepo := repo.NewCommentRepo(db)

	userSvc := service.NewUserService(userRepo, articleRepo, log)
	articleSvc := service.NewArticleService(articleRepo, log)
	categorySvc := service.NewCategoryService(categoryRepo, revoked, log)
	commentSvc := service.NewCommentService(commentRepo, articleRepo, log)

	r := router.NewAPIEngine(router.APIDeps{
		Log:        log,
		JWTer:      jwter,
		Revoked:    revoked,
		Auth:       handler.NewAuthHandler(userSvc, jwter, revoked, log),
		Users:      handler.NewUserHandler(userSvc),
		Articles:   handler.NewArticleHandler(articleSvc),
		Categories: handler.NewCategoryHandler(categorySvc),
		Comments:   handler.NewCommentHandler(commentSvc),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("cms api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("cms api start FAILED", zap.Error(err))
		}
	}()
	log.Info("cms api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("cms api stopped gracefully")
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Article{},
		&domain.ArticleCategory{},
		&domain.Category{},
		&domain.Comment{},
	)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
