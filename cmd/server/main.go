package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"healthai-backend/internal/agent"
	"healthai-backend/internal/article"
	"healthai-backend/internal/auth"
	"healthai-backend/internal/config"
	"healthai-backend/internal/diagnosis"
	"healthai-backend/internal/order"
	"healthai-backend/internal/platform/telegram"
	"healthai-backend/internal/product"
	"healthai-backend/internal/report"
	"healthai-backend/internal/request"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 1. Infrastructure
	var db *sql.DB
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", cfg.Database.URL)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			break
		}
		logger.Info("waiting for database", zap.Int("attempt", i+1))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		logger.Fatal("could not connect to database", zap.Error(err))
	}
	logger.Info("connected to database")

	m, err := migrate.New("file://"+cfg.Database.MigrationDir, cfg.Database.URL)
	if err != nil {
		logger.Fatal("migration init failed", zap.Error(err))
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Fatal("migration up failed", zap.Error(err))
	}
	logger.Info("migrations applied")

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// 2. Clients
	aiClient := agent.NewGeminiClient(cfg.Gemini)
	tgClient := telegram.NewClient(cfg.Telegram.BotToken)
	if !tgClient.Enabled() {
		logger.Warn("telegram bot token is not set, clinic notifications disabled")
	}

	// 3. Services
	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, cfg.JWT)
	authMW := auth.NewMiddleware(authSvc)
	authHandler := auth.NewHandler(authSvc)

	reportSvc := report.NewService(tgClient, cfg.Telegram.ClinicChatID)

	registry := request.NewRegistry()
	requestRepo := request.NewRepository(db, registry)
	requestSvc := request.NewService(requestRepo, registry, reportSvc, logger)
	requestHandler := request.NewHandler(requestSvc)

	articleRepo := article.NewRepository(db)
	articleSvc := article.NewService(articleRepo)
	articleHandler := article.NewHandler(articleSvc)

	productRepo := product.NewRepository(db)
	productSvc := product.NewService(productRepo)
	productHandler := product.NewHandler(productSvc)

	orderRepo := order.NewRepository(db)
	orderSvc := order.NewService(orderRepo)
	orderHandler := order.NewHandler(orderSvc)

	diagnosisSvc := diagnosis.NewService(aiClient, cache, logger)
	diagnosisHandler := diagnosis.NewHandler(diagnosisSvc)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
			if req.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Route("/api", func(r chi.Router) {
		auth.RegisterRoutes(r, authHandler, authMW)
		request.RegisterRoutes(r, requestHandler, authMW)
		article.RegisterRoutes(r, articleHandler, authMW)
		product.RegisterRoutes(r, productHandler, authMW)
		order.RegisterRoutes(r, orderHandler, authMW)
		diagnosis.RegisterRoutes(r, diagnosisHandler, authMW)
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("server starting", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
