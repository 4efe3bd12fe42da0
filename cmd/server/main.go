package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dooooncan/Stock-Trader/configs"
	"github.com/dooooncan/Stock-Trader/internal/handlers"
	"github.com/dooooncan/Stock-Trader/internal/logger"
	"github.com/dooooncan/Stock-Trader/internal/quote"
	"github.com/dooooncan/Stock-Trader/internal/routes"
	"github.com/dooooncan/Stock-Trader/internal/seed"
	"github.com/dooooncan/Stock-Trader/internal/service"
	"github.com/dooooncan/Stock-Trader/internal/store"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	_ = godotenv.Load()
	configs.LoadConfig()
	store.NewDB()
	store.DBMigrate()
	seed.Run()

	startingCash, err := decimal.NewFromString(configs.AppConfig.Trading.StartingCash)
	if err != nil {
		logger.Log.Fatal("invalid starting cash in config", zap.Error(err))
	}

	quotes := quote.NewClient(quote.Config{
		BaseURL: configs.AppConfig.Quote.BaseURL,
		APIKey:  configs.AppConfig.Quote.APIKey,
		Timeout: time.Duration(configs.AppConfig.Quote.TimeoutSeconds) * time.Second,
	})

	st := store.New(store.DB)
	svc := service.New(st, st, st, quotes, startingCash)
	router := routes.NewRoutes(handlers.New(svc))

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}

	sqlDB, err := store.DB.DB()
	if err != nil {
		logger.Log.Error("db close skipped, reason:", zap.Error(err))
	} else {
		sqlDB.Close()
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}
