package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schemahub-server/configs"
	httpEngine "schemahub-server/internal/app/http"
	"schemahub-server/internal/repositories"
	"schemahub-server/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "", "Path to config file (short)")
	flag.StringVar(&configPath, "config", "", "Path to config file (long)")
	flag.Parse()

	if err := configs.Init(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logConfig := logger.Config{
		Level:  configs.Configs.Logs.LogLevel,
		Format: "json",
	}
	if configs.Configs.Logs.StdoutOnly {
		logConfig.Output = "stdout"
	} else {
		logConfig.Output = "file"
		logConfig.FilePath = configs.Configs.Logs.LogPath
	}

	log, err := logger.NewZapLogger(logConfig)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("Configuration loaded.",
		zap.String("configPath", configPath),
		zap.String("service", configs.Configs.Service.ServiceName),
	)

	repositories.Init(log)

	httpServer := httpEngine.NewServer(log)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server shutdown gracefully")
	}

	repositories.Close(ctx, log)

	log.Info("Server exited")
}
