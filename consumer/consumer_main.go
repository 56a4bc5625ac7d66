package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/consumer/worker"
	infraPkg "github.com/tnqbao/gau-image-labeler/infra"
	"github.com/tnqbao/gau-image-labeler/labeling"
	"github.com/tnqbao/gau-image-labeler/repository"
)

func main() {
	err := godotenv.Load("../staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg, infraPkg.RoleConsumer)
	repo := repository.InitRepository(infra, cfg)

	// Initialize context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipeline := labeling.NewPipeline(cfg.Label, infra.ObjectReader(), infra.Vision, repo.LabelRepo, infra.Logger)

	labelConsumer := worker.NewLabelConsumer(infra.RabbitMQ.Channel, infra, pipeline, cfg.Label, cfg.EnvConfig.RabbitMQ.Workers)
	if err := labelConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Label consumer: %v", err)
		log.Fatalf("Failed to start Label consumer: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()
	labelConsumer.Wait()

	infra.Close(context.Background())
	log.Println("Consumer exited properly")
}
