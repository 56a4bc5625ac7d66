package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/http/controller"
	routes "github.com/tnqbao/gau-image-labeler/http/route"
	infraPkg "github.com/tnqbao/gau-image-labeler/infra"
	"github.com/tnqbao/gau-image-labeler/repository"
)

func main() {
	err := godotenv.Load("staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg, infraPkg.RoleHTTP)
	defer infra.Close(context.Background())
	repo := repository.InitRepository(infra, cfg)

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	addr := ":" + cfg.EnvConfig.Port
	log.Printf("HTTP Server started on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
