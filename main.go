package main

import (
	"github.com/apex/log"
	"github.com/dhruv304c2/gemini-gateway/service"
	"github.com/dhruv304c2/gemini-gateway/service/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Info("Starting the gemini gateway...")
	if err := service.Start(cfg); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
