package main

import (
	"context"
	"log"

	"contract-review-fe/internal/bootstrap"
	"contract-review-fe/internal/config"
	"contract-review-fe/internal/server"
	"contract-review-fe/internal/tracer"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)

	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		log.Fatalf("Failed to start notification consumer: %v", err)
	}

	srv := server.New(cfg, container)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
