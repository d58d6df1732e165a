package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vvnva/chat-relay/internal/server"
)

func main() {
	log.Println("Starting chat relay...")

	config := server.NewConfigFromEnv()
	server.SetConfig(config)

	hub := server.NewHub()
	httpServer := server.CreateServer(config.Port, server.SetupRoutes(hub))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.StartServer(httpServer)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	}

	if err := server.ShutdownServer(httpServer, config.ShutdownTimeout); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if err := hub.Shutdown(config.ShutdownTimeout); err != nil {
		log.Printf("Hub shutdown: %v", err)
		os.Exit(1)
	}
}
