package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/alaminrifat/house-hunter-server/startup"
	"github.com/alaminrifat/house-hunter-server/startup/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()
}
