package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/notification_service/startup"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/notification_service/startup/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()
}
