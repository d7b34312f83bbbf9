package main

import (
	"log"

	"digistore/internal/pkg/config"
	"digistore/internal/pkg/seed"
	"digistore/pkg/database"
	"digistore/pkg/logger"
)

func main() {
	config.LoadConfig()
	logger.Init(config.GlobalConfig.Server.Mode)
	defer logger.Sync()

	db := database.InitDatabase()

	if err := seed.Run(db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seed successful")
}
