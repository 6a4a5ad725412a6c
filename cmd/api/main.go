package main

import (
	"flag"
	"log"

	"github.com/OliveCh12/assetsync-backend/internal/api"
	"github.com/OliveCh12/assetsync-backend/internal/config"
	"github.com/OliveCh12/assetsync-backend/internal/database"
)

const version = "0.1.0"

// initializeAPI loads the configuration, opens the database and wires the
// API. The returned database handle must be closed by the caller.
func initializeAPI(configPath string) (*api.Api, *database.DB, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	apiServer, err := api.NewApi(cfg, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return apiServer, db, nil
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting AssetSync API v%s with config: %s", version, *configPath)

	apiServer, db, err := initializeAPI(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	apiServer.Serve()
}
