package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/poshtyar/internal/client/cli"
	"github.com/dmitrijs2005/poshtyar/internal/client/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}
