package main

import (
	"context"
	"log"
	"os"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/buildinfo"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/cli"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
