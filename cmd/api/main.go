package main

import (
	"os"

	"github.com/yigit/taxiservice/internal/bootstrap"
	"github.com/yigit/taxiservice/internal/pkg/logger"
	"github.com/yigit/taxiservice/internal/server"
)

func main() {
	srv, err := server.NewServer(bootstrap.ConfigPath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
