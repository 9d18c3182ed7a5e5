// Package main starts the wallet ledger API server.
package main

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/payflux/payflux/cmd/httpserver"
	"github.com/payflux/payflux/internal/middleware"
	"github.com/payflux/payflux/pkg/configpkg"
	"github.com/payflux/payflux/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	var cache *redis.Client
	if config.RedisAddress != "" {
		cache = redis.NewClient(&redis.Options{Addr: config.RedisAddress})
	}

	server, err := httpserver.New(db, cache, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("WALLET LEDGER API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
