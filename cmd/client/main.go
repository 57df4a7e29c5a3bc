// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-case-keeper/internal/adapter"
	"github.com/MKhiriev/go-case-keeper/internal/client"
	"github.com/MKhiriev/go-case-keeper/internal/config"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/service"
	"github.com/MKhiriev/go-case-keeper/internal/store"
	"github.com/MKhiriev/go-case-keeper/internal/tui"
	"github.com/MKhiriev/go-case-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	for _, line := range buildInfo.Lines() {
		fmt.Println(line)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	log := logger.NewClientLogger("go-case-keeper")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	adapters, err := adapter.NewClientAdapters(ctx, cfg.Adapter, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client adapters")
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	services := service.NewClientServices(adapters, cfg.App, log)
	session := service.NewSession(storages.SnapshotRepository)

	ui, err := tui.New(services, session, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, session, ui, log, adapters.Close, storages.Close)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	runErr := app.Run(ctx)
	if err = app.Close(); err != nil {
		log.Error().Err(err).Msg("close client resources")
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("client run error")
	}
}
