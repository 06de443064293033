/*
 * Copyright 2025 Big Yellow Jacket Security.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// The dashboard binary serves the WebSocket feed behind the Big Yellow
// Jacket frontend: state snapshots, metric ticks, alerts, and the session
// signal that drives preference clearing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/auth"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/config"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/faker"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/feed"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/kv"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/logger"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/prefs"
)

const (
	defaultConfigPath = "/etc/bigyellowjacket/dashboard.json"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second

	// Simulation defaults when the config leaves the knobs unset.
	defaultSimConnections = 24
	defaultSimAlerts      = 6
	defaultSimBlockedIPs  = 4

	// simConnectionChurn refreshes the simulated connection table;
	// every simAlertEvery-th refresh also raises a fresh alert.
	simConnectionChurn = 10 * time.Second
	simAlertEvery      = 3
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "Path to dashboard config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cfg models.DashboardConfig
	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	baseLogger, err := logger.New(ctx, cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defer func() {
		if err := logger.Shutdown(); err != nil {
			baseLogger.Error().Err(err).Msg("Error shutting down logger")
		}
	}()

	mainLogger := logger.Component(baseLogger, "dashboard")

	store, err := kv.Open(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	defer func() {
		if err := store.Close(); err != nil {
			mainLogger.Warn().Err(err).Msg("Error closing storage")
		}
	}()

	var prefsOpts []prefs.Option
	if cfg.Storage.Key != "" {
		prefsOpts = append(prefsOpts, prefs.WithKey(cfg.Storage.Key))
	}

	prefsStore := prefs.NewStore(store, logger.Component(baseLogger, "prefs"), prefsOpts...)
	sessions := auth.NewSessions(cfg.Auth, logger.Component(baseLogger, "auth"))

	// The session watcher blanks last-viewed stamps once per logout edge.
	watcher := prefs.NewSessionWatcher(prefsStore, logger.Component(baseLogger, "prefs"))

	sessionUpdates, unsubscribe := sessions.Subscribe()
	defer unsubscribe()

	go watcher.Run(ctx, sessionUpdates)

	srv := feed.NewServer(&cfg, sessions, logger.Component(baseLogger, "feed"))
	defer srv.Close()

	go srv.Run(ctx)

	if cfg.Simulation != nil && cfg.Simulation.Enabled {
		go runSimulation(ctx, cfg.Simulation, srv, mainLogger)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", srv)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	mainLogger.Info().
		Str("addr", cfg.ListenAddr).
		Str("backend", string(cfg.Storage.Backend)).
		Msg("Dashboard feed listening")

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	mainLogger.Info().Msg("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	srv.Close()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// runSimulation seeds the feed with generated traffic and keeps it moving
// so the dashboard can be exercised without a live probe.
func runSimulation(ctx context.Context, sim *models.SimulationConfig, srv *feed.Server, log logger.Logger) {
	seed := sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	connections := sim.Connections
	if connections <= 0 {
		connections = defaultSimConnections
	}

	alerts := sim.Alerts
	if alerts <= 0 {
		alerts = defaultSimAlerts
	}

	log.Info().
		Int64("seed", seed).
		Int("connections", connections).
		Int("alerts", alerts).
		Msg("Simulation enabled, seeding sample data")

	gen := faker.New(seed)

	srv.SetBlockedIPs(gen.BlockedIPs(defaultSimBlockedIPs))
	srv.UpdateConnections(gen.Connections(connections))

	for _, alert := range gen.Alerts(alerts) {
		srv.AddAlert(alert)
	}

	ticker := time.NewTicker(simConnectionChurn)
	defer ticker.Stop()

	for tick := 1; ; tick++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			srv.UpdateConnections(gen.Connections(connections))

			if tick%simAlertEvery == 0 {
				srv.AddAlert(gen.Alert())
			}
		}
	}
}
