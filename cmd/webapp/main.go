// Copyright 2025 WebApp Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webapp/platform/host"
	"webapp/platform/shared/logger"
)

func main() {
	log := logger.New("webapp")

	cfg, err := host.LoadConfig()
	if err != nil {
		log.Error("configuration failed", err, nil)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A restart request behaves like a shutdown signal. The process
	// exits cleanly and the supervisor starts it again, which is when
	// configuration changes take effect.
	restart := func() {
		log.Info("restart requested, shutting down", nil)
		stop()
	}

	reg := host.NewServiceRegistry()
	app := host.NewAppBuilder()
	orchestrator := host.NewOrchestrator(log, host.DefaultActions(cfg, restart, log)...)
	if err := orchestrator.Run(ctx, reg, app); err != nil {
		log.Error("startup failed", err, nil)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Build(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", map[string]interface{}{
			"port":    cfg.Port,
			"service": cfg.ServiceName,
			"version": host.Version,
		})
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		log.Error("server failed", err, nil)
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incomplete", err, nil)
		os.Exit(1)
	}

	if conn := reg.DB(); conn != nil {
		_ = conn.Close()
	}
	log.Info("stopped", nil)
}
