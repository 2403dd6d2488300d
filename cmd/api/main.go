package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hrsys.org/internal/auth"
	"hrsys.org/internal/config"
	"hrsys.org/internal/hr"
	"hrsys.org/internal/httpapi"
	"hrsys.org/internal/obs"
	"hrsys.org/internal/store/pg"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	tokens, err := auth.NewTokens(cfg.SecretKey, auth.WithTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	// Without a DSN only the health endpoints serve; /readyz stays green.
	var (
		store   *pg.Store
		authSvc *auth.Service
		hrSvc   *hr.Service
		probe   httpapi.ReadyProbe
	)
	if cfg.PGDSN != "" {
		store, err = pg.Open(cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		probe = httpapi.ReadyProbe{DB: store.DB()}

		authSvc, err = auth.NewService(store, tokens)
		if err != nil {
			log.Fatalf("auth service: %v", err)
		}
		hrSvc, err = hr.NewService(store)
		if err != nil {
			log.Fatalf("hr service: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := authSvc.EnsureSuperuser(ctx, cfg.FirstSuperuser, cfg.FirstSuperuserPassword); err != nil {
			log.Fatalf("ensure superuser: %v", err)
		}
		cancel()
	}

	api := httpapi.New(authSvc, hrSvc, probe, version)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting hrsys-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		obs.LogError("server shutdown", err)
	}
	if store != nil {
		_ = store.Close()
	}
	log.Println("Stopped")
}
