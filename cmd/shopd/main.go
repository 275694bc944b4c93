package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tiprecycle/shopd/config"
	"github.com/tiprecycle/shopd/internal/adminapi"
	"github.com/tiprecycle/shopd/internal/app"
	"github.com/tiprecycle/shopd/internal/webserver"
	"github.com/tiprecycle/shopd/pkg/common"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "/etc/shopd.yml", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
)

func printHelp() {
	if *h {
		fmt.Fprintln(os.Stderr, "Usage: shopd [options]\nOptions:")
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()
	printHelp()

	if !common.FileExists(*conffile) {
		fmt.Fprintf(os.Stderr, "config file %s not found, using defaults\n", *conffile)
	}
	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	if *initdb {
		application.DropAll()
		if err := application.MigrateDB(); err != nil {
			zap.S().Fatalf("migration failed: %v", err)
		}
		zap.S().Info("database recreated")
		return
	}

	ws := webserver.Init(application)
	adminapi.InitRouter()

	errCh := make(chan error, 1)
	go func() {
		if err := ws.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zap.S().Errorf("web server error: %v", err)
	case sig := <-sigCh:
		zap.S().Infof("received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ws.Stop(ctx); err != nil {
		zap.S().Errorf("shutdown error: %v", err)
	}
}
