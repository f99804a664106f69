package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/xtding233/grf-resolver/internal/grfconf"
	"github.com/xtding233/grf-resolver/internal/profile"
	"github.com/xtding233/grf-resolver/internal/rpc"
)

func main() {
	var (
		addr      string
		configDir string
		preload   string
		interval  time.Duration
		verbose   bool
	)
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&configDir, "config", "config", "base directory holding grfs/*.yaml")
	flag.StringVar(&preload, "grf", "", "comma separated definitions to load and watch at startup")
	flag.DurationVar(&interval, "interval", 2*time.Second, "hot reload poll interval, 0 disables")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	logger, err := zap.NewProduction()
	if verbose {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store := grfconf.NewStore(grfconf.NewLoader(configDir), logger)
	var names []string
	for _, n := range strings.Split(preload, ",") {
		if n = strings.TrimSpace(n); n == "" {
			continue
		}
		if _, err := store.Definition(n); err != nil {
			log.Fatalf("load %s: %v", n, err)
		}
		names = append(names, n)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if interval > 0 {
		if _, err := store.Watch(ctx, names, interval); err != nil {
			log.Fatal(err)
		}
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	srv := grpc.NewServer()
	rpc.Register(srv, rpc.NewService(store, profile.NewRegistry(logger), logger))

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		srv.GracefulStop()
	}()

	logger.Info("listening", zap.String("addr", lis.Addr().String()), zap.Strings("grfs", names))
	if err := srv.Serve(lis); err != nil {
		log.Fatal(err)
	}
}
