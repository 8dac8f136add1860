// Package main provides the turn simulator server binary, serving the
// TurnService gRPC API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/colosseum/internal/config"
	"github.com/cory-johannsen/colosseum/internal/game/turnorder"
	"github.com/cory-johannsen/colosseum/internal/game/venue"
	"github.com/cory-johannsen/colosseum/internal/observability"
	"github.com/cory-johannsen/colosseum/internal/server"
	"github.com/cory-johannsen/colosseum/internal/simserver"
	"github.com/cory-johannsen/colosseum/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	healthInterval := flag.Duration("db-health", 30*time.Second, "database health check interval")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "simserver")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting turn simulator",
		zap.String("grpc_addr", cfg.Simulator.Addr()),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.Int("max_rounds", cfg.Simulator.MaxRounds),
	)

	table := venue.DefaultTable()
	if cfg.Catalog.VenuesFile != "" {
		table, err = venue.LoadTable(cfg.Catalog.VenuesFile)
		if err != nil {
			logger.Fatal("loading venue table", zap.Error(err))
		}
	}
	logger.Info("loaded venue table", zap.Int("venues", table.Len()))

	lifecycle := server.NewLifecycle(logger, server.DefaultShutdownTimeout)

	var source venue.Source
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		repo := postgres.NewCatalogRepository(pool.DB())
		stored, err := repo.ListVenueSlugs(ctx)
		if err != nil {
			logger.Fatal("listing stored venues", zap.Error(err))
		}
		logger.Info("postgres catalog ready", zap.Strings("venues", stored))
		source = repo

		stop := make(chan struct{})
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func() error {
				ticker := time.NewTicker(*healthInterval)
				defer ticker.Stop()
				for {
					select {
					case <-stop:
						return nil
					case <-ticker.C:
						if err := pool.Health(ctx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: func(context.Context) {
				close(stop)
				pool.Close()
			},
		})
	default:
		source = venue.NewDirSource(cfg.Catalog.ContentDir)
	}

	venues := venue.NewManager(table, source, logger)
	sched := turnorder.NewScheduler(logger, cfg.Simulator.MaxRounds)

	grpcServer := grpc.NewServer()
	simserver.RegisterTurnServiceServer(grpcServer, simserver.NewServer(venues, sched, logger))

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.Simulator.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.Simulator.Addr(), err)
			}
			logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
			return grpcServer.Serve(lis)
		},
		StopFn: func(ctx context.Context) {
			done := make(chan struct{})
			go func() {
				grpcServer.GracefulStop()
				close(done)
			}()
			select {
			case <-done:
			case <-ctx.Done():
				grpcServer.Stop()
			}
		},
	})

	logger.Info("turn simulator initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
