// Package main imports venue monster data and encounter files into postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cory-johannsen/colosseum/internal/config"
	"github.com/cory-johannsen/colosseum/internal/game/venue"
	"github.com/cory-johannsen/colosseum/internal/importer"
	"github.com/cory-johannsen/colosseum/internal/simserver"
	"github.com/cory-johannsen/colosseum/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	sourceDir := flag.String("source", "", "content directory holding monsterdata/ and encounters/ (default: catalog.content_dir)")
	venuesFile := flag.String("venues", "", "venue table YAML (default: catalog.venues_file, else built-in)")
	simAddr := flag.String("simserver", "", "running simulator gRPC address to reload imported venues on; empty skips")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("loading config: %v", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		fail("database config: %v", err)
	}

	dir := *sourceDir
	if dir == "" {
		dir = cfg.Catalog.ContentDir
	}
	tablePath := *venuesFile
	if tablePath == "" {
		tablePath = cfg.Catalog.VenuesFile
	}
	table := venue.DefaultTable()
	if tablePath != "" {
		if table, err = venue.LoadTable(tablePath); err != nil {
			fail("loading venues: %v", err)
		}
	}

	ctx := context.Background()
	start := time.Now()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		fail("connecting to database: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewCatalogRepository(pool.DB())
	imp := importer.New(table, venue.NewDirSource(dir), repo, os.Stdout)
	sum, err := imp.Run(ctx)
	if err != nil {
		fail("error: %v", err)
	}
	fmt.Printf("import complete: %d venues imported, %d skipped in %s\n",
		len(sum.Imported), len(sum.Skipped), time.Since(start).Round(time.Millisecond))

	stored, err := repo.ListVenueSlugs(ctx)
	if err != nil {
		fail("listing stored venues: %v", err)
	}
	fmt.Printf("stored   %s\n", strings.Join(stored, ", "))

	if *simAddr != "" {
		if err := reload(ctx, *simAddr, sum.Imported); err != nil {
			fail("reloading simulator: %v", err)
		}
	}
}

// reload asks a running simulator to drop and reload each imported venue.
func reload(ctx context.Context, addr string, venues []string) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()
	client := simserver.NewClient(conn)

	for _, name := range venues {
		callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		resp, err := client.ReloadVenue(callCtx, &simserver.VenueRequest{Venue: name})
		cancel()
		if err != nil {
			return fmt.Errorf("%q: %w", name, err)
		}
		fmt.Printf("reloaded %s  (%d monsters, %d encounters)\n", resp.Venue.Name, resp.Monsters, resp.Encounters)
	}
	return nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
