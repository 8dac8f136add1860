// Package main runs one turn-order calculation from a roster file and prints
// the result. With -server it asks a running simulator instead of computing
// locally.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cory-johannsen/colosseum/internal/config"
	"github.com/cory-johannsen/colosseum/internal/game/encounter"
	"github.com/cory-johannsen/colosseum/internal/game/roster"
	"github.com/cory-johannsen/colosseum/internal/game/turnorder"
	"github.com/cory-johannsen/colosseum/internal/game/venue"
	"github.com/cory-johannsen/colosseum/internal/observability"
	"github.com/cory-johannsen/colosseum/internal/simserver"
)

func main() {
	rosterPath := flag.String("roster", "", "path to roster YAML file")
	rounds := flag.Int("rounds", -1, "rounds to simulate (default: the roster file's rounds)")
	contentDir := flag.String("content", "content", "content directory for venue encounters")
	venuesFile := flag.String("venues", "", "venue table YAML (default: built-in)")
	serverAddr := flag.String("server", "", "simulator gRPC address; empty computes locally")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	if *rosterPath == "" {
		fmt.Fprintln(os.Stderr, "usage: turnsim -roster <file> [-rounds N] [-content <dir>] [-server host:port]")
		os.Exit(1)
	}

	logger, err := observability.NewLogger(config.LoggingConfig{Level: *logLevel, Format: "console"}, "turnsim")
	if err != nil {
		fail("initializing logger: %v", err)
	}
	defer logger.Sync()

	file, err := roster.LoadFile(*rosterPath)
	if err != nil {
		fail("%v", err)
	}
	if *rounds >= 0 {
		file.Rounds = *rounds
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *serverAddr != "" {
		err = runRemote(ctx, *serverAddr, file, os.Stdout)
	} else {
		err = runLocal(ctx, logger, *contentDir, *venuesFile, file, os.Stdout)
	}
	if err != nil {
		fail("%v", err)
	}
}

func runLocal(ctx context.Context, logger *zap.Logger, contentDir, venuesFile string, file *roster.File, out io.Writer) error {
	r := roster.New(logger)
	file.Populate(r)

	if len(file.Encounter) > 0 {
		table := venue.DefaultTable()
		if venuesFile != "" {
			var err error
			if table, err = venue.LoadTable(venuesFile); err != nil {
				return err
			}
		}
		mgr := venue.NewManager(table, venue.NewDirSource(contentDir), logger)
		cat, err := mgr.Catalog(ctx, file.Venue)
		if err != nil {
			return err
		}
		report, err := r.CommitEncounter(cat, encounter.Selection(file.Encounter))
		if err != nil {
			return err
		}
		for _, sk := range report.Skipped {
			fmt.Fprintf(out, "warning: %v\n", sk)
		}
	}

	res, err := r.Calculate(turnorder.NewScheduler(logger, turnorder.MaxRounds), file.Rounds)
	if err != nil {
		return err
	}
	events := make([]simserver.TurnEvent, len(res.Events))
	for i, ev := range res.Events {
		events[i] = simserver.TurnEvent{Round: ev.Round, Name: ev.Name, Category: ev.Category.String(), Ambush: ev.Ambush}
	}
	printTurns(out, events, res.TurnCost)
	return nil
}

func runRemote(ctx context.Context, addr string, file *roster.File, out io.Writer) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()
	client := simserver.NewClient(conn)

	req := &simserver.CalculateRequest{Rounds: file.Rounds}
	for _, d := range file.Dragons {
		req.Dragons = append(req.Dragons, simserver.Combatant{Name: d.Name, Quickness: d.Quickness, Ambush: d.Ambush})
	}
	for _, m := range file.Monsters {
		req.Monsters = append(req.Monsters, simserver.Combatant{Name: m.Name, Quickness: m.Quickness})
	}

	if len(file.Encounter) > 0 {
		committed, err := client.CommitEncounter(ctx, &simserver.SelectionRequest{Venue: file.Venue, Selection: file.Encounter})
		if err != nil {
			return fmt.Errorf("committing encounter: %w", err)
		}
		for _, name := range committed.Skipped {
			fmt.Fprintf(out, "warning: could not find data for %q in venue %q\n", name, file.Venue)
		}
		req.Monsters = committed.Monsters
	}

	resp, err := client.CalculateTurns(ctx, req)
	if err != nil {
		return fmt.Errorf("calculating turns: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("%s", resp.Error)
	}
	printTurns(out, resp.Events, resp.TurnCost)
	return nil
}

func printTurns(out io.Writer, events []simserver.TurnEvent, turnCost int) {
	fmt.Fprintf(out, "turn cost %d, %d turns\n", turnCost, len(events))
	for i, ev := range events {
		label := fmt.Sprintf("round %d", ev.Round)
		if ev.Ambush {
			label = "ambush"
		}
		fmt.Fprintf(out, "%3d. %-8s %-7s %s\n", i+1, label, ev.Category, ev.Name)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
