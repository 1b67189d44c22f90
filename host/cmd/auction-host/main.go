// Command auction-host runs the lot auction simulation behind an HTTP API.
//
// The host embeds the auction engine, drives its round timers, and exposes
// commands, snapshot queries, a treemap layout of the catalog, and a
// websocket stream of binary CBOR state frames.
//
// # Configuration File
//
// Create a YAML file with host settings:
//
//	listen_addr: ":8080"
//	auction:
//	  round_duration: 30s
//	  freeze_duration: 5s
//	  lots_per_round: 3
//	lots:
//	  - id: lot-1
//	    label: Tesla
//	    floor_price: 100
//	accounts:
//	  - id: acc-1
//	    name: Alice
//	    balance: 1000
//	layout:
//	  width: 800
//	  height: 400
//	  padding: 2
//
// # Endpoints
//
//   - GET /catalog - Lot catalog snapshot (?account=, ?sort=price)
//   - GET /account - Viewing account balance/exposure (?account=)
//   - GET /time - Milliseconds to the next phase boundary
//   - GET /layout - Treemap rectangles for the catalog (?width=, ?height=)
//   - GET /ws - Websocket state stream (binary CBOR frames)
//   - POST /account/{id}/select - Switch the viewing account
//   - POST /lots/{id}/bid - Place a bid {"amount": N}
//   - DELETE /lots/{id}/bid - Withdraw a bid
//
// # Usage
//
//	go run ./host/cmd/auction-host --config=host.yaml
//	go run ./host/cmd/auction-host --addr=:8080 --round=30s --freeze=5s
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decred/slog"

	"github.com/cloudx-io/lotauction/engine"
	"github.com/cloudx-io/lotauction/host"
)

func main() {
	var (
		configPath     = flag.String("config", "", "Path to YAML config file")
		addr           = flag.String("addr", "", "HTTP listen address")
		roundDuration  = flag.Duration("round", 0, "Round duration")
		freezeDuration = flag.Duration("freeze", 0, "Freeze duration between rounds")
		lotsPerRound   = flag.Int("lots-per-round", 0, "Number of lots drawn each round")
		debug          = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := loadConfiguration(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	applyFlagOverrides(cfg, *addr, *roundDuration, *freezeDuration, *lotsPerRound, *debug)

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfiguration(configPath string) (*host.Config, error) {
	if configPath != "" {
		return host.LoadConfig(configPath)
	}
	return host.DefaultConfig(), nil
}

func applyFlagOverrides(cfg *host.Config, addr string, roundDuration, freezeDuration time.Duration,
	lotsPerRound int, debug bool) {

	if addr != "" {
		cfg.ListenAddr = addr
	}
	if roundDuration > 0 {
		cfg.Auction.RoundDuration = host.Duration(roundDuration)
	}
	if freezeDuration > 0 {
		cfg.Auction.FreezeDuration = host.Duration(freezeDuration)
	}
	if lotsPerRound > 0 {
		cfg.Auction.LotsPerRound = lotsPerRound
	}
	if debug {
		cfg.Debug = true
	}
}

func run(cfg *host.Config) error {
	backend := slog.NewBackend(os.Stdout)

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	engineLog := backend.Logger("ENGN")
	engineLog.SetLevel(level)
	engine.UseLogger(engineLog)

	hostLog := backend.Logger("HOST")
	hostLog.SetLevel(level)
	host.UseLogger(hostLog)

	eng, err := engine.New(cfg.EngineConfig())
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		hostLog.Infof("shutdown requested")
		cancel()
	}()

	eng.Start()
	defer eng.Stop()

	return host.NewServer(eng, cfg).Run(ctx)
}
