package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/babeltower/internal/ai"
	"github.com/udisondev/babeltower/internal/config"
	"github.com/udisondev/babeltower/internal/data"
	"github.com/udisondev/babeltower/internal/db"
	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/sim"
	"github.com/udisondev/babeltower/internal/spawn"
	"github.com/udisondev/babeltower/internal/vec"
)

const ConfigPath = "config/simhost.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("BABELTOWER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimhost(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// AI hot paths log only at debug
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("babeltower simhost starting",
		"config", cfgPath,
		"tick_rate", cfg.TickRate,
		"log_level", cfg.LogLevel)

	catalog, err := data.LoadCatalogFile(cfg.SkillCatalog)
	if err != nil {
		return fmt.Errorf("loading skill catalog: %w", err)
	}

	aiParams := cfg.AI
	simulation, err := sim.New(sim.Options{
		CellSize:    cfg.CellSize,
		CorpseDelay: cfg.CorpseDelay,
		AI:          &aiParams,
		Catalog:     catalog,
	})
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}
	simulation.Subscribe(event.LogListener(slog.Default()))

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		if err := startMetrics(gctx, g, cfg.Metrics.Address, simulation); err != nil {
			return err
		}
	}

	if cfg.NATS.Enabled {
		nc, err := event.ConnectNATS(cfg.NATS.URL, "babeltower-simhost")
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				slog.Warn("nats drain", "error", err)
			}
		}()
		simulation.Subscribe(event.NATSListener(nc, cfg.NATS.Source))
		slog.Info("nats event publishing enabled", "url", cfg.NATS.URL, "subject", event.SubjectPrefix+"*")
	}

	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		ledger := db.NewLedger(db.NewRewardRepository(database.Pool()))
		simulation.SetRewardFunc(ledger.RecordKill)

		g.Go(func() error {
			if err := ledger.Run(gctx, 5*time.Second); err != nil {
				return fmt.Errorf("reward ledger: %w", err)
			}
			return nil
		})
	}

	spawns := spawn.NewManager(simulation)
	simulation.Subscribe(spawns.Listener())
	if err := spawnEncounter(simulation, spawns, cfg.Encounter); err != nil {
		return fmt.Errorf("spawning encounter: %w", err)
	}

	g.Go(func() error {
		if err := spawns.Respawns().Run(gctx, time.Second); err != nil {
			return fmt.Errorf("respawn task manager: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := simulation.Run(gctx, cfg.TickInterval()); err != nil {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("simhost error: %w", err)
	}
	return nil
}

// startMetrics serves /metrics until ctx is canceled.
func startMetrics(ctx context.Context, g *errgroup.Group, addr string, simulation *sim.Simulation) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := event.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("registering combat metrics: %w", err)
	}
	simulation.Subscribe(metrics.Listener())

	if err := simulation.RegisterMetrics(reg); err != nil {
		return fmt.Errorf("registering simulation metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		slog.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return nil
}

// spawnEncounter places the configured players and fills the monster spawn points.
func spawnEncounter(simulation *sim.Simulation, spawns *spawn.Manager, enc config.Encounter) error {
	for _, ps := range enc.Players {
		class, err := model.ParseClass(ps.Class)
		if err != nil {
			return fmt.Errorf("player %s: %w", ps.Name, err)
		}
		if _, err := simulation.SpawnPlayer(class, ps.Name, vec.New(ps.X, ps.Y)); err != nil {
			return err
		}
	}
	for i, ms := range enc.Monsters {
		tier, err := model.ParseTier(ms.Tier)
		if err != nil {
			return fmt.Errorf("monster %s: %w", ms.Name, err)
		}
		err = spawns.AddPoint(spawn.Point{
			ID:         i + 1,
			Name:       ms.Name,
			Tier:       tier,
			Level:      ms.Level,
			Position:   vec.New(ms.X, ms.Y),
			Count:      max(ms.Count, 1),
			Radius:     ms.Radius,
			RespawnMin: ms.RespawnMin,
			RespawnMax: ms.RespawnMax,
		})
		if err != nil {
			return err
		}
	}
	_, err := spawns.SpawnAll()
	return err
}

// parseLogLevel converts string log level to slog.Level.
// Unknown values fall back to info.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
