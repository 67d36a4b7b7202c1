package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"voxelhouse.ai/internal/metrics"
	"voxelhouse.ai/internal/persistence/indexdb"
	persistlog "voxelhouse.ai/internal/persistence/log"
	"voxelhouse.ai/internal/sim/scenario"
	"voxelhouse.ai/internal/sim/tuning"
	"voxelhouse.ai/internal/sim/world"
	"voxelhouse.ai/internal/transport/ws"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "http listen address")
		worldID      = flag.String("world", "world_1", "world id")
		configDir    = flag.String("configs", "./configs", "config directory")
		dataDir      = flag.String("data", "./data", "runtime data directory")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		scenarioPath = flag.String("scenario", "", "path to scenario.yaml (default: <configs>/scenario.yaml if present)")
		disableDB    = flag.Bool("disable_db", false, "disable the sqlite insert index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	worldDir := filepath.Join(*dataDir, "worlds", *worldID)
	_ = os.MkdirAll(worldDir, 0o755)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	sp := strings.TrimSpace(*scenarioPath)
	if sp == "" {
		if p := filepath.Join(*configDir, "scenario.yaml"); fileExists(p) {
			sp = p
		}
	}
	sc, err := scenario.Load(sp)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}

	cfg, err := worldConfig(*worldID, tune)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	w, err := world.New(cfg)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	if err := populate(w, sc); err != nil {
		logger.Fatalf("scenario: %v", err)
	}
	w.SetLogger(logger)
	logger.Printf("world %s: %d foundations, %d items", *worldID, len(w.Foundations()), w.ItemCount())

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(worldDir, "index", "world.sqlite"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertConfig("tuning", tune); err != nil {
			logger.Printf("index: upsert tuning: %v", err)
		}
		if err := idx.UpsertConfig("scenario", sc); err != nil {
			logger.Printf("index: upsert scenario: %v", err)
		}
		w.SetInsertIndex(idx)
	}

	cmdLog := persistlog.NewCommandLogger(worldDir)
	defer cmdLog.Close()
	if idx != nil {
		w.SetCommandLogger(multiCommandLogger{a: cmdLog, b: idx})
	} else {
		w.SetCommandLogger(cmdLog)
	}

	m := metrics.New()
	w.SetObserver(m)

	ctx, cancel := signalContext()
	defer cancel()

	worldDone := startWorld(ctx, w, logger)
	// Runs before the index and command log close.
	defer func() {
		cancel()
		<-worldDone
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]any{
			"ok":       true,
			"world_id": *worldID,
			"tick":     w.CurrentTick(),
			"metrics":  w.Metrics(),
		})
	})
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/v1/ws", ws.NewServer(w, logger, tune.OutboxSize).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
