package world

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"voxelhouse.ai/internal/sim/world/feature/design"
	"voxelhouse.ai/internal/sim/world/logic/spatial"
)

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine; this loop is
// what keeps two operators from mutating one house at the same time.
type World struct {
	cfg WorldConfig

	tick    atomic.Uint64
	metrics atomic.Value

	foundations *spatial.FoundationIndex
	items       map[string]*Item
	operators   map[string]*operator

	// Houses whose state must be resent at the end of this step.
	pendingUpdates design.FoundationSet

	inbox chan Input
	join  chan JoinRequest
	leave chan string
	stop  chan struct{}

	nextOperatorNum uint64
	nextItemNum     uint64

	// Optional (may be nil).
	logger      *log.Logger
	commandLog  CommandLogger
	insertIndex InsertIndex
	observer    Observer
}

func New(cfg WorldConfig) (*World, error) {
	if cfg.TickRateHz <= 0 {
		return nil, fmt.Errorf("tick rate must be > 0")
	}
	if cfg.BatchLogThreshold <= 0 {
		cfg.BatchLogThreshold = design.DefaultLogThreshold
	}
	if cfg.ID == "" {
		cfg.ID = "world_1"
	}
	w := &World{
		cfg:         cfg,
		foundations: spatial.NewFoundationIndex(cfg.SpatialCellSize),
		items:       map[string]*Item{},
		operators:   map[string]*operator{},
		inbox:       make(chan Input, 1024),
		join:        make(chan JoinRequest, 64),
		leave:       make(chan string, 64),
		stop:        make(chan struct{}),
	}
	return w, nil
}

func (w *World) SetLogger(l *log.Logger)          { w.logger = l }
func (w *World) SetCommandLogger(l CommandLogger) { w.commandLog = l }
func (w *World) SetInsertIndex(idx InsertIndex)   { w.insertIndex = idx }
func (w *World) SetObserver(o Observer)           { w.observer = o }
func (w *World) Inbox() chan<- Input              { return w.inbox }
func (w *World) Join() chan<- JoinRequest         { return w.join }
func (w *World) Leave() chan<- string             { return w.leave }
func (w *World) CurrentTick() uint64              { return w.tick.Load() }
func (w *World) ID() string                       { return w.cfg.ID }
func (w *World) TickRateHz() int                  { return w.cfg.TickRateHz }

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingInputs []Input
	var pendingJoins []JoinRequest
	var pendingLeaves []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-w.leave:
			pendingLeaves = append(pendingLeaves, id)
		case in := <-w.inbox:
			pendingInputs = append(pendingInputs, in)
		case <-ticker.C:
			w.step(pendingJoins, pendingLeaves, pendingInputs)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
			pendingInputs = pendingInputs[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// StepOnce advances the world by one tick. It must not be called while Run is active.
func (w *World) StepOnce(joins []JoinRequest, leaves []string, inputs []Input) uint64 {
	tick := w.tick.Load()
	w.step(joins, leaves, inputs)
	return tick
}

func (w *World) step(joins []JoinRequest, leaves []string, inputs []Input) {
	stepStart := time.Now()
	nowTick := w.tick.Load()

	for _, id := range leaves {
		w.handleLeave(id, nowTick)
	}
	for _, req := range joins {
		resp := w.joinOperator(req, nowTick)
		if req.Resp != nil {
			req.Resp <- resp
		}
	}

	// Inputs apply in server receive order.
	for _, in := range inputs {
		op := w.operators[in.OperatorID]
		if op == nil {
			continue
		}
		w.applyInput(op, in.Msg, nowTick)
	}

	w.expireTargets(nowTick)
	w.flushFoundationUpdates(nowTick)

	d := time.Since(stepStart)
	w.publishMetrics(nowTick, d)
	if w.observer != nil {
		w.observer.ObserveStep(d)
	}
	w.tick.Add(1)
}

func (w *World) publishMetrics(nowTick uint64, d time.Duration) {
	m := WorldMetrics{
		Tick:        nowTick,
		Operators:   len(w.operators),
		Foundations: w.foundations.Len(),
		Items:       len(w.items),
		StepMS:      float64(d.Microseconds()) / 1000,
	}
	byKind := map[string]int{"target": 0, "batch": 0}
	for _, op := range w.operators {
		if op.interaction != nil {
			m.Interactions++
			byKind[op.interaction.Kind()]++
		}
		m.Gumps += len(op.gumps)
	}
	w.metrics.Store(m)
	if w.observer != nil {
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			w.observer.SetActiveInteractions(k, byKind[k])
		}
	}
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	m, _ := w.metrics.Load().(WorldMetrics)
	return m
}

func (w *World) logf(format string, args ...any) {
	if w.logger != nil {
		w.logger.Printf(format, args...)
	}
}
