package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"voxelhouse.ai/internal/sim/scenario"
	"voxelhouse.ai/internal/sim/tuning"
	"voxelhouse.ai/internal/sim/world"
	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
	"voxelhouse.ai/internal/ui/tilebuttons"
)

func worldConfig(worldID string, tune tuning.Tuning) (world.WorldConfig, error) {
	def, ok := modelpkg.ParseAccessLevel(tune.DefaultAccessLevel)
	if !ok {
		return world.WorldConfig{}, fmt.Errorf("tuning: unknown default_access_level %q", tune.DefaultAccessLevel)
	}
	ops := make(map[string]modelpkg.AccessLevel, len(tune.Operators))
	for token, name := range tune.Operators {
		lvl, ok := modelpkg.ParseAccessLevel(name)
		if !ok {
			return world.WorldConfig{}, fmt.Errorf("tuning: operator token has unknown access level %q", name)
		}
		ops[token] = lvl
	}
	return world.WorldConfig{
		ID:                 worldID,
		TickRateHz:         tune.TickRateHz,
		BatchLogThreshold:  tune.BatchLogThreshold,
		TargetTimeoutTicks: tune.TargetTimeoutTicks,
		SpatialCellSize:    tune.SpatialCellSize,
		PickerGrid:         tilebuttons.Grid{Columns: tune.Picker.Columns, Rows: tune.Picker.Rows},
		DefaultAccess:      def,
		Operators:          ops,
	}, nil
}

// populate loads the scenario's houses and items into w.
// startWorld runs w until ctx ends. The returned channel closes once the loop
// has returned and no further step can touch the world's sinks.
func startWorld(ctx context.Context, w *world.World, logger *log.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("world stopped: %v", err)
		}
	}()
	return done
}

func populate(w *world.World, sc scenario.Scenario) error {
	for _, f := range sc.Foundations {
		if err := w.AddFoundation(f.Foundation()); err != nil {
			return fmt.Errorf("foundation %s: %w", f.ID, err)
		}
	}
	for i, it := range sc.Items {
		if _, err := w.AddItem(it.Item()); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

// multiCommandLogger fans command output out to the JSONL log and the index.
type multiCommandLogger struct {
	a world.CommandLogger
	b world.CommandLogger
}

func (m multiCommandLogger) WriteCommandLog(e world.CommandLogEntry) error {
	var err error
	if m.a != nil {
		err = m.a.WriteCommandLog(e)
	}
	if m.b != nil {
		_ = m.b.WriteCommandLog(e)
	}
	return err
}
