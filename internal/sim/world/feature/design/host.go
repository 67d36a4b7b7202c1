// Package design drives the DesignInsert command: an interactive targeting
// loop and a confirm-then-apply batch over a pre-selected list.
//
// Sessions are plain values advanced one inbound Event at a time by the world
// loop; they never block and hold no locks.
package design

import (
	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
	"voxelhouse.ai/internal/sim/world/logic/designinsert"
)

type LogKind string

const (
	LogResponse LogKind = "response"
	LogFailure  LogKind = "failure"
)

// Host is the operator-facing side of the world an interaction runs against.
type Host interface {
	designinsert.World

	// UpdateFoundation asks for the house state to be resent to observers.
	// Repeated calls for the same house are harmless.
	UpdateFoundation(f *modelpkg.Foundation)

	// RecordInsert observes every insert attempt (metrics, audit index).
	RecordInsert(it modelpkg.Item, res designinsert.Result, f *modelpkg.Foundation)

	SendMessage(text string)
	RequestTarget()
	RequestConfirm(text string)
	WriteLog(kind LogKind, text string)
}

// Interaction is a multi-step operator exchange.
type Interaction interface {
	Kind() string
	SessionID() string
	Begin(h Host)
	// Handle advances the interaction; it returns true once it is terminal.
	Handle(h Host, ev Event) bool
}

func attempt(h Host, it *modelpkg.Item, staticsOnly bool) (designinsert.Result, *modelpkg.Foundation) {
	var snap modelpkg.Item
	if it != nil {
		snap = *it
	}
	res, f := designinsert.Process(h, it, staticsOnly)
	h.RecordInsert(snap, res, f)
	return res, f
}
