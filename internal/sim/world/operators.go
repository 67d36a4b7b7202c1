package world

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"voxelhouse.ai/internal/protocol"
	"voxelhouse.ai/internal/sim/world/feature/design"
	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
	"voxelhouse.ai/internal/ui/tilebuttons"
)

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingTarget
	pendingConfirm
)

type operator struct {
	ID     string
	Name   string
	Access modelpkg.AccessLevel

	out chan []byte

	interaction design.Interaction
	command     string
	pending     pendingKind
	pendingTick uint64

	gumps map[string]*tilebuttons.Picker

	dropped uint64
}

func (w *World) joinOperator(req JoinRequest, nowTick uint64) JoinResponse {
	w.nextOperatorNum++
	id := fmt.Sprintf("O%d", w.nextOperatorNum)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = id
	}
	access := w.cfg.DefaultAccess
	if lvl, ok := w.cfg.Operators[req.Token]; ok && req.Token != "" {
		access = lvl
	}
	op := &operator{
		ID:     id,
		Name:   name,
		Access: access,
		out:    req.Out,
		gumps:  map[string]*tilebuttons.Picker{},
	}
	w.operators[id] = op
	w.logf("operator joined id=%s name=%s access=%s tick=%d", id, name, access, nowTick)
	return JoinResponse{OperatorID: id, AccessLevel: access}
}

func (w *World) handleLeave(id string, nowTick uint64) {
	op := w.operators[id]
	if op == nil {
		return
	}
	// A session cut short by disconnect still commits what it already did.
	w.abortInteraction(op, design.CancelDisconnected, nowTick)
	for gid := range op.gumps {
		delete(op.gumps, gid)
	}
	delete(w.operators, id)
	w.logf("operator left id=%s tick=%d", id, nowTick)
}

func (w *World) abortInteraction(op *operator, reason design.CancelReason, nowTick uint64) {
	if op.interaction == nil {
		return
	}
	op.pending = pendingNone
	w.advance(op, design.Abort(reason), nowTick)
}

// advance feeds ev to the operator's interaction and clears it once terminal.
func (w *World) advance(op *operator, ev design.Event, nowTick uint64) {
	in := op.interaction
	if in == nil {
		return
	}
	h := &operatorHost{w: w, op: op, tick: nowTick}
	if in.Handle(h, ev) {
		if op.interaction == in {
			op.interaction = nil
			op.command = ""
			op.pending = pendingNone
		}
	}
}

func (w *World) expireTargets(nowTick uint64) {
	timeout := uint64(w.cfg.TargetTimeoutTicks)
	if timeout == 0 {
		return
	}
	for _, id := range w.operatorIDs() {
		op := w.operators[id]
		if op.pending != pendingTarget || nowTick-op.pendingTick < timeout {
			continue
		}
		op.pending = pendingNone
		w.advance(op, design.TargetCancelled{Reason: design.CancelTimeout}, nowTick)
	}
}

func (w *World) operatorIDs() []string {
	ids := make([]string, 0, len(w.operators))
	for id := range w.operators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// send never blocks the world loop; a full outbox drops the message.
func (w *World) send(op *operator, msg any) {
	if op == nil || op.out == nil {
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		w.logf("marshal %T: %v", msg, err)
		return
	}
	select {
	case op.out <- b:
	default:
		op.dropped++
	}
}

func (w *World) sendMessage(op *operator, text string, nowTick uint64) {
	w.send(op, protocol.MessageMsg{
		Type:            protocol.TypeMessage,
		ProtocolVersion: protocol.Version,
		Tick:            nowTick,
		Text:            text,
	})
}

func (w *World) sendError(op *operator, code, message string, nowTick uint64) {
	w.send(op, protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Tick:            nowTick,
		Code:            code,
		Message:         message,
	})
}
