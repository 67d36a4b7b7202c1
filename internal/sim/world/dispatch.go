package world

import (
	"fmt"

	"github.com/google/uuid"

	"voxelhouse.ai/internal/protocol"
	"voxelhouse.ai/internal/sim/world/feature/design"
	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
)

type commandHandler func(w *World, op *operator, cmd design.Command, msg protocol.CommandMsg, nowTick uint64)

type commandEntry struct {
	cmd    design.Command
	handle commandHandler
}

var commands = []commandEntry{
	{cmd: design.InsertCommand, handle: handleDesignInsert},
	{cmd: foundationsCommand, handle: handleFoundations},
}

func lookupCommand(name string) (commandEntry, bool) {
	for _, c := range commands {
		if c.cmd.Matches(name) {
			return c, true
		}
	}
	return commandEntry{}, false
}

func (w *World) applyInput(op *operator, msg any, nowTick uint64) {
	switch m := msg.(type) {
	case protocol.CommandMsg:
		w.applyCommand(op, m, nowTick)
	case protocol.TargetMsg:
		w.applyTarget(op, m, nowTick)
	case protocol.ConfirmMsg:
		w.applyConfirm(op, m, nowTick)
	case protocol.GumpReplyMsg:
		w.applyGumpReply(op, m, nowTick)
	default:
		w.sendError(op, protocol.ErrBadRequest, fmt.Sprintf("unsupported input %T", msg), nowTick)
	}
}

func (w *World) applyCommand(op *operator, m protocol.CommandMsg, nowTick uint64) {
	c, ok := lookupCommand(m.Name)
	if !ok {
		w.sendError(op, protocol.ErrUnknownCommand, fmt.Sprintf("unknown command %q", m.Name), nowTick)
		return
	}
	if op.Access < c.cmd.AccessLevel {
		w.sendError(op, protocol.ErrNoPermission, "You do not have access to that command.", nowTick)
		return
	}
	if m.ListMode() && c.cmd.Supports&design.SupportArea == 0 {
		w.sendError(op, protocol.ErrBadRequest, "That command does not accept a target list.", nowTick)
		return
	}
	c.handle(w, op, c.cmd, m, nowTick)
}

func handleDesignInsert(w *World, op *operator, cmd design.Command, m protocol.CommandMsg, nowTick uint64) {
	staticsOnly, ok := design.StaticsOnly(m.Args)
	if !ok {
		w.sendMessage(op, cmd.UsageText(), nowTick)
		return
	}

	var in design.Interaction
	if m.ListMode() {
		candidates := w.candidates(m)
		if len(candidates) == 0 {
			w.sendMessage(op, "No matching objects found.", nowTick)
			return
		}
		in = design.NewBatch(uuid.NewString(), candidates, staticsOnly, w.cfg.BatchLogThreshold)
	} else {
		in = design.NewSession(uuid.NewString(), staticsOnly)
	}
	w.begin(op, cmd.Name(), in, nowTick)
}

// begin replaces any interaction the operator still has open.
func (w *World) begin(op *operator, name string, in design.Interaction, nowTick uint64) {
	w.abortInteraction(op, design.CancelOverridden, nowTick)
	op.interaction = in
	op.command = name
	op.pending = pendingNone
	in.Begin(&operatorHost{w: w, op: op, tick: nowTick})
}

// candidates resolves an explicit target list in request order, or an area
// selection ordered by item id.
func (w *World) candidates(m protocol.CommandMsg) []*design.Candidate {
	var out []*design.Candidate
	if m.Area != nil {
		r := modelpkg.Rect{
			Min: modelpkg.Point2{X: min(m.Area.Min[0], m.Area.Max[0]), Y: min(m.Area.Min[1], m.Area.Max[1])},
			Max: modelpkg.Point2{X: max(m.Area.Min[0], m.Area.Max[0]), Y: max(m.Area.Min[1], m.Area.Max[1])},
		}
		for _, it := range w.ItemsInArea(r) {
			out = append(out, &design.Candidate{Ref: it.ID, Item: it})
		}
		return out
	}
	for _, id := range m.Targets {
		out = append(out, &design.Candidate{Ref: id, Item: w.items[id]})
	}
	return out
}

func (w *World) applyTarget(op *operator, m protocol.TargetMsg, nowTick uint64) {
	if op.interaction == nil || op.pending != pendingTarget {
		w.sendError(op, protocol.ErrNoSession, "no target request pending", nowTick)
		return
	}
	if m.SessionID != "" && m.SessionID != op.interaction.SessionID() {
		w.sendError(op, protocol.ErrStale, "target reply for a finished session", nowTick)
		return
	}
	op.pending = pendingNone
	if m.Cancel {
		w.advance(op, design.TargetCancelled{Reason: design.CancelOperator}, nowTick)
		return
	}
	w.advance(op, design.TargetAcquired{Item: w.items[m.ObjectID]}, nowTick)
}

func (w *World) applyConfirm(op *operator, m protocol.ConfirmMsg, nowTick uint64) {
	if op.interaction == nil || op.pending != pendingConfirm {
		w.sendError(op, protocol.ErrNoSession, "no confirmation pending", nowTick)
		return
	}
	if m.SessionID != "" && m.SessionID != op.interaction.SessionID() {
		w.sendError(op, protocol.ErrStale, "confirmation for a finished session", nowTick)
		return
	}
	op.pending = pendingNone
	if m.Accept {
		w.advance(op, design.ConfirmAccepted{}, nowTick)
		return
	}
	w.advance(op, design.ConfirmRejected{}, nowTick)
}

func (w *World) applyGumpReply(op *operator, m protocol.GumpReplyMsg, nowTick uint64) {
	p := op.gumps[m.GumpID]
	if p == nil {
		w.sendError(op, protocol.ErrNoSession, "unknown gump", nowTick)
		return
	}
	delete(op.gumps, m.GumpID)
	p.Respond(m.ButtonID)
}
