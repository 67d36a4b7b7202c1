package world

import (
	"time"

	"voxelhouse.ai/internal/protocol"
	"voxelhouse.ai/internal/sim/world/feature/design"
	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
	"voxelhouse.ai/internal/sim/world/logic/designinsert"
)

// operatorHost binds a design interaction to one operator for one step.
type operatorHost struct {
	w    *World
	op   *operator
	tick uint64
}

var _ design.Host = (*operatorHost)(nil)

func (h *operatorHost) FoundationAt(pos modelpkg.Vec3i) *modelpkg.Foundation {
	return h.w.FoundationAt(pos)
}

func (h *operatorHost) DeleteItem(it *modelpkg.Item) { h.w.DeleteItem(it) }

func (h *operatorHost) UpdateFoundation(f *modelpkg.Foundation) {
	if f == nil {
		return
	}
	h.w.pendingUpdates.Add(f)
	if h.w.observer != nil {
		h.w.observer.ObserveRefresh()
	}
}

func (h *operatorHost) RecordInsert(it modelpkg.Item, res designinsert.Result, f *modelpkg.Foundation) {
	if h.w.observer != nil {
		h.w.observer.ObserveInsert(res.String())
	}
	if h.w.insertIndex == nil {
		return
	}
	rec := InsertRecord{
		Tick:       h.tick,
		WorldID:    h.w.cfg.ID,
		OperatorID: h.op.ID,
		ItemID:     it.ID,
		TypeID:     it.TypeID,
		X:          it.Pos.X,
		Y:          it.Pos.Y,
		Z:          it.Pos.Z,
		Result:     res.String(),
	}
	if in := h.op.interaction; in != nil {
		rec.SessionID = in.SessionID()
		rec.Mode = in.Kind()
	}
	if f != nil {
		rec.FoundationID = f.ID
	}
	h.w.insertIndex.RecordInsert(rec)
}

func (h *operatorHost) SendMessage(text string) { h.w.sendMessage(h.op, text, h.tick) }

func (h *operatorHost) RequestTarget() {
	h.op.pending = pendingTarget
	h.op.pendingTick = h.tick
	h.w.send(h.op, protocol.TargetReqMsg{
		Type:            protocol.TypeTargetReq,
		ProtocolVersion: protocol.Version,
		Tick:            h.tick,
		SessionID:       h.sessionID(),
	})
}

func (h *operatorHost) RequestConfirm(text string) {
	h.op.pending = pendingConfirm
	h.op.pendingTick = h.tick
	h.w.send(h.op, protocol.ConfirmReqMsg{
		Type:            protocol.TypeConfirmReq,
		ProtocolVersion: protocol.Version,
		Tick:            h.tick,
		SessionID:       h.sessionID(),
		Text:            text,
	})
}

func (h *operatorHost) WriteLog(kind design.LogKind, text string) {
	e := CommandLogEntry{
		Time:       time.Now().UTC().Format(time.RFC3339Nano),
		Tick:       h.tick,
		WorldID:    h.w.cfg.ID,
		OperatorID: h.op.ID,
		Operator:   h.op.Name,
		Command:    h.op.command,
		SessionID:  h.sessionID(),
		Kind:       string(kind),
		Text:       text,
	}
	if h.w.commandLog == nil {
		h.w.logf("command log %s %s: %s", e.OperatorID, e.Kind, e.Text)
		return
	}
	if err := h.w.commandLog.WriteCommandLog(e); err != nil {
		h.w.logf("command log write: %v", err)
	}
}

func (h *operatorHost) sessionID() string {
	if h.op.interaction == nil {
		return ""
	}
	return h.op.interaction.SessionID()
}
