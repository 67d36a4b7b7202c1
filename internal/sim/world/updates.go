package world

import (
	"voxelhouse.ai/internal/protocol"
	"voxelhouse.ai/internal/sim/world/feature/design"
)

// flushFoundationUpdates broadcasts one FOUNDATION_UPDATE per house touched
// during this step, however many inserts landed in it.
func (w *World) flushFoundationUpdates(nowTick uint64) {
	if w.pendingUpdates.Len() == 0 {
		return
	}
	touched := w.pendingUpdates.Items()
	w.pendingUpdates = design.FoundationSet{}

	ids := w.operatorIDs()
	for _, f := range touched {
		msg := protocol.FoundationUpdateMsg{
			Type:            protocol.TypeFoundationUpdate,
			ProtocolVersion: protocol.Version,
			Tick:            nowTick,
			FoundationID:    f.ID,
		}
		if f.Current != nil {
			msg.LiveRevision = f.Current.Revision
			msg.LiveComponents = f.Current.Components.Len()
		}
		if f.Design != nil {
			msg.DesignRevision = f.Design.Revision
			msg.DesignComponents = f.Design.Components.Len()
		}
		for _, id := range ids {
			w.send(w.operators[id], msg)
		}
	}
}
