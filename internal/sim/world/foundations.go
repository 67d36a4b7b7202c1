package world

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"voxelhouse.ai/internal/protocol"
	"voxelhouse.ai/internal/sim/world/feature/design"
	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
	"voxelhouse.ai/internal/ui/tilebuttons"
)

var foundationsCommand = design.Command{
	Names:       []string{"Foundations", "Houses"},
	AccessLevel: modelpkg.AccessGameMaster,
	Supports:    design.SupportSingle,
	Usage:       "Foundations [filter]",
	Description: "Lists houses in a picker and reports the state of the selected one.",
}

func handleFoundations(w *World, op *operator, cmd design.Command, m protocol.CommandMsg, nowTick uint64) {
	filter := strings.TrimSpace(strings.Join(m.Args, " "))
	list := matchFoundations(w.Foundations(), filter)
	if len(list) == 0 {
		w.sendMessage(op, "No foundations found.", nowTick)
		return
	}

	buttons := make([]tilebuttons.Button, len(list))
	for i, f := range list {
		buttons[i] = tilebuttons.NewButton(f.SignTypeID, 0, f.ID)
	}
	header := "Foundations"
	if filter != "" {
		header = fmt.Sprintf("Foundations matching %q", filter)
	}
	gumpID := uuid.NewString()
	p := &tilebuttons.Picker{
		Header:  header,
		Buttons: buttons,
		Grid:    w.cfg.PickerGrid,
		OnSelect: func(index int, _ tilebuttons.Button) {
			f := list[index]
			w.sendMessage(op, describeFoundation(f), w.CurrentTick())
		},
	}
	op.gumps[gumpID] = p
	w.send(op, gumpMessage(gumpID, p.Layout(), nowTick))
}

// matchFoundations keeps every house when filter is empty, otherwise the
// fuzzy matches on id ranked by edit distance.
func matchFoundations(all []*modelpkg.Foundation, filter string) []*modelpkg.Foundation {
	if filter == "" {
		return all
	}
	ids := make([]string, len(all))
	for i, f := range all {
		ids[i] = f.ID
	}
	ranks := fuzzy.RankFindFold(filter, ids)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	out := make([]*modelpkg.Foundation, len(ranks))
	for i, r := range ranks {
		out[i] = all[r.OriginalIndex]
	}
	return out
}

func describeFoundation(f *modelpkg.Foundation) string {
	if !f.Customizable() {
		return fmt.Sprintf("%s: not customizable", f.ID)
	}
	return fmt.Sprintf("%s: live %d components (rev %d), design %d components (rev %d)",
		f.ID,
		f.Current.Components.Len(), f.Current.Revision,
		f.Design.Components.Len(), f.Design.Revision)
}

func gumpMessage(id string, l tilebuttons.Layout, nowTick uint64) protocol.GumpMsg {
	msg := protocol.GumpMsg{
		Type:            protocol.TypeGump,
		ProtocolVersion: protocol.Version,
		Tick:            nowTick,
		GumpID:          id,
		Header:          l.Header,
		Width:           l.Width,
		Height:          l.Height,
		Cancel: protocol.GumpButton{
			X:        l.Cancel.X,
			Y:        l.Cancel.Y,
			ButtonID: l.Cancel.ReplyID,
			Label:    l.Cancel.Label.Text,
		},
		Pages: make([]protocol.GumpPage, len(l.Pages)),
	}
	for i, p := range l.Pages {
		gp := protocol.GumpPage{Index: p.Index, Tiles: make([]protocol.GumpTile, len(p.Tiles))}
		for j, t := range p.Tiles {
			gp.Tiles[j] = protocol.GumpTile{
				X:        t.X,
				Y:        t.Y,
				ButtonID: t.ReplyID,
				ItemID:   t.Button.ItemID,
				Hue:      t.Button.Hue,
				Label:    t.Button.Label,
				Tooltip:  t.Button.Tooltip,
			}
		}
		gp.Back = navMessage(p.Back)
		gp.Next = navMessage(p.Next)
		msg.Pages[i] = gp
	}
	return msg
}

func navMessage(n *tilebuttons.NavButton) *protocol.GumpNav {
	if n == nil {
		return nil
	}
	return &protocol.GumpNav{X: n.X, Y: n.Y, ToPage: n.ToPage, Label: n.Label.Text}
}
