package world

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"voxelhouse.ai/internal/protocol"
	"voxelhouse.ai/internal/sim/world/feature/design"
	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
	"voxelhouse.ai/internal/ui/tilebuttons"
)

type captureLog struct {
	mu      sync.Mutex
	entries []CommandLogEntry
}

func (c *captureLog) WriteCommandLog(e CommandLogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	return nil
}

type captureIndex struct{ records []InsertRecord }

func (c *captureIndex) RecordInsert(r InsertRecord) { c.records = append(c.records, r) }

type captureObserver struct {
	inserts   map[string]int
	refreshes int
	active    map[string]int
	steps     int
}

func (o *captureObserver) ObserveInsert(result string) {
	if o.inserts == nil {
		o.inserts = map[string]int{}
	}
	o.inserts[result]++
}
func (o *captureObserver) ObserveRefresh() { o.refreshes++ }
func (o *captureObserver) SetActiveInteractions(kind string, n int) {
	if o.active == nil {
		o.active = map[string]int{}
	}
	o.active[kind] = n
}
func (o *captureObserver) ObserveStep(time.Duration) { o.steps++ }

type testOperator struct {
	id  string
	out chan []byte
}

func newTestWorld(t *testing.T, cfg WorldConfig) *World {
	t.Helper()
	if cfg.TickRateHz == 0 {
		cfg.TickRateHz = 5
	}
	if cfg.Operators == nil {
		cfg.Operators = map[string]modelpkg.AccessLevel{"gm": modelpkg.AccessGameMaster}
	}
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	f := &modelpkg.Foundation{
		ID:         "F1",
		Origin:     Vec3i{X: 100, Y: 100, Z: 0},
		Footprint:  modelpkg.Rect{Min: modelpkg.Point2{X: -12, Y: -12}, Max: modelpkg.Point2{X: 12, Y: 12}},
		SignTypeID: 0x0BD2,
		Current:    modelpkg.NewDesignState(modelpkg.Rect{Min: modelpkg.Point2{X: -10, Y: -10}, Max: modelpkg.Point2{X: 10, Y: 10}}),
		Design:     modelpkg.NewDesignState(modelpkg.Rect{Min: modelpkg.Point2{X: -10, Y: -10}, Max: modelpkg.Point2{X: 10, Y: 10}}),
	}
	if err := w.AddFoundation(f); err != nil {
		t.Fatalf("add foundation: %v", err)
	}
	return w
}

func addStatic(t *testing.T, w *World, id string, x, y int) *Item {
	t.Helper()
	it := &Item{ID: id, TypeID: 0x0B41, Kind: modelpkg.ItemKindStatic, Pos: Vec3i{X: x, Y: y, Z: 0}}
	if _, err := w.AddItem(it); err != nil {
		t.Fatalf("add item: %v", err)
	}
	return it
}

func join(t *testing.T, w *World, name, token string) testOperator {
	t.Helper()
	out := make(chan []byte, 512)
	resp := make(chan JoinResponse, 1)
	w.StepOnce([]JoinRequest{{Name: name, Token: token, Out: out, Resp: resp}}, nil, nil)
	r := <-resp
	return testOperator{id: r.OperatorID, out: out}
}

func (o testOperator) in(msg any) Input { return Input{OperatorID: o.id, Msg: msg} }

type received struct {
	Type         string `json:"type"`
	Text         string `json:"text"`
	Code         string `json:"code"`
	SessionID    string `json:"session_id"`
	GumpID       string `json:"gump_id"`
	FoundationID string `json:"foundation_id"`

	DesignComponents int `json:"design_components"`
}

func drain(t *testing.T, o testOperator) []received {
	t.Helper()
	var out []received
	for {
		select {
		case b := <-o.out:
			var r received
			if err := json.Unmarshal(b, &r); err != nil {
				t.Fatalf("decode %s: %v", b, err)
			}
			out = append(out, r)
		default:
			return out
		}
	}
}

func ofType(msgs []received, typ string) []received {
	var out []received
	for _, m := range msgs {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func texts(msgs []received) []string {
	var out []string
	for _, m := range ofType(msgs, protocol.TypeMessage) {
		out = append(out, m.Text)
	}
	return out
}

func command(name string, args ...string) protocol.CommandMsg {
	return protocol.CommandMsg{Type: protocol.TypeCommand, ProtocolVersion: protocol.Version, Name: name, Args: args}
}

func TestJoin_AssignsAccessFromToken(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	gm := join(t, w, "gm", "gm")
	pl := join(t, w, "player", "nope")
	if w.operators[gm.id].Access != modelpkg.AccessGameMaster {
		t.Fatalf("gm access=%v", w.operators[gm.id].Access)
	}
	if w.operators[pl.id].Access != modelpkg.AccessPlayer {
		t.Fatalf("player access=%v", w.operators[pl.id].Access)
	}
	if gm.id == pl.id {
		t.Fatalf("operator ids must differ")
	}
}

func TestCommand_UnknownAndNoPermission(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	pl := join(t, w, "player", "")
	w.StepOnce(nil, nil, []Input{pl.in(command("Nope")), pl.in(command("DesignInsert"))})
	errs := ofType(drain(t, pl), protocol.TypeError)
	if len(errs) != 2 {
		t.Fatalf("errors=%+v", errs)
	}
	if errs[0].Code != protocol.ErrUnknownCommand || errs[1].Code != protocol.ErrNoPermission {
		t.Fatalf("codes=%s,%s", errs[0].Code, errs[1].Code)
	}
}

func TestCommand_BadFlagShowsUsage(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	gm := join(t, w, "gm", "gm")
	w.StepOnce(nil, nil, []Input{gm.in(command("designinsert", "maybe"))})
	got := texts(drain(t, gm))
	if len(got) != 1 || got[0] != "Format: DesignInsert [allItems=false]" {
		t.Fatalf("messages=%v", got)
	}
	if w.operators[gm.id].interaction != nil {
		t.Fatalf("no interaction expected")
	}
}

func TestDesignInsert_TargetingLoop(t *testing.T) {
	idx := &captureIndex{}
	obs := &captureObserver{}
	w := newTestWorld(t, WorldConfig{})
	w.SetInsertIndex(idx)
	w.SetObserver(obs)
	gm := join(t, w, "gm", "gm")
	watcher := join(t, w, "watcher", "")
	a := addStatic(t, w, "I1", 105, 103)
	b := addStatic(t, w, "I2", 106, 103)
	addStatic(t, w, "FAR", 150, 103)

	w.StepOnce(nil, nil, []Input{gm.in(command("DesignInsert"))})
	reqs := ofType(drain(t, gm), protocol.TypeTargetReq)
	if len(reqs) != 1 || reqs[0].SessionID == "" {
		t.Fatalf("target requests=%+v", reqs)
	}
	sid := reqs[0].SessionID

	target := func(id string) Input {
		return gm.in(protocol.TargetMsg{Type: protocol.TypeTarget, SessionID: sid, ObjectID: id})
	}
	w.StepOnce(nil, nil, []Input{target("I1")})
	w.StepOnce(nil, nil, []Input{target("FAR")})
	w.StepOnce(nil, nil, []Input{target("I2")})
	msgs := drain(t, gm)
	want := []string{design.MsgInsertedFirst, design.MsgNotInHouse + design.MsgTryAgain, design.MsgInserted}
	got := texts(msgs)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("messages=%q want %q", got, want)
	}
	if n := len(ofType(msgs, protocol.TypeTargetReq)); n != 3 {
		t.Fatalf("re-issued targets=%d want 3", n)
	}
	if !a.Deleted || !b.Deleted || w.Item("I1") != nil {
		t.Fatalf("inserted items must be deleted")
	}
	if len(ofType(msgs, protocol.TypeFoundationUpdate)) != 0 {
		t.Fatalf("no update before commit")
	}

	w.StepOnce(nil, nil, []Input{gm.in(protocol.TargetMsg{Type: protocol.TypeTarget, SessionID: sid, Cancel: true})})
	msgs = drain(t, gm)
	if got := texts(msgs); len(got) != 1 || got[0] != design.MsgCommitted {
		t.Fatalf("commit messages=%q", got)
	}
	ups := ofType(msgs, protocol.TypeFoundationUpdate)
	if len(ups) != 1 || ups[0].FoundationID != "F1" || ups[0].DesignComponents != 2 {
		t.Fatalf("updates=%+v", ups)
	}
	if len(ofType(drain(t, watcher), protocol.TypeFoundationUpdate)) != 1 {
		t.Fatalf("watcher must receive the update")
	}
	if obs.refreshes != 1 {
		t.Fatalf("refreshes=%d want 1", obs.refreshes)
	}
	if len(idx.records) != 3 || idx.records[1].Result != "NOT_IN_HOUSE" || idx.records[0].Mode != "target" {
		t.Fatalf("records=%+v", idx.records)
	}
	if w.operators[gm.id].interaction != nil {
		t.Fatalf("session must be cleared")
	}
}

func TestDesignInsert_CancelWithoutInsertSendsNothing(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	gm := join(t, w, "gm", "gm")
	w.StepOnce(nil, nil, []Input{gm.in(command("DesignInsert"))})
	drain(t, gm)
	w.StepOnce(nil, nil, []Input{gm.in(protocol.TargetMsg{Type: protocol.TypeTarget, Cancel: true})})
	if msgs := drain(t, gm); len(msgs) != 0 {
		t.Fatalf("messages=%+v", msgs)
	}
}

func TestTarget_WithoutSession(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	gm := join(t, w, "gm", "gm")
	w.StepOnce(nil, nil, []Input{gm.in(protocol.TargetMsg{Type: protocol.TypeTarget, ObjectID: "I1"})})
	errs := ofType(drain(t, gm), protocol.TypeError)
	if len(errs) != 1 || errs[0].Code != protocol.ErrNoSession {
		t.Fatalf("errors=%+v", errs)
	}
}

func TestTarget_StaleSession(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	gm := join(t, w, "gm", "gm")
	w.StepOnce(nil, nil, []Input{gm.in(command("DesignInsert"))})
	drain(t, gm)
	w.StepOnce(nil, nil, []Input{gm.in(protocol.TargetMsg{Type: protocol.TypeTarget, SessionID: "old", ObjectID: "I1"})})
	errs := ofType(drain(t, gm), protocol.TypeError)
	if len(errs) != 1 || errs[0].Code != protocol.ErrStale {
		t.Fatalf("errors=%+v", errs)
	}
}

func TestDesignInsert_AreaBatch(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	gm := join(t, w, "gm", "gm")
	addStatic(t, w, "I2", 104, 100)
	addStatic(t, w, "I1", 103, 100)
	addStatic(t, w, "I3", 111, 100) // inside the footprint, outside the editable bounds

	cmd := command("DesignInsert")
	cmd.Area = &protocol.AreaReq{Min: [2]int{125, 105}, Max: [2]int{95, 95}}
	w.StepOnce(nil, nil, []Input{gm.in(cmd)})
	msgs := drain(t, gm)
	confirms := ofType(msgs, protocol.TypeConfirmReq)
	if len(confirms) != 1 {
		t.Fatalf("confirm requests=%+v", msgs)
	}
	if got := texts(msgs); len(got) != 1 || got[0] != design.MsgAwaitingConfirm {
		t.Fatalf("messages=%q", got)
	}
	batch := w.operators[gm.id].interaction.(*design.Batch)
	if batch.Len() != 3 {
		t.Fatalf("batch len=%d", batch.Len())
	}

	logs := &captureLog{}
	w.SetCommandLogger(logs)
	w.StepOnce(nil, nil, []Input{gm.in(protocol.ConfirmMsg{Type: protocol.TypeConfirm, SessionID: confirms[0].SessionID, Accept: true})})
	msgs = drain(t, gm)
	if got := texts(msgs); len(got) != 2 || got[0] != design.MsgInserted {
		t.Fatalf("acks=%q", got)
	}
	if len(logs.entries) != 1 || logs.entries[0].Kind != string(design.LogFailure) || logs.entries[0].Text != "I3: "+design.MsgNotInHouse {
		t.Fatalf("log=%+v", logs.entries)
	}
	if logs.entries[0].Command != "DesignInsert" {
		t.Fatalf("log command=%q", logs.entries[0].Command)
	}
	if ups := ofType(msgs, protocol.TypeFoundationUpdate); len(ups) != 1 || ups[0].DesignComponents != 2 {
		t.Fatalf("updates=%+v", ups)
	}
	if w.Item("I3") == nil {
		t.Fatalf("rejected item must remain")
	}
}

func TestDesignInsert_TargetListUnknownRef(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	gm := join(t, w, "gm", "gm")
	logs := &captureLog{}
	w.SetCommandLogger(logs)
	addStatic(t, w, "I1", 101, 101)

	cmd := command("DesignInsert")
	cmd.Targets = []string{"I1", "GHOST"}
	w.StepOnce(nil, nil, []Input{gm.in(cmd)})
	drain(t, gm)
	w.StepOnce(nil, nil, []Input{gm.in(protocol.ConfirmMsg{Type: protocol.TypeConfirm, Accept: true})})
	if got := texts(drain(t, gm)); len(got) != 1 {
		t.Fatalf("acks=%q", got)
	}
	if len(logs.entries) != 1 || logs.entries[0].Text != "GHOST: "+design.MsgCannotInsert {
		t.Fatalf("log=%+v", logs.entries)
	}
}

func TestDesignInsert_LargeBatchGoesToLog(t *testing.T) {
	w := newTestWorld(t, WorldConfig{BatchLogThreshold: 20})
	gm := join(t, w, "gm", "gm")
	logs := &captureLog{}
	w.SetCommandLogger(logs)
	cmd := command("DesignInsert")
	for i := 0; i < 21; i++ {
		id := fmt.Sprintf("I%02d", i)
		addStatic(t, w, id, 95+i%10, 95+i/10)
		cmd.Targets = append(cmd.Targets, id)
	}
	w.StepOnce(nil, nil, []Input{gm.in(cmd)})
	drain(t, gm)
	w.StepOnce(nil, nil, []Input{gm.in(protocol.ConfirmMsg{Type: protocol.TypeConfirm, Accept: true})})
	msgs := drain(t, gm)
	if got := texts(msgs); len(got) != 0 {
		t.Fatalf("large batch must not echo: %q", got)
	}
	if len(logs.entries) != 21 {
		t.Fatalf("log entries=%d want 21", len(logs.entries))
	}
	if len(ofType(msgs, protocol.TypeFoundationUpdate)) != 1 {
		t.Fatalf("one coalesced update expected")
	}
}

func TestDesignInsert_RejectAborts(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	gm := join(t, w, "gm", "gm")
	addStatic(t, w, "I1", 101, 101)
	cmd := command("DesignInsert")
	cmd.Targets = []string{"I1"}
	w.StepOnce(nil, nil, []Input{gm.in(cmd)})
	drain(t, gm)
	w.StepOnce(nil, nil, []Input{gm.in(protocol.ConfirmMsg{Type: protocol.TypeConfirm, Accept: false})})
	if got := texts(drain(t, gm)); len(got) != 1 || got[0] != design.MsgAborted {
		t.Fatalf("messages=%q", got)
	}
	if w.Item("I1") == nil {
		t.Fatalf("item must survive an aborted batch")
	}
}

func TestDesignInsert_NewCommandOverridesSession(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	gm := join(t, w, "gm", "gm")
	addStatic(t, w, "I1", 101, 101)
	w.StepOnce(nil, nil, []Input{gm.in(command("DesignInsert"))})
	first := ofType(drain(t, gm), protocol.TypeTargetReq)[0].SessionID
	w.StepOnce(nil, nil, []Input{gm.in(protocol.TargetMsg{Type: protocol.TypeTarget, ObjectID: "I1"})})
	drain(t, gm)

	w.StepOnce(nil, nil, []Input{gm.in(command("DesignInsert", "true"))})
	msgs := drain(t, gm)
	if got := texts(msgs); len(got) != 1 || got[0] != design.MsgCommitted {
		t.Fatalf("override must commit the first session: %q", got)
	}
	reqs := ofType(msgs, protocol.TypeTargetReq)
	if len(reqs) != 1 || reqs[0].SessionID == first {
		t.Fatalf("new session expected: %+v", reqs)
	}
	s := w.operators[gm.id].interaction.(*design.Session)
	if s.StaticsOnly {
		t.Fatalf("allItems=true must allow non-static items")
	}
}

func TestLeave_CommitsOpenSession(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	gm := join(t, w, "gm", "gm")
	watcher := join(t, w, "watcher", "")
	addStatic(t, w, "I1", 101, 101)
	w.StepOnce(nil, nil, []Input{gm.in(command("DesignInsert"))})
	w.StepOnce(nil, nil, []Input{gm.in(protocol.TargetMsg{Type: protocol.TypeTarget, ObjectID: "I1"})})
	drain(t, watcher)

	w.StepOnce(nil, []string{gm.id}, nil)
	if _, ok := w.operators[gm.id]; ok {
		t.Fatalf("operator must be removed")
	}
	ups := ofType(drain(t, watcher), protocol.TypeFoundationUpdate)
	if len(ups) != 1 || ups[0].DesignComponents != 1 {
		t.Fatalf("updates=%+v", ups)
	}
}

func TestTargetTimeout(t *testing.T) {
	w := newTestWorld(t, WorldConfig{TargetTimeoutTicks: 2})
	gm := join(t, w, "gm", "gm")
	w.StepOnce(nil, nil, []Input{gm.in(command("DesignInsert"))})
	w.StepOnce(nil, nil, nil)
	if w.operators[gm.id].interaction == nil {
		t.Fatalf("session expired too early")
	}
	w.StepOnce(nil, nil, nil)
	if w.operators[gm.id].interaction != nil {
		t.Fatalf("session must expire")
	}
}

func TestFoundationsPicker(t *testing.T) {
	w := newTestWorld(t, WorldConfig{PickerGrid: tilebuttons.Grid{Columns: 1, Rows: 1}})
	for _, id := range []string{"keep", "tower", "villa"} {
		f := &modelpkg.Foundation{ID: id, Origin: Vec3i{X: 1000}, SignTypeID: 0x0BD0}
		if err := w.AddFoundation(f); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	gm := join(t, w, "gm", "gm")

	w.StepOnce(nil, nil, []Input{gm.in(command("Foundations"))})
	raw := <-gm.out
	var g protocol.GumpMsg
	if err := json.Unmarshal(raw, &g); err != nil {
		t.Fatalf("decode gump: %v", err)
	}
	if g.Type != protocol.TypeGump || len(g.Pages) != 4 {
		t.Fatalf("gump=%+v", g)
	}
	if g.Pages[0].Back != nil || g.Pages[0].Next == nil || g.Pages[3].Next != nil {
		t.Fatalf("navigation=%+v", g.Pages)
	}
	if g.Pages[0].Tiles[0].Label != "F1" || g.Pages[0].Tiles[0].ButtonID != tilebuttons.ReplyBase {
		t.Fatalf("first tile=%+v", g.Pages[0].Tiles[0])
	}

	w.StepOnce(nil, nil, []Input{gm.in(protocol.GumpReplyMsg{Type: protocol.TypeGumpReply, GumpID: g.GumpID, ButtonID: tilebuttons.ReplyBase})})
	got := texts(drain(t, gm))
	if len(got) != 1 || got[0] != "F1: live 0 components (rev 0), design 0 components (rev 0)" {
		t.Fatalf("messages=%q", got)
	}

	w.StepOnce(nil, nil, []Input{gm.in(protocol.GumpReplyMsg{Type: protocol.TypeGumpReply, GumpID: g.GumpID, ButtonID: 0})})
	errs := ofType(drain(t, gm), protocol.TypeError)
	if len(errs) != 1 || errs[0].Code != protocol.ErrNoSession {
		t.Fatalf("a closed gump must not answer twice: %+v", errs)
	}
}

func TestFoundationsPicker_Filter(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	for _, id := range []string{"keep", "tower"} {
		if err := w.AddFoundation(&modelpkg.Foundation{ID: id, Origin: Vec3i{X: 1000}}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	gm := join(t, w, "gm", "gm")
	w.StepOnce(nil, nil, []Input{gm.in(command("Foundations", "twr"))})
	var g protocol.GumpMsg
	if err := json.Unmarshal(<-gm.out, &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Pages) != 1 || len(g.Pages[0].Tiles) != 1 || g.Pages[0].Tiles[0].Label != "tower" {
		t.Fatalf("gump=%+v", g)
	}

	w.StepOnce(nil, nil, []Input{gm.in(command("Foundations", "zzz"))})
	if got := texts(drain(t, gm)); len(got) != 1 || got[0] != "No foundations found." {
		t.Fatalf("messages=%q", got)
	}
}

func TestMetricsSnapshot(t *testing.T) {
	obs := &captureObserver{}
	w := newTestWorld(t, WorldConfig{})
	w.SetObserver(obs)
	gm := join(t, w, "gm", "gm")
	addStatic(t, w, "I1", 101, 101)
	w.StepOnce(nil, nil, []Input{gm.in(command("DesignInsert"))})
	m := w.Metrics()
	if m.Operators != 1 || m.Interactions != 1 || m.Items != 1 || m.Foundations != 1 {
		t.Fatalf("metrics=%+v", m)
	}
	if obs.active["target"] != 1 || obs.active["batch"] != 0 || obs.steps != 2 {
		t.Fatalf("observer=%+v", obs)
	}
}

func TestAddItem_AssignsIDs(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	id, err := w.AddItem(&Item{TypeID: 1})
	if err != nil || id != "I000001" {
		t.Fatalf("id=%q err=%v", id, err)
	}
	if _, err := w.AddItem(&Item{ID: id}); err == nil {
		t.Fatalf("duplicate id must fail")
	}
}

func TestItemsInArea_SkipsContained(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	addStatic(t, w, "B", 1, 1)
	addStatic(t, w, "A", 2, 2)
	if _, err := w.AddItem(&Item{ID: "C", Pos: Vec3i{X: 1, Y: 1}, Parent: "A"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	got := w.ItemsInArea(modelpkg.Rect{Max: modelpkg.Point2{X: 5, Y: 5}})
	if len(got) != 2 || got[0].ID != "A" || got[1].ID != "B" {
		t.Fatalf("items=%+v", got)
	}
}
