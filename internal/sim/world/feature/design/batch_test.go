package design

import "testing"

func TestBatch_BeginAsksForConfirmation(t *testing.T) {
	h := newFakeHost()
	b := NewBatch("B1", make([]*Candidate, 3), true, 0)
	b.Begin(h)
	if len(h.confirms) != 1 || h.confirms[0] != ConfirmText(3) {
		t.Fatalf("confirms=%v", h.confirms)
	}
	if len(h.messages) != 1 || h.messages[0] != MsgAwaitingConfirm {
		t.Fatalf("messages=%v", h.messages)
	}
	if b.Threshold != DefaultLogThreshold {
		t.Fatalf("threshold=%d", b.Threshold)
	}
}

func TestBatch_RejectDoesNothing(t *testing.T) {
	f := house("F1", 0, 0)
	h := newFakeHost(f)
	b := NewBatch("B1", []*Candidate{{Ref: "a", Item: h.static(f, 1, 1)}}, true, 0)
	b.Begin(h)
	h.messages = nil

	if done := b.Handle(h, ConfirmRejected{}); !done {
		t.Fatalf("expected terminal")
	}
	if len(h.messages) != 1 || h.messages[0] != MsgAborted {
		t.Fatalf("messages=%v", h.messages)
	}
	if f.Current.Components.Len() != 0 || len(h.updates) != 0 || len(h.recorded) != 0 || len(h.items) != 1 {
		t.Fatalf("reject must not mutate")
	}
	if b.State() != StateAborted {
		t.Fatalf("state=%v", b.State())
	}
}

func TestBatch_SmallBatchAcknowledgesLive(t *testing.T) {
	a := house("F1", 0, 0)
	c := house("F2", 500, 500)
	h := newFakeHost(a, c)
	list := []*Candidate{
		{Ref: "1", Item: h.static(a, 1, 1)},
		{Ref: "2", Item: h.static(a, 2, 2)},
		{Ref: "3", Item: nil},
		{Ref: "4", Item: h.static(a, 30, 0)},
		{Ref: "5", Item: h.static(c, 0, 0)},
	}
	b := NewBatch("B1", list, true, 20)
	b.Begin(h)
	h.messages = nil

	if done := b.Handle(h, ConfirmAccepted{}); !done {
		t.Fatalf("expected terminal")
	}
	if n := h.countMessages(MsgInserted); n != 3 || len(h.messages) != 3 {
		t.Fatalf("messages=%v want 3 acknowledgments", h.messages)
	}
	if len(h.logs) != 2 {
		t.Fatalf("logs=%v want 2 failures", h.logs)
	}
	for _, l := range h.logs {
		if l.Kind != LogFailure {
			t.Fatalf("log kind=%v", l.Kind)
		}
	}
	if h.logs[0].Text != "3: "+MsgCannotInsert || h.logs[1].Text != "4: "+MsgNotInHouse {
		t.Fatalf("logs=%v", h.logs)
	}
	if h.updates["F1"] != 1 || h.updates["F2"] != 1 || len(h.updates) != 2 {
		t.Fatalf("updates=%v", h.updates)
	}
	if b.Succeeded() != 3 || b.State() != StateApplied {
		t.Fatalf("succeeded=%d state=%v", b.Succeeded(), b.State())
	}
	if got := b.Affected().Items(); len(got) != 2 || got[0] != a || got[1] != c {
		t.Fatalf("affected=%v want [F1 F2]", got)
	}
}

func TestBatch_LargeBatchFlushesToLog(t *testing.T) {
	f := house("F1", 0, 0)
	h := newFakeHost(f)
	var list []*Candidate
	for i := 0; i < 21; i++ {
		list = append(list, &Candidate{Item: h.static(f, i%10, i/10)})
	}
	list = append(list, &Candidate{Ref: "x"})
	b := NewBatch("B1", list, true, 20)
	if !b.FlushesToLog() {
		t.Fatalf("expected log flush for %d candidates", b.Len())
	}
	b.Begin(h)
	h.messages = nil

	b.Handle(h, ConfirmAccepted{})
	if len(h.messages) != 0 {
		t.Fatalf("large batch echoed %d messages", len(h.messages))
	}
	responses, failures := 0, 0
	for _, l := range h.logs {
		switch l.Kind {
		case LogResponse:
			responses++
		case LogFailure:
			failures++
		}
	}
	if responses != 21 || failures != 1 {
		t.Fatalf("responses=%d failures=%d", responses, failures)
	}
	if h.updates["F1"] != 1 {
		t.Fatalf("updates=%v", h.updates)
	}
	if f.Current.Components.Len() != 21 || f.Design.Components.Len() != 21 {
		t.Fatalf("live=%d design=%d", f.Current.Components.Len(), f.Design.Components.Len())
	}
}

func TestBatch_ThresholdIsExclusive(t *testing.T) {
	b := NewBatch("B1", make([]*Candidate, 20), true, 20)
	if b.FlushesToLog() {
		t.Fatalf("20 candidates must still acknowledge live")
	}
}

func TestBatch_TerminalIgnoresEvents(t *testing.T) {
	h := newFakeHost()
	b := NewBatch("B1", nil, true, 0)
	b.Handle(h, ConfirmRejected{})
	h.messages = nil
	if done := b.Handle(h, ConfirmAccepted{}); !done || len(h.messages) != 0 {
		t.Fatalf("terminal batch reacted to event")
	}
}
