package design

import "voxelhouse.ai/internal/sim/world/logic/designinsert"

type SessionState int

const (
	StateAwaitingTarget SessionState = iota
	StateCommitted
)

// Session is the single-target loop: every pick is inserted and a new target
// is requested until the operator cancels, at which point each touched house
// is refreshed once.
type Session struct {
	ID          string
	StaticsOnly bool

	state    SessionState
	affected FoundationSet
	inserted int
}

func NewSession(id string, staticsOnly bool) *Session {
	return &Session{ID: id, StaticsOnly: staticsOnly}
}

func (s *Session) Kind() string            { return "target" }
func (s *Session) SessionID() string       { return s.ID }
func (s *Session) State() SessionState     { return s.state }
func (s *Session) Affected() FoundationSet { return s.affected }
func (s *Session) Inserted() int           { return s.inserted }

func (s *Session) Begin(h Host) { h.RequestTarget() }

func (s *Session) Handle(h Host, ev Event) bool {
	if s.state == StateCommitted {
		return true
	}
	switch ev := ev.(type) {
	case TargetAcquired:
		s.onTarget(h, ev)
		h.RequestTarget()
		return false
	case TargetCancelled:
		s.commit(h)
		return true
	default:
		return false
	}
}

func (s *Session) onTarget(h Host, ev TargetAcquired) {
	res, f := attempt(h, ev.Item, s.StaticsOnly)
	if res != designinsert.Valid {
		h.SendMessage(failureText(res) + MsgTryAgain)
		return
	}
	if s.affected.Len() == 0 {
		h.SendMessage(MsgInsertedFirst)
	} else {
		h.SendMessage(MsgInserted)
	}
	s.affected.Add(f)
	s.inserted++
}

func (s *Session) commit(h Host) {
	s.state = StateCommitted
	if s.affected.Len() == 0 {
		return
	}
	h.SendMessage(MsgCommitted)
	s.affected.refresh(h)
}
