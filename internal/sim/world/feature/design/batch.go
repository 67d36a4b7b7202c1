package design

import "voxelhouse.ai/internal/sim/world/logic/designinsert"

// DefaultLogThreshold is the batch size above which all output goes to the
// persistent log instead of the operator.
const DefaultLogThreshold = 20

type BatchState int

const (
	StateAwaitingConfirm BatchState = iota
	StateApplied
	StateAborted
)

// Batch inserts a pre-selected list after the operator confirms.
type Batch struct {
	ID          string
	StaticsOnly bool
	Threshold   int

	items     []*Candidate
	state     BatchState
	responses Responses
	affected  FoundationSet
	succeeded int
}

func NewBatch(id string, candidates []*Candidate, staticsOnly bool, threshold int) *Batch {
	if threshold <= 0 {
		threshold = DefaultLogThreshold
	}
	return &Batch{ID: id, StaticsOnly: staticsOnly, Threshold: threshold, items: candidates}
}

func (b *Batch) Kind() string            { return "batch" }
func (b *Batch) SessionID() string       { return b.ID }
func (b *Batch) State() BatchState       { return b.state }
func (b *Batch) Len() int                { return len(b.items) }
func (b *Batch) Succeeded() int          { return b.succeeded }
func (b *Batch) Affected() FoundationSet { return b.affected }

// FlushesToLog reports whether the run's output bypasses the operator.
func (b *Batch) FlushesToLog() bool { return len(b.items) > b.Threshold }

func (b *Batch) Begin(h Host) {
	h.RequestConfirm(ConfirmText(len(b.items)))
	h.SendMessage(MsgAwaitingConfirm)
}

func (b *Batch) Handle(h Host, ev Event) bool {
	if b.state != StateAwaitingConfirm {
		return true
	}
	switch ev.(type) {
	case ConfirmAccepted:
		b.apply(h)
		b.state = StateApplied
		b.responses.Flush(h, b.FlushesToLog())
		return true
	case ConfirmRejected, TargetCancelled:
		b.state = StateAborted
		b.responses.Add(MsgAborted)
		b.responses.Flush(h, false)
		return true
	default:
		return false
	}
}

func (b *Batch) apply(h Host) {
	for _, c := range b.items {
		res, f := attempt(h, c.Item, b.StaticsOnly)
		if res == designinsert.Valid {
			b.responses.Add(MsgInserted)
			b.affected.Add(f)
			b.succeeded++
			continue
		}
		b.responses.Fail(c.describe(failureText(res)))
	}
	b.affected.refresh(h)
}
