package tilebuttons

type Outcome int

const (
	OutcomeCancel Outcome = iota
	OutcomeSelect
)

type Reply struct {
	Outcome Outcome
	Index   int
	Button  Button
}

// Resolve maps a reply id to a button, or to cancel for anything outside
// [ReplyBase, ReplyBase+len(buttons)).
func Resolve(buttons []Button, replyID int) Reply {
	i := replyID - ReplyBase
	if i >= 0 && i < len(buttons) {
		return Reply{Outcome: OutcomeSelect, Index: i, Button: buttons[i]}
	}
	return Reply{Outcome: OutcomeCancel, Index: -1}
}

// Picker binds a button list to its selection and cancel handlers.
type Picker struct {
	Header  string
	Buttons []Button
	Grid    Grid

	OnSelect func(index int, b Button)
	OnCancel func()
}

func (p *Picker) Layout() Layout {
	return Render(p.Header, p.Buttons, p.Grid)
}

// Respond dispatches replyID to exactly one handler.
func (p *Picker) Respond(replyID int) Reply {
	r := Resolve(p.Buttons, replyID)
	switch r.Outcome {
	case OutcomeSelect:
		if p.OnSelect != nil {
			p.OnSelect(r.Index, r.Button)
		}
	default:
		if p.OnCancel != nil {
			p.OnCancel()
		}
	}
	return r
}
