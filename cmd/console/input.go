package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"voxelhouse.ai/internal/protocol"
)

const help = `commands:
  <Name> [args...]                      run a command (e.g. DesignInsert true)
  list <Name> <id> [id...] [-- args]    run a command over explicit targets
  area <Name> x1 y1 x2 y2 [args...]     run a command over ground items in a rectangle
  target <id> | cancel                  answer a target request
  yes | no                              answer a confirmation
  button <n> | page <n>                 answer or browse the open picker`

// state tracks the open session and picker so short inputs can be expanded.
type state struct {
	operatorID string
	sessionID  string
	gump       *protocol.GumpMsg
}

func (s *state) parse(line string) (any, error) {
	f := strings.Fields(line)
	if len(f) == 0 {
		return nil, nil
	}
	switch strings.ToLower(f[0]) {
	case "help", "?":
		return nil, fmt.Errorf("%s", help)
	case "target":
		if len(f) != 2 {
			return nil, fmt.Errorf("usage: target <id>")
		}
		return protocol.TargetMsg{Type: protocol.TypeTarget, ProtocolVersion: protocol.Version, SessionID: s.sessionID, ObjectID: f[1]}, nil
	case "cancel", "esc":
		return protocol.TargetMsg{Type: protocol.TypeTarget, ProtocolVersion: protocol.Version, SessionID: s.sessionID, Cancel: true}, nil
	case "yes", "y", "no", "n":
		accept := strings.HasPrefix(strings.ToLower(f[0]), "y")
		return protocol.ConfirmMsg{Type: protocol.TypeConfirm, ProtocolVersion: protocol.Version, SessionID: s.sessionID, Accept: accept}, nil
	case "button":
		if s.gump == nil || len(f) != 2 {
			return nil, fmt.Errorf("no picker open")
		}
		id, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, fmt.Errorf("button: %w", err)
		}
		gid := s.gump.GumpID
		s.gump = nil
		return protocol.GumpReplyMsg{Type: protocol.TypeGumpReply, ProtocolVersion: protocol.Version, GumpID: gid, ButtonID: id}, nil
	case "page":
		if s.gump == nil || len(f) != 2 {
			return nil, fmt.Errorf("no picker open")
		}
		p, err := strconv.Atoi(f[1])
		if err != nil || p < 0 || p >= len(s.gump.Pages) {
			return nil, fmt.Errorf("page out of range")
		}
		return nil, fmt.Errorf("%s", renderPage(s.gump, p))
	case "list":
		if len(f) < 3 {
			return nil, fmt.Errorf("usage: list <Name> <id> [id...] [-- args]")
		}
		cmd := command(f[1], nil)
		rest := f[2:]
		for i, v := range rest {
			if v == "--" {
				cmd.Args = rest[i+1:]
				rest = rest[:i]
				break
			}
		}
		cmd.Targets = rest
		return cmd, nil
	case "area":
		if len(f) < 6 {
			return nil, fmt.Errorf("usage: area <Name> x1 y1 x2 y2 [args...]")
		}
		var n [4]int
		for i := range n {
			v, err := strconv.Atoi(f[2+i])
			if err != nil {
				return nil, fmt.Errorf("area: %w", err)
			}
			n[i] = v
		}
		cmd := command(f[1], f[6:])
		cmd.Area = &protocol.AreaReq{Min: [2]int{n[0], n[1]}, Max: [2]int{n[2], n[3]}}
		return cmd, nil
	default:
		return command(f[0], f[1:]), nil
	}
}

func command(name string, args []string) protocol.CommandMsg {
	if len(args) == 0 {
		args = nil
	}
	return protocol.CommandMsg{Type: protocol.TypeCommand, ProtocolVersion: protocol.Version, Name: name, Args: args}
}

// observe updates state from a server frame and returns a line to print.
func (s *state) observe(msg []byte) string {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return ""
	}
	switch base.Type {
	case protocol.TypeWelcome:
		var m protocol.WelcomeMsg
		if json.Unmarshal(msg, &m) != nil {
			return ""
		}
		s.operatorID = m.OperatorID
		return fmt.Sprintf("WELCOME operator_id=%s access=%s tick_rate=%d", m.OperatorID, m.AccessLevel, m.TickRateHz)
	case protocol.TypeMessage:
		var m protocol.MessageMsg
		if json.Unmarshal(msg, &m) != nil {
			return ""
		}
		return m.Text
	case protocol.TypeTargetReq:
		var m protocol.TargetReqMsg
		if json.Unmarshal(msg, &m) != nil {
			return ""
		}
		s.sessionID = m.SessionID
		return "target? (target <id> | cancel)"
	case protocol.TypeConfirmReq:
		var m protocol.ConfirmReqMsg
		if json.Unmarshal(msg, &m) != nil {
			return ""
		}
		s.sessionID = m.SessionID
		return strings.ReplaceAll(m.Text, "<br>", "\n") + " (yes | no)"
	case protocol.TypeGump:
		var m protocol.GumpMsg
		if json.Unmarshal(msg, &m) != nil {
			return ""
		}
		s.gump = &m
		if len(m.Pages) == 0 {
			return m.Header + " (empty)"
		}
		return renderPage(&m, 0)
	case protocol.TypeFoundationUpdate:
		var m protocol.FoundationUpdateMsg
		if json.Unmarshal(msg, &m) != nil {
			return ""
		}
		return fmt.Sprintf("house %s updated: live=%d design=%d (rev %d)", m.FoundationID, m.LiveComponents, m.DesignComponents, m.DesignRevision)
	case protocol.TypeError:
		var m protocol.ErrorMsg
		if json.Unmarshal(msg, &m) != nil {
			return ""
		}
		return fmt.Sprintf("ERROR %s: %s", m.Code, m.Message)
	default:
		return ""
	}
}

func renderPage(g *protocol.GumpMsg, p int) string {
	page := g.Pages[p]
	var b strings.Builder
	fmt.Fprintf(&b, "%s [page %d/%d]", g.Header, p+1, len(g.Pages))
	for _, t := range page.Tiles {
		fmt.Fprintf(&b, "\n  button %d: %s (0x%04X)", t.ButtonID, t.Label, t.ItemID)
	}
	fmt.Fprintf(&b, "\n  button %d: %s", g.Cancel.ButtonID, g.Cancel.Label)
	if page.Back != nil {
		fmt.Fprintf(&b, "\n  page %d: %s", page.Back.ToPage, page.Back.Label)
	}
	if page.Next != nil {
		fmt.Fprintf(&b, "\n  page %d: %s", page.Next.ToPage, page.Next.Label)
	}
	return b.String()
}
