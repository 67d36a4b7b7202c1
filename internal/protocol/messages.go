package protocol

// HELLO (operator -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	OperatorName    string `json:"operator_name"`
	Token           string `json:"token,omitempty"`
	MaxQueue        int    `json:"max_queue,omitempty"`
}

// WELCOME (server -> operator)
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	OperatorID      string `json:"operator_id"`
	AccessLevel     string `json:"access_level"`
	TickRateHz      int    `json:"tick_rate_hz"`
	Tick            uint64 `json:"tick"`
}

// COMMAND (operator -> server). Targets or Area select list mode; without
// either the command runs interactively.
type CommandMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Name            string   `json:"name"`
	Args            []string `json:"args,omitempty"`
	Targets         []string `json:"targets,omitempty"`
	Area            *AreaReq `json:"area,omitempty"`
}

// AreaReq is an inclusive planar rectangle in world coordinates.
type AreaReq struct {
	Min [2]int `json:"min"`
	Max [2]int `json:"max"`
}

func (m CommandMsg) ListMode() bool { return len(m.Targets) > 0 || m.Area != nil }

// TARGET (operator -> server)
type TargetMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id,omitempty"`
	ObjectID        string `json:"object_id,omitempty"`
	Cancel          bool   `json:"cancel,omitempty"`
}

// CONFIRM (operator -> server)
type ConfirmMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id,omitempty"`
	Accept          bool   `json:"accept"`
}

// GUMP_REPLY (operator -> server)
type GumpReplyMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GumpID          string `json:"gump_id"`
	ButtonID        int    `json:"button_id"`
}

// MESSAGE (server -> operator)
type MessageMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Text            string `json:"text"`
}

// TARGET_REQ (server -> operator)
type TargetReqMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	SessionID       string `json:"session_id"`
}

// CONFIRM_REQ (server -> operator)
type ConfirmReqMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	SessionID       string `json:"session_id"`
	Text            string `json:"text"`
}

// FOUNDATION_UPDATE (server -> operator)
type FoundationUpdateMsg struct {
	Type             string `json:"type"`
	ProtocolVersion  string `json:"protocol_version"`
	Tick             uint64 `json:"tick"`
	FoundationID     string `json:"foundation_id"`
	LiveRevision     uint64 `json:"live_revision"`
	DesignRevision   uint64 `json:"design_revision"`
	LiveComponents   int    `json:"live_components"`
	DesignComponents int    `json:"design_components"`
}

// ERROR (server -> operator)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
