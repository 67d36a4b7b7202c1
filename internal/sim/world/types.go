package world

import (
	"time"

	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
	"voxelhouse.ai/internal/ui/tilebuttons"
)

type Vec3i = modelpkg.Vec3i
type Item = modelpkg.Item
type Foundation = modelpkg.Foundation

type WorldConfig struct {
	ID         string
	TickRateHz int

	BatchLogThreshold  int
	TargetTimeoutTicks int
	SpatialCellSize    int
	PickerGrid         tilebuttons.Grid

	DefaultAccess modelpkg.AccessLevel
	// Operators maps HELLO tokens to access levels.
	Operators map[string]modelpkg.AccessLevel
}

// CommandLogEntry is one line of command output routed to the persistent log.
type CommandLogEntry struct {
	Time       string `json:"time"`
	Tick       uint64 `json:"tick"`
	WorldID    string `json:"world_id"`
	OperatorID string `json:"operator_id"`
	Operator   string `json:"operator"`
	Command    string `json:"command"`
	SessionID  string `json:"session_id,omitempty"`
	Kind       string `json:"kind"`
	Text       string `json:"text"`
}

// InsertRecord describes one insert attempt.
type InsertRecord struct {
	Tick         uint64 `json:"tick"`
	WorldID      string `json:"world_id"`
	OperatorID   string `json:"operator_id"`
	SessionID    string `json:"session_id"`
	Mode         string `json:"mode"`
	ItemID       string `json:"item_id"`
	TypeID       int    `json:"type_id"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Z            int    `json:"z"`
	FoundationID string `json:"foundation_id,omitempty"`
	Result       string `json:"result"`
}

// CommandLogger is the persistent sink for command output.
type CommandLogger interface {
	WriteCommandLog(CommandLogEntry) error
}

type InsertIndex interface {
	RecordInsert(InsertRecord)
}

// Observer receives runtime signals for metrics.
type Observer interface {
	ObserveInsert(result string)
	ObserveRefresh()
	SetActiveInteractions(kind string, n int)
	ObserveStep(d time.Duration)
}

type JoinRequest struct {
	Name  string
	Token string
	Out   chan []byte
	Resp  chan JoinResponse
}

type JoinResponse struct {
	OperatorID  string
	AccessLevel modelpkg.AccessLevel
}

// Input is one decoded operator message (protocol.CommandMsg, TargetMsg,
// ConfirmMsg or GumpReplyMsg).
type Input struct {
	OperatorID string
	Msg        any
}

// WorldMetrics is a read-only view updated at the end of every step.
type WorldMetrics struct {
	Tick         uint64  `json:"tick"`
	Operators    int     `json:"operators"`
	Foundations  int     `json:"foundations"`
	Items        int     `json:"items"`
	Interactions int     `json:"interactions"`
	Gumps        int     `json:"gumps"`
	StepMS       float64 `json:"step_ms"`
}
