package design

import (
	"strings"

	modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"
)

type Support int

const (
	SupportSingle Support = 1 << iota
	SupportArea
)

// Command describes an operator command.
type Command struct {
	Names       []string
	AccessLevel modelpkg.AccessLevel
	Supports    Support
	Usage       string
	Description string
}

func (c Command) Name() string { return c.Names[0] }

func (c Command) Matches(name string) bool {
	for _, n := range c.Names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

var InsertCommand = Command{
	Names:       []string{"DesignInsert"},
	AccessLevel: modelpkg.AccessGameMaster,
	Supports:    SupportSingle | SupportArea,
	Usage:       "DesignInsert [allItems=false]",
	Description: "Inserts multiple targeted items into a customizable house's design.",
}

// StaticsOnly parses the optional allItems flag. Without arguments only
// static items are eligible. ok is false when the flag is not a boolean.
func StaticsOnly(args []string) (staticsOnly bool, ok bool) {
	if len(args) < 1 {
		return true, true
	}
	all, ok := parseBool(args[0])
	if !ok {
		return true, false
	}
	return !all, true
}

func (c Command) UsageText() string { return "Format: " + c.Usage }

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "on", "1", "enabled":
		return true, true
	case "false", "f", "no", "n", "off", "0", "disabled":
		return false, true
	default:
		return false, false
	}
}
