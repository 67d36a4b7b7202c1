package model

import "strings"

type AccessLevel int

const (
	AccessPlayer AccessLevel = iota
	AccessCounselor
	AccessGameMaster
	AccessSeer
	AccessAdministrator
	AccessOwner
)

var accessNames = []string{"PLAYER", "COUNSELOR", "GAME_MASTER", "SEER", "ADMINISTRATOR", "OWNER"}

func (a AccessLevel) String() string {
	if a < 0 || int(a) >= len(accessNames) {
		return "PLAYER"
	}
	return accessNames[a]
}

func ParseAccessLevel(s string) (AccessLevel, bool) {
	n := strings.ToUpper(strings.TrimSpace(s))
	n = strings.ReplaceAll(n, "-", "_")
	if n == "GAMEMASTER" || n == "GM" {
		n = "GAME_MASTER"
	}
	for i, v := range accessNames {
		if v == n {
			return AccessLevel(i), true
		}
	}
	return AccessPlayer, false
}
