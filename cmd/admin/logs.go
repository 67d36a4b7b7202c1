package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	persistlog "voxelhouse.ai/internal/persistence/log"
	"voxelhouse.ai/internal/sim/world"
)

func logsCmd(args []string) {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id")
	session := fs.String("session", "", "session_id filter")
	operator := fs.String("operator", "", "operator_id filter")
	kind := fs.String("kind", "", "kind filter (response, failure)")
	_ = fs.Parse(args)

	dir := filepath.Join(worldDir(*dataDir, *worldID), "commands")
	files, err := persistlog.Files(dir, "commands")
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(1)
	}
	match := logFilter{session: *session, operator: *operator, kind: *kind}
	var out []world.CommandLogEntry
	for _, path := range files {
		err := persistlog.ReadJSONL(path, func(e world.CommandLogEntry) error {
			if match.keep(e) {
				out = append(out, e)
			}
			return nil
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
	}
	printJSON(out)
}

type logFilter struct {
	session  string
	operator string
	kind     string
}

func (f logFilter) keep(e world.CommandLogEntry) bool {
	if f.session != "" && e.SessionID != f.session {
		return false
	}
	if f.operator != "" && e.OperatorID != f.operator {
		return false
	}
	if f.kind != "" && e.Kind != f.kind {
		return false
	}
	return true
}
