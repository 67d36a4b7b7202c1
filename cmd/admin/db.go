package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voxelhouse.ai/internal/persistence/indexdb"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	operator := fs.String("operator", "", "operator_id filter")
	foundation := fs.String("foundation", "", "foundation_id filter")
	session := fs.String("session", "", "session_id filter")
	result := fs.String("result", "", "result filter (VALID, INVALID_ITEM, NOT_IN_HOUSE, OUTSIDE_HOUSE_BOUNDS)")
	sinceTick := fs.Uint64("since_tick", 0, "only rows at or after this tick")
	limit := fs.Int("limit", 20, "result limit")
	_ = fs.Parse(args)

	q := "inserts"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		path = filepath.Join(worldDir(*dataDir, *worldID), "index", "world.sqlite")
	}
	db, err := indexdb.OpenReader(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	switch q {
	case "inserts":
		rows, err := indexdb.ListInserts(ctx, db, indexdb.InsertQuery{
			OperatorID:   *operator,
			FoundationID: *foundation,
			SessionID:    *session,
			Result:       *result,
			SinceTick:    *sinceTick,
			Limit:        *limit,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		printJSON(rows)
	case "summary":
		counts, err := indexdb.CountByResult(ctx, db)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		printJSON(counts)
	default:
		fmt.Fprintln(os.Stderr, "unknown query (use: inserts, summary)")
		os.Exit(2)
	}
}
