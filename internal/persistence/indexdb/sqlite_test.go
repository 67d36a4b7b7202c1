package indexdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"voxelhouse.ai/internal/sim/world"
)

func TestSQLiteIndex_RecordInsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	idx.RecordInsert(world.InsertRecord{Tick: 4, OperatorID: "O1", SessionID: "s1", Mode: "target", ItemID: "I1", TypeID: 0x0B41, X: 105, Y: 103, FoundationID: "F1", Result: "VALID"})
	idx.RecordInsert(world.InsertRecord{Tick: 4, OperatorID: "O1", SessionID: "s1", Mode: "target", ItemID: "I2", X: 150, Y: 103, Result: "NOT_IN_HOUSE"})
	idx.RecordInsert(world.InsertRecord{Tick: 9, OperatorID: "O2", SessionID: "s2", Mode: "batch", ItemID: "I3", FoundationID: "F1", Result: "VALID"})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		seq        int
		x, y       int
		foundation sql.NullString
	)
	row := db.QueryRow(`SELECT seq,x,y,foundation_id FROM design_inserts WHERE item_id='I2'`)
	if err := row.Scan(&seq, &x, &y, &foundation); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if seq != 1 || x != 150 || y != 103 || foundation.Valid {
		t.Fatalf("row mismatch: seq=%d x=%d y=%d foundation=%v", seq, x, y, foundation)
	}

	ctx := context.Background()
	rows, err := ListInserts(ctx, db, InsertQuery{FoundationID: "F1"})
	if err != nil {
		t.Fatalf("ListInserts: %v", err)
	}
	if len(rows) != 2 || rows[0].ItemID != "I1" || rows[1].Mode != "batch" || rows[0].Pos != [3]int{105, 103, 0} {
		t.Fatalf("rows=%+v", rows)
	}
	rows, err = ListInserts(ctx, db, InsertQuery{Result: "not_in_house"})
	if err != nil || len(rows) != 1 || rows[0].ItemID != "I2" {
		t.Fatalf("rows=%+v err=%v", rows, err)
	}

	counts, err := CountByResult(ctx, db)
	if err != nil {
		t.Fatalf("CountByResult: %v", err)
	}
	if counts["VALID"] != 2 || counts["NOT_IN_HOUSE"] != 1 {
		t.Fatalf("counts=%v", counts)
	}
}

func TestSQLiteIndex_CommandLogAndConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := idx.UpsertConfig("tuning", map[string]int{"tick_rate_hz": 5}); err != nil {
		t.Fatalf("UpsertConfig: %v", err)
	}
	if err := idx.WriteCommandLog(world.CommandLogEntry{Tick: 3, OperatorID: "O1", Command: "DesignInsert", SessionID: "s1", Kind: "failure", Text: "I9: That cannot be inserted."}); err != nil {
		t.Fatalf("WriteCommandLog: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Writes after close are ignored.
	idx.RecordInsert(world.InsertRecord{Tick: 1})

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var kind, text string
	if err := db.QueryRow(`SELECT kind,text FROM command_log WHERE session_id='s1'`).Scan(&kind, &text); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if kind != "failure" || text != "I9: That cannot be inserted." {
		t.Fatalf("kind=%q text=%q", kind, text)
	}
	var js string
	if err := db.QueryRow(`SELECT json FROM config WHERE name='tuning'`).Scan(&js); err != nil {
		t.Fatalf("Scan config: %v", err)
	}
	if js != `{"tick_rate_hz":5}` {
		t.Fatalf("config json=%s", js)
	}
}

func TestSQLiteIndex_DropsWhenFull(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.RecordInsert(world.InsertRecord{Tick: 1})
	s.RecordInsert(world.InsertRecord{Tick: 2})
	_ = s.WriteCommandLog(world.CommandLogEntry{Tick: 2})
	if got := s.Dropped(); got != 2 {
		t.Fatalf("dropped=%d want 2", got)
	}
	var nilIndex *SQLiteIndex
	nilIndex.RecordInsert(world.InsertRecord{})
	if nilIndex.Dropped() != 0 {
		t.Fatalf("nil index must be inert")
	}
}
