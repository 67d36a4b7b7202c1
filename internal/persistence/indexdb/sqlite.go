package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"voxelhouse.ai/internal/sim/world"
)

// SQLiteIndex is a queryable read model of insert attempts and logged command
// output. Writes are queued and applied by one goroutine; the compressed
// JSONL command log stays the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Uint64
}

type reqKind int

const (
	reqInsert reqKind = iota + 1
	reqCommand
)

type req struct {
	kind reqKind

	insert  world.InsertRecord
	command world.CommandLogEntry
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// Large batches are applied in one step; keep room for several.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS config (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS design_inserts (
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			world_id TEXT NOT NULL,
			operator_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			item_id TEXT NOT NULL,
			type_id INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			foundation_id TEXT,
			result TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (tick, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_inserts_operator_tick ON design_inserts(operator_id, tick);`,
		`CREATE INDEX IF NOT EXISTS idx_inserts_foundation_tick ON design_inserts(foundation_id, tick);`,
		`CREATE INDEX IF NOT EXISTS idx_inserts_session ON design_inserts(session_id);`,
		`CREATE TABLE IF NOT EXISTS command_log (
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			operator_id TEXT NOT NULL,
			command TEXT NOT NULL,
			session_id TEXT,
			kind TEXT NOT NULL,
			text TEXT NOT NULL,
			logged_at TEXT NOT NULL,
			PRIMARY KEY (tick, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_command_log_session ON command_log(session_id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Dropped reports how many records were discarded because the writer fell behind.
func (s *SQLiteIndex) Dropped() uint64 {
	if s == nil {
		return 0
	}
	return s.dropped.Load()
}

func (s *SQLiteIndex) RecordInsert(rec world.InsertRecord) {
	s.enqueue(req{kind: reqInsert, insert: rec})
}

func (s *SQLiteIndex) WriteCommandLog(e world.CommandLogEntry) error {
	s.enqueue(req{kind: reqCommand, command: e})
	return nil
}

func (s *SQLiteIndex) enqueue(r req) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.dropped.Add(1)
	}
}

// UpsertConfig stores the canonical JSON of an applied config document.
func (s *SQLiteIndex) UpsertConfig(name string, v any) error {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(b)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO config(name,digest,json,updated_at) VALUES(?,?,?,?)`,
		name, hex.EncodeToString(sum[:]), string(b), now); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertRow, _ := s.db.Prepare(`INSERT OR REPLACE INTO design_inserts(tick,seq,world_id,operator_id,session_id,mode,item_id,type_id,x,y,z,foundation_id,result,recorded_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	commandRow, _ := s.db.Prepare(`INSERT OR REPLACE INTO command_log(tick,seq,operator_id,command,session_id,kind,text,logged_at) VALUES(?,?,?,?,?,?,?,?)`)
	defer func() {
		if insertRow != nil {
			_ = insertRow.Close()
		}
		if commandRow != nil {
			_ = commandRow.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second

		insertSeq  sequence
		commandSeq sequence
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		now := time.Now().UTC().Format(time.RFC3339Nano)
		switch r.kind {
		case reqInsert:
			in := r.insert
			if insertRow == nil {
				continue
			}
			var foundation any
			if in.FoundationID != "" {
				foundation = in.FoundationID
			}
			if _, err := tx.Stmt(insertRow).Exec(
				int64(in.Tick),
				insertSeq.next(in.Tick),
				in.WorldID,
				in.OperatorID,
				in.SessionID,
				in.Mode,
				in.ItemID,
				in.TypeID,
				in.X, in.Y, in.Z,
				foundation,
				in.Result,
				now,
			); err != nil {
				rollback()
				continue
			}
			opCount++

		case reqCommand:
			c := r.command
			if commandRow == nil {
				continue
			}
			if _, err := tx.Stmt(commandRow).Exec(
				int64(c.Tick),
				commandSeq.next(c.Tick),
				c.OperatorID,
				c.Command,
				c.SessionID,
				c.Kind,
				c.Text,
				now,
			); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}

// sequence numbers rows within a tick.
type sequence struct {
	tick uint64
	n    int
}

func (q *sequence) next(tick uint64) int {
	if tick != q.tick {
		q.tick = tick
		q.n = 0
	}
	n := q.n
	q.n++
	return n
}
