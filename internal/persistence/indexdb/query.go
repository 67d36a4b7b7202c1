package indexdb

import (
	"context"
	"database/sql"
	"strings"
)

// InsertQuery filters design_inserts. Zero fields match everything.
type InsertQuery struct {
	OperatorID   string
	FoundationID string
	SessionID    string
	Result       string
	SinceTick    uint64
	Limit        int
}

type InsertRow struct {
	Tick         uint64 `json:"tick"`
	Seq          int    `json:"seq"`
	OperatorID   string `json:"operator_id"`
	SessionID    string `json:"session_id"`
	Mode         string `json:"mode"`
	ItemID       string `json:"item_id"`
	TypeID       int    `json:"type_id"`
	Pos          [3]int `json:"pos"`
	FoundationID string `json:"foundation_id,omitempty"`
	Result       string `json:"result"`
}

// OpenReader opens an index database for queries only.
func OpenReader(path string) (*sql.DB, error) {
	return sql.Open("sqlite", "file:"+path+"?mode=ro")
}

func ListInserts(ctx context.Context, db *sql.DB, q InsertQuery) ([]InsertRow, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		where = append(where, cond)
		args = append(args, v)
	}
	if q.OperatorID != "" {
		add("operator_id = ?", q.OperatorID)
	}
	if q.FoundationID != "" {
		add("foundation_id = ?", q.FoundationID)
	}
	if q.SessionID != "" {
		add("session_id = ?", q.SessionID)
	}
	if q.Result != "" {
		add("result = ?", strings.ToUpper(q.Result))
	}
	if q.SinceTick > 0 {
		add("tick >= ?", int64(q.SinceTick))
	}
	limit := q.Limit
	if limit <= 0 || limit > 10000 {
		limit = 100
	}

	query := `SELECT tick,seq,operator_id,session_id,mode,item_id,type_id,x,y,z,COALESCE(foundation_id,''),result FROM design_inserts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY tick, seq LIMIT ?"
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InsertRow
	for rows.Next() {
		var r InsertRow
		var tick int64
		if err := rows.Scan(&tick, &r.Seq, &r.OperatorID, &r.SessionID, &r.Mode, &r.ItemID, &r.TypeID,
			&r.Pos[0], &r.Pos[1], &r.Pos[2], &r.FoundationID, &r.Result); err != nil {
			return nil, err
		}
		r.Tick = uint64(tick)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountByResult totals insert attempts per result.
func CountByResult(ctx context.Context, db *sql.DB) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT result, COUNT(*) FROM design_inserts GROUP BY result`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var res string
		var n int
		if err := rows.Scan(&res, &n); err != nil {
			return nil, err
		}
		out[res] = n
	}
	return out, rows.Err()
}
