package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PassRow is one denormalized row of the three-table legacy join. Immutable
// from the pipeline's perspective.
type PassRow struct {
	PassID         string
	VisitorID      string
	ConferenceID   string
	PassData       []byte
	CheckinData    []byte // nullable
	CreatedAt      time.Time
	ConferenceName string
	VisitorData    []byte
}

// Reader queries the legacy Postgres database. It never writes.
type Reader struct{ db *sql.DB }

// NewReader creates a legacy reader over an open connection.
func NewReader(db *sql.DB) *Reader { return &Reader{db: db} }

const passQuery = `
	SELECT vp.pass_id, vp.visitor_id, vp.conference_id,
	       vp.pass_data, vp.checkin_data, vp.created_at,
	       c.name, v.visitor_data
	FROM visitor_pass vp
	JOIN visitor v ON v.id = vp.visitor_id
	JOIN conference c ON c.id = vp.conference_id
	ORDER BY vp.created_at ASC`

// FetchPasses returns legacy pass rows ordered by creation time ascending.
// limit <= 0 fetches everything.
func (r *Reader) FetchPasses(ctx context.Context, limit int) ([]PassRow, error) {
	query := passQuery
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch legacy passes: %w", err)
	}
	defer rows.Close()

	var out []PassRow
	for rows.Next() {
		var (
			p       PassRow
			checkin sql.NullString
		)
		if err := rows.Scan(&p.PassID, &p.VisitorID, &p.ConferenceID,
			&p.PassData, &checkin, &p.CreatedAt,
			&p.ConferenceName, &p.VisitorData); err != nil {
			return nil, fmt.Errorf("scan legacy pass: %w", err)
		}
		if checkin.Valid {
			p.CheckinData = []byte(checkin.String)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy passes: %w", err)
	}
	return out, nil
}

// CountPasses returns the total number of issued passes in the legacy store.
func (r *Reader) CountPasses(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visitor_pass`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count legacy passes: %w", err)
	}
	return n, nil
}

// TableCounts reports per-table row counts for the explore command.
type TableCounts struct {
	Visitors    int
	Passes      int
	Conferences int
}

// Explore returns row counts for the three source tables.
func (r *Reader) Explore(ctx context.Context) (TableCounts, error) {
	var tc TableCounts
	queries := []struct {
		sql  string
		dest *int
	}{
		{`SELECT COUNT(*) FROM visitor`, &tc.Visitors},
		{`SELECT COUNT(*) FROM visitor_pass`, &tc.Passes},
		{`SELECT COUNT(*) FROM conference`, &tc.Conferences},
	}
	for _, q := range queries {
		if err := r.db.QueryRowContext(ctx, q.sql).Scan(q.dest); err != nil {
			return tc, fmt.Errorf("explore legacy tables: %w", err)
		}
	}
	return tc, nil
}

// Ping verifies the legacy connection is usable.
func (r *Reader) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping legacy database: %w", err)
	}
	return nil
}
