package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// LogEntry is a row of the event_log table.
type LogEntry struct {
	Seq       int64
	SiteID    string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

type SQLLog struct {
	db     *sql.DB
	siteID string
}

func NewSQLLog(db *sql.DB, siteID string) *SQLLog {
	if siteID == "" {
		siteID = "local"
	}
	return &SQLLog{db: db, siteID: siteID}
}

func (l *SQLLog) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		l.siteID, e.Type, e.Key, string(data), at.Unix())
	return err
}

// Since returns entries with a sequence number greater than seq, oldest first.
func (l *SQLLog) Since(ctx context.Context, seq int64, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at FROM event_log
		 WHERE seq > $1 ORDER BY seq LIMIT $2`, seq, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
