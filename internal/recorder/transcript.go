package recorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoSession is returned by Load when the requested session, or any
// session at all, does not exist.
var ErrNoSession = errors.New("no recorded session")

// SessionInfo describes one recorded session.
type SessionInfo struct {
	ID        string
	Endpoint  string
	StartedAt time.Time
	Lines     int
}

// Entry is one recorded line.
type Entry struct {
	Seq        int64
	Direction  Direction
	Line       string
	RecordedAt time.Time
}

// Sessions lists the sessions in the database at path, newest first.
func Sessions(ctx context.Context, path string) ([]SessionInfo, error) {
	db, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
	SELECT s.id, s.endpoint, s.started_at, COUNT(l.id)
	FROM sessions s LEFT JOIN lines l ON l.session_id = s.id
	GROUP BY s.id
	ORDER BY s.started_at DESC, s.rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var s SessionInfo
		if err := rows.Scan(&s.ID, &s.Endpoint, &s.StartedAt, &s.Lines); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Load returns the lines of one session in recording order. An empty
// sessionID selects the most recent session.
func Load(ctx context.Context, path, sessionID string) (SessionInfo, []Entry, error) {
	db, err := openReader(path)
	if err != nil {
		return SessionInfo{}, nil, err
	}
	defer db.Close()

	var info SessionInfo
	var row *sql.Row
	if sessionID == "" {
		row = db.QueryRowContext(ctx, `
		SELECT id, endpoint, started_at FROM sessions
		ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	} else {
		row = db.QueryRowContext(ctx,
			`SELECT id, endpoint, started_at FROM sessions WHERE id = ?`, sessionID)
	}
	if err := row.Scan(&info.ID, &info.Endpoint, &info.StartedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SessionInfo{}, nil, ErrNoSession
		}
		return SessionInfo{}, nil, err
	}

	rows, err := db.QueryContext(ctx, `
	SELECT id, direction, line, recorded_at FROM lines
	WHERE session_id = ? ORDER BY id`, info.ID)
	if err != nil {
		return SessionInfo{}, nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var dir string
		if err := rows.Scan(&e.Seq, &dir, &e.Line, &e.RecordedAt); err != nil {
			return SessionInfo{}, nil, err
		}
		e.Direction = Direction(dir)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return SessionInfo{}, nil, err
	}
	info.Lines = len(entries)
	return info, entries, nil
}

// openReader opens an existing transcript, bringing its schema up to date.
func openReader(path string) (*sql.DB, error) {
	if err := Migrate(path); err != nil {
		return nil, fmt.Errorf("open transcript %s: %w", path, err)
	}
	return openDB(path)
}
