// Package recorder keeps a sqlite transcript of the lines exchanged with the
// peer, so a session can be replayed later.
package recorder

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lifeboatapi/screensim/simprotocol"
)

// Direction tells which side sent a line.
type Direction string

const (
	Inbound  Direction = "in"
	Outbound Direction = "out"
)

// bufferSize bounds how many lines can wait for the writer before Record
// starts dropping.
const bufferSize = 4096

type entry struct {
	dir  Direction
	line string
	at   time.Time
}

// Recorder appends lines to one transcript session. Record never blocks;
// lines are written by a background goroutine.
type Recorder struct {
	db     *sql.DB
	id     string
	logger *slog.Logger

	entries   chan entry
	done      chan struct{}
	dropped   atomic.Int64
	closeOnce sync.Once
	closeErr  error
}

// Open migrates the database at path and starts a new transcript session for
// endpoint.
func Open(ctx context.Context, path, endpoint string, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := Migrate(path); err != nil {
		return nil, err
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO sessions(id, endpoint, started_at) VALUES (?, ?, ?)`,
		id, endpoint, now()); err != nil {
		db.Close()
		return nil, err
	}

	r := &Recorder{
		db:      db,
		id:      id,
		logger:  logger.With("session", id),
		entries: make(chan entry, bufferSize),
		done:    make(chan struct{}),
	}
	go r.writeLoop()
	r.logger.Info("Recording session", "db", path)
	return r, nil
}

// SessionID returns the id of the transcript session being written.
func (r *Recorder) SessionID() string { return r.id }

// Dropped returns how many lines were discarded because the writer fell
// behind.
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// Record queues a line. It must not be called after Close.
func (r *Recorder) Record(dir Direction, line string) {
	select {
	case r.entries <- entry{dir: dir, line: line, at: now()}:
	default:
		r.dropped.Add(1)
	}
}

func (r *Recorder) writeLoop() {
	defer close(r.done)
	stmt, err := r.db.Prepare(
		`INSERT INTO lines(session_id, direction, line, recorded_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		r.logger.Error("Recorder disabled", "error", err)
		for range r.entries {
		}
		return
	}
	defer stmt.Close()

	for e := range r.entries {
		if _, err := stmt.Exec(r.id, string(e.dir), e.line, e.at); err != nil {
			r.logger.Warn("Failed to record line", "error", err)
		}
	}
}

// Close flushes queued lines and closes the database.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.entries)
		<-r.done
		if n := r.dropped.Load(); n > 0 {
			r.logger.Warn("Recorder dropped lines", "count", n)
		}
		r.closeErr = r.db.Close()
	})
	return r.closeErr
}

// Wrap returns a transport that records every line passing through t.
func (r *Recorder) Wrap(t simprotocol.Transport) simprotocol.Transport {
	return &recordingTransport{Transport: t, rec: r}
}

type recordingTransport struct {
	simprotocol.Transport
	rec *Recorder
}

func (t *recordingTransport) Send(line string) error {
	if err := t.Transport.Send(line); err != nil {
		return err
	}
	t.rec.Record(Outbound, line)
	return nil
}

func (t *recordingTransport) Next(ctx context.Context) (string, error) {
	line, err := t.Transport.Next(ctx)
	if err == nil {
		t.rec.Record(Inbound, line)
	}
	return line, err
}

func now() time.Time {
	return time.Now().UTC()
}
