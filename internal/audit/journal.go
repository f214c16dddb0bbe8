package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Journal records every submission attempt in a local sqlite file so an
// operator can reconstruct what the console did after the fact. Journal
// failures never block a workflow.
type Journal struct {
	conn *sql.DB
}

type Entry struct {
	ID        string
	Kind      string
	Outcome   string
	Detail    string
	CreatedAt time.Time
}

func Open(path string) (*Journal, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	j := &Journal{conn: conn}
	if err := j.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create journal tables: %w", err)
	}
	return j, nil
}

func (j *Journal) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT,
		created_at DATETIME NOT NULL
	);
	`

	_, err := j.conn.Exec(query)
	return err
}

func (j *Journal) Record(kind, outcome, detail string) error {
	_, err := j.conn.Exec(
		`INSERT INTO submissions (id, kind, outcome, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), kind, outcome, detail, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

func (j *Journal) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.conn.Query(
		`SELECT id, kind, outcome, detail, created_at FROM submissions ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (j *Journal) Close() error {
	return j.conn.Close()
}
