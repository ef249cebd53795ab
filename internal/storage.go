package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UploadRecord associates a local artifact with the remote file holding its content
type UploadRecord struct {
	AssistantID AssistantID
	Path        string
	FileID      FileID
	ContentHash string
	UploadedAt  time.Time
}

// ThreadSummary describes the stored transcript of one thread
type ThreadSummary struct {
	ThreadID  ThreadID
	Turns     int
	FirstTurn time.Time
	LastTurn  time.Time
}

// Store provides access to upload records and transcripts
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store over an opened database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// OpenStore opens the database at path and wraps it
func OpenStore(path string) (*Store, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// UploadRecord returns the record for path under assistant, or ErrNotFound
func (s *Store) UploadRecord(ctx context.Context, assistant AssistantID, path string) (*UploadRecord, error) {
	query := "SELECT file_id, content_hash, uploaded_at FROM uploads WHERE assistant_id = ? AND path = ?"
	rec := UploadRecord{AssistantID: assistant, Path: path}
	var fileID string
	var uploadedAt int64
	err := s.db.QueryRowContext(ctx, query, string(assistant), path).Scan(&fileID, &rec.ContentHash, &uploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("upload record for %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	rec.FileID = FileID(fileID)
	rec.UploadedAt = time.UnixMilli(uploadedAt)
	return &rec, nil
}

// SaveUploadRecord inserts or replaces the record for (assistant, path)
func (s *Store) SaveUploadRecord(ctx context.Context, rec UploadRecord) error {
	query := `INSERT INTO uploads (assistant_id, path, file_id, content_hash, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (assistant_id, path) DO UPDATE SET
			file_id = excluded.file_id,
			content_hash = excluded.content_hash,
			uploaded_at = excluded.uploaded_at`
	_, err := s.db.ExecContext(ctx, query,
		string(rec.AssistantID), rec.Path, string(rec.FileID), rec.ContentHash, rec.UploadedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save upload record: %w", err)
	}
	return nil
}

// PruneUploadRecords deletes the records of every assistant except keep
func (s *Store) PruneUploadRecords(ctx context.Context, keep AssistantID) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM uploads WHERE assistant_id <> ?", string(keep))
	if err != nil {
		return 0, fmt.Errorf("prune upload records: %w", err)
	}
	return res.RowsAffected()
}

// AppendTurn stores one transcript entry
func (s *Store) AppendTurn(ctx context.Context, thread ThreadID, turn Turn) error {
	query := "INSERT INTO turns (id, thread_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, query, turn.ID, string(thread), string(turn.Role), turn.Content, turn.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// Turns returns the transcript of thread in insertion order
func (s *Store) Turns(ctx context.Context, thread ThreadID) ([]Turn, error) {
	query := "SELECT id, role, content, created_at FROM turns WHERE thread_id = ? ORDER BY seq"
	rows, err := s.db.QueryContext(ctx, query, string(thread))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	turns := make([]Turn, 0)
	for rows.Next() {
		var turn Turn
		var role string
		var createdAt int64
		if err := rows.Scan(&turn.ID, &role, &turn.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		turn.Role = Role(role)
		turn.CreatedAt = time.UnixMilli(createdAt)
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return turns, nil
}

// Threads summarizes every stored transcript, most recently active first
func (s *Store) Threads(ctx context.Context) ([]ThreadSummary, error) {
	query := `SELECT thread_id, COUNT(*), MIN(created_at), MAX(created_at)
		FROM turns GROUP BY thread_id ORDER BY MAX(seq) DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var threads []ThreadSummary
	for rows.Next() {
		var summary ThreadSummary
		var threadID string
		var first, last int64
		if err := rows.Scan(&threadID, &summary.Turns, &first, &last); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		summary.ThreadID = ThreadID(threadID)
		summary.FirstTurn = time.UnixMilli(first)
		summary.LastTurn = time.UnixMilli(last)
		threads = append(threads, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return threads, nil
}

// UploadRecords returns every upload record, grouped by assistant and ordered by path
func (s *Store) UploadRecords(ctx context.Context) ([]UploadRecord, error) {
	query := "SELECT assistant_id, path, file_id, content_hash, uploaded_at FROM uploads ORDER BY assistant_id, path"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []UploadRecord
	for rows.Next() {
		var rec UploadRecord
		var assistant, fileID string
		var uploadedAt int64
		if err := rows.Scan(&assistant, &rec.Path, &fileID, &rec.ContentHash, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		rec.AssistantID = AssistantID(assistant)
		rec.FileID = FileID(fileID)
		rec.UploadedAt = time.UnixMilli(uploadedAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}
