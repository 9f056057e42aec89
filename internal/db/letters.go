package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/nicl-arrears/internal/letters"
)

const schema = `
CREATE TABLE IF NOT EXISTS arrears_batch (
	batch_id   BIGSERIAL PRIMARY KEY,
	source     TEXT NOT NULL,
	category   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS arrears_letter (
	batch_id      BIGINT NOT NULL REFERENCES arrears_batch(batch_id) ON DELETE CASCADE,
	row_no        INTEGER NOT NULL,
	policy_no     TEXT NOT NULL,
	customer      TEXT NOT NULL,
	full_address  TEXT,
	address_lines TEXT[] NOT NULL DEFAULT '{}',
	address_columns TEXT[] NOT NULL DEFAULT '{}',
	arrears       NUMERIC(14,2) NOT NULL,
	file_name     TEXT,
	payment       JSONB,
	comments      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (batch_id, row_no)
);

ALTER TABLE arrears_letter ADD COLUMN IF NOT EXISTS address_columns TEXT[] NOT NULL DEFAULT '{}';
`

// StoredLetter is one row of a stored batch
type StoredLetter struct {
	BatchID     int64     `json:"batch_id"`
	Row         int       `json:"row"`
	PolicyNo    string    `json:"policy_no"`
	Customer    string    `json:"customer"`
	FullAddress *string   `json:"full_address"`
	Address     []string  `json:"address"`
	Columns     []string  `json:"address_columns"`
	Arrears     float64   `json:"arrears"`
	FileName    *string   `json:"file_name"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}

// Prepared reports whether the row produced a letter
func (s StoredLetter) Prepared() bool {
	return s.FileName != nil && (s.Comments == "" || s.Comments == letters.GeneratedComment)
}

// LetterStore keeps prepared batches in Postgres
type LetterStore struct {
	db *sql.DB
}

// NewLetterStore creates a store on db
func NewLetterStore(db *sql.DB) *LetterStore {
	return &LetterStore{db: db}
}

// EnsureSchema creates the batch tables when missing
func (s *LetterStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// CreateBatch registers a new batch and returns its ID
func (s *LetterStore) CreateBatch(ctx context.Context, source, category string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO arrears_batch (source, category) VALUES ($1, $2) RETURNING batch_id`,
		source, category).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert batch: %w", err)
	}
	return id, nil
}

// DeleteBatch removes a batch and, through the cascade, all of its rows
func (s *LetterStore) DeleteBatch(ctx context.Context, batchID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM arrears_batch WHERE batch_id = $1`, batchID); err != nil {
		return fmt.Errorf("failed to delete batch %d: %w", batchID, err)
	}
	return nil
}

// SaveResult stores one row. letter is nil for rejected rows, which keep
// their comment.
func (s *LetterStore) SaveResult(ctx context.Context, batchID int64, row int, rec letters.Record, letter *letters.Letter, comment string) error {
	var (
		address  []string
		columns  []string
		fileName sql.NullString
		payment  []byte
		customer = rec.CustomerName()
	)
	if letter != nil {
		address = letter.Address
		columns = letter.Columns.Slice()
		fileName = sql.NullString{String: letter.FileName, Valid: true}
		customer = letter.Customer

		var err error
		if payment, err = json.Marshal(letter.Payment); err != nil {
			return fmt.Errorf("failed to encode payment request: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO arrears_letter (
			batch_id, row_no, policy_no, customer, full_address,
			address_lines, address_columns, arrears, file_name, payment, comments
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11)
		ON CONFLICT (batch_id, row_no) DO UPDATE SET
			address_lines   = EXCLUDED.address_lines,
			address_columns = EXCLUDED.address_columns,
			file_name     = EXCLUDED.file_name,
			payment       = EXCLUDED.payment,
			comments      = EXCLUDED.comments
	`, batchID, row, rec.PolicyNo, customer, rec.FullAddress,
		pq.Array(nonNil(address)), pq.Array(nonNil(columns)), rec.Arrears, fileName, nullJSON(payment), comment)
	if err != nil {
		return fmt.Errorf("failed to insert letter row %d: %w", row, err)
	}
	return nil
}

// ListLetters returns the rows of a batch in input order
func (s *LetterStore) ListLetters(ctx context.Context, batchID int64) ([]StoredLetter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.batch_id, l.row_no, l.policy_no, l.customer, l.full_address,
		       l.address_lines, l.address_columns, l.arrears, l.file_name, l.comments, b.created_at
		FROM arrears_letter l
		JOIN arrears_batch b ON b.batch_id = l.batch_id
		WHERE l.batch_id = $1
		ORDER BY l.row_no
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query letters: %w", err)
	}
	defer rows.Close()

	var out []StoredLetter
	for rows.Next() {
		var sl StoredLetter
		if err := rows.Scan(&sl.BatchID, &sl.Row, &sl.PolicyNo, &sl.Customer, &sl.FullAddress,
			pq.Array(&sl.Address), pq.Array(&sl.Columns), &sl.Arrears, &sl.FileName, &sl.Comments, &sl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan letter: %w", err)
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
