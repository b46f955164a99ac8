package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/receiptvault/internal/common"
	"github.com/dmitrijs2005/receiptvault/internal/dbx"
	"github.com/dmitrijs2005/receiptvault/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). OCR text is sealed at rest when a Sealer is supplied.
type SQLiteRepository struct {
	db     dbx.DBTX
	sealer Sealer
}

// NewSQLiteRepository returns a repository bound to the given DBTX. sealer
// may be nil, in which case OCR text is stored as plaintext.
func NewSQLiteRepository(db dbx.DBTX, sealer Sealer) *SQLiteRepository {
	return &SQLiteRepository{db: db, sealer: sealer}
}

// WithTx returns a copy of the repository bound to the transactional
// handle, sharing the same sealer.
func (r *SQLiteRepository) WithTx(tx dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: tx, sealer: r.sealer}
}

const recordColumns = `id, store_name, purchase_date, total_amount, tags, notes, ocr_text, image_uri, created_at, updated_at`

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	tags, ocr, err := r.encodeSensitive(rec)
	if err != nil {
		return err
	}

	query := `INSERT INTO records (` + recordColumns + `, revision)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.StoreName, rec.Date.UTC().Format(time.RFC3339Nano), rec.TotalAmount,
		tags, rec.Notes, ocr, rec.ImageURI,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, rec *models.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	tags, ocr, err := r.encodeSensitive(rec)
	if err != nil {
		return err
	}

	query := `UPDATE records SET store_name=?, purchase_date=?, total_amount=?, tags=?, notes=?,
			ocr_text=?, image_uri=?, created_at=?, updated_at=?, revision=revision+1
			WHERE id=?`
	res, err := r.db.ExecContext(ctx, query,
		rec.StoreName, rec.Date.UTC().Format(time.RFC3339Nano), rec.TotalAmount,
		tags, rec.Notes, ocr, rec.ImageURI,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
		rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Replace drops any row with the same id and inserts rec fresh. When bound
// to a plain *sql.DB the two statements run in one transaction; when
// already inside a transaction they run on that handle directly.
func (r *SQLiteRepository) Replace(ctx context.Context, rec *models.Record) error {
	do := func(ctx context.Context, h dbx.DBTX) error {
		if _, err := h.ExecContext(ctx, `DELETE FROM records WHERE id=?`, rec.ID); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		return r.WithTx(h).Insert(ctx, rec)
	}

	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, do)
	}
	return do(ctx, r.db)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id=?`, id)
	rec, err := r.scan(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY purchase_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		rec, err := r.scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Revision(ctx context.Context, id string) (int64, error) {
	var rev int64
	err := r.db.QueryRowContext(ctx, `SELECT revision FROM records WHERE id=?`, id).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrorNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read revision: %w", err)
	}
	return rev, nil
}

// encodeSensitive serializes the tags list and seals OCR text when a
// sealer is configured.
func (r *SQLiteRepository) encodeSensitive(rec *models.Record) (tags string, ocr []byte, err error) {
	t := rec.Tags
	if t == nil {
		t = []string{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return "", nil, fmt.Errorf("marshal tags: %w", err)
	}

	ocr = []byte(rec.OCRText)
	if r.sealer != nil {
		ocr, err = r.sealer.Seal(ocr)
		if err != nil {
			return "", nil, fmt.Errorf("seal ocr text: %w", err)
		}
	}
	return string(b), ocr, nil
}

func (r *SQLiteRepository) scan(scan func(dest ...any) error) (*models.Record, error) {
	var (
		rec                       models.Record
		dateS, createdS, updatedS string
		tagsJSON                  string
		ocr                       []byte
	)
	if err := scan(&rec.ID, &rec.StoreName, &dateS, &rec.TotalAmount, &tagsJSON,
		&rec.Notes, &ocr, &rec.ImageURI, &createdS, &updatedS); err != nil {
		return nil, err
	}

	var err error
	if rec.Date, err = time.Parse(time.RFC3339Nano, dateS); err != nil {
		return nil, fmt.Errorf("parse purchase_date: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdS); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedS); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
		return nil, fmt.Errorf("parse tags: %w", err)
	}

	if r.sealer != nil {
		ocr, err = r.sealer.Open(ocr)
		if err != nil {
			return nil, fmt.Errorf("open ocr text: %w", err)
		}
	}
	rec.OCRText = string(ocr)
	return &rec, nil
}
