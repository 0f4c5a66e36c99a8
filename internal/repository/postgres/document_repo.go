package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"docanalyzer/internal/domain"
	"docanalyzer/internal/port"
)

const documentColumns = `id, vendor, document_type, date, document_number,
	total_amount, tax_amount, line_items, notes, confidence, category,
	ocr_text, image_url, created_at, updated_at`

type documentRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db, now: time.Now}
}

// unavailable marks a driver or connection failure.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := r.now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.LineItems == nil {
		doc.LineItems = domain.LineItems{}
	}

	query := `INSERT INTO documents (
		vendor, document_type, date, document_number,
		total_amount, tax_amount, line_items, notes, confidence, category,
		ocr_text, image_url, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14
	) RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		doc.Vendor, doc.DocumentType, doc.Date, doc.DocumentNumber,
		doc.TotalAmount, doc.TaxAmount, doc.LineItems, doc.Notes, doc.Confidence, doc.Category,
		doc.OCRText, doc.ImageURL, doc.CreatedAt, doc.UpdatedAt,
	).Scan(&doc.ID)
	if err != nil {
		return unavailable("documentRepo.Create", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT "+documentColumns+" FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, unavailable("documentRepo.GetByID", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context) ([]domain.Document, error) {
	docs := []domain.Document{}
	err := r.db.SelectContext(ctx, &docs,
		"SELECT "+documentColumns+" FROM documents ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, unavailable("documentRepo.List", err)
	}
	return docs, nil
}

func (r *documentRepo) Update(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = r.now().UTC()
	if doc.LineItems == nil {
		doc.LineItems = domain.LineItems{}
	}

	query := `UPDATE documents SET
		vendor = $1, document_type = $2, date = $3, document_number = $4,
		total_amount = $5, tax_amount = $6, line_items = $7, notes = $8,
		confidence = $9, category = $10, ocr_text = $11, image_url = $12,
		updated_at = $13
	WHERE id = $14`

	result, err := r.db.ExecContext(ctx, query,
		doc.Vendor, doc.DocumentType, doc.Date, doc.DocumentNumber,
		doc.TotalAmount, doc.TaxAmount, doc.LineItems, doc.Notes,
		doc.Confidence, doc.Category, doc.OCRText, doc.ImageURL,
		doc.UpdatedAt, doc.ID)
	if err != nil {
		return unavailable("documentRepo.Update", err)
	}
	return requireAffected("documentRepo.Update", result)
}

func (r *documentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return unavailable("documentRepo.Delete", err)
	}
	return requireAffected("documentRepo.Delete", result)
}

func requireAffected(op string, result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return unavailable(op, err)
	}
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
