package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LineItem is one purchased item or service line on a document.
type LineItem struct {
	Description string   `json:"description" validate:"max=500"`
	Quantity    Quantity `json:"quantity" validate:"quantity"`
	UnitPrice   string   `json:"unitPrice" validate:"max=32"`
	Amount      string   `json:"amount" validate:"max=32"`
}

// LineItems is stored as a JSONB column.
type LineItems []LineItem

// Value implements driver.Valuer.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshaling line items: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (l *LineItems) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scanning line items: unsupported type %T", src)
	}
	items := LineItems{}
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("scanning line items: %w", err)
	}
	*l = items
	return nil
}

// ExtractedData is the canonical record produced by the extraction pipeline.
// Every field is always populated; see the extraction package for defaults.
type ExtractedData struct {
	Vendor         string    `db:"vendor" json:"vendor" validate:"max=255"`
	DocumentType   string    `db:"document_type" json:"documentType" validate:"required,max=64"`
	Date           string    `db:"date" json:"date" validate:"required,isodate"`
	DocumentNumber string    `db:"document_number" json:"documentNumber" validate:"max=128"`
	TotalAmount    string    `db:"total_amount" json:"totalAmount" validate:"required,max=32"`
	TaxAmount      string    `db:"tax_amount" json:"taxAmount" validate:"required,max=32"`
	LineItems      LineItems `db:"line_items" json:"lineItems" validate:"dive"`
	Notes          string    `db:"notes" json:"notes" validate:"max=4000"`
	Confidence     int       `db:"confidence" json:"confidence" validate:"min=0,max=100"`
	Category       Category  `db:"category" json:"category" validate:"category"`
}

// Document is a committed canonical record with system-assigned fields.
type Document struct {
	ID int64 `db:"id" json:"id"`
	ExtractedData
	OCRText   string    `db:"ocr_text" json:"ocrText"`
	ImageURL  string    `db:"image_url" json:"imageUrl"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// AnalysisResult is what the pipeline returns for one uploaded document.
type AnalysisResult struct {
	Data    ExtractedData
	OCRText string
}
