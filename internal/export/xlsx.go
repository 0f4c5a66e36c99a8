package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"docanalyzer/internal/domain"
)

const (
	// DocumentsSheet holds one row per document.
	DocumentsSheet = "Documents"
	// LineItemsSheet holds one row per line item, keyed by document ID.
	LineItemsSheet = "Line Items"
)

// WriteXLSX writes a workbook with a documents sheet and a line items sheet.
func WriteXLSX(out io.Writer, docs []domain.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DocumentsSheet); err != nil {
		return fmt.Errorf("xlsx rename sheet: %w", err)
	}
	if _, err := f.NewSheet(LineItemsSheet); err != nil {
		return fmt.Errorf("xlsx new sheet: %w", err)
	}
	index, err := f.GetSheetIndex(DocumentsSheet)
	if err != nil {
		return fmt.Errorf("xlsx sheet index: %w", err)
	}
	f.SetActiveSheet(index)

	writeRow(f, DocumentsSheet, 1, toCells(columns))
	for i := range docs {
		doc := &docs[i]
		writeRow(f, DocumentsSheet, i+2, []interface{}{
			doc.ID,
			doc.Vendor,
			doc.DocumentType,
			doc.Date,
			doc.DocumentNumber,
			doc.TotalAmount,
			doc.TaxAmount,
			string(doc.Category),
			doc.Confidence,
			len(doc.LineItems),
			doc.Notes,
			doc.ImageURL,
			formatTime(doc.CreatedAt),
			formatTime(doc.UpdatedAt),
		})
	}

	writeRow(f, LineItemsSheet, 1, toCells(lineItemColumns))
	row := 2
	for i := range docs {
		for _, item := range docs[i].LineItems {
			writeRow(f, LineItemsSheet, row, []interface{}{
				docs[i].ID,
				item.Description,
				item.Quantity.String(),
				item.UnitPrice,
				item.Amount,
			})
			row++
		}
	}

	_ = f.SetColWidth(DocumentsSheet, "B", "B", 28) // vendor
	_ = f.SetColWidth(DocumentsSheet, "C", "H", 16)
	_ = f.SetColWidth(DocumentsSheet, "K", "K", 48) // notes
	_ = f.SetColWidth(DocumentsSheet, "L", "L", 40) // image
	_ = f.SetColWidth(DocumentsSheet, "M", "N", 22) // timestamps
	_ = f.SetColWidth(LineItemsSheet, "B", "B", 40) // description

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
