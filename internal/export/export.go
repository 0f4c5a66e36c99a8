// Package export renders stored documents as CSV or XLSX spreadsheets.
package export

import (
	"fmt"
	"strconv"
	"time"

	"docanalyzer/internal/domain"
)

// columns is the document header shared by both formats.
var columns = []string{
	"ID",
	"Vendor",
	"Document Type",
	"Date",
	"Document Number",
	"Total Amount",
	"Tax Amount",
	"Category",
	"Confidence",
	"Line Item Count",
	"Notes",
	"Image",
	"Created At",
	"Updated At",
}

var lineItemColumns = []string{
	"Document ID",
	"Description",
	"Quantity",
	"Unit Price",
	"Amount",
}

func documentToRow(doc *domain.Document) []string {
	return []string{
		strconv.FormatInt(doc.ID, 10),
		doc.Vendor,
		doc.DocumentType,
		doc.Date,
		doc.DocumentNumber,
		doc.TotalAmount,
		doc.TaxAmount,
		string(doc.Category),
		strconv.Itoa(doc.Confidence),
		strconv.Itoa(len(doc.LineItems)),
		doc.Notes,
		doc.ImageURL,
		formatTime(doc.CreatedAt),
		formatTime(doc.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ContentType returns the MIME type of an export format.
func ContentType(format domain.ExportFormat) string {
	switch format {
	case domain.ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// BuildFilename returns the download name for an export made at now.
// Format: documents_{YYYY-MM-DD}.{ext}
func BuildFilename(format domain.ExportFormat, now time.Time) string {
	return fmt.Sprintf("documents_%s.%s", now.UTC().Format("2006-01-02"), format)
}
