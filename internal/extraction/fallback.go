package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"docanalyzer/internal/categorizer"
	"docanalyzer/internal/domain"
)

const (
	// UnknownVendor is reported when no line qualifies as a vendor name.
	UnknownVendor = "Unknown Vendor"
	// FallbackNotes marks records produced without the language model.
	FallbackNotes = "Extracted using fallback mode. Please review and correct data as needed."
	// FallbackConfidence is the fixed confidence of heuristic records.
	FallbackConfidence = 30

	vendorScanLines    = 5
	minVendorRunes     = 4
	documentNumberSpan = 10000
)

var (
	vendorStoplist = regexp.MustCompile(`(?i)^(date|invoice|amount|total|bill|receipt)`)
	datePattern    = regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})`)
	totalPattern   = regexp.MustCompile(`(?i)total\D*(\d+[.,]\d{2})`)
	amountPattern  = regexp.MustCompile(`(\$|€|£)?(\d+[.,]\d{2})`)
)

// Fallback extracts fields with regular expressions only. It is total and
// safe for concurrent use.
type Fallback struct {
	settings
}

// NewFallback creates a Fallback.
func NewFallback(opts ...Option) *Fallback {
	return &Fallback{settings: newSettings(opts)}
}

// Extract builds a low-confidence record from text.
func (f *Fallback) Extract(_ context.Context, text string) domain.ExtractedData {
	vendor := fallbackVendor(text)
	total := fallbackTotal(text)

	documentType := domain.DocumentTypeReceipt
	if strings.Contains(strings.ToLower(text), "invoice") {
		documentType = domain.DocumentTypeInvoice
	}

	return domain.ExtractedData{
		Vendor:         vendor,
		DocumentType:   documentType,
		Date:           fallbackDate(text, f.now()),
		DocumentNumber: fmt.Sprintf("%04d", f.random(documentNumberSpan)),
		TotalAmount:    total,
		TaxAmount:      zeroAmount,
		LineItems: domain.LineItems{{
			Description: "Item",
			Quantity:    domain.DefaultQuantity,
			UnitPrice:   total,
			Amount:      total,
		}},
		Notes:      FallbackNotes,
		Confidence: FallbackConfidence,
		Category:   categorizer.Classify(text, vendor),
	}
}

func fallbackVendor(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > vendorScanLines {
		lines = lines[:vendorScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) >= minVendorRunes && !vendorStoplist.MatchString(line) {
			return line
		}
	}
	return UnknownVendor
}

// fallbackDate reads the first D/M/Y-looking date. When the middle part
// cannot be a month but the first can, the parts are read as M/D/Y instead.
// Only two- and four-digit years are understood.
func fallbackDate(text string, now time.Time) string {
	today := now.UTC().Format(dateLayout)

	m := datePattern.FindStringSubmatch(text)
	if m == nil || len(m[3]) == 3 {
		return today
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month > 12 && day <= 12 {
		day, month = month, day
	}
	if len(m[3]) == 2 {
		year += 2000
	}

	iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if _, err := time.Parse(dateLayout, iso); err != nil {
		return today
	}
	return iso
}

func fallbackTotal(text string) string {
	if m := totalPattern.FindStringSubmatch(text); m != nil {
		return strings.Replace(m[1], ",", ".", 1)
	}
	if m := amountPattern.FindStringSubmatch(text); m != nil {
		return strings.Replace(m[2], ",", ".", 1)
	}
	return zeroAmount
}
