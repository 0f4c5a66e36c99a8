package extraction

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"docanalyzer/internal/domain"
)

const (
	zeroAmount = "0.00"
	dateLayout = "2006-01-02"
)

// Normalize coerces a decoded model response into a canonical record. Missing
// or null fields take their defaults, numbers become strings where text is
// expected and an unusable date becomes the date of now. Category is left for
// the caller. raw need not have passed ParseResponse: line items that are not
// objects are dropped.
func Normalize(raw map[string]interface{}, now time.Time) domain.ExtractedData {
	data := domain.ExtractedData{
		Vendor:         text(raw["vendor"]),
		DocumentType:   text(raw["documentType"]),
		Date:           isoDate(raw["date"], now),
		DocumentNumber: text(raw["documentNumber"]),
		TotalAmount:    amount(raw["totalAmount"]),
		TaxAmount:      amount(raw["taxAmount"]),
		LineItems:      lineItems(raw["lineItems"]),
		Notes:          text(raw["notes"]),
		Confidence:     confidence(raw["confidence"]),
	}
	if data.DocumentType == "" {
		data.DocumentType = domain.DocumentTypeInvoice
	}
	return data
}

func text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func amount(v interface{}) string {
	switch t := v.(type) {
	case json.Number:
		if d, err := decimal.NewFromString(t.String()); err == nil {
			return d.StringFixed(2)
		}
	case float64:
		return decimal.NewFromFloat(t).StringFixed(2)
	}
	if s := text(v); s != "" {
		return s
	}
	return zeroAmount
}

func isoDate(v interface{}, now time.Time) string {
	s := text(v)
	if len(s) == len(dateLayout) {
		if _, err := time.Parse(dateLayout, s); err == nil {
			return s
		}
	}
	return now.UTC().Format(dateLayout)
}

func confidence(v interface{}) int {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%")), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func quantity(v interface{}) domain.Quantity {
	s := text(v)
	if s == "" {
		return domain.DefaultQuantity
	}
	return domain.Quantity(s)
}

func lineItems(v interface{}) domain.LineItems {
	items := domain.LineItems{}
	list, ok := v.([]interface{})
	if !ok {
		return items
	}
	for _, entry := range list {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		items = append(items, domain.LineItem{
			Description: text(obj["description"]),
			Quantity:    quantity(obj["quantity"]),
			UnitPrice:   amount(obj["unitPrice"]),
			Amount:      amount(obj["amount"]),
		})
	}
	return items
}
