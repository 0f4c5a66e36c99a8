package port

import (
	"context"

	"docanalyzer/internal/domain"
)

// TextExtractor converts raw document bytes into cleaned text. It never fails.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) string
}

// FieldExtractor converts document text into a canonical record. It never fails.
type FieldExtractor interface {
	Extract(ctx context.Context, text string) domain.ExtractedData
}

// DocumentAnalyzer runs the full extraction pipeline on one document.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, data []byte) *domain.AnalysisResult
}
