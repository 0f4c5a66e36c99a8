// Package pipeline runs text extraction and field extraction for one document.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"docanalyzer/internal/domain"
	"docanalyzer/internal/logger"
	"docanalyzer/internal/port"
)

// Analyzer composes the two extraction stages sequentially.
// It implements port.DocumentAnalyzer.
type Analyzer struct {
	text   port.TextExtractor
	fields port.FieldExtractor
	log    *zap.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(text port.TextExtractor, fields port.FieldExtractor, log *zap.Logger) *Analyzer {
	return &Analyzer{
		text:   text,
		fields: fields,
		log:    logger.OrNop(log).Named("pipeline"),
	}
}

// Analyze always returns a fully populated result.
func (a *Analyzer) Analyze(ctx context.Context, data []byte) *domain.AnalysisResult {
	start := time.Now()

	text := a.text.Extract(ctx, data)
	fields := a.fields.Extract(ctx, text)
	if !fields.Category.IsValid() {
		fields.Category = domain.CategoryOther
	}
	if fields.LineItems == nil {
		fields.LineItems = domain.LineItems{}
	}

	a.log.Info("pipeline.Analyzer.Analyze: document analyzed",
		zap.Int("bytes", len(data)),
		zap.Int("text_length", len(text)),
		zap.String("category", string(fields.Category)),
		zap.Int("confidence", fields.Confidence),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &domain.AnalysisResult{Data: fields, OCRText: text}
}
