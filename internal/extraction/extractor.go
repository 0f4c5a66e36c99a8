// Package extraction turns document text into a canonical record, first by
// asking a language model and otherwise with regular-expression heuristics.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"docanalyzer/internal/categorizer"
	"docanalyzer/internal/domain"
	"docanalyzer/internal/logger"
	"docanalyzer/internal/port"
)

var errNoModel = errors.New("no language model configured")

// Extractor is the model-backed field extractor. Every failure, including a
// timeout or an open rate-limit circuit, is answered by the fallback.
type Extractor struct {
	settings
	model    port.LanguageModel
	fallback port.FieldExtractor
	timeout  time.Duration
	log      *zap.Logger
}

// NewExtractor creates an Extractor. A nil model sends every document to the
// fallback and a zero timeout disables the deadline.
func NewExtractor(model port.LanguageModel, fallback port.FieldExtractor, timeout time.Duration, log *zap.Logger, opts ...Option) *Extractor {
	return &Extractor{
		settings: newSettings(opts),
		model:    model,
		fallback: fallback,
		timeout:  timeout,
		log:      logger.OrNop(log).Named("extraction"),
	}
}

// Extract returns the model's record for text, or the fallback record.
func (e *Extractor) Extract(ctx context.Context, text string) domain.ExtractedData {
	data, err := e.extract(ctx, text)
	if err != nil {
		e.log.Warn("extraction.Extractor.Extract: model extraction failed, using fallback", zap.Error(err))
		return e.fallback.Extract(ctx, text)
	}
	return data
}

func (e *Extractor) extract(ctx context.Context, text string) (data domain.ExtractedData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during model extraction: %v", r)
		}
	}()

	if e.model == nil {
		return data, errNoModel
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := e.model.Complete(ctx, port.CompletionInput{
		SystemPrompt: SystemPrompt,
		UserPrompt:   BuildUserPrompt(text),
	})
	if err != nil {
		return data, fmt.Errorf("extraction.Extractor.extract: %w", err)
	}

	raw, err := ParseResponse(out.Content)
	if err != nil {
		return data, fmt.Errorf("extraction.Extractor.extract: %w", err)
	}

	data = Normalize(raw, e.now())
	data.Category = categorizer.Classify(text, data.Vendor)

	e.log.Debug("extraction.Extractor.extract: model extraction succeeded",
		zap.String("model", out.ModelUsed), zap.Int("confidence", data.Confidence))
	return data, nil
}
