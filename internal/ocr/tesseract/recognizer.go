// Package tesseract recognizes text locally with the Tesseract engine.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"docanalyzer/internal/config"
	"docanalyzer/internal/logger"
	"docanalyzer/internal/ocr"
)

// Recognizer implements port.TextRecognizer with gosseract. A fresh client
// is created per call so concurrent requests never share engine state.
type Recognizer struct {
	languages   []string
	pageSegMode gosseract.PageSegMode
	preprocess  bool
	log         *zap.Logger
}

// NewRecognizer creates a Tesseract recognizer from the OCR config.
func NewRecognizer(cfg *config.OCRConfig, log *zap.Logger) *Recognizer {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &Recognizer{
		languages:   langs,
		pageSegMode: gosseract.PageSegMode(cfg.PageSegMode),
		preprocess:  cfg.Preprocess,
		log:         logger.OrNop(log).Named("tesseract"),
	}
}

func (r *Recognizer) Recognize(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img := data
	if r.preprocess && mimeType != "application/pdf" {
		prepared, err := ocr.Preprocess(data)
		if err != nil {
			r.log.Debug("tesseract.Recognize: preprocessing skipped", zap.Error(err))
		} else {
			img = prepared
		}
	}

	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := client.SetLanguage(r.languages...); err != nil {
		return "", fmt.Errorf("setting language: %w", err)
	}
	if err := client.SetPageSegMode(r.pageSegMode); err != nil {
		return "", fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("loading image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract recognition: %w", err)
	}
	return text, nil
}
