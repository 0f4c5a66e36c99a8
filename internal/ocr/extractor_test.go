package ocr_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"docanalyzer/internal/ocr"
	"docanalyzer/mocks"
)

var (
	jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	pngBytes  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00}
	pdfBytes  = []byte("%PDF-1.4 body")
)

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, ocr.FormatPDF, ocr.DetectFormat(pdfBytes))
	assert.Equal(t, ocr.FormatJPEG, ocr.DetectFormat(jpegBytes))
	assert.Equal(t, ocr.FormatPNG, ocr.DetectFormat(pngBytes))
	assert.Equal(t, ocr.FormatUnknown, ocr.DetectFormat([]byte("GIF89a")))
	assert.Equal(t, ocr.FormatUnknown, ocr.DetectFormat(nil))
}

func TestFormat_MIMEType(t *testing.T) {
	assert.Equal(t, "application/pdf", ocr.FormatPDF.MIMEType())
	assert.Equal(t, "image/png", ocr.FormatPNG.MIMEType())
	assert.Equal(t, "image/jpeg", ocr.FormatJPEG.MIMEType())
	assert.Equal(t, "image/jpeg", ocr.FormatUnknown.MIMEType())
}

func TestCleanText(t *testing.T) {
	raw := "  ACME   Store \n\n   \n\tDate:\t03/14/24  \nTotal    $42.50\n"
	assert.Equal(t, "ACME Store\nDate: 03/14/24\nTotal $42.50", ocr.CleanText(raw))
	assert.Equal(t, "", ocr.CleanText(" \n\t\n"))
}

func TestExtractor_Success(t *testing.T) {
	rec := new(mocks.MockTextRecognizer)
	rec.On("Recognize", mock.Anything, pngBytes, "image/png").
		Return("ACME   Store\n\nTotal 12.00\n", nil)

	e := ocr.NewExtractor(rec, time.Second, zaptest.NewLogger(t))
	text := e.Extract(context.Background(), pngBytes)

	assert.Equal(t, "ACME Store\nTotal 12.00", text)
	rec.AssertExpectations(t)
}

func TestExtractor_UnknownSignatureDefaultsToJPEG(t *testing.T) {
	data := []byte("not an image at all")
	rec := new(mocks.MockTextRecognizer)
	rec.On("Recognize", mock.Anything, data, "image/jpeg").Return("", errors.New("bad image"))

	e := ocr.NewExtractor(rec, 0, nil)

	assert.Equal(t, ocr.PlaceholderText, e.Extract(context.Background(), data))
	rec.AssertExpectations(t)
}

func TestExtractor_ShortTextUsesPlaceholder(t *testing.T) {
	rec := new(mocks.MockTextRecognizer)
	rec.On("Recognize", mock.Anything, jpegBytes, "image/jpeg").Return("  ab \n c ", nil)

	e := ocr.NewExtractor(rec, time.Second, nil)

	assert.Equal(t, ocr.PlaceholderText, e.Extract(context.Background(), jpegBytes))
}

func TestExtractor_RecognizerErrorUsesPlaceholder(t *testing.T) {
	rec := new(mocks.MockTextRecognizer)
	rec.On("Recognize", mock.Anything, pdfBytes, "application/pdf").Return("", errors.New("engine crashed"))

	e := ocr.NewExtractor(rec, time.Second, nil)

	assert.Equal(t, ocr.PlaceholderText, e.Extract(context.Background(), pdfBytes))
}

func TestExtractor_TimeoutUsesPlaceholder(t *testing.T) {
	rec := new(mocks.MockTextRecognizer)
	rec.On("Recognize", mock.Anything, jpegBytes, "image/jpeg").
		After(500*time.Millisecond).
		Return("Late text that arrives too late", nil)

	e := ocr.NewExtractor(rec, 20*time.Millisecond, nil)

	start := time.Now()
	assert.Equal(t, ocr.PlaceholderText, e.Extract(context.Background(), jpegBytes))
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestExtractor_RecognizerPanicUsesPlaceholder(t *testing.T) {
	e := ocr.NewExtractor(panicRecognizer{}, time.Second, nil)
	assert.Equal(t, ocr.PlaceholderText, e.Extract(context.Background(), jpegBytes))
}

type panicRecognizer struct{}

func (panicRecognizer) Recognize(context.Context, []byte, string) (string, error) {
	panic("boom")
}

func TestPlaceholderText_IsStable(t *testing.T) {
	assert.Equal(t, "FALLBACK_RECEIPT\nDate: 2023-04-11\nItem 1 10.00\nTotal: $10.00", ocr.PlaceholderText)
}
