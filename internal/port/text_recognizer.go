package port

import "context"

// TextRecognizer turns document bytes into best-effort raw text.
type TextRecognizer interface {
	Recognize(ctx context.Context, data []byte, mimeType string) (string, error)
}
