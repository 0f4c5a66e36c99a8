package domain

import (
	"errors"
	"strings"
)

var (
	ErrDocumentNotFound        = errors.New("document not found")
	ErrStorageUnavailable      = errors.New("storage unavailable")
	ErrInvalidID               = errors.New("invalid document id")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed            = errors.New("file upload to storage failed")
	ErrImageNotFound           = errors.New("document has no stored image")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	ErrValidation              = errors.New("validation failed")
)

// FieldError describes one invalid field of a record.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a record fails write validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
