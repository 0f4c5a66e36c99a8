package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"docanalyzer/internal/categorizer"
	"docanalyzer/internal/config"
	"docanalyzer/internal/domain"
	"docanalyzer/internal/export"
	"docanalyzer/internal/logger"
	"docanalyzer/internal/port"
)

// ExtractInput is the DTO for a document upload.
type ExtractInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// ExtractResult is the canonical record of an uploaded document together
// with its recognized text and stored image key. Nothing is persisted.
type ExtractResult struct {
	domain.ExtractedData
	OCRText  string `json:"ocrText"`
	ImageURL string `json:"imageUrl"`
}

// DocumentInput is the DTO for committing or editing a document.
type DocumentInput struct {
	domain.ExtractedData
	OCRText  string `json:"ocrText"`
	ImageURL string `json:"imageUrl"`
}

// ExportResult is a rendered export file.
type ExportResult struct {
	Data        []byte
	ContentType string
	FileName    string
}

// DocumentService defines the document management contract.
type DocumentService interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error)
	Create(ctx context.Context, input *DocumentInput) (*domain.Document, error)
	Update(ctx context.Context, id int64, input *DocumentInput) (*domain.Document, error)
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	Delete(ctx context.Context, id int64) error
	GetImageURL(ctx context.Context, id int64) (string, error)
	Export(ctx context.Context, format domain.ExportFormat) (*ExportResult, error)
}

type documentService struct {
	repo       port.DocumentRepository
	analyzer   port.DocumentAnalyzer
	images     port.ImageStore // nil when image storage is disabled
	storageCfg config.StorageConfig
	uploadCfg  config.UploadConfig
	validate   *validator.Validate
	now        func() time.Time
	log        *zap.Logger
}

// NewDocumentService creates a new DocumentService implementation. images
// may be nil, in which case uploads are analyzed but not kept.
func NewDocumentService(
	repo port.DocumentRepository,
	analyzer port.DocumentAnalyzer,
	images port.ImageStore,
	storageCfg config.StorageConfig,
	uploadCfg config.UploadConfig,
	log *zap.Logger,
) DocumentService {
	return &documentService{
		repo:       repo,
		analyzer:   analyzer,
		images:     images,
		storageCfg: storageCfg,
		uploadCfg:  uploadCfg,
		validate:   newRecordValidator(),
		now:        time.Now,
		log:        logger.OrNop(log).Named("documents"),
	}
}

func (s *documentService) Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.uploadCfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Magic-byte content type detection on the first 512 bytes
	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	if _, ok := domain.AllowedContentTypes[http.DetectContentType(sniff)]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	s.log.Info("documentService.Extract: analyzing upload",
		zap.String("filename", input.Header.Filename),
		zap.String("type", string(fileType)),
		zap.Int("bytes", len(data)),
	)

	imageKey, err := s.storeImage(ctx, fileType, data)
	if err != nil {
		return nil, err
	}

	result := s.analyzer.Analyze(ctx, data)
	return &ExtractResult{
		ExtractedData: result.Data,
		OCRText:       result.OCRText,
		ImageURL:      imageKey,
	}, nil
}

func (s *documentService) storeImage(ctx context.Context, fileType domain.FileType, data []byte) (string, error) {
	if s.images == nil {
		return "", nil
	}

	key := fmt.Sprintf("documents/%s.%s", uuid.New(), fileType)
	err := s.images.Put(ctx, port.DocumentImage{
		Key:         key,
		ContentType: domain.AllowedFileTypes[fileType],
		Data:        data,
	})
	if err != nil {
		s.log.Error("documentService.storeImage: upload failed", zap.String("key", key), zap.Error(err))
		return "", domain.ErrUploadFailed
	}
	return key, nil
}

func (s *documentService) Create(ctx context.Context, input *DocumentInput) (*domain.Document, error) {
	data, err := s.prepare(input)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ExtractedData: data,
		OCRText:       input.OCRText,
		ImageURL:      input.ImageURL,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("documentService.Create: %w", err)
	}

	s.log.Info("documentService.Create: document stored",
		zap.Int64("document_id", doc.ID), zap.String("category", string(doc.Category)))
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, id int64, input *DocumentInput) (*domain.Document, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	data, err := s.prepare(input)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.ExtractedData = data
	if input.OCRText != "" {
		doc.OCRText = input.OCRText
	}
	if input.ImageURL != "" {
		doc.ImageURL = input.ImageURL
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("documentService.Update: %w", err)
	}
	return doc, nil
}

// prepare fills derived fields of a client record and validates it.
func (s *documentService) prepare(input *DocumentInput) (domain.ExtractedData, error) {
	data := input.ExtractedData
	data.Vendor = strings.TrimSpace(data.Vendor)
	data.DocumentType = strings.TrimSpace(data.DocumentType)
	if data.Category == "" {
		data.Category = categorizer.Classify(input.OCRText, data.Vendor)
	}
	data.LineItems = recomputeLineItems(data.LineItems)

	if err := validateRecord(s.validate, &data); err != nil {
		return data, err
	}
	return data, nil
}

// recomputeLineItems sets amount = quantity * unitPrice, rounded to two
// places, on every item where both parse as numbers.
func recomputeLineItems(items domain.LineItems) domain.LineItems {
	out := make(domain.LineItems, 0, len(items))
	for _, item := range items {
		item.Quantity = domain.Quantity(item.Quantity.String())
		qty, qtyOK := item.Quantity.Decimal()
		price, err := decimal.NewFromString(strings.TrimSpace(item.UnitPrice))
		if qtyOK && err == nil {
			item.Amount = qty.Mul(price).StringFixed(2)
		}
		out = append(out, item)
	}
	return out
}

func (s *documentService) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *documentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.repo.List(ctx)
}

func (s *documentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if doc.ImageURL != "" && s.images != nil {
		if err := s.images.Remove(ctx, doc.ImageURL); err != nil {
			s.log.Warn("documentService.Delete: failed to delete stored image",
				zap.Int64("document_id", id), zap.String("key", doc.ImageURL), zap.Error(err))
		}
	}
	return nil
}

func (s *documentService) GetImageURL(ctx context.Context, id int64) (string, error) {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if doc.ImageURL == "" || s.images == nil {
		return "", domain.ErrImageNotFound
	}
	return s.images.SignedURL(ctx, doc.ImageURL, time.Duration(s.storageCfg.PresignExpiry)*time.Second)
}

func (s *documentService) Export(ctx context.Context, format domain.ExportFormat) (*ExportResult, error) {
	if format == "" {
		format = domain.ExportFormatCSV
	}

	var write func(io.Writer, []domain.Document) error
	switch format {
	case domain.ExportFormatCSV:
		write = export.WriteCSV
	case domain.ExportFormatXLSX:
		write = export.WriteXLSX
	default:
		return nil, domain.ErrUnsupportedExportFormat
	}

	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := write(&buf, docs); err != nil {
		return nil, fmt.Errorf("documentService.Export: %w", err)
	}

	return &ExportResult{
		Data:        buf.Bytes(),
		ContentType: export.ContentType(format),
		FileName:    export.BuildFilename(format, s.now()),
	}, nil
}
