package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docanalyzer/internal/domain"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, data []byte) string {
	args := m.Called(ctx, data)
	return args.String(0)
}

// MockFieldExtractor is a mock implementation of port.FieldExtractor.
type MockFieldExtractor struct {
	mock.Mock
}

func (m *MockFieldExtractor) Extract(ctx context.Context, text string) domain.ExtractedData {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.ExtractedData)
}

// MockDocumentAnalyzer is a mock implementation of port.DocumentAnalyzer.
type MockDocumentAnalyzer struct {
	mock.Mock
}

func (m *MockDocumentAnalyzer) Analyze(ctx context.Context, data []byte) *domain.AnalysisResult {
	args := m.Called(ctx, data)
	return args.Get(0).(*domain.AnalysisResult)
}
