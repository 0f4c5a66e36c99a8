package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docanalyzer/internal/domain"
	"docanalyzer/internal/pipeline"
	"docanalyzer/mocks"
)

func TestAnalyze_RunsStagesInOrder(t *testing.T) {
	input := []byte{0xff, 0xd8, 0x01}
	var order []string

	text := new(mocks.MockTextExtractor)
	text.On("Extract", mock.Anything, input).Return("Staples\nTotal 9.99").
		Run(func(mock.Arguments) { order = append(order, "text") })

	fields := new(mocks.MockFieldExtractor)
	fields.On("Extract", mock.Anything, "Staples\nTotal 9.99").Return(domain.ExtractedData{
		Vendor:       "Staples",
		DocumentType: "Receipt",
		TotalAmount:  "9.99",
		LineItems:    domain.LineItems{},
		Category:     domain.CategoryOfficeSupplies,
	}).Run(func(mock.Arguments) { order = append(order, "fields") })

	result := pipeline.NewAnalyzer(text, fields, nil).Analyze(context.Background(), input)

	assert.Equal(t, []string{"text", "fields"}, order)
	assert.Equal(t, "Staples\nTotal 9.99", result.OCRText)
	assert.Equal(t, "Staples", result.Data.Vendor)
	assert.Equal(t, domain.CategoryOfficeSupplies, result.Data.Category)
	text.AssertExpectations(t)
	fields.AssertExpectations(t)
}

func TestAnalyze_FillsMissingCategoryAndItems(t *testing.T) {
	text := new(mocks.MockTextExtractor)
	text.On("Extract", mock.Anything, mock.Anything).Return("some text")

	fields := new(mocks.MockFieldExtractor)
	fields.On("Extract", mock.Anything, "some text").Return(domain.ExtractedData{})

	result := pipeline.NewAnalyzer(text, fields, nil).Analyze(context.Background(), []byte("x"))

	assert.Equal(t, domain.CategoryOther, result.Data.Category)
	assert.NotNil(t, result.Data.LineItems)
}
