package extraction_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"docanalyzer/internal/domain"
	"docanalyzer/internal/extraction"
	"docanalyzer/internal/port"
	"docanalyzer/mocks"
)

const receiptText = "Starbucks Coffee #402\nDate 03/14/24\nLatte 4.50\nTOTAL due: $4.50"

func newExtractor(t *testing.T, model port.LanguageModel) *extraction.Extractor {
	return extraction.NewExtractor(model, newFallback(), time.Second, zaptest.NewLogger(t),
		extraction.WithClock(func() time.Time { return fixedNow }))
}

func jsonKeys(t *testing.T, v interface{}) []string {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestExtractor_ModelSuccess(t *testing.T) {
	model := new(mocks.MockLanguageModel)
	model.On("Complete", mock.Anything, mock.MatchedBy(func(in port.CompletionInput) bool {
		return in.SystemPrompt == extraction.SystemPrompt && in.UserPrompt == extraction.BuildUserPrompt(receiptText)
	})).Return(&port.CompletionOutput{
		Content:   `{"vendor":"Starbucks","documentType":"Receipt","date":"2024-03-14","totalAmount":"4.50","taxAmount":"0.30","confidence":92,"lineItems":[{"description":"Latte","quantity":1,"unitPrice":"4.50","amount":"4.50"}]}`,
		ModelUsed: "test-model",
	}, nil)

	data := newExtractor(t, model).Extract(context.Background(), receiptText)

	assert.Equal(t, "Starbucks", data.Vendor)
	assert.Equal(t, "2024-03-14", data.Date)
	assert.Equal(t, 92, data.Confidence)
	assert.Equal(t, domain.CategoryFoodDining, data.Category)
	assert.Len(t, data.LineItems, 1)
	model.AssertExpectations(t)
}

func TestExtractor_CategoryUsesOriginalText(t *testing.T) {
	model := new(mocks.MockLanguageModel)
	model.On("Complete", mock.Anything, mock.Anything).
		Return(&port.CompletionOutput{Content: `{"vendor":""}`}, nil)

	data := newExtractor(t, model).Extract(context.Background(), "Hotel stay\nAirport taxi")

	assert.Equal(t, domain.CategoryTravel, data.Category)
}

func TestExtractor_ModelErrorUsesFallback(t *testing.T) {
	model := new(mocks.MockLanguageModel)
	model.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("network down"))

	data := newExtractor(t, model).Extract(context.Background(), receiptText)
	want := newFallback().Extract(context.Background(), receiptText)

	assert.Equal(t, want, data)
	assert.Equal(t, jsonKeys(t, want), jsonKeys(t, data))
	assert.Equal(t, "4.50", data.TotalAmount)
	assert.Equal(t, "2024-03-14", data.Date)
	assert.Equal(t, extraction.FallbackConfidence, data.Confidence)
}

func TestExtractor_InvalidJSONUsesFallback(t *testing.T) {
	model := new(mocks.MockLanguageModel)
	model.On("Complete", mock.Anything, mock.Anything).
		Return(&port.CompletionOutput{Content: "I could not read this document."}, nil)

	data := newExtractor(t, model).Extract(context.Background(), receiptText)

	assert.Equal(t, extraction.FallbackNotes, data.Notes)
}

func TestExtractor_NilModelUsesFallback(t *testing.T) {
	data := newExtractor(t, nil).Extract(context.Background(), receiptText)
	assert.Equal(t, extraction.FallbackConfidence, data.Confidence)
}

func TestExtractor_TimeoutUsesFallback(t *testing.T) {
	model := new(mocks.MockLanguageModel)
	model.On("Complete", mock.Anything, mock.Anything).
		Return(nil, context.DeadlineExceeded).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		})

	e := extraction.NewExtractor(model, newFallback(), 20*time.Millisecond, nil)
	data := e.Extract(context.Background(), receiptText)

	assert.Equal(t, extraction.FallbackNotes, data.Notes)
}

func TestExtractor_EveryRecordIsComplete(t *testing.T) {
	responses := []string{
		`{}`,
		`{"vendor":null,"lineItems":null,"confidence":null}`,
		`not json`,
	}
	for _, content := range responses {
		model := new(mocks.MockLanguageModel)
		model.On("Complete", mock.Anything, mock.Anything).
			Return(&port.CompletionOutput{Content: content}, nil)

		data := newExtractor(t, model).Extract(context.Background(), receiptText)

		assert.NotEmpty(t, data.DocumentType, content)
		assert.NotEmpty(t, data.Date, content)
		assert.NotEmpty(t, data.TotalAmount, content)
		assert.NotEmpty(t, data.TaxAmount, content)
		assert.NotNil(t, data.LineItems, content)
		assert.True(t, data.Category.IsValid(), content)
	}
}
