package port

import "context"

// CompletionInput is a single JSON-mode request to a language model.
type CompletionInput struct {
	SystemPrompt string
	UserPrompt   string
}

// CompletionOutput holds the raw model reply.
type CompletionOutput struct {
	Content   string
	ModelUsed string
}

// LanguageModel abstracts an LLM that can be forced to answer with a JSON object.
type LanguageModel interface {
	Complete(ctx context.Context, input CompletionInput) (*CompletionOutput, error)
}
