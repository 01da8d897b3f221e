package driving

import (
	"context"

	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/core/ports/driven"
)

// AnswerService answers user questions from the indexed document base.
type AnswerService interface {
	// Ask analyzes the question, retrieves context (standard or
	// multi-query search as decided by the analyzer) and generates an
	// answer. Questions yielding no relevant chunks produce a fixed
	// insufficient-information answer without calling the completion
	// provider.
	Ask(ctx context.Context, question string, history []driven.ChatMessage, catalogID string) (*domain.Answer, error)
}
