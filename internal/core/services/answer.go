package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/core/ports/driven"
	"github.com/tecfag/rag/internal/core/ports/driving"
	"github.com/tecfag/rag/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// InsufficientContextMessage is returned when retrieval yields no
// relevant chunks. The completion provider is never called with empty
// context.
const InsufficientContextMessage = "Não encontrei informações suficientes nos documentos disponíveis. " +
	"Tente reformular a pergunta ou adicionar mais documentos à base."

const answerPromptTemplate = `Você é o assistente interno da Tecfag. Responda à pergunta do funcionário usando apenas as informações dos documentos abaixo.

%s

DOCUMENTOS:
%s

PERGUNTA: %s

Responda em português, de forma objetiva. Se os documentos não contiverem a resposta, diga isso claramente.`

const greetingPromptTemplate = `Você é o assistente interno da Tecfag. O funcionário enviou uma saudação: %q
Responda de forma breve e cordial, em português, e ofereça ajuda com dúvidas sobre os documentos técnicos da empresa.`

// Default generation options for answers.
var defaultCompleteOptions = driven.CompleteOptions{
	MaxTokens:   1024,
	Temperature: 0.3,
}

// AnswerService answers questions by analyzing them, retrieving
// context and calling the completion provider.
type AnswerService struct {
	analyzer  *Analyzer
	retrieval driving.RetrievalService
	vectors   driven.VectorStore
	embedder  driven.EmbeddingService
	completer driven.CompletionService
}

// NewAnswerService creates a new answer service. The completer is
// expected to carry its own fallback behaviour (see the failover
// adapter); this service treats it as a single provider.
func NewAnswerService(
	analyzer *Analyzer,
	retrieval driving.RetrievalService,
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	completer driven.CompletionService,
) *AnswerService {
	return &AnswerService{
		analyzer:  analyzer,
		retrieval: retrieval,
		vectors:   vectors,
		embedder:  embedder,
		completer: completer,
	}
}

// Ask answers a user question from the indexed document base.
func (s *AnswerService) Ask(
	ctx context.Context, question string, history []driven.ChatMessage, catalogID string,
) (*domain.Answer, error) {
	logger.Section("Answer Pipeline")
	logger.Debug("Question: %q", question)

	analysis := s.analyzer.Analyze(question)

	if analysis.Type == domain.QueryGreeting {
		return s.answerGreeting(ctx, question, history)
	}

	chunks, err := s.retrieve(ctx, question, analysis, catalogID)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		logger.Info("No relevant chunks found, returning insufficient-context answer")
		return &domain.Answer{Text: InsufficientContextMessage}, nil
	}

	prompt := s.buildPrompt(ctx, question, analysis, chunks, catalogID)

	completion, err := s.completer.Complete(ctx, prompt, history, defaultCompleteOptions)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:    completion.Text,
		Sources: SourceFileNames(chunks),
		Usage:   completion.Usage,
	}, nil
}

// retrieve picks the search strategy the analyzer decided on: fan-out
// for aggregation/exploratory questions and for anything needing a full
// scan (count questions must never be answered from a similarity
// sample), a single similarity search otherwise. In the single-query
// path an embedding failure is a hard failure.
func (s *AnswerService) retrieve(
	ctx context.Context, question string, analysis domain.QueryAnalysis, catalogID string,
) ([]domain.VectorSearchResult, error) {
	if analysis.NeedsMultiQuery || analysis.RequiresFullScan {
		logger.Debug("Retrieval: multi-query fan-out")
		result, err := s.retrieval.Search(ctx, question, analysis, catalogID)
		if err != nil {
			return nil, fmt.Errorf("multi-query search: %w", err)
		}
		return result.Chunks, nil
	}

	logger.Debug("Retrieval: standard similarity search (topK=%d)", analysis.ContextSize)
	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}

	chunks, err := s.vectors.Search(ctx, embedding, analysis.ContextSize,
		driven.SearchFilter{CatalogID: catalogID})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return chunks, nil
}

// answerGreeting responds to a salutation without touching retrieval.
func (s *AnswerService) answerGreeting(
	ctx context.Context, question string, history []driven.ChatMessage,
) (*domain.Answer, error) {
	logger.Debug("Greeting path: no retrieval")

	prompt := fmt.Sprintf(greetingPromptTemplate, question)
	completion, err := s.completer.Complete(ctx, prompt, history, driven.CompleteOptions{
		MaxTokens:   256,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("generate greeting: %w", err)
	}

	return &domain.Answer{Text: completion.Text, Usage: completion.Usage}, nil
}

// buildPrompt assembles the final prompt: corpus stats as system
// context, the formatted chunk set, and the question.
func (s *AnswerService) buildPrompt(
	ctx context.Context,
	question string,
	analysis domain.QueryAnalysis,
	chunks []domain.VectorSearchResult,
	catalogID string,
) string {
	systemContext := s.systemContext(ctx, catalogID)
	formatted := FormatContext(analysis.Type, chunks)
	return fmt.Sprintf(answerPromptTemplate, systemContext, formatted, question)
}

// systemContext renders corpus stats for the prompt. Stats failures are
// tolerated: the answer just goes out without them.
func (s *AnswerService) systemContext(ctx context.Context, catalogID string) string {
	stats, err := s.vectors.GetDocumentStats(ctx, catalogID)
	if err != nil {
		logger.Warn("Document stats unavailable: %v", err)
		return ""
	}
	return fmt.Sprintf("BASE DE DOCUMENTOS: %d documentos (%d trechos indexados): %s",
		stats.TotalDocuments, stats.TotalChunks, strings.Join(stats.DocumentNames, ", "))
}
