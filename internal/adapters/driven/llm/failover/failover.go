// Package failover chains a primary and a fallback completion service.
// Answers produced by the fallback carry a visible marker and the
// fallback's token accounting.
package failover

import (
	"context"
	"errors"
	"fmt"

	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/core/ports/driven"
	"github.com/tecfag/rag/internal/logger"
)

// Ensure CompletionService implements the interface.
var _ driven.CompletionService = (*CompletionService)(nil)

// FallbackMarker is appended to answers generated by the fallback
// provider.
const FallbackMarker = " (fallback used)"

// CompletionService tries the primary provider and, on any error,
// retries the request against the fallback provider.
type CompletionService struct {
	primary  driven.CompletionService
	fallback driven.CompletionService
}

// New creates a failover completion service.
func New(primary, fallback driven.CompletionService) *CompletionService {
	return &CompletionService{
		primary:  primary,
		fallback: fallback,
	}
}

// Complete attempts the primary provider first. On failure it retries
// with the fallback, appending FallbackMarker to the returned text and
// substituting the fallback's token usage. Both providers failing
// surfaces as a single aggregated error naming both underlying
// failures; that error is terminal for the request.
func (s *CompletionService) Complete(
	ctx context.Context, prompt string, history []driven.ChatMessage, opts driven.CompleteOptions,
) (*domain.Completion, error) {
	completion, primaryErr := s.primary.Complete(ctx, prompt, history, opts)
	if primaryErr == nil {
		return completion, nil
	}
	logger.Warn("Primary provider %s failed: %v (trying fallback %s)",
		s.primary.ModelName(), primaryErr, s.fallback.ModelName())

	completion, fallbackErr := s.fallback.Complete(ctx, prompt, history, opts)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: primary (%s): %v; fallback (%s): %v",
			domain.ErrProviderUnavailable,
			s.primary.ModelName(), primaryErr,
			s.fallback.ModelName(), fallbackErr)
	}

	completion.Text += FallbackMarker
	return completion, nil
}

// ModelName returns the primary provider's model name.
func (s *CompletionService) ModelName() string {
	return s.primary.ModelName()
}

// Ping succeeds if either provider is reachable.
func (s *CompletionService) Ping(ctx context.Context) error {
	primaryErr := s.primary.Ping(ctx)
	if primaryErr == nil {
		return nil
	}
	fallbackErr := s.fallback.Ping(ctx)
	if fallbackErr == nil {
		return nil
	}
	return errors.Join(primaryErr, fallbackErr)
}

// Close closes both providers.
func (s *CompletionService) Close() error {
	return errors.Join(s.primary.Close(), s.fallback.Close())
}
