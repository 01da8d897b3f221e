package failover

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/core/ports/driven"
)

type fakeProvider struct {
	name       string
	completion *domain.Completion
	err        error
	pingErr    error
	calls      int
	closed     bool
}

func (f *fakeProvider) Complete(
	_ context.Context, _ string, _ []driven.ChatMessage, _ driven.CompleteOptions,
) (*domain.Completion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	// Copy so the decorator's marker append never mutates the fixture.
	c := *f.completion
	return &c, nil
}

func (f *fakeProvider) ModelName() string            { return f.name }
func (f *fakeProvider) Ping(_ context.Context) error { return f.pingErr }
func (f *fakeProvider) Close() error                 { f.closed = true; return nil }

func TestComplete_PrimarySucceeds(t *testing.T) {
	primary := &fakeProvider{name: "gemini", completion: &domain.Completion{
		Text:  "resposta",
		Usage: domain.TokenUsage{TotalTokens: 42},
	}}
	fallback := &fakeProvider{name: "groq", completion: &domain.Completion{Text: "unused"}}
	service := New(primary, fallback)

	completion, err := service.Complete(context.Background(), "pergunta", nil, driven.CompleteOptions{})
	require.NoError(t, err)

	assert.Equal(t, "resposta", completion.Text)
	assert.Equal(t, 42, completion.Usage.TotalTokens)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls, "fallback is not consulted when the primary succeeds")
}

func TestComplete_FallbackMarkedAndUsageSubstituted(t *testing.T) {
	primary := &fakeProvider{name: "gemini", err: errors.New("quota exceeded")}
	fallback := &fakeProvider{name: "groq", completion: &domain.Completion{
		Text:  "resposta do fallback",
		Usage: domain.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}}
	service := New(primary, fallback)

	completion, err := service.Complete(context.Background(), "pergunta", nil, driven.CompleteOptions{})
	require.NoError(t, err)

	assert.Equal(t, "resposta do fallback"+FallbackMarker, completion.Text)
	assert.Equal(t, 15, completion.Usage.TotalTokens, "usage comes from the provider that answered")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestComplete_BothFail(t *testing.T) {
	primary := &fakeProvider{name: "gemini", err: errors.New("quota exceeded")}
	fallback := &fakeProvider{name: "groq", err: errors.New("timeout")}
	service := New(primary, fallback)

	_, err := service.Complete(context.Background(), "pergunta", nil, driven.CompleteOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "gemini")
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "groq")
	assert.Contains(t, err.Error(), "timeout")
}

func TestPing_EitherProviderSuffices(t *testing.T) {
	service := New(
		&fakeProvider{name: "gemini", pingErr: errors.New("unreachable")},
		&fakeProvider{name: "groq"},
	)
	assert.NoError(t, service.Ping(context.Background()))

	down := New(
		&fakeProvider{name: "gemini", pingErr: errors.New("unreachable")},
		&fakeProvider{name: "groq", pingErr: errors.New("also unreachable")},
	)
	assert.Error(t, down.Ping(context.Background()))
}

func TestClose_ClosesBoth(t *testing.T) {
	primary := &fakeProvider{name: "gemini", completion: &domain.Completion{}}
	fallback := &fakeProvider{name: "groq", completion: &domain.Completion{}}
	service := New(primary, fallback)

	require.NoError(t, service.Close())
	assert.True(t, primary.closed)
	assert.True(t, fallback.closed)
}

func TestModelName_ReportsPrimary(t *testing.T) {
	service := New(&fakeProvider{name: "gemini"}, &fakeProvider{name: "groq"})
	assert.Equal(t, "gemini", service.ModelName())
}
