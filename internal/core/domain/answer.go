package domain

// TokenUsage accounts for tokens consumed by one completion call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the result of one completion provider call.
type Completion struct {
	// Text is the generated text.
	Text string

	// Usage is the provider's token accounting, when reported.
	Usage TokenUsage
}

// Answer is the final response to a user question.
type Answer struct {
	// Text is the answer text shown to the user.
	Text string

	// Sources lists the file names of the documents that contributed
	// context, in first-seen order. Empty for greetings and
	// insufficient-context responses.
	Sources []string

	// Usage is the token accounting of the completion call, when one
	// was made.
	Usage TokenUsage
}
