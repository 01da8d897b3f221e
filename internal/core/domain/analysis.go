package domain

// QueryType classifies a user question for retrieval purposes.
type QueryType string

// Query types, in no particular order. Classification priority lives in
// the analyzer's ladder, not here.
const (
	// QueryGreeting is a salutation with no information need.
	// Greetings never trigger retrieval.
	QueryGreeting QueryType = "greeting"

	// QueryFactual is a direct question about a specific fact.
	QueryFactual QueryType = "factual"

	// QueryComparative asks to compare two or more items.
	QueryComparative QueryType = "comparative"

	// QueryProcedural asks how to do something.
	QueryProcedural QueryType = "procedural"

	// QueryExploratory asks for an open-ended explanation of a topic.
	QueryExploratory QueryType = "exploratory"

	// QueryAggregation asks for a listing or roll-up across documents.
	QueryAggregation QueryType = "aggregation"
)

// QueryAnalysis is the ephemeral result of classifying one user
// question. Computed once per question by the analyzer.
type QueryAnalysis struct {
	// Type is the detected query type.
	Type QueryType

	// ContextSize is the desired number of context chunks.
	ContextSize int

	// NeedsMultiQuery indicates the question should fan out into
	// multiple sub-queries instead of a single similarity search.
	NeedsMultiQuery bool

	// SuggestedQueries are alternate phrasings to search alongside the
	// original question, in generation order.
	SuggestedQueries []string

	// Categories are the detected domain categories, in trigger-table
	// declaration order.
	Categories []string

	// Keywords are the significant terms extracted from the question.
	Keywords []string

	// IsCountQuery indicates the question asks for a quantity or total.
	IsCountQuery bool

	// RequiresFullScan indicates top-K sampling would under-count and
	// full-document retrieval is required. Always true when
	// IsCountQuery is true.
	RequiresFullScan bool
}
