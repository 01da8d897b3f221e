package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecfag/rag/internal/core/domain"
)

func TestAnalyze_Greeting(t *testing.T) {
	analyzer := NewAnalyzer()

	greetings := []string{
		"oi",
		"Olá!",
		"Bom dia",
		"boa tarde, tudo bem?",
		"hey",
	}

	for _, greeting := range greetings {
		analysis := analyzer.Analyze(greeting)

		assert.Equal(t, domain.QueryGreeting, analysis.Type, "input: %q", greeting)
		assert.Equal(t, 0, analysis.ContextSize, "input: %q", greeting)
		assert.False(t, analysis.NeedsMultiQuery, "input: %q", greeting)
		assert.Empty(t, analysis.SuggestedQueries, "input: %q", greeting)
		assert.Empty(t, analysis.Categories, "input: %q", greeting)
		assert.Empty(t, analysis.Keywords, "input: %q", greeting)
		assert.False(t, analysis.IsCountQuery, "input: %q", greeting)
		assert.False(t, analysis.RequiresFullScan, "input: %q", greeting)
	}
}

func TestAnalyze_GreetingWinsOverCountQuestion(t *testing.T) {
	analyzer := NewAnalyzer()

	// The greeting check runs before everything else and returns
	// immediately, so a greeting-prefixed count question skips
	// retrieval entirely.
	analysis := analyzer.Analyze("bom dia, quantas máquinas temos?")

	assert.Equal(t, domain.QueryGreeting, analysis.Type)
	assert.Equal(t, 0, analysis.ContextSize)
	assert.False(t, analysis.IsCountQuery)
	assert.False(t, analysis.RequiresFullScan)
}

func TestAnalyze_CountImpliesFullScan(t *testing.T) {
	analyzer := NewAnalyzer()

	questions := []string{
		"quantas seladoras temos no catálogo?",
		"quantos modelos de balança existem?",
		"qual o total de equipamentos?",
		"número de datadoras cadastradas",
	}

	for _, question := range questions {
		analysis := analyzer.Analyze(question)

		require.True(t, analysis.IsCountQuery, "input: %q", question)
		assert.True(t, analysis.RequiresFullScan, "input: %q", question)
		assert.GreaterOrEqual(t, analysis.ContextSize, 80, "input: %q", question)
	}
}

func TestAnalyze_TypeLadder(t *testing.T) {
	analyzer := NewAnalyzer()

	tests := []struct {
		question string
		want     domain.QueryType
	}{
		{"quais são as seladoras do catálogo?", domain.QueryAggregation},
		{"liste todos os equipamentos", domain.QueryAggregation},
		{"qual a diferença entre a SL-200 e a SL-300?", domain.QueryComparative},
		{"como instalar a datadora?", domain.QueryProcedural},
		{"passo a passo da limpeza da dosadora", domain.QueryProcedural},
		{"o que é uma seladora a vácuo?", domain.QueryExploratory},
		{"fale sobre as embaladoras", domain.QueryExploratory},
		{"qual a potência da SL-200?", domain.QueryFactual},
	}

	for _, tt := range tests {
		analysis := analyzer.Analyze(tt.question)
		assert.Equal(t, tt.want, analysis.Type, "input: %q", tt.question)
	}
}

func TestAnalyze_AggregationBeatsComparative(t *testing.T) {
	analyzer := NewAnalyzer()

	// Matches both an aggregation pattern ("quais são") and a
	// comparative pattern ("diferença"). Aggregation is checked first
	// in the ladder, so it wins.
	analysis := analyzer.Analyze("quais são as diferenças entre todos os modelos?")

	assert.Equal(t, domain.QueryAggregation, analysis.Type)
}

func TestAnalyze_MultiQueryDecision(t *testing.T) {
	analyzer := NewAnalyzer()

	assert.True(t, analyzer.Analyze("liste todas as máquinas").NeedsMultiQuery)
	assert.True(t, analyzer.Analyze("fale sobre seladoras").NeedsMultiQuery)
	assert.False(t, analyzer.Analyze("qual a voltagem da SL-200?").NeedsMultiQuery)
	assert.False(t, analyzer.Analyze("como operar a balança?").NeedsMultiQuery)
}

func TestAnalyze_CategoryDetection(t *testing.T) {
	analyzer := NewAnalyzer()

	analysis := analyzer.Analyze("liste as seladoras e balanças disponíveis")

	// Detection order follows the trigger table's declaration order.
	assert.Equal(t, []string{"seladoras", "balancas"}, analysis.Categories)
}

func TestAnalyze_SubQueriesPerCategory(t *testing.T) {
	analyzer := NewAnalyzer()

	analysis := analyzer.Analyze("liste as seladoras disponíveis")

	require.True(t, analysis.NeedsMultiQuery)
	assert.Equal(t, []string{
		"lista de seladoras",
		"modelos de seladoras disponíveis",
		"catálogo de seladoras",
	}, analysis.SuggestedQueries)
}

func TestAnalyze_GenericSubQueriesWithoutCategory(t *testing.T) {
	analyzer := NewAnalyzer()

	analysis := analyzer.Analyze("liste todos os produtos")

	require.True(t, analysis.NeedsMultiQuery)
	assert.Len(t, analysis.SuggestedQueries, 8)
	assert.Equal(t, "lista completa de produtos", analysis.SuggestedQueries[0])
}

func TestAnalyze_Keywords(t *testing.T) {
	analyzer := NewAnalyzer()

	analysis := analyzer.Analyze("Qual a potência da seladora SL-200?")

	// Short tokens, stopwords and punctuation are stripped; accented
	// letters are preserved.
	assert.Contains(t, analysis.Keywords, "potência")
	assert.Contains(t, analysis.Keywords, "seladora")
	assert.Contains(t, analysis.Keywords, "sl200")
	assert.NotContains(t, analysis.Keywords, "qual")
	assert.NotContains(t, analysis.Keywords, "da")
}

func TestDetermineContextSize(t *testing.T) {
	tests := []struct {
		name          string
		queryType     domain.QueryType
		isCount       bool
		categoryCount int
		want          int
	}{
		{"greeting", domain.QueryGreeting, false, 0, 0},
		{"factual", domain.QueryFactual, false, 0, 15},
		{"comparative", domain.QueryComparative, false, 0, 25},
		{"procedural", domain.QueryProcedural, false, 0, 20},
		{"exploratory", domain.QueryExploratory, false, 0, 40},
		{"aggregation", domain.QueryAggregation, false, 0, 200},
		{"aggregation with categories caps at 60", domain.QueryAggregation, false, 2, 60},
		{"aggregation count keeps 200", domain.QueryAggregation, true, 0, 200},
		{"factual count raises to 80", domain.QueryFactual, true, 0, 80},
		{"aggregation count with category caps at 60", domain.QueryAggregation, true, 1, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := determineContextSize(tt.queryType, tt.isCount, tt.categoryCount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyze_CountQueryScenario(t *testing.T) {
	analyzer := NewAnalyzer()

	analysis := analyzer.Analyze("Quantas seladoras temos no catálogo?")

	assert.True(t, analysis.IsCountQuery)
	assert.True(t, analysis.RequiresFullScan)
	assert.Contains(t, analysis.Categories, "seladoras")
}
