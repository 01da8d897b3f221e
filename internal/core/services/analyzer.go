package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/logger"
)

// Context sizes per query type. Count queries are raised to at least
// minCountContextSize; aggregation queries with a detected category are
// capped at maxFocusedAggregationSize (a focused search needs less raw
// volume). The raise happens before the cap.
const (
	greetingContextSize    = 0
	factualContextSize     = 15
	comparativeContextSize = 25
	proceduralContextSize  = 20
	exploratoryContextSize = 40
	aggregationContextSize = 200
	defaultContextSize     = 20

	minCountContextSize       = 80
	maxFocusedAggregationSize = 60
)

// greetingPattern matches salutations at the start of the message.
// Checked before any other classification: greetings never trigger
// retrieval, even when the rest of the message looks like a question.
// \b is ASCII-only in Go regexp, so the trailing guard is spelled out
// to cope with accented greeting words.
var greetingPattern = regexp.MustCompile(
	`^(oi|ol[áa]|opa|e a[íi]|eae|bom dia|boa tarde|boa noite|tudo bem|td bem|hello|hi|hey)(\s|[,.!?]|$)`)

// categoryRule maps a category name to the substrings that trigger it.
// Slice order is the detection order.
type categoryRule struct {
	name     string
	triggers []string
}

// categoryRules covers the machine families of the Tecfag catalog.
var categoryRules = []categoryRule{
	{"seladoras", []string{"seladora", "seladoras", "selagem", "sealer"}},
	{"embaladoras", []string{"embaladora", "embaladoras", "empacotadora", "empacotadoras", "embalagem"}},
	{"datadoras", []string{"datadora", "datadoras", "datador", "codificadora"}},
	{"balancas", []string{"balança", "balanças", "balanca", "balancas", "pesagem"}},
	{"dosadoras", []string{"dosadora", "dosadoras", "dosagem", "dosador"}},
}

// classRule pairs a query type with the patterns that select it.
// Evaluated in slice order; the first rule with any matching pattern
// wins. This ordering is load-bearing: a question matching both an
// aggregation and a comparative pattern resolves to aggregation.
type classRule struct {
	queryType domain.QueryType
	patterns  []*regexp.Regexp
}

var classLadder = []classRule{
	{domain.QueryAggregation, compileAll(
		`\bquais (s[ãa]o|temos|existem)\b`,
		`\blist(e|ar|a de|agem)\b`,
		`\btod(os|as) (os|as)\b`,
		`\bmostre tod(os|as)\b`,
		`\bcat[áa]logo completo\b`,
		`\brela[çc][ãa]o de\b`,
	)},
	{domain.QueryComparative, compileAll(
		`\bcompar(e|ar|a[çc][ãa]o)\b`,
		`\bdiferen[çc]a\b`,
		`\bversus\b`,
		`\bvs\.?\b`,
		`\bqual .*(melhor|maior|menor|mais)\b`,
	)},
	{domain.QueryProcedural, compileAll(
		`\bcomo (usar|instalar|operar|configurar|limpar|ajustar|fazer|funciona)\b`,
		`\bpasso a passo\b`,
		`\bprocedimento\b`,
		`\bmanual (de|da|do)\b`,
		`\binstru[çc][õo]es\b`,
	)},
	{domain.QueryExploratory, compileAll(
		`\bo que [ée](\s|[,.!?]|$)`,
		`\bme (fale|conte|explique) sobre\b`,
		`\bfale sobre\b`,
		`\bexplique\b`,
		`\bpara que serve\b`,
		`\bdetalhes sobre\b`,
	)},
}

// countPatterns detect quantity questions independently of the type
// ladder. A count query must never be answered from a sample.
var countPatterns = compileAll(
	`\bquant[oa]s?\b`,
	`\btotal\b`,
	`\bn[úu]mero de\b`,
	`\bcontagem\b`,
	`\bqtde?\b`,
)

// stopwords excluded from keyword extraction.
var stopwords = map[string]struct{}{
	"que": {}, "para": {}, "com": {}, "uma": {}, "uns": {}, "umas": {},
	"dos": {}, "das": {}, "nos": {}, "nas": {}, "por": {}, "sem": {},
	"mais": {}, "menos": {}, "como": {}, "qual": {}, "quais": {},
	"sobre": {}, "entre": {}, "esse": {}, "essa": {}, "este": {},
	"esta": {}, "isso": {}, "isto": {}, "seu": {}, "sua": {}, "seus": {},
	"suas": {}, "temos": {}, "tem": {}, "ter": {}, "ser": {}, "estar": {},
	"foi": {}, "são": {}, "sao": {}, "the": {}, "and": {}, "for": {},
	"what": {}, "which": {}, "have": {},
}

// genericCatalogQueries is the fan-out list used when an aggregation or
// exploratory question names no specific category: catalog-wide
// listings plus one listing per known machine family.
var genericCatalogQueries = []string{
	"lista completa de produtos",
	"catálogo geral de máquinas",
	"todos os equipamentos disponíveis",
	"lista de seladoras",
	"lista de embaladoras",
	"lista de datadoras",
	"lista de balanças",
	"lista de dosadoras",
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}

// Analyzer classifies user questions for retrieval. It is a pure
// component: no I/O, deterministic for a given input.
type Analyzer struct{}

// NewAnalyzer creates a new query analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze classifies a natural-language question, decides the context
// window size, whether multi-query fan-out is needed, and generates
// auxiliary sub-queries.
func (a *Analyzer) Analyze(question string) domain.QueryAnalysis {
	text := strings.ToLower(strings.TrimSpace(question))

	// Greetings short-circuit everything else and never reach
	// retrieval.
	if greetingPattern.MatchString(text) {
		logger.Debug("Analyzer: greeting detected, skipping retrieval")
		return domain.QueryAnalysis{
			Type:        domain.QueryGreeting,
			ContextSize: greetingContextSize,
		}
	}

	categories := detectCategories(text)
	keywords := extractKeywords(text)
	queryType := classify(text)
	isCount := matchesAny(text, countPatterns)
	needsMultiQuery := queryType == domain.QueryAggregation || queryType == domain.QueryExploratory

	analysis := domain.QueryAnalysis{
		Type:             queryType,
		ContextSize:      determineContextSize(queryType, isCount, len(categories)),
		NeedsMultiQuery:  needsMultiQuery,
		Categories:       categories,
		Keywords:         keywords,
		IsCountQuery:     isCount,
		RequiresFullScan: isCount,
	}

	if needsMultiQuery {
		analysis.SuggestedQueries = suggestQueries(categories)
	}

	logger.Debug("Analyzer: type=%s contextSize=%d multiQuery=%t count=%t categories=%v",
		analysis.Type, analysis.ContextSize, analysis.NeedsMultiQuery,
		analysis.IsCountQuery, analysis.Categories)

	return analysis
}

// detectCategories returns the categories whose trigger terms appear in
// the text, in trigger-table declaration order.
func detectCategories(text string) []string {
	var detected []string
	for _, rule := range categoryRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(text, trigger) {
				detected = append(detected, rule.name)
				break
			}
		}
	}
	return detected
}

// extractKeywords splits on whitespace, strips non-alphanumeric runes
// (preserving accented letters) and keeps tokens longer than two runes
// that are not stopwords.
func extractKeywords(text string) []string {
	var keywords []string
	for _, token := range strings.Fields(text) {
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, token)

		if len([]rune(cleaned)) <= 2 {
			continue
		}
		if _, stop := stopwords[cleaned]; stop {
			continue
		}
		keywords = append(keywords, cleaned)
	}
	return keywords
}

// classify walks the priority ladder and returns the first query type
// with a matching pattern, defaulting to factual.
func classify(text string) domain.QueryType {
	for _, rule := range classLadder {
		if matchesAny(text, rule.patterns) {
			return rule.queryType
		}
	}
	return domain.QueryFactual
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// determineContextSize looks up the base size for the query type, then
// applies the two adjustments in order: raise for count queries, cap
// for focused aggregation.
func determineContextSize(queryType domain.QueryType, isCount bool, categoryCount int) int {
	var size int
	switch queryType {
	case domain.QueryGreeting:
		size = greetingContextSize
	case domain.QueryFactual:
		size = factualContextSize
	case domain.QueryComparative:
		size = comparativeContextSize
	case domain.QueryProcedural:
		size = proceduralContextSize
	case domain.QueryExploratory:
		size = exploratoryContextSize
	case domain.QueryAggregation:
		size = aggregationContextSize
	default:
		size = defaultContextSize
	}

	if isCount && size < minCountContextSize {
		size = minCountContextSize
	}
	if queryType == domain.QueryAggregation && categoryCount > 0 && size > maxFocusedAggregationSize {
		size = maxFocusedAggregationSize
	}

	return size
}

// suggestQueries emits three templated queries per detected category,
// or the fixed catalog-wide list when no category matched.
func suggestQueries(categories []string) []string {
	if len(categories) == 0 {
		queries := make([]string, len(genericCatalogQueries))
		copy(queries, genericCatalogQueries)
		return queries
	}

	var queries []string
	for _, category := range categories {
		queries = append(queries,
			fmt.Sprintf("lista de %s", category),
			fmt.Sprintf("modelos de %s disponíveis", category),
			fmt.Sprintf("catálogo de %s", category),
		)
	}
	return queries
}
