package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tecfag/rag/internal/core/domain"
)

// chunkSeparator visibly separates chunks in flat-mode context.
const chunkSeparator = "\n\n---\n\n"

// FormatContext renders the chunk set for prompt assembly, choosing the
// mode from the query type: aggregation and exploratory answers span
// multiple documents and need per-document grouping so the model does
// not conflate content from different source files; everything else
// gets the cheaper flat concatenation.
func FormatContext(queryType domain.QueryType, chunks []domain.VectorSearchResult) string {
	switch queryType {
	case domain.QueryAggregation, domain.QueryExploratory:
		return FormatGrouped(chunks)
	default:
		return FormatFlat(chunks)
	}
}

// FormatFlat concatenates chunks in the order given, each prefixed with
// an identifying header. The input is expected to already be
// similarity-sorted by the caller.
func FormatFlat(chunks []domain.VectorSearchResult) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = fmt.Sprintf("[ID: %s | Fonte: %s]\n%s",
			chunk.ID, chunk.Metadata.FileName, chunk.Content)
	}
	return strings.Join(parts, chunkSeparator)
}

// FormatGrouped groups chunks by document (first-seen document order),
// sorts each group by chunk index and renders one numbered section per
// document. Preserves per-document reading order and document
// boundaries for multi-document answers.
func FormatGrouped(chunks []domain.VectorSearchResult) string {
	groups := make(map[string][]domain.VectorSearchResult)
	var order []string
	for _, chunk := range chunks {
		if _, ok := groups[chunk.DocumentID]; !ok {
			order = append(order, chunk.DocumentID)
		}
		groups[chunk.DocumentID] = append(groups[chunk.DocumentID], chunk)
	}

	var b strings.Builder
	for i, docID := range order {
		group := groups[docID]
		sort.SliceStable(group, func(a, b int) bool {
			return group[a].ChunkIndex < group[b].ChunkIndex
		})

		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "=== Documento %d: %s ===\n", i+1, group[0].Metadata.FileName)

		for j, chunk := range group {
			if j > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(chunk.Content)
		}
	}

	return b.String()
}

// SourceFileNames returns the distinct source file names of the chunk
// set, in first-seen order.
func SourceFileNames(chunks []domain.VectorSearchResult) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, chunk := range chunks {
		name := chunk.Metadata.FileName
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
