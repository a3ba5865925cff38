package pipeline

import (
	"fmt"
	"strings"

	"docqa/internal/domain"
)

const (
	NotFoundMessage   = "The requested information was not found in the provided documents."
	NoDocumentMessage = "No document loaded. Please upload a PDF document first."
)

// SystemPrompt fixes the answer layout the formatter expects.
const SystemPrompt = `You answer questions about the user's documents.

Layout rules, always:
- Every bullet point goes on its own line and starts with "•".
- Never put two bullet points on one line.
- Section headings are written in **bold** and followed by a blank line.

Like this:
**Section title**

• First point
• Second point

Never like this:
**Section title** • First point • Second point`

// NoDocumentAnswer is returned to callers that have not uploaded anything yet.
func NoDocumentAnswer() domain.Answer {
	return domain.Answer{Answer: NoDocumentMessage, Sources: []domain.Source{}}
}

// SourceLabel is the citation header placed above each context passage.
func SourceLabel(n int, m domain.ChunkMetadata) string {
	return fmt.Sprintf("[Source %d: %s, Page %d, Chunk %d]", n, m.DocumentName, m.Page, m.ChunkID)
}

// UserPrompt lays out the labelled context passages followed by the question.
func UserPrompt(query string, passages []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the context below. ")
	b.WriteString("Include every relevant detail, group it into sections with bold headings, ")
	b.WriteString("and keep one bullet point per line.\n\nCONTEXT:\n")
	for i, r := range passages {
		b.WriteString(SourceLabel(i+1, r.Metadata))
		b.WriteString("\n")
		b.WriteString(r.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("QUESTION: ")
	b.WriteString(query)
	b.WriteString("\n\nANSWER:")
	return b.String()
}

// Sources lists the distinct citations of results in first-seen order.
func Sources(results []domain.SearchResult) []domain.Source {
	out := make([]domain.Source, 0, len(results))
	seen := make(map[domain.Source]struct{}, len(results))
	for _, r := range results {
		src := domain.SourceOf(r.Metadata)
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}
