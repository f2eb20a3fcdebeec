package retrieval

import (
	"strings"

	"github.com/redwards/digitaltwin/internal/domain"
)

// techTriggers are query substrings that signal technical intent. Their
// presence pulls source-file documents into the corpus even outside
// developer mode.
var techTriggers = []string{
	"rag",
	"vector",
	"embedding",
	"redis",
	"architecture",
	"system prompt",
	"api",
	"code",
	"implementation",
	"database",
	"retrieval",
	"prompt",
}

// isTechnicalQuery reports whether the lowercased query contains any
// technical trigger.
func isTechnicalQuery(lowerQuery string) bool {
	for _, trigger := range techTriggers {
		if strings.Contains(lowerQuery, trigger) {
			return true
		}
	}
	return false
}

// buildCorpus filters the document set for one query. Source files are
// large and mostly irrelevant to non-technical visitors, so they are
// included only when the scope flag asks for them.
func buildCorpus(docs []domain.KnowledgeDocument, includeCode bool) []domain.KnowledgeDocument {
	corpus := make([]domain.KnowledgeDocument, 0, len(docs))
	for _, d := range docs {
		if d.Kind == domain.KindSourceFile && !includeCode {
			continue
		}
		corpus = append(corpus, d)
	}
	return corpus
}
