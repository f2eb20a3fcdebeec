package retrieval

import (
	"fmt"
	"strings"

	"github.com/redwards/digitaltwin/internal/domain"
)

const (
	blockSeparator  = "\n\n------------------------\n\n"
	blogBodyPreview = 300
)

// formatContext renders the selected documents into the context text
// injected into the prompt, one labeled block per document.
func formatContext(docs []domain.ScoredDocument) string {
	blocks := make([]string, 0, len(docs))
	for _, sd := range docs {
		blocks = append(blocks, formatBlock(sd.Document))
	}
	return strings.Join(blocks, blockSeparator)
}

func formatBlock(doc domain.KnowledgeDocument) string {
	switch doc.Kind {
	case domain.KindProject:
		return fmt.Sprintf("[PROJECT: %s]\n%s\nTechnologies: %s",
			doc.Title, doc.Summary, strings.Join(doc.Tags, ", "))
	case domain.KindExpertise:
		return fmt.Sprintf("[EXPERTISE: %s]\n%s", doc.Title, doc.Summary)
	case domain.KindBlogPost:
		return fmt.Sprintf("[BLOG: %s]\n%s\n%s...",
			doc.Title, doc.Summary, truncate(doc.Body, blogBodyPreview))
	case domain.KindSourceFile:
		return fmt.Sprintf("[SOURCE CODE: %s]\n%s\n---CODE START---\n%s\n---CODE END---",
			doc.Title, doc.Summary, doc.Body)
	case domain.KindBiography:
		return fmt.Sprintf("[BIOGRAPHY]\n%s", doc.Body)
	case domain.KindPersona:
		return fmt.Sprintf("[SYSTEM IDENTITY]\n%s", doc.Body)
	default:
		return fmt.Sprintf("[DOC: %s]\n%s", doc.Title, doc.Summary)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
