package retrieval

import (
	"sort"
	"strings"

	"github.com/redwards/digitaltwin/internal/domain"
)

// stopWords are dropped from the query before keyword scoring. WH-words and
// generic verbs match everything and rank nothing.
var stopWords = map[string]struct{}{
	"what": {}, "where": {}, "when": {}, "who": {}, "how": {},
	"your": {}, "the": {}, "and": {}, "for": {}, "with": {},
	"that": {}, "this": {}, "from": {}, "have": {}, "about": {},
	"tell": {}, "show": {}, "give": {},
}

var punctuationStripper = strings.NewReplacer("?", "", ".", "", ",", "", "!", "")

// tokenize splits the lowercased query into scoring tokens: punctuation
// stripped, short tokens and stop words dropped. "rag" is re-appended when
// present anywhere in the query so meta-questions about the retrieval
// mechanism always carry their strongest token.
func tokenize(lowerQuery string) []string {
	cleaned := punctuationStripper.Replace(lowerQuery)
	var tokens []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	if strings.Contains(lowerQuery, "rag") {
		tokens = append(tokens, "rag")
	}
	return tokens
}

// engine scores and ranks a corpus against a query.
type engine struct {
	weights Weights
	topK    int
}

// score computes the hybrid score for one document. Missing optional fields
// count as empty; a document can never abort scoring of the rest.
func (e *engine) score(doc domain.KnowledgeDocument, tokens []string, lowerQuery string, queryVec []float32) (vectorScore, keywordScore float64) {
	if queryVec != nil && doc.Vector != nil {
		sim := domain.CosineSimilarity(queryVec, doc.Vector)
		if sim > e.weights.VectorFloor {
			vectorScore = (sim - e.weights.VectorFloor) * e.weights.VectorScale
		}
	}

	title := strings.ToLower(doc.Title)
	summary := strings.ToLower(doc.Summary)
	body := strings.ToLower(doc.Body)
	tags := strings.ToLower(strings.Join(doc.Tags, " "))

	bodyWeight := e.weights.BodyMatch
	if doc.Kind == domain.KindBiography {
		bodyWeight = e.weights.BiographyMatch
	}

	for _, token := range tokens {
		if strings.Contains(title, token) {
			keywordScore += e.weights.TitleMatch
		}
		if strings.Contains(summary, token) {
			keywordScore += e.weights.SummaryMatch
		}
		if strings.Contains(body, token) {
			keywordScore += bodyWeight
		}
		if strings.Contains(tags, token) {
			keywordScore += e.weights.TagMatch
		}
	}

	// Escape hatch for questions about the retrieval mechanism itself:
	// the engine's own documentation must out-rank unrelated content.
	if strings.Contains(lowerQuery, "rag") || strings.Contains(lowerQuery, "vector") {
		for _, signal := range e.weights.MetaBoostTitles {
			if strings.Contains(title, signal) {
				keywordScore += e.weights.MetaBoost
				break
			}
		}
	}

	return vectorScore, keywordScore
}

// rank scores every document, drops zero scores, and returns the top K in
// descending total-score order. Ties keep corpus order.
func (e *engine) rank(corpus []domain.KnowledgeDocument, lowerQuery string, queryVec []float32) []domain.ScoredDocument {
	tokens := tokenize(lowerQuery)

	scored := make([]domain.ScoredDocument, 0, len(corpus))
	for _, doc := range corpus {
		vs, ks := e.score(doc, tokens, lowerQuery, queryVec)
		total := vs + ks
		if total <= 0 {
			continue
		}
		scored = append(scored, domain.ScoredDocument{
			Document:     doc,
			VectorScore:  vs,
			KeywordScore: ks,
			TotalScore:   total,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})

	if len(scored) > e.topK {
		scored = scored[:e.topK]
	}
	return scored
}
