package retrieval

// Weights collects every scoring constant the engine uses, so tests and
// alternate deployments can construct engines with explicit numbers instead
// of literals scattered through the scoring loop.
type Weights struct {
	// Keyword points awarded per query token per matched field.
	TitleMatch     float64
	TagMatch       float64
	SummaryMatch   float64
	BodyMatch      float64
	BiographyMatch float64

	// MetaBoost is added when the query asks about the retrieval mechanism
	// itself and a document title carries an implementation signal.
	MetaBoost float64
	// MetaBoostTitles are the lowercase title substrings that mark a
	// document as retrieval-implementation material.
	MetaBoostTitles []string

	// VectorFloor is the cosine similarity below which the semantic
	// component contributes nothing. VectorScale maps the surviving
	// range onto points.
	VectorFloor float64
	VectorScale float64
}

// DefaultWeights returns the production scoring constants. The vector scale
// is chosen so a similarity of 1.0 lands at roughly 100 points, keeping the
// semantic component on the same footing as a strong title keyword hit.
func DefaultWeights() Weights {
	return Weights{
		TitleMatch:     50,
		TagMatch:       5,
		SummaryMatch:   5,
		BodyMatch:      5,
		BiographyMatch: 10,
		MetaBoost:      100,
		MetaBoostTitles: []string{
			"vector search",
			"retrieval",
			"chat orchestration",
		},
		VectorFloor: 0.3,
		VectorScale: 142.86,
	}
}
