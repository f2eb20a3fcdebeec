package retrieval

import "github.com/redwards/digitaltwin/internal/domain"

// Confidence bands. A monotone step function, deliberately simple enough to
// test exhaustively at its boundaries.
const (
	confidenceFloor     = 0.1
	confidenceIntercept = 1.0
	confidenceIdentity  = 0.95
	confidenceHigh      = 0.9
	confidenceModerate  = 0.7
	confidenceDefault   = 0.5
	highScoreThreshold  = 40.0
	moderateScoreCutoff = 10.0
)

// estimateConfidence maps the top-ranked document onto a trust score.
// No documents at all means low but nonzero trust: the model should answer
// generally, not treat silence as impossibility.
func estimateConfidence(ranked []domain.ScoredDocument) float64 {
	if len(ranked) == 0 {
		return confidenceFloor
	}

	top := ranked[0]
	switch {
	case top.Document.Kind == domain.KindPersona || top.Document.Kind == domain.KindBiography:
		return confidenceIdentity
	case top.TotalScore > highScoreThreshold:
		return confidenceHigh
	case top.TotalScore > moderateScoreCutoff:
		return confidenceModerate
	default:
		return confidenceDefault
	}
}
