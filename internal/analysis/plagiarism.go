package analysis

import (
	"sort"

	"github.com/devarajan8/veritas/internal/models"
)

// Aggregation weights and bonuses. Each feature contributes equally; explicit
// disclaimers and subject mismatch add bounded bonuses on top.
const (
	featureWeight = 0.15

	explicitBonusPerHit = 5.0
	explicitBonusCap    = 20.0
	academicBonusPerHit = 2.5
	academicBonusCap    = 15.0

	mismatchBonusCap = 30.0
	mismatchFloor    = 60.0

	// Feature-based score vs similarity evidence blend.
	featureBlendWeight    = 0.70
	similarityBlendWeight = 0.30
)

// AggregationPolicy selects how scores from multiple independent scorers are
// combined when more than one backend produced a plagiarism estimate.
type AggregationPolicy string

const (
	PolicyMin     AggregationPolicy = "MIN"
	PolicyMax     AggregationPolicy = "MAX"
	PolicyTop2Avg AggregationPolicy = "TOP2_AVG"
)

// Combine reduces a set of independent scores under the policy. Empty input
// yields zero.
func (p AggregationPolicy) Combine(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sorted := append([]float64(nil), scores...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	switch p {
	case PolicyMin:
		return sorted[len(sorted)-1]
	case PolicyMax:
		return sorted[0]
	default: // TOP2_AVG
		if len(sorted) == 1 {
			return sorted[0]
		}
		return (sorted[0] + sorted[1]) / 2
	}
}

// TopFeaturesScore averages the two highest feature scores, used by callers
// that want the strongest signals rather than the full blend.
func TopFeaturesScore(f models.FeatureScores) float64 {
	scores := []float64{
		f.ParagraphConsistency,
		f.SentenceVariety,
		f.LexicalDiversity,
		f.RepetitivePatterns,
		f.StructuralPatterns,
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	return (scores[0] + scores[1]) / 2
}

// AggregatePlagiarism folds features, pattern hits, and similarity evidence
// into the final plagiarism verdict.
func AggregatePlagiarism(
	features models.FeatureScores,
	similarity models.SimilarityResult,
	patterns PatternReport,
	cfg AnalysisConfig,
) models.PlagiarismVerdict {
	// Base AI confidence: uniform paragraphs, monotone sentences, and low
	// vocabulary all push the score up.
	confidence := featureWeight*features.ParagraphConsistency +
		featureWeight*(100-features.SentenceVariety) +
		featureWeight*(100-features.LexicalDiversity) +
		featureWeight*features.RepetitivePatterns +
		featureWeight*features.StructuralPatterns
	confidence = clamp100(confidence)

	if patterns.ExplicitCount > 0 {
		confidence += clamp(float64(patterns.ExplicitCount)*explicitBonusPerHit, 0, explicitBonusCap)
	}
	if patterns.AcademicCount > 0 {
		confidence += clamp(float64(patterns.AcademicCount)*academicBonusPerHit, 0, academicBonusCap)
	}

	mismatch := patterns.Subject.Mismatch
	if mismatch {
		// Strongest signal in the system; it must dominate the score.
		confidence += clamp(patterns.Subject.MismatchConfidence*0.5, 0, mismatchBonusCap)
		if confidence < mismatchFloor {
			confidence = mismatchFloor
		}
	}
	confidence = clamp100(confidence)

	// Blend with similarity evidence, reducing only channels that were
	// actually computed under the configured policy. An absent channel is
	// excluded, never zero-filled.
	percentage := confidence
	var computed []float64
	if similarity.NgramComputed {
		computed = append(computed, similarity.NgramSimilarity)
	}
	if similarity.StatisticalComputed {
		computed = append(computed, similarity.StatisticalSimilarity)
	}
	if similarity.SemanticComputed {
		computed = append(computed, similarity.SemanticSimilarity)
	}
	if len(computed) > 0 {
		percentage = featureBlendWeight*confidence + similarityBlendWeight*cfg.Policy.Combine(computed)
	}
	percentage = clamp100(percentage)

	// Detection is an OR across independent tripwires, not just a threshold
	// comparison: one explicit disclaimer or one emoji fails the document.
	detected := percentage > cfg.Thresholds.Plagiarism ||
		confidence > cfg.Thresholds.Plagiarism ||
		patterns.ExplicitCount > 0 ||
		patterns.EmojiCount > 0 ||
		mismatch

	return models.PlagiarismVerdict{
		Percentage:      percentage,
		AIConfidence:    confidence,
		FeatureScores:   features,
		Similarity:      similarity,
		PatternHits:     patterns.Hits,
		EmojiCount:      patterns.EmojiCount,
		SubjectMismatch: mismatch,
		Detected:        detected,
	}
}
