package scorer

import (
	"context"

	"github.com/devarajan8/veritas/internal/analysis"
	"github.com/devarajan8/veritas/internal/models"
)

// KeywordScorer is the last in-process rung before the fixed default: it
// rates relevance purely from the subject lexicon table. It never fails.
type KeywordScorer struct {
	lexicons analysis.SubjectLexicons
}

func NewKeywordScorer(lexicons analysis.SubjectLexicons) *KeywordScorer {
	if lexicons == nil {
		lexicons = analysis.DefaultSubjectLexicons
	}
	return &KeywordScorer{lexicons: lexicons}
}

func (s *KeywordScorer) Method() models.RelevanceMethod {
	return models.MethodKeywordBased
}

func (s *KeywordScorer) ScoreRelevance(_ context.Context, sample, subject string) (float64, error) {
	check := analysis.ValidateSubject(sample, subject, s.lexicons)
	return check.Confidence, nil
}
