package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/devarajan8/veritas/internal/models"
	"github.com/rs/zerolog/log"
)

// Relevance calibration. The keyword ratio alone is never allowed to claim
// full confidence, and any coherent text keeps a minimum floor.
const (
	keywordScoreCap     = 90.0
	relatedTermBonus    = 3.0
	relatedTermBonusCap = 15.0
	relevanceFloor      = 25.0
	relevanceDefault    = 45.0
	externalSampleChars = 300
	higherSignalWeight  = 0.70
	lowerSignalWeight   = 0.30
)

// ExternalScorer rates how relevant a text sample is to a subject using a
// backend outside the core (embedding model, remote LLM). Implementations
// return a score in [0,100]; any error means the signal is absent, not zero.
type ExternalScorer interface {
	Method() models.RelevanceMethod
	ScoreRelevance(ctx context.Context, sample, subject string) (float64, error)
}

// EvaluateRelevance produces the relevance verdict for a text against the
// declared subject. scorers is a priority-ordered list of external backends;
// the fallback ladder is keyword evidence, then the first external scorer
// that answers, then the fixed default. This function never returns an error:
// every missing signal degrades to the next rung.
func EvaluateRelevance(
	ctx context.Context,
	text, subject string,
	keywords []string,
	scorers []ExternalScorer,
	cfg AnalysisConfig,
) models.RelevanceVerdict {
	verdict := models.RelevanceVerdict{
		MatchedKeywords: []string{},
		MissingKeywords: []string{},
	}

	lowered := strings.ToLower(text)
	keywordScore, haveKeywords := keywordRelevance(lowered, keywords, &verdict)

	externalScore, method := externalRelevance(ctx, text, subject, scorers, cfg)

	switch {
	case haveKeywords && externalScore != nil:
		// Asymmetric blend: the stronger signal carries the larger weight so
		// one weak channel cannot drag down a confident one.
		hi, lo := keywordScore, *externalScore
		if lo > hi {
			hi, lo = lo, hi
		}
		verdict.Score = higherSignalWeight*hi + lowerSignalWeight*lo
		verdict.Method = models.MethodHybridMin
		verdict.Comments = fmt.Sprintf("combined keyword and %s relevance for %s", method, subject)
	case haveKeywords:
		verdict.Score = keywordScore
		verdict.Method = models.MethodKeywordBased
		verdict.Comments = fmt.Sprintf("keyword coverage for %s: %d of %d terms found",
			subject, len(verdict.MatchedKeywords), len(keywords))
	case externalScore != nil:
		verdict.Score = *externalScore
		verdict.Method = method
		verdict.Comments = fmt.Sprintf("%s relevance assessment for %s", method, subject)
	default:
		verdict.Score = relevanceDefault
		verdict.Method = models.MethodDefaultFallback
		verdict.Comments = fmt.Sprintf("no relevance signal available for %s, using default assessment", subject)
	}

	if len(strings.TrimSpace(text)) >= minAnalyzableChars && verdict.Score < relevanceFloor {
		verdict.Score = relevanceFloor
	}
	verdict.Score = clamp100(verdict.Score)

	verdict.Status = models.StatusFailed
	if verdict.Score >= cfg.Thresholds.Relevance {
		verdict.Status = models.StatusPassed
	}
	return verdict
}

// keywordRelevance computes the capped keyword match ratio plus the broader
// related-term bonus. Returns false when no keywords were supplied.
func keywordRelevance(lowered string, keywords []string, verdict *models.RelevanceVerdict) (float64, bool) {
	if len(keywords) == 0 {
		return 0, false
	}

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			matched++
			verdict.MatchedKeywords = append(verdict.MatchedKeywords, kw)
		} else {
			verdict.MissingKeywords = append(verdict.MissingKeywords, kw)
		}
	}

	score := clamp(float64(matched)/float64(len(keywords))*100, 0, keywordScoreCap)

	// Topic-adjacent vocabulary nudges the score up without being able to
	// flip a clearly off-topic document.
	bonus := 0.0
	for _, kw := range keywords {
		for _, related := range relatedTerms[strings.ToLower(kw)] {
			if matchWord(lowered, related) > 0 {
				bonus += relatedTermBonus
			}
		}
	}
	score = clamp100(score + clamp(bonus, 0, relatedTermBonusCap))

	return score, true
}

// externalRelevance walks the scorer ladder with a bounded text sample and a
// per-call timeout. A failing backend is logged and skipped; exhausting the
// ladder returns nil (signal absent).
func externalRelevance(
	ctx context.Context,
	text, subject string,
	scorers []ExternalScorer,
	cfg AnalysisConfig,
) (*float64, models.RelevanceMethod) {
	sample := text
	if len(sample) > externalSampleChars {
		// Back off to a rune boundary so the sample stays valid UTF-8.
		cut := externalSampleChars
		for cut > 0 && !utf8.RuneStart(sample[cut]) {
			cut--
		}
		sample = sample[:cut]
	}

	for _, scorer := range scorers {
		callCtx, cancel := context.WithTimeout(ctx, cfg.ExternalTimeout)
		score, err := scorer.ScoreRelevance(callCtx, sample, subject)
		cancel()
		if err != nil {
			log.Warn().Err(err).
				Str("method", string(scorer.Method())).
				Str("subject", subject).
				Msg("External relevance scorer failed, trying next")
			continue
		}
		score = clamp100(score)
		return &score, scorer.Method()
	}
	return nil, ""
}
