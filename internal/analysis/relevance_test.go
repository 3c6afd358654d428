package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/devarajan8/veritas/internal/models"
)

type stubScorer struct {
	method    models.RelevanceMethod
	score     float64
	err       error
	calls     int
	gotSample string
}

func (s *stubScorer) Method() models.RelevanceMethod { return s.method }

func (s *stubScorer) ScoreRelevance(_ context.Context, sample, _ string) (float64, error) {
	s.calls++
	s.gotSample = sample
	return s.score, s.err
}

func TestEvaluateRelevanceDefaultFallback(t *testing.T) {
	cfg := NewAnalysisConfig(false)

	verdict := EvaluateRelevance(context.Background(), "short text", "physics", nil, nil, cfg)

	if verdict.Score != relevanceDefault {
		t.Errorf("Score = %v, want default %v", verdict.Score, relevanceDefault)
	}
	if verdict.Method != models.MethodDefaultFallback {
		t.Errorf("Method = %v, want %v", verdict.Method, models.MethodDefaultFallback)
	}
	if verdict.Status != models.StatusFailed {
		t.Errorf("Status = %v, want FAILED below the 50%% threshold", verdict.Status)
	}
}

func TestEvaluateRelevanceKeywordCoverage(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	keywords := []string{"thermodynamics", "entropy", "enthalpy", "temperature", "pressure", "xylophone"}
	text := "An essay on thermodynamics: entropy rises, enthalpy shifts, temperature and pressure interact."

	verdict := EvaluateRelevance(context.Background(), text, "physics", keywords, nil, cfg)

	// 5 of 6 keywords matched.
	if math.Abs(verdict.Score-500.0/6.0) > 1e-9 {
		t.Errorf("Score = %v, want %v", verdict.Score, 500.0/6.0)
	}
	if verdict.Method != models.MethodKeywordBased {
		t.Errorf("Method = %v, want %v", verdict.Method, models.MethodKeywordBased)
	}
	if verdict.Status != models.StatusPassed {
		t.Errorf("Status = %v, want PASSED", verdict.Status)
	}
	if len(verdict.MatchedKeywords) != 5 || len(verdict.MissingKeywords) != 1 {
		t.Errorf("matched/missing = %d/%d, want 5/1",
			len(verdict.MatchedKeywords), len(verdict.MissingKeywords))
	}
	if verdict.MissingKeywords[0] != "xylophone" {
		t.Errorf("MissingKeywords = %v, want [xylophone]", verdict.MissingKeywords)
	}
}

func TestEvaluateRelevanceKeywordCap(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	keywords := []string{"entropy", "enthalpy"}
	text := "entropy and enthalpy discussed at length, entropy everywhere"

	verdict := EvaluateRelevance(context.Background(), text, "physics", keywords, nil, cfg)

	// Full coverage is capped below 100.
	if verdict.Score > keywordScoreCap {
		t.Errorf("Score = %v, want <= cap %v", verdict.Score, keywordScoreCap)
	}
}

func TestEvaluateRelevanceHybridBlend(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	keywords := []string{"entropy", "enthalpy", "temperature", "pressure", "heat"}
	text := "entropy enthalpy temperature pressure heat, the full set"
	external := &stubScorer{method: models.MethodEmbeddingBased, score: 40}

	verdict := EvaluateRelevance(context.Background(), text, "physics", keywords,
		[]ExternalScorer{external}, cfg)

	// Keyword score 90 (capped), external 40: 0.7*90 + 0.3*40 = 75.
	if math.Abs(verdict.Score-75) > 1e-9 {
		t.Errorf("Score = %v, want 75", verdict.Score)
	}
	if verdict.Method != models.MethodHybridMin {
		t.Errorf("Method = %v, want %v", verdict.Method, models.MethodHybridMin)
	}
}

func TestEvaluateRelevanceScorerLadder(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	failing := &stubScorer{method: models.MethodEmbeddingBased, err: fmt.Errorf("backend down")}
	working := &stubScorer{method: models.MethodLLMBased, score: 72}

	verdict := EvaluateRelevance(context.Background(), "text with no keywords supplied", "physics", nil,
		[]ExternalScorer{failing, working}, cfg)

	if failing.calls != 1 || working.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", failing.calls, working.calls)
	}
	if verdict.Score != 72 {
		t.Errorf("Score = %v, want 72 from the second rung", verdict.Score)
	}
	if verdict.Method != models.MethodLLMBased {
		t.Errorf("Method = %v, want %v", verdict.Method, models.MethodLLMBased)
	}
}

func TestEvaluateRelevanceSampleRespectsRuneBoundaries(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	// One leading ASCII byte pushes the 3-byte runes off the truncation
	// boundary, so a plain byte slice would split a rune.
	text := "a" + strings.Repeat("€", 200)
	external := &stubScorer{method: models.MethodEmbeddingBased, score: 60}

	EvaluateRelevance(context.Background(), text, "physics", nil,
		[]ExternalScorer{external}, cfg)

	if external.calls != 1 {
		t.Fatalf("calls = %d, want 1", external.calls)
	}
	if len(external.gotSample) > externalSampleChars {
		t.Errorf("sample length = %d, want <= %d", len(external.gotSample), externalSampleChars)
	}
	if !utf8.ValidString(external.gotSample) {
		t.Errorf("sample is not valid UTF-8: %q", external.gotSample[len(external.gotSample)-4:])
	}
}

func TestEvaluateRelevanceFloor(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	keywords := []string{"entropy", "enthalpy", "temperature"}
	text := strings.Repeat("completely unrelated prose about gardening and weather patterns ", 3)

	verdict := EvaluateRelevance(context.Background(), text, "physics", keywords, nil, cfg)

	if verdict.Score != relevanceFloor {
		t.Errorf("Score = %v, want floor %v for analyzable but off-topic text", verdict.Score, relevanceFloor)
	}
}

func TestEvaluateRelevanceStrictThreshold(t *testing.T) {
	keywords := []string{"entropy", "enthalpy", "temperature", "pressure"}
	// 2 of 4 keywords matched gives a score of exactly 50.
	text := "entropy and enthalpy only"

	standard := EvaluateRelevance(context.Background(), text, "physics", keywords, nil, NewAnalysisConfig(false))
	strict := EvaluateRelevance(context.Background(), text, "physics", keywords, nil, NewAnalysisConfig(true))

	if standard.Status != models.StatusPassed {
		t.Errorf("standard Status = %v, want PASSED at exactly the threshold", standard.Status)
	}
	if strict.Status != models.StatusFailed {
		t.Errorf("strict Status = %v, want FAILED below the raised threshold", strict.Status)
	}
}
