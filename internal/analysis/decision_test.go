package analysis

import (
	"strings"
	"testing"

	"github.com/devarajan8/veritas/internal/models"
)

func passingRelevance() models.RelevanceVerdict {
	return models.RelevanceVerdict{Score: 80, Status: models.StatusPassed}
}

func TestDecidePassed(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	plag := models.PlagiarismVerdict{Percentage: 21, AIConfidence: 21}

	d := Decide(plag, passingRelevance(), cfg)
	if d.Status != models.StatusPassed {
		t.Errorf("Status = %v, want PASSED", d.Status)
	}
	if len(d.Reasons) != 0 || d.PrimaryReason != "" {
		t.Errorf("Reasons = %v, PrimaryReason = %q, want empty", d.Reasons, d.PrimaryReason)
	}
}

func TestDecideRelevanceFailure(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	plag := models.PlagiarismVerdict{Percentage: 21}
	rel := models.RelevanceVerdict{Score: 30, Status: models.StatusFailed}

	d := Decide(plag, rel, cfg)
	if d.Status != models.StatusFailed {
		t.Fatalf("Status = %v, want FAILED", d.Status)
	}
	if !strings.Contains(d.PrimaryReason, "not sufficiently relevant") {
		t.Errorf("PrimaryReason = %q, want relevance failure", d.PrimaryReason)
	}
}

func TestDecideMismatchTakesPrecedence(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	plag := models.PlagiarismVerdict{Percentage: 65, SubjectMismatch: true}
	rel := models.RelevanceVerdict{Score: 30, Status: models.StatusFailed}

	d := Decide(plag, rel, cfg)
	if d.PrimaryReason != "subject-content mismatch detected" {
		t.Errorf("PrimaryReason = %q, want mismatch first", d.PrimaryReason)
	}
	if len(d.Reasons) != 2 {
		t.Errorf("Reasons = %v, want mismatch plus plagiarism", d.Reasons)
	}
}

func TestDecideThresholdBoundary(t *testing.T) {
	plag := models.PlagiarismVerdict{Percentage: 60, AIConfidence: 60}

	standard := Decide(plag, passingRelevance(), NewAnalysisConfig(false))
	if standard.Status != models.StatusPassed {
		t.Errorf("standard Status = %v, want PASSED at exactly 60%%", standard.Status)
	}

	strictCfg := NewAnalysisConfig(true)
	strictRel := models.RelevanceVerdict{Score: 80, Status: models.StatusPassed}
	strict := Decide(plag, strictRel, strictCfg)
	if strict.Status != models.StatusFailed {
		t.Errorf("strict Status = %v, want FAILED over the 35%% threshold", strict.Status)
	}
}

func TestDecideExplicitPattern(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	plag := models.PlagiarismVerdict{
		Percentage: 21,
		PatternHits: []models.PatternHit{
			{Kind: models.PatternExplicitAI, MatchedText: "as an AI"},
		},
	}

	d := Decide(plag, passingRelevance(), cfg)
	if d.Status != models.StatusFailed {
		t.Fatalf("Status = %v, want FAILED", d.Status)
	}
	if d.PrimaryReason != "AI-generated pattern detected" {
		t.Errorf("PrimaryReason = %q, want AI pattern", d.PrimaryReason)
	}
}

func TestDecideEmojiMarker(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	plag := models.PlagiarismVerdict{Percentage: 21, EmojiCount: 2}

	d := Decide(plag, passingRelevance(), cfg)
	if d.Status != models.StatusFailed {
		t.Fatalf("Status = %v, want FAILED", d.Status)
	}
	if d.PrimaryReason != "inappropriate marker detected" {
		t.Errorf("PrimaryReason = %q, want marker reason", d.PrimaryReason)
	}
}

func TestDecideCollectsAllReasons(t *testing.T) {
	cfg := NewAnalysisConfig(false)
	plag := models.PlagiarismVerdict{
		Percentage: 75,
		EmojiCount: 1,
		PatternHits: []models.PatternHit{
			{Kind: models.PatternExplicitAI, MatchedText: "as an AI"},
		},
	}
	rel := models.RelevanceVerdict{Score: 20, Status: models.StatusFailed}

	d := Decide(plag, rel, cfg)
	if len(d.Reasons) != 4 {
		t.Errorf("Reasons = %v, want 4 distinct reasons", d.Reasons)
	}
	if d.PrimaryReason != d.Reasons[0] {
		t.Errorf("PrimaryReason = %q, want first of %v", d.PrimaryReason, d.Reasons)
	}
}
